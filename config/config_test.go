package config

import "testing"

func TestParseKeepsDefaults(t *testing.T) {
	cfg := defaultConfig()
	data := []byte(`
app:
  port: "9000"
  jwtSecret: s3cret
redis:
  addr: localhost:6379
kafka:
  brokers: [k1:9092, k2:9092]
`)
	if err := Parse(data, cfg); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.App.Port != "9000" || cfg.App.JWTSecret != "s3cret" {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.App.TokenTTL != 60*24 || cfg.App.Env != "dev" {
		t.Errorf("defaults lost: %+v", cfg.App)
	}
	if cfg.Database.TimeZone != "Asia/Ho_Chi_Minh" || !cfg.Database.Migrate {
		t.Errorf("database defaults lost: %+v", cfg.Database)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Topic != "booking-events" {
		t.Errorf("kafka = %+v", cfg.Kafka)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if err := Parse([]byte("app: [unclosed"), defaultConfig()); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("ENV", "qc")
	t.Setenv("PORT", "7000")
	t.Setenv("TOKEN_TTL_MINUTES", "30")
	t.Setenv("QC_DB_HOST", "qc-db")
	t.Setenv("DB_MIGRATE", "false")
	t.Setenv("KAFKA_BROKERS", " a:1, ,b:2 ")
	t.Setenv("TRACING_ENABLED", "true")
	t.Setenv("REDIS_DB", "not-a-number")

	cfg := defaultConfig()
	applyEnv(cfg)

	if cfg.App.Env != "qc" || cfg.App.Port != "7000" || cfg.App.TokenTTL != 30 {
		t.Errorf("app = %+v", cfg.App)
	}
	if cfg.Database.Host != "qc-db" || cfg.Database.Migrate {
		t.Errorf("database = %+v", cfg.Database)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "a:1" || cfg.Kafka.Brokers[1] != "b:2" {
		t.Errorf("brokers = %v", cfg.Kafka.Brokers)
	}
	if !cfg.Tracing.Enabled {
		t.Error("tracing should be enabled")
	}
	if cfg.Redis.DB != 0 {
		t.Errorf("invalid REDIS_DB should be ignored, got %d", cfg.Redis.DB)
	}
}

func TestDBEnvPrefix(t *testing.T) {
	tests := map[string]string{"dev": "DEV_DB_", "qc": "QC_DB_", "prod": "PROD_DB_", "local": "DB_"}
	for env, want := range tests {
		if got := dbEnvPrefix(env); got != want {
			t.Errorf("dbEnvPrefix(%s) = %s, want %s", env, got, want)
		}
	}
}

func TestDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "tour", SSLMode: "disable", TimeZone: "Asia/Ho_Chi_Minh"}
	want := "host=db user=u password=p dbname=tour port=5432 sslmode=disable TimeZone=Asia/Ho_Chi_Minh"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
