package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Tracing    TracingConfig    `yaml:"tracing"`
	Cloudinary CloudinaryConfig `yaml:"cloudinary"`
	Google     GoogleConfig     `yaml:"google"`
}

type AppConfig struct {
	Env       string `yaml:"env"`
	Port      string `yaml:"port"`
	JWTSecret string `yaml:"jwtSecret"`
	TokenTTL  int    `yaml:"tokenTTLMinutes"`
	LogLevel  string `yaml:"logLevel"`
	LogDir    string `yaml:"logDir"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslMode"`
	TimeZone string `yaml:"timeZone"`
	Migrate  bool   `yaml:"migrate"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type TracingConfig struct {
	Enabled        bool   `yaml:"enabled"`
	ServiceName    string `yaml:"serviceName"`
	JaegerEndpoint string `yaml:"jaegerEndpoint"`
}

type CloudinaryConfig struct {
	CloudName string `yaml:"cloudName"`
	APIKey    string `yaml:"apiKey"`
	APISecret string `yaml:"apiSecret"`
	Folder    string `yaml:"folder"`
}

type GoogleConfig struct {
	ClientID string `yaml:"clientId"`
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Env:      "dev",
			Port:     "8083",
			TokenTTL: 60 * 24,
			LogLevel: "info",
			LogDir:   "logs",
		},
		Database: DatabaseConfig{
			Port:     "5432",
			SSLMode:  "disable",
			TimeZone: "Asia/Ho_Chi_Minh",
			Migrate:  true,
		},
		Kafka: KafkaConfig{
			Topic: "booking-events",
		},
		Tracing: TracingConfig{
			ServiceName:    "bookingtour",
			JaegerEndpoint: "http://localhost:14268/api/traces",
		},
		Cloudinary: CloudinaryConfig{
			Folder: "tours",
		},
	}
}

// LoadEnv nạp biến môi trường từ file .env nếu có
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: không load được file .env, sử dụng biến môi trường có sẵn: %v", err)
	}
}

// Load đọc cấu hình: mặc định -> file YAML (CONFIG_FILE, mặc định config.yaml) -> biến môi trường
func Load() (*Config, error) {
	LoadEnv()

	cfg := defaultConfig()

	path := GetEnvWithDefault("CONFIG_FILE", "config.yaml")
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Parse(data, cfg); err != nil {
			return nil, err
		}
	case os.IsNotExist(err) && os.Getenv("CONFIG_FILE") == "":
		// không có file cấu hình, dùng env
	default:
		return nil, errors.Wrapf(err, "read config file %s", path)
	}

	applyEnv(cfg)
	return cfg, nil
}

// Parse đọc YAML vào cfg, giữ nguyên các giá trị không có trong file
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(err, "parse config yaml")
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.App.Env, "ENV")
	setString(&cfg.App.Port, "PORT")
	setString(&cfg.App.JWTSecret, "JWT_SECRET")
	setInt(&cfg.App.TokenTTL, "TOKEN_TTL_MINUTES")
	setString(&cfg.App.LogLevel, "LOG_LEVEL")
	setString(&cfg.App.LogDir, "LOG_DIR")

	prefix := dbEnvPrefix(cfg.App.Env)
	setString(&cfg.Database.Host, prefix+"HOST")
	setString(&cfg.Database.Port, prefix+"PORT")
	setString(&cfg.Database.User, prefix+"USER")
	setString(&cfg.Database.Password, prefix+"PASSWORD")
	setString(&cfg.Database.Name, prefix+"NAME")
	setString(&cfg.Database.SSLMode, prefix+"SSLMODE")
	setString(&cfg.Database.TimeZone, "DB_TIMEZONE")
	setBool(&cfg.Database.Migrate, "DB_MIGRATE")

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Username, "REDIS_USER")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "REDIS_DB")

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = splitList(brokers)
	}
	setString(&cfg.Kafka.Topic, "KAFKA_TOPIC")

	setBool(&cfg.Tracing.Enabled, "TRACING_ENABLED")
	setString(&cfg.Tracing.ServiceName, "TRACING_SERVICE_NAME")
	setString(&cfg.Tracing.JaegerEndpoint, "JAEGER_ENDPOINT")

	setString(&cfg.Cloudinary.CloudName, "CLOUDINARY_CLOUD_NAME")
	setString(&cfg.Cloudinary.APIKey, "CLOUDINARY_API_KEY")
	setString(&cfg.Cloudinary.APISecret, "CLOUDINARY_API_SECRET")
	setString(&cfg.Cloudinary.Folder, "CLOUDINARY_FOLDER")

	setString(&cfg.Google.ClientID, "GOOGLE_CLIENT_ID")
}

// dbEnvPrefix chọn bộ biến DB theo môi trường
func dbEnvPrefix(env string) string {
	switch env {
	case "dev":
		return "DEV_DB_"
	case "qc":
		return "QC_DB_"
	case "prod":
		return "PROD_DB_"
	default:
		return "DB_"
	}
}

// ConnectCloudinary khởi tạo client Cloudinary, bỏ qua nếu chưa cấu hình
func ConnectCloudinary(cfg CloudinaryConfig) (*cloudinary.Cloudinary, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		log.Println("Cloudinary chưa được cấu hình, bỏ qua upload ảnh")
		return nil, nil
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, errors.Wrap(err, "init cloudinary")
	}
	return cld, nil
}

func GetEnvWithDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
