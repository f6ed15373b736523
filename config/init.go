package config

import (
	"context"
	"fmt"
	"log"

	"bookingtour/services/logger"
	"bookingtour/utils"
	"bookingtour/validator"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/segmentio/kafka-go"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gorm.io/gorm"
)

// App gom các thành phần hạ tầng đã khởi tạo
type App struct {
	Config     *Config
	Router     *gin.Engine
	Melody     *melody.Melody
	Cron       *cron.Cron
	DB         *gorm.DB
	Redis      *redis.Client
	Cloudinary *cloudinary.Cloudinary
	Kafka      *kafka.Writer
	Tracer     *sdktrace.TracerProvider
	Logger     *logger.DefaultLogger
}

func InitApp(ctx context.Context) (*App, error) {
	cfg, err := Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %v", err)
	}

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := validator.RegisterBindings(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %v", err)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	configCors := cors.DefaultConfig()
	configCors.AddAllowHeaders("Authorization", "X-Session-ID", "X-Request-ID", "Idempotency-Key")
	configCors.AddExposeHeaders("X-Session-ID", "X-Request-ID")
	configCors.AllowCredentials = true
	configCors.AllowAllOrigins = false
	configCors.AllowOriginFunc = func(origin string) bool {
		return true
	}
	router.Use(cors.New(configCors))

	router.SetTrustedProxies(nil)

	app := &App{
		Config: cfg,
		Router: router,
		Melody: melody.New(),
		Cron:   cron.New(),
		Logger: logger.NewLogger(logger.ParseLevel(cfg.App.LogLevel), utils.NewLogWriter(cfg.App.LogDir)),
	}

	if err := app.initComponents(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize components: %v", err)
	}

	return app, nil
}

func (a *App) initComponents(ctx context.Context) error {
	var err error

	a.DB, err = ConnectDB(a.Config.Database)
	if err != nil {
		return err
	}

	a.Redis, err = ConnectRedis(ctx, a.Config.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	a.Cloudinary, err = ConnectCloudinary(a.Config.Cloudinary)
	if err != nil {
		return err
	}

	a.Kafka = NewKafkaWriter(a.Config.Kafka)

	a.Tracer, err = InitTracerProvider(a.Config.Tracing)
	if err != nil {
		return err
	}

	log.Println("All components initialized successfully")
	return nil
}

func InitWebSocket(router *gin.Engine, m *melody.Melody) {
	router.GET("/ws", func(c *gin.Context) {
		if err := m.HandleRequest(c.Writer, c.Request); err != nil {
			log.Printf("Lỗi websocket: %v", err)
		}
	})
	log.Println("WebSocket initialized successfully")
}

// Close dừng cron và giải phóng các kết nối
func (a *App) Close(ctx context.Context) {
	if a.Cron != nil {
		<-a.Cron.Stop().Done()
	}
	if a.Melody != nil {
		_ = a.Melody.Close()
	}
	if a.Kafka != nil {
		if err := a.Kafka.Close(); err != nil {
			log.Printf("Lỗi khi đóng Kafka writer: %v", err)
		}
	}
	if a.Tracer != nil {
		if err := a.Tracer.Shutdown(ctx); err != nil {
			log.Printf("Lỗi khi shutdown tracer: %v", err)
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
