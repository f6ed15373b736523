package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookingtour/config"
	"bookingtour/jobs"
	middlewares "bookingtour/middleware"
	"bookingtour/routes"
	"bookingtour/services"
	"bookingtour/services/notification"

	"go.opentelemetry.io/otel"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := config.InitApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	cfg := app.Config
	appLogger := app.Logger
	tracer := otel.Tracer("bookingtour")
	publisher := notification.NewPublisher(app.Melody, app.Kafka)
	tokens := services.NewTokenService(cfg.App.JWTSecret, time.Duration(cfg.App.TokenTTL)*time.Minute)

	voucherService := services.NewVoucherService(services.VoucherServiceOptions{
		DB:        app.DB,
		Redis:     app.Redis,
		Logger:    appLogger,
		Publisher: publisher,
		Tracer:    tracer,
	})
	bookingFacade := services.NewBookingFacade(services.BookingFacadeOptions{
		DB:        app.DB,
		Redeemer:  voucherService,
		Publisher: publisher,
		Logger:    appLogger,
		Tracer:    tracer,
	})
	bookingService := services.NewBookingService(services.BookingServiceOptions{
		DB:        app.DB,
		Facade:    bookingFacade,
		Publisher: publisher,
		Logger:    appLogger,
	})
	statisticsService := services.NewStatisticsService(services.StatisticsServiceOptions{
		DB:     app.DB,
		Logger: appLogger,
	})

	svc := routes.Services{
		Tokens: tokens,
		Auth: services.NewAuthService(services.AuthServiceOptions{
			DB:             app.DB,
			Tokens:         tokens,
			Logger:         appLogger,
			GoogleClientID: cfg.Google.ClientID,
		}),
		Users:    services.NewUserService(services.UserServiceOptions{DB: app.DB, Logger: appLogger}),
		Vouchers: voucherService,
		Tours: services.NewTourService(services.TourServiceOptions{
			DB:       app.DB,
			Redis:    app.Redis,
			Logger:   appLogger,
			Uploader: services.NewCloudinaryUploader(app.Cloudinary, cfg.Cloudinary.Folder),
		}),
		Bookings: bookingService,
		Payments: services.NewPaymentService(services.PaymentServiceOptions{
			DB:        app.DB,
			Publisher: publisher,
			Logger:    appLogger,
		}),
		Statistics: statisticsService,
	}

	runner := jobs.NewRunner(jobs.Options{
		Vouchers:  voucherService,
		Stats:     statisticsService,
		Bookings:  bookingService,
		Publisher: publisher,
		Logger:    appLogger,
	})
	if err := jobs.InitCronJobs(app.Cron, runner); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

	router := app.Router
	router.Use(
		middlewares.RequestID(),
		middlewares.RequestLogger(appLogger.Zerolog()),
		middlewares.Metrics(),
		middlewares.ErrorHandler(),
	)
	config.InitWebSocket(router, app.Melody)
	routes.SetupRoutes(router, svc)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Println("Server starting on port " + cfg.App.Port + "...")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	app.Close(shutdownCtx)
	log.Println("Server stopped")
}
