package main

import (
	"log"

	"github.com/denoblevoices/ticketing/config"
	"github.com/denoblevoices/ticketing/internal/consumer"
	"github.com/denoblevoices/ticketing/internal/handler"
	"github.com/denoblevoices/ticketing/internal/middleware"
	"github.com/denoblevoices/ticketing/internal/repository"
	"github.com/denoblevoices/ticketing/internal/service"
	"github.com/denoblevoices/ticketing/pkg/database"
	"github.com/denoblevoices/ticketing/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())
	if err := database.Seed(db, cfg); err != nil {
		log.Fatalf("failed to seed database: %v", err)
	}

	// RabbitMQ: notifications travel through a topic exchange; the in-process
	// worker records deliveries.
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer mqConsumer.Close()

	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}
	consumer.NewNotificationConsumer(db, nil).Start(msgs)

	// Redis is optional; without it the purchase routes are unthrottled.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()
	}

	// Repositories
	orderRepo := repository.NewOrderRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Services
	bank := service.BankDetails{
		BankName:      cfg.BankName,
		AccountName:   cfg.AccountName,
		AccountNumber: cfg.AccountNumber,
		SortCode:      cfg.SortCode,
	}
	paymentSvc := service.NewPaymentService(
		orderRepo, inventoryRepo, ticketRepo,
		rabbitmq.NewNotificationPublisher(publisher),
		bank, service.DefaultPrices,
	)
	verificationSvc := service.NewVerificationService(ticketRepo)
	adminSvc := service.NewAdminService(adminRepo, cfg.JWTSecret, cfg.TokenTTL)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			return c.JSON(503, map[string]string{"status": "unhealthy", "error": err.Error()})
		}
		return c.JSON(200, map[string]string{"status": "healthy"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	limiter := middleware.RateLimit(redisClient, cfg.RateLimit, cfg.RateLimitWindow)
	handler.NewPaymentHandler(paymentSvc).RegisterRoutes(e, limiter)
	handler.NewAdminHandler(adminSvc, paymentSvc, analyticsSvc, verificationSvc, adminRepo, cfg.JWTSecret).RegisterRoutes(e)
	handler.NewTicketHandler(verificationSvc, adminRepo, cfg.JWTSecret).RegisterRoutes(e)

	log.Printf("Ticketing service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
