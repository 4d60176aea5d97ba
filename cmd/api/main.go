package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Yash7028/ECommerce-API/internal/infrastructure/email"
	"github.com/Yash7028/ECommerce-API/internal/infrastructure/payment"
	"github.com/Yash7028/ECommerce-API/internal/repository"
	"github.com/Yash7028/ECommerce-API/internal/service"
	httptransport "github.com/Yash7028/ECommerce-API/internal/transport/http"
	"github.com/Yash7028/ECommerce-API/internal/transport/http/handler"
	"github.com/Yash7028/ECommerce-API/internal/worker"
	"github.com/Yash7028/ECommerce-API/pkg/config"
	"github.com/Yash7028/ECommerce-API/pkg/db"
	"github.com/Yash7028/ECommerce-API/pkg/mylogger"
	"github.com/Yash7028/ECommerce-API/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := utils.InitTracer(ctx, "ecommerce-api")
	if err != nil {
		log.Fatalf("failed to init tracer: %v", err)
	}

	cfg := config.MustLoad()

	loggerCfg := config.LoggerConfig{
		Level: "Info",
		Env:   cfg.Env,
	}
	logger, err := config.NewLogger(loggerCfg)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	pool, err := db.NewPostgresDB(cfg.Postgres.URL)
	if err != nil {
		log.Fatalf("failed to create pool: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})

	orderRepo := repository.NewOrderRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	addressRepo := repository.NewAddressRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)

	processor := payment.NewStripeProcessor(cfg.Stripe, logger)
	mailer := email.NewSMTPSender(logger)

	orderService := service.NewOrderService(
		orderRepo, productRepo, cartRepo, addressRepo, userRepo,
		processor, mailer, cfg.Delivery.LeadTime, logger,
	)
	paymentService := service.NewPaymentService(
		orderRepo, productRepo, userRepo,
		processor, mailer, cfg.Delivery.LeadTime, logger,
	)
	productService := service.NewCachedProductService(
		service.NewProductService(productRepo, logger), rdb, logger,
	)

	expiryWorker := worker.NewExpiryWorker(orderRepo, cfg.Expiry, logger)
	go expiryWorker.Run(ctx)

	validate := validator.New()

	handlers := &httptransport.Handlers{
		Order:   handler.NewOrderHandler(orderService, validate, logger),
		Payment: handler.NewPaymentHandler(paymentService, validate, logger),
		Product: handler.NewProductHandler(productService, logger),
	}

	app := fiber.New(fiber.Config{
		ReadTimeout: cfg.HTTP.Timeout,
	})
	httptransport.RegisterRoutes(app, handlers, cfg.Auth.AccessSecret)

	go func() {
		log.Printf("HTTP server listening on %s 🔥", cfg.HTTP.Port)
		if err := app.Listen(cfg.HTTP.Port); err != nil {
			log.Fatalf("error serving http: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, exit := context.WithTimeout(context.Background(), time.Second*5)
	defer exit()

	mylogger.Info(
		shutdownCtx,
		logger,
		"Shutting down ecommerce api",
	)

	if err := app.ShutdownWithTimeout(time.Second * 5); err != nil {
		log.Printf("error shutting down http server: %v", err)
	} else {
		log.Println("✅ HTTP server stopped")
	}

	if err := tp.Shutdown(shutdownCtx); err != nil {
		mylogger.Warn(
			shutdownCtx,
			logger,
			"Failed to shut down telemetry",
			zap.Error(err),
		)
	} else {
		mylogger.Info(
			shutdownCtx,
			logger,
			"Successfully down telemetry",
		)
	}

	if err := rdb.Close(); err != nil {
		log.Printf("error closing redis client: %v", err)
	}

	pool.Close()
}
