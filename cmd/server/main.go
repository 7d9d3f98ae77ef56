package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	catalogapp "github.com/qlbh/backend/internal/application/catalog"
	notifyapp "github.com/qlbh/backend/internal/application/notify"
	orderapp "github.com/qlbh/backend/internal/application/order"
	partnerapp "github.com/qlbh/backend/internal/application/partner"
	shippingapp "github.com/qlbh/backend/internal/application/shipping"
	"github.com/qlbh/backend/internal/infrastructure/auth"
	"github.com/qlbh/backend/internal/infrastructure/carrier"
	"github.com/qlbh/backend/internal/infrastructure/config"
	"github.com/qlbh/backend/internal/infrastructure/crypto"
	"github.com/qlbh/backend/internal/infrastructure/event"
	"github.com/qlbh/backend/internal/infrastructure/logger"
	"github.com/qlbh/backend/internal/infrastructure/persistence"
	"github.com/qlbh/backend/internal/interfaces/http/handler"
	"github.com/qlbh/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	gormLog := logger.NewGormLogger(log, gormlogger.Warn)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database ready")

	// Repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	tierRepo := persistence.NewGormTierSettingsRepository(db.DB)
	providerConfigRepo := persistence.NewGormProviderConfigRepository(db.DB)

	// Event bus with notification fan-out
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(notifyapp.NewLogNotifier(log))

	// Carrier gateway and token encryption
	vtpClient := carrier.NewViettelPostClient(
		cfg.Shipping.ViettelPostBaseURL,
		cfg.Shipping.RequestTimeout,
		log,
	)
	tokenCipher, err := crypto.NewAESTokenCipher(cfg.Shipping.TokenEncryptionKey)
	if err != nil {
		log.Fatal("Failed to initialize token cipher", zap.Error(err))
	}

	// Application services
	orderService := orderapp.NewOrderService(orderRepo, productRepo, customerRepo, tierRepo)
	orderService.SetEventPublisher(eventBus)
	orderService.SetLogger(log)
	productService := catalogapp.NewProductService(productRepo)
	productService.SetEventPublisher(eventBus)
	customerService := partnerapp.NewCustomerService(customerRepo, tierRepo, orderRepo)
	customerService.SetEventPublisher(eventBus)
	tierService := partnerapp.NewTierService(customerRepo, tierRepo)
	tierService.SetEventPublisher(eventBus)
	shippingService := shippingapp.NewShippingService(providerConfigRepo, orderRepo, vtpClient, tokenCipher, orderService)
	webhookService := shippingapp.NewWebhookService(orderRepo, providerConfigRepo, orderService, log)

	jwtService := auth.NewJWTService(cfg.JWT)

	engine := router.Setup(
		router.Config{
			JWTService:   jwtService,
			Logger:       log,
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		},
		router.Handlers{
			Order:    handler.NewOrderHandler(orderService),
			Product:  handler.NewProductHandler(productService),
			Customer: handler.NewCustomerHandler(customerService),
			Tier:     handler.NewTierHandler(tierService),
			Shipping: handler.NewShippingHandler(shippingService),
			Webhook:  handler.NewWebhookHandler(webhookService),
		},
	)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
