package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalogo/internal/app"
	"catalogo/internal/config"
	"catalogo/internal/database"
	"catalogo/internal/logger"
	"catalogo/internal/repositories"
	"catalogo/internal/services"
	"catalogo/pkg/rabbitmq"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

//	@title			Catalogo Products API
//	@version		1.0.0
//	@description	API Docs for Products
//	@BasePath		/api
func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.New())
	if err != nil {
		bootLogger := logger.New("info", "console")
		bootLogger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	// --- Persistence ---
	var (
		db          *gorm.DB
		productRepo repositories.ProductRepository
	)
	if cfg.Database.Driver == "memory" {
		productRepo = repositories.NewMemoryProductRepository()
		log.Warn().Msg("Using in-memory product storage, data is lost on restart")
	} else {
		db, err = database.Connect(cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open database")
		}
		productRepo = repositories.NewGORMProductRepository(db)
	}

	// --- Product events (optional) ---
	mqClient := connectRabbitMQ(cfg.RabbitMQ, log)
	var publisher services.EventPublisher
	if mqClient != nil {
		publisher = mqClient
	}

	productService := services.NewProductService(productRepo, publisher, log)
	application := app.New(cfg.App, productService, log)

	// --- Start HTTP Server ---
	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting server")
		if err := application.Listen(cfg.App.Port); err != nil {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	if err := application.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error().Err(err).Msg("Error during Fiber shutdown")
	}
	if mqClient != nil {
		if err := mqClient.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing RabbitMQ client")
		}
	}
	if db != nil {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}
	log.Info().Msg("Server gracefully stopped")
}

// connectRabbitMQ returns nil when events are disabled or the broker is
// unreachable; the API works the same without it.
func connectRabbitMQ(cfg config.RabbitMQConfig, log zerolog.Logger) *rabbitmq.Client {
	if cfg.URL == "" {
		log.Info().Msg("RABBITMQ_URL not set, product events disabled")
		return nil
	}
	client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.URL, Exchange: cfg.Exchange})
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize RabbitMQ client, product events disabled")
		return nil
	}
	log.Info().Str("exchange", cfg.Exchange).Msg("Publishing product events to RabbitMQ")
	return client
}
