// Package config loads the service configuration from the environment.
//
// A .env file in the working directory is loaded first when present, then
// viper reads every key from the process environment with the defaults below.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the service reads at startup.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	RabbitMQ RabbitMQConfig
}

type AppConfig struct {
	Port        string `validate:"required"`
	FrontendURL string `validate:"required"`
}

type DatabaseConfig struct {
	Driver string `validate:"oneof=postgres sqlite memory"`
	URL    string `validate:"required_unless=Driver memory"`
}

type LogConfig struct {
	Level  string `validate:"oneof=trace debug info warn error"`
	Format string `validate:"oneof=console json"`
}

// RabbitMQConfig is optional: an empty URL disables product events.
type RabbitMQConfig struct {
	URL      string
	Exchange string `validate:"required"`
}

// Load reads the configuration from v, which is usually viper.New().
// Missing keys take their defaults; invalid values are reported as an error.
func Load(v *viper.Viper) (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v.SetDefault("APP_PORT", ":4000")
	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "host=127.0.0.1 user=postgres password=postgres dbname=catalogo port=5432 sslmode=disable")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "products")
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Port:        v.GetString("APP_PORT"),
			FrontendURL: v.GetString("FRONTEND_URL"),
		},
		Database: DatabaseConfig{
			Driver: v.GetString("DATABASE_DRIVER"),
			URL:    v.GetString("DATABASE_URL"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
