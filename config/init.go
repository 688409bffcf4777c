package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/freedesk/mailroom/internal/config"
	"github.com/freedesk/mailroom/internal/logger"
	"github.com/freedesk/mailroom/internal/tracing"
)

func InitConfig() (*Config, error) {
	cfg := &Config{
		AppConfig:      &config.AppConfig{},
		Logger:         &logger.Config{},
		Tracing:        &tracing.JaegerConfig{},
		DatabaseConfig: &config.DatabaseConfig{},
		FetchConfig:    &config.FetchConfig{},
	}

	err := godotenv.Load()
	if err != nil {
		log.Print("Unable to load .env file")
	}

	err = env.Parse(cfg)
	if err != nil {
		log.Fatalf("Error loading mailroom config: %v", err)
	}

	return cfg, nil
}
