package config

import (
	"github.com/freedesk/mailroom/internal/config"
	"github.com/freedesk/mailroom/internal/logger"
	"github.com/freedesk/mailroom/internal/tracing"
)

type Config struct {
	AppConfig      *config.AppConfig
	Logger         *logger.Config
	Tracing        *tracing.JaegerConfig
	DatabaseConfig *config.DatabaseConfig
	FetchConfig    *config.FetchConfig
}
