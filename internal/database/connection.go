package database

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/freedesk/mailroom/internal/config"
)

func NewConnection(dbConfig *config.DatabaseConfig) (*gorm.DB, error) {
	validateConfig(dbConfig)

	portInt, err := strconv.Atoi(dbConfig.Port)
	if err != nil {
		return nil, fmt.Errorf("invalid port number: %w", err)
	}

	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dbConfig.Host, portInt, dbConfig.User, dbConfig.Password, dbConfig.DBName, dbConfig.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel(dbConfig.LogLevel)),
		// Surface driver duplicate-key errors as gorm.ErrDuplicatedKey so
		// repositories can rely on the unique index for message dedup.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(dbConfig.MaxIdleConn)
	sqlDB.SetMaxOpenConns(dbConfig.MaxConn)
	sqlDB.SetConnMaxLifetime(time.Duration(dbConfig.ConnMaxLifetime) * time.Minute)

	return db, nil
}

func logLevel(level string) gormlogger.LogLevel {
	switch level {
	case "SILENT":
		return gormlogger.Silent
	case "ERROR":
		return gormlogger.Error
	case "INFO":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

func validateConfig(cfg *config.DatabaseConfig) {
	switch {
	case cfg == nil:
		log.Fatalf("Database config is nil")
	case cfg.Host == "":
		log.Fatalf("Database host config is empty")
	case cfg.Port == "":
		log.Fatalf("Database port config is empty")
	case cfg.User == "":
		log.Fatalf("Database user config is empty")
	case cfg.Password == "":
		log.Fatalf("Database password config is empty")
	case cfg.DBName == "":
		log.Fatalf("Database name config is empty")
	case cfg.SSLMode == "":
		log.Fatalf("Database SSLMode config is empty")
	}
}
