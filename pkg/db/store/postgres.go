package store

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm/logger"
)

// PostgresConfig holds PostgreSQL connection settings
type PostgresConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	SSLMode      string
	TimeZone     string
	MaxOpenConns int
	LogLevel     logger.LogLevel
}

// DSN renders the keyword/value connection string understood by pgx.
func (cfg PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.Database, cfg.Port, cfg.SSLMode, cfg.TimeZone)
}

// NewPostgresStore creates a new PostgreSQL-backed metadata store
func NewPostgresStore(cfg PostgresConfig) (*GormStore, error) {
	if cfg.Host == "" || cfg.Database == "" {
		return nil, fmt.Errorf("postgres host and database are required")
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 10
	}

	db, err := openGorm(postgres.Open(cfg.DSN()), cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}

	return &GormStore{
		db:           db,
		maxOpenConns: cfg.MaxOpenConns,
	}, nil
}
