// Package store persists launcher state in SQLite through GORM: runtime
// options, named containers and installed Java runtimes.
package store

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/skjsjhb/hyaci-launcher/pkg/fsutil"
)

// Sentinel errors.
var (
	ErrNotFound  = errors.New("record not found")
	ErrEmptyKey  = errors.New("key cannot be empty")
	ErrDuplicate = errors.New("record already exists")
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// Config holds database configuration.
type Config struct {
	DatabasePath string
	LogLevel     string // silent, error, warn, info
}

// DB wraps gorm.DB with the launcher's operations.
type DB struct {
	db *gorm.DB
}

// InitDB opens the database and migrates the schema.
func InitDB(cfg Config) (*DB, error) {
	logLevel := logger.Silent
	switch cfg.LogLevel {
	case "error":
		logLevel = logger.Error
	case "warn":
		logLevel = logger.Warn
	case "info":
		logLevel = logger.Info
	}

	if cfg.DatabasePath != MemoryPath {
		if err := fsutil.EnsureFileDir(cfg.DatabasePath); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.DatabasePath == MemoryPath {
		// Every connection to :memory: is a separate database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&Option{}, &Container{}, &Runtime{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}
