package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/killallgit/podhub/pkg/config"
	apperrors "github.com/killallgit/podhub/pkg/errors"
)

const memoryPath = ":memory:"

type DB struct {
	*gorm.DB
}

// Initialize creates a new database connection with the provided configuration.
// An empty path opens an in-memory database.
func Initialize(cfg config.DatabaseConfig) (*DB, error) {
	dbPath := cfg.Path
	inMemory := dbPath == "" || dbPath == memoryPath

	dsn := memoryPath
	if !inMemory {
		dir := filepath.Dir(dbPath)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dsn = dbPath
		if cfg.EnableWAL {
			dsn += "?_journal_mode=WAL&_busy_timeout=5000"
		}
	}

	logLevel := logger.Error
	if cfg.LogQueries {
		logLevel = logger.Info
	}

	gormConfig := &gorm.Config{
		Logger: logger.New(log.StandardLogger(), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseConnection, "failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	// every connection to :memory: is a separate database
	if inMemory {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(positive(cfg.MaxConnections, 10))
		sqlDB.SetMaxIdleConns(positive(cfg.MaxIdleConnections, 5))
	}
	if cfg.ConnectionMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnectionMaxLifetime)
	}

	log.WithFields(log.Fields{
		"path":      dsn,
		"in_memory": inMemory,
	}).Debug("Opened database")

	return &DB{DB: db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	return sqlDB.Close()
}

// HealthCheck verifies the database connection is working
func (db *DB) HealthCheck() error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database not initialized")
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseConnection, "database ping failed")
	}

	return nil
}

// AutoMigrate runs GORM auto migration for the provided models
func (db *DB) AutoMigrate(models ...any) error {
	if err := db.DB.AutoMigrate(models...); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseMigration, "auto migration failed")
	}
	log.WithField("models", len(models)).Info("Migrated database")
	return nil
}

// HasTable reports whether the table of model exists
func (db *DB) HasTable(model any) bool {
	return db.DB.Migrator().HasTable(model)
}

// DropTables drops the tables of the given models
func (db *DB) DropTables(models ...any) error {
	if err := db.DB.Migrator().DropTable(models...); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseMigration, "dropping tables failed")
	}
	return nil
}

func positive(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}
