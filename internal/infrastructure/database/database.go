package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"aistore-server/services/storefront-api/internal/config"
	"aistore-server/services/storefront-api/internal/infrastructure/logger"
)

// New opens the Postgres connection pool used by every repository.
func New(cfg *config.Config) (*gorm.DB, error) {
	log := logger.GetLogger()

	level := gormlogger.Warn
	if cfg.Environment == "development" {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying connection pool: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	log.Info().
		Int("max_open_conns", cfg.DBMaxOpenConns).
		Int("max_idle_conns", cfg.DBMaxIdleConns).
		Dur("conn_max_lifetime", cfg.DBConnLifetime).
		Msg("database connection established")

	return db, nil
}

// Close drains the pool during shutdown.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WaitForDatabase retries the initial connection, useful when the service
// starts before Postgres is ready.
func WaitForDatabase(cfg *config.Config, attempts int, delay time.Duration) (*gorm.DB, error) {
	log := logger.GetLogger()

	var lastErr error
	for i := 0; i < attempts; i++ {
		db, err := New(cfg)
		if err == nil {
			return db, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", i+1).Msg("database not ready, retrying")
		time.Sleep(delay)
	}
	return nil, lastErr
}
