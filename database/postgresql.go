package database

import (
	"Appointo/models"
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the database connection, configures the pool, checks the
// connection and runs migrations.
func InitDB(ctx context.Context, dsn string, debug bool) (*gorm.DB, error) {
	db, err := Open(dsn, debug)
	if err != nil {
		return nil, err
	}

	// Test the database connection
	if err := Ping(ctx, db); err != nil {
		return nil, err
	}

	// Run migrations
	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info().Msg("database initialized successfully")
	return db, nil
}

// Open connects to postgres without touching the schema.
func Open(dsn string, debug bool) (*gorm.DB, error) {
	// Configure logging level based on environment
	logMode := logger.Silent
	if debug {
		logMode = logger.Info
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:         logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	if err := configureConnectionPool(db); err != nil {
		return nil, err
	}
	return db, nil
}

// configureConnectionPool sets up the connection pool settings for the database.
func configureConnectionPool(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	sqlDB.SetMaxOpenConns(40)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	return nil
}

// Ping verifies that the database connection is functional.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "failed to ping database")
	}
	return nil
}

// Migrate performs database schema migrations.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Doctor{},
		&models.Appointment{},
	)
	return errors.Wrap(err, "failed to run migrations")
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	return sqlDB.Close()
}
