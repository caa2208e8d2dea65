// Package gorm implements the domain repositories over PostgreSQL using
// gorm. Each repository maps between its storage row type and the domain
// model; domain packages never see gorm types.
package gorm

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/fleetrate/fleetrate/internal/config"
	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/logger"
)

// NewDB opens a PostgreSQL connection and migrates the engine's tables
func NewDB(cfg *config.Configuration, log *logger.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.DBName,
		cfg.Postgres.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to connect to postgres").
			Mark(ierr.ErrDatabase)
	}

	if err := db.AutoMigrate(
		&routeRow{},
		&assignmentRow{},
		&clientRow{},
		&profileRow{},
		&brandingRow{},
		&settingRow{},
		&historyRow{},
	); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to run database migrations").
			Mark(ierr.ErrDatabase)
	}

	log.Infow("connected to postgres", "host", cfg.Postgres.Host, "db", cfg.Postgres.DBName)
	return db, nil
}

// wrapDBErr maps gorm errors onto the error taxonomy
func wrapDBErr(err error, hint string) error {
	switch {
	case err == nil:
		return nil
	case ierr.Is(err, gorm.ErrRecordNotFound):
		return ierr.WithError(err).
			WithHint(hint).
			Mark(ierr.ErrNotFound)
	case ierr.Is(err, gorm.ErrDuplicatedKey):
		return ierr.WithError(err).
			WithHint(hint).
			Mark(ierr.ErrAlreadyExists)
	default:
		return ierr.WithError(err).
			WithHint(hint).
			Mark(ierr.ErrDatabase)
	}
}
