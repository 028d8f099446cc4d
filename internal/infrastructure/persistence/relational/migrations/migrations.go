// Package migrations holds the versioned schema history.
package migrations

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"mrcfield/internal/bootstrap/logging"
	"mrcfield/internal/errs"
	"mrcfield/internal/infrastructure/persistence/relational/model"
)

// All returns the migrations in apply order. IDs are never renamed once shipped.
func All() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "202606010900_create_leads_and_inspections",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&model.Lead{}, &model.Inspection{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&model.Inspection{}, &model.Lead{})
			},
		},
		{
			ID: "202606010910_create_areas_and_readings",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&model.Area{}, &model.MoistureReading{}, &model.SubfloorReading{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&model.SubfloorReading{}, &model.MoistureReading{}, &model.Area{})
			},
		},
		{
			ID: "202606020900_create_inspection_photos",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&model.Photo{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&model.Photo{})
			},
		},
		{
			ID: "202606030900_create_job_sequences_and_kv",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&model.JobSequence{}, &model.KV{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&model.KV{}, &model.JobSequence{})
			},
		},
	}
}

func Run(ctx context.Context, db *gorm.DB) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if db == nil {
		return errors.New("database is required")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "persistence.migrations"))

	m := gormigrate.New(db.WithContext(ctx), gormigrate.DefaultOptions, All())
	if err := m.Migrate(); err != nil {
		return errs.Wrap(err, "apply migrations")
	}

	logging.Info(logCtx, "schema is up to date", slog.Int("migrations", len(All())))
	return nil
}

// RollbackLast undoes the most recently applied migration.
func RollbackLast(ctx context.Context, db *gorm.DB) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if db == nil {
		return errors.New("database is required")
	}

	m := gormigrate.New(db.WithContext(ctx), gormigrate.DefaultOptions, All())
	if err := m.RollbackLast(); err != nil {
		return errs.Wrap(err, "rollback last migration")
	}
	return nil
}
