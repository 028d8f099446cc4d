package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mrcfield/internal/infrastructure/persistence/relational/model"
	"mrcfield/internal/ports"
)

// JobSequence allocates job numbers from a per-year counter row.
type JobSequence struct {
	db *gorm.DB
}

var _ ports.JobNumberSequence = (*JobSequence)(nil)

func NewJobSequence(db *gorm.DB) *JobSequence {
	return &JobSequence{db: db}
}

func (s *JobSequence) Next(ctx context.Context, year int) (int64, error) {
	if year <= 0 {
		return 0, fmt.Errorf("invalid job number year %d", year)
	}

	var next int64
	err := inTx(ctx, s.db, func(tx *gorm.DB) error {
		seed := model.JobSequence{Year: year, LastValue: 1}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "year"}},
			DoUpdates: clause.Assignments(map[string]any{
				"last_value": gorm.Expr("job_number_sequences.last_value + 1"),
			}),
		}).Create(&seed).Error; err != nil {
			return dbError(err, "bump job sequence")
		}

		var row model.JobSequence
		if err := tx.Where("year = ?", year).Take(&row).Error; err != nil {
			return dbError(err, "read job sequence")
		}
		next = row.LastValue
		return nil
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}
