package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"mrcfield/internal/domain/lead"
	"mrcfield/internal/infrastructure/persistence/relational/model"
	"mrcfield/internal/ports"
)

type LeadRepository struct {
	db *gorm.DB
}

var _ ports.LeadRepository = (*LeadRepository)(nil)

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(ctx context.Context, l lead.Lead) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	row := leadToRow(l)
	if err := db.Create(&row).Error; err != nil {
		return dbError(err, "insert lead")
	}
	return nil
}

func (r *LeadRepository) Get(ctx context.Context, id string) (lead.Lead, error) {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return lead.Lead{}, err
	}

	var row model.Lead
	if err := db.Where("id = ?", strings.TrimSpace(id)).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return lead.Lead{}, fmt.Errorf("%w: %s", lead.ErrNotFound, id)
		}
		return lead.Lead{}, dbError(err, "query lead")
	}
	return mapLead(row), nil
}

func (r *LeadRepository) UpdateStatus(ctx context.Context, id string, status lead.Status, at time.Time) error {
	db, err := dbFromContext(ctx, r.db)
	if err != nil {
		return err
	}

	result := db.Model(&model.Lead{}).
		Where("id = ?", strings.TrimSpace(id)).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": at.UTC(),
		})
	if result.Error != nil {
		return dbError(result.Error, "update lead status")
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", lead.ErrNotFound, id)
	}
	return nil
}
