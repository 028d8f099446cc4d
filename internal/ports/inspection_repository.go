package ports

import (
	"context"
	"time"

	"mrcfield/internal/domain/inspection"
	"mrcfield/internal/domain/lead"
)

type InspectionSummary struct {
	ID        string
	LeadID    string
	JobNumber string
	Status    inspection.Status
	Version   int64
	UpdatedAt time.Time
}

// InspectionRepository loads and stores the whole inspection aggregate.
type InspectionRepository interface {
	// Get returns inspection.ErrNotFound when the root does not exist.
	Get(ctx context.Context, id string) (*inspection.Inspection, error)
	Create(ctx context.Context, insp *inspection.Inspection) error
	// Save persists the aggregate if the stored version still equals
	// insp.Version, then bumps insp.Version. A stale version yields
	// inspection.ErrConflict.
	Save(ctx context.Context, insp *inspection.Inspection) error
	ListByStatus(ctx context.Context, status inspection.Status, limit int) ([]InspectionSummary, error)
}

type LeadRepository interface {
	Create(ctx context.Context, l lead.Lead) error
	// Get returns lead.ErrNotFound when missing.
	Get(ctx context.Context, id string) (lead.Lead, error)
	UpdateStatus(ctx context.Context, id string, status lead.Status, at time.Time) error
}

// JobNumberSequence hands out a strictly increasing number per year.
type JobNumberSequence interface {
	Next(ctx context.Context, year int) (int64, error)
}
