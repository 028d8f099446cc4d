package uow

import (
	"context"
	"errors"
	"testing"
	"time"

	"mrcfield/internal/domain/lead"
	"mrcfield/internal/infrastructure/persistence/relational/repository"
	"mrcfield/internal/infrastructure/persistence/relational/testdb"
)

func TestWithTxRollsBackOnError(t *testing.T) {
	db := testdb.Open(t)
	u := NewUnitOfWork(db)
	leads := repository.NewLeadRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

	errBoom := errors.New("boom")
	err := u.WithTx(ctx, func(txCtx context.Context) error {
		if err := leads.Create(txCtx, lead.Lead{ID: "l-1", FirstName: "Jo", Phone: "1", Status: lead.StatusNew, CreatedAt: now, UpdatedAt: now}); err != nil {
			return err
		}
		// nested calls join the outer transaction
		return u.WithTx(txCtx, func(context.Context) error { return errBoom })
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("WithTx() error = %v", err)
	}

	if _, err := leads.Get(ctx, "l-1"); !errors.Is(err, lead.ErrNotFound) {
		t.Fatalf("Get() after rollback error = %v", err)
	}
}

func TestWithTxCommits(t *testing.T) {
	db := testdb.Open(t)
	u := NewUnitOfWork(db)
	leads := repository.NewLeadRepository(db)
	ctx := context.Background()
	now := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)

	if err := u.WithTx(ctx, func(txCtx context.Context) error {
		return leads.Create(txCtx, lead.Lead{ID: "l-2", FirstName: "Jo", Phone: "1", Status: lead.StatusNew, CreatedAt: now, UpdatedAt: now})
	}); err != nil {
		t.Fatalf("WithTx() error = %v", err)
	}

	if _, err := leads.Get(ctx, "l-2"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
}
