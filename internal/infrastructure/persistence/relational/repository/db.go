package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"mrcfield/internal/errs"
	"mrcfield/internal/ports"
)

func dbFromContext(ctx context.Context, db *gorm.DB) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

// inTx joins the caller's transaction when there is one and opens its own
// otherwise, so multi-statement writes are never left half applied.
func inTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	conn, err := dbFromContext(ctx, db)
	if err != nil {
		return err
	}
	if ports.TxFromContext(ctx) != nil {
		return fn(conn)
	}
	return conn.Transaction(fn)
}

// dbError marks where a driver error entered the application and adds the
// operation name. The stack is kept for internal-failure logs.
func dbError(err error, op string) error {
	return errs.Wrap(errs.WithStack(err), op)
}
