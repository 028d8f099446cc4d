package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mrcfield/internal/errs"
	"mrcfield/internal/infrastructure/persistence/relational/model"
	"mrcfield/internal/ports"
)

// KVCache stores small values in the application database. Calls made with
// a transaction in ctx read and write through that transaction.
type KVCache struct {
	db  *gorm.DB
	now func() time.Time
}

var _ ports.Cache = (*KVCache)(nil)

func NewKVCache(db *gorm.DB) *KVCache {
	return &KVCache{db: db, now: time.Now}
}

func (c *KVCache) conn(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}

	if tx := ports.TxFromContext(ctx); tx != nil {
		gormTx, ok := tx.(*gorm.DB)
		if !ok || gormTx == nil {
			return nil, fmt.Errorf("invalid tx in context: %T", tx)
		}
		return gormTx.WithContext(ctx), nil
	}
	return c.db.WithContext(ctx), nil
}

func (c *KVCache) Get(ctx context.Context, key string) (string, bool, error) {
	db, err := c.conn(ctx)
	if err != nil {
		return "", false, err
	}

	trimmedKey := strings.TrimSpace(key)
	if trimmedKey == "" {
		return "", false, errors.New("key is required")
	}

	var row model.KV
	if err := db.Where("key = ?", trimmedKey).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, errs.Wrap(err, "query cache by key")
	}

	if row.ExpiresAt != nil && !row.ExpiresAt.After(c.now().UTC()) {
		return "", false, nil
	}
	return row.Value, true, nil
}

// Set upserts key. A ttl of zero keeps the value until deleted.
func (c *KVCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	db, err := c.conn(ctx)
	if err != nil {
		return err
	}

	trimmedKey := strings.TrimSpace(key)
	if trimmedKey == "" {
		return errors.New("key is required")
	}

	now := c.now().UTC()
	row := model.KV{
		Key:       trimmedKey,
		Value:     value,
		UpdatedAt: now,
	}
	if ttl > 0 {
		expires := now.Add(ttl)
		row.ExpiresAt = &expires
	}

	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"value":      row.Value,
			"expires_at": row.ExpiresAt,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert cache key")
	}

	return nil
}

func (c *KVCache) Delete(ctx context.Context, key string) error {
	db, err := c.conn(ctx)
	if err != nil {
		return err
	}

	trimmedKey := strings.TrimSpace(key)
	if trimmedKey == "" {
		return errors.New("key is required")
	}

	if err := db.Where("key = ?", trimmedKey).Delete(&model.KV{}).Error; err != nil {
		return errs.Wrap(err, "delete cache key")
	}
	return nil
}
