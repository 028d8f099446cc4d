package model

import "time"

type KV struct {
	Key       string     `gorm:"column:key;type:varchar(191);primaryKey"`
	Value     string     `gorm:"column:value;type:text;not null"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (KV) TableName() string {
	return "kv_store"
}
