package models

import "time"

// KVEntry is one persisted store key.
type KVEntry struct {
	Key       string    `gorm:"column:store_key;primaryKey"`
	Value     string    `gorm:"column:store_value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (KVEntry) TableName() string { return "kv_entries" }
