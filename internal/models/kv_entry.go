package models

import (
	"time"

	"gorm.io/datatypes"
)

// KVEntry is one persisted collection in the SQL-backed store
type KVEntry struct {
	Key       string         `gorm:"column:entry_key;primaryKey;size:128" json:"key"`
	Value     datatypes.JSON `gorm:"column:value" json:"value"`
	UpdatedAt time.Time      `gorm:"column:updated_at" json:"updatedAt"`
}

// TableName specifies the table name
func (KVEntry) TableName() string {
	return "kv_entries"
}
