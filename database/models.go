package database

import "time"

// KVEntry is one row of the durable key-value table.
type KVEntry struct {
	Key       string `gorm:"column:key;primaryKey"`
	Value     string `gorm:"column:value;not null"`
	UpdatedAt time.Time
}

// TableName implements gorm's tabler.
func (KVEntry) TableName() string { return "kv_entries" }
