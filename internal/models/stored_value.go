package models

import "time"

// StoredValue is one row of the SQL-backed key/value store that holds the session identity.
type StoredValue struct {
	Key       string `gorm:"primaryKey;size:191"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName pins the table name regardless of naming strategy.
func (StoredValue) TableName() string {
	return "stored_values"
}
