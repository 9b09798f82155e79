package models

import "time"

// DocumentSequence holds the last number issued for a document series
// (vendor codes, GRN numbers, bill numbers).
type DocumentSequence struct {
	Name      string    `gorm:"column:name;primaryKey"`
	LastValue int64     `gorm:"column:last_value;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (DocumentSequence) TableName() string { return "document_sequences" }
