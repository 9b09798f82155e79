package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GRN records goods received against a purchase order.
type GRN struct {
	ID           uint      `gorm:"column:id;primaryKey"`
	GRNNumber    string    `gorm:"column:grn_number;uniqueIndex;not null"`
	POID         uint      `gorm:"column:po_id;not null;index"`
	ReceivedDate string    `gorm:"column:received_date;not null"`
	Remarks      *string   `gorm:"column:remarks"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	Lines        []GRNLine `gorm:"foreignKey:GRNID;constraint:OnDelete:CASCADE"`
}

func (GRN) TableName() string { return "grn" }

type GRNLine struct {
	ID          uint            `gorm:"column:id;primaryKey"`
	GRNID       uint            `gorm:"column:grn_id;not null;index"`
	SKUCode     string          `gorm:"column:sku_code;not null"`
	ReceivedQty decimal.Decimal `gorm:"column:received_qty;type:numeric(14,3);not null;default:0"`
	AcceptedQty decimal.Decimal `gorm:"column:accepted_qty;type:numeric(14,3);not null;default:0"`
	RejectedQty decimal.Decimal `gorm:"column:rejected_qty;type:numeric(14,3);not null;default:0"`
}

func (GRNLine) TableName() string { return "grn_lines" }
