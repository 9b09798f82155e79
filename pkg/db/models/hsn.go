package models

import "github.com/shopspring/decimal"

// HSN is a tax classification code with its GST rates.
type HSN struct {
	ID          uint            `gorm:"column:id;primaryKey"`
	HSNCode     string          `gorm:"column:hsn_code;uniqueIndex;not null"`
	Description *string         `gorm:"column:description"`
	CGSTRate    decimal.Decimal `gorm:"column:cgst_rate;type:numeric(6,2);not null;default:0"`
	SGSTRate    decimal.Decimal `gorm:"column:sgst_rate;type:numeric(6,2);not null;default:0"`
	IGSTRate    decimal.Decimal `gorm:"column:igst_rate;type:numeric(6,2);not null;default:0"`
}

func (HSN) TableName() string { return "hsn_master" }
