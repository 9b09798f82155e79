package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is a point-of-sale bill. Totals are recorded as supplied by the till.
type Sale struct {
	ID            uint            `gorm:"column:id;primaryKey"`
	BillNumber    string          `gorm:"column:bill_number;uniqueIndex;not null"`
	SaleDate      string          `gorm:"column:sale_date;not null"`
	CustomerName  *string         `gorm:"column:customer_name"`
	CustomerEmail *string         `gorm:"column:customer_email"`
	CustomerPhone *string         `gorm:"column:customer_phone"`
	Subtotal      decimal.Decimal `gorm:"column:subtotal;type:numeric(14,2);not null;default:0"`
	TaxTotal      decimal.Decimal `gorm:"column:tax_total;type:numeric(14,2);not null;default:0"`
	GrandTotal    decimal.Decimal `gorm:"column:grand_total;type:numeric(14,2);not null;default:0"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	Lines         []SaleLine      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

func (Sale) TableName() string { return "sales" }

type SaleLine struct {
	ID           uint            `gorm:"column:id;primaryKey"`
	SaleID       uint            `gorm:"column:sale_id;not null;index"`
	SKUCode      string          `gorm:"column:sku_code;not null"`
	Description  *string         `gorm:"column:description"`
	HSNCode      *string         `gorm:"column:hsn_code"`
	Qty          decimal.Decimal `gorm:"column:qty;type:numeric(14,3);not null;default:0"`
	Rate         decimal.Decimal `gorm:"column:rate;type:numeric(14,2);not null;default:0"`
	CGSTRate     decimal.Decimal `gorm:"column:cgst_rate;type:numeric(6,2);not null;default:0"`
	SGSTRate     decimal.Decimal `gorm:"column:sgst_rate;type:numeric(6,2);not null;default:0"`
	IGSTRate     decimal.Decimal `gorm:"column:igst_rate;type:numeric(6,2);not null;default:0"`
	LineSubtotal decimal.Decimal `gorm:"column:line_subtotal;type:numeric(14,2);not null;default:0"`
	LineTax      decimal.Decimal `gorm:"column:line_tax;type:numeric(14,2);not null;default:0"`
	LineTotal    decimal.Decimal `gorm:"column:line_total;type:numeric(14,2);not null;default:0"`
}

func (SaleLine) TableName() string { return "sale_lines" }
