package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retailflow-backend/pkg/enums"
)

// PurchaseOrder is a frozen financial document; it is never updated after
// creation.
type PurchaseOrder struct {
	ID              uint                `gorm:"column:id;primaryKey"`
	VendorID        uint                `gorm:"column:vendor_id;not null;index"`
	PONumber        *string             `gorm:"column:po_number"`
	PODate          string              `gorm:"column:po_date;not null"`
	ExpiryDate      string              `gorm:"column:expiry_date;not null"`
	PaymentTerms    *string             `gorm:"column:payment_terms"`
	Remarks         *string             `gorm:"column:remarks"`
	TaxMode         enums.TaxMode       `gorm:"column:tax_mode;not null"`
	RetailerName    string              `gorm:"column:retailer_name;not null"`
	RetailerAddress string              `gorm:"column:retailer_address;not null"`
	RetailerGSTIN   string              `gorm:"column:retailer_gstin;not null"`
	Subtotal        decimal.Decimal     `gorm:"column:subtotal;type:numeric(14,2);not null;default:0"`
	CGSTTotal       decimal.Decimal     `gorm:"column:cgst_total;type:numeric(14,2);not null;default:0"`
	SGSTTotal       decimal.Decimal     `gorm:"column:sgst_total;type:numeric(14,2);not null;default:0"`
	IGSTTotal       decimal.Decimal     `gorm:"column:igst_total;type:numeric(14,2);not null;default:0"`
	GrandTotal      decimal.Decimal     `gorm:"column:grand_total;type:numeric(14,2);not null;default:0"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	Lines           []PurchaseOrderLine `gorm:"foreignKey:POID;constraint:OnDelete:CASCADE"`
}

func (PurchaseOrder) TableName() string { return "purchase_orders" }

// PurchaseOrderLine carries caller-computed amounts for one SKU.
type PurchaseOrderLine struct {
	ID           uint            `gorm:"column:id;primaryKey"`
	POID         uint            `gorm:"column:po_id;not null;index"`
	SKUCode      string          `gorm:"column:sku_code;not null"`
	HSNCode      *string         `gorm:"column:hsn_code"`
	Description  *string         `gorm:"column:description"`
	Qty          decimal.Decimal `gorm:"column:qty;type:numeric(14,3);not null;default:0"`
	Rate         decimal.Decimal `gorm:"column:rate;type:numeric(14,2);not null;default:0"`
	CGSTRate     decimal.Decimal `gorm:"column:cgst_rate;type:numeric(6,2);not null;default:0"`
	SGSTRate     decimal.Decimal `gorm:"column:sgst_rate;type:numeric(6,2);not null;default:0"`
	IGSTRate     decimal.Decimal `gorm:"column:igst_rate;type:numeric(6,2);not null;default:0"`
	LineSubtotal decimal.Decimal `gorm:"column:line_subtotal;type:numeric(14,2);not null;default:0"`
	CGSTAmount   decimal.Decimal `gorm:"column:cgst_amount;type:numeric(14,2);not null;default:0"`
	SGSTAmount   decimal.Decimal `gorm:"column:sgst_amount;type:numeric(14,2);not null;default:0"`
	IGSTAmount   decimal.Decimal `gorm:"column:igst_amount;type:numeric(14,2);not null;default:0"`
	LineTotal    decimal.Decimal `gorm:"column:line_total;type:numeric(14,2);not null;default:0"`
}

func (PurchaseOrderLine) TableName() string { return "purchase_order_lines" }
