package purchaseorders

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
	"github.com/angelmondragon/retailflow-backend/pkg/enums"
)

// LineInput is one purchase order line. Amounts are computed by the caller.
type LineInput struct {
	SKUCode      string
	HSNCode      *string
	Description  *string
	Qty          decimal.Decimal
	Rate         decimal.Decimal
	CGSTRate     decimal.Decimal
	SGSTRate     decimal.Decimal
	IGSTRate     decimal.Decimal
	LineSubtotal decimal.Decimal
	CGSTAmount   decimal.Decimal
	SGSTAmount   decimal.Decimal
	IGSTAmount   decimal.Decimal
	LineTotal    decimal.Decimal
}

// CreateInput captures a purchase order header and its lines.
type CreateInput struct {
	PONumber        *string
	PODate          string
	ExpiryDate      string
	PaymentTerms    *string
	Remarks         *string
	TaxMode         enums.TaxMode
	VendorID        uint
	RetailerName    string
	RetailerAddress string
	RetailerGSTIN   string
	Lines           []LineInput
}

// Totals are the header sums of the line amounts.
type Totals struct {
	Subtotal   decimal.Decimal
	CGSTTotal  decimal.Decimal
	SGSTTotal  decimal.Decimal
	IGSTTotal  decimal.Decimal
	GrandTotal decimal.Decimal
}

// Aggregate sums the caller-supplied line amounts into header totals. Lines
// are not recomputed from qty and rate.
func Aggregate(lines []LineInput) Totals {
	t := Totals{
		Subtotal:   decimal.Zero,
		CGSTTotal:  decimal.Zero,
		SGSTTotal:  decimal.Zero,
		IGSTTotal:  decimal.Zero,
		GrandTotal: decimal.Zero,
	}
	for _, ln := range lines {
		t.Subtotal = t.Subtotal.Add(ln.LineSubtotal)
		t.CGSTTotal = t.CGSTTotal.Add(ln.CGSTAmount)
		t.SGSTTotal = t.SGSTTotal.Add(ln.SGSTAmount)
		t.IGSTTotal = t.IGSTTotal.Add(ln.IGSTAmount)
		t.GrandTotal = t.GrandTotal.Add(ln.LineTotal)
	}
	return t
}

type LineDTO struct {
	SKUCode      string          `json:"sku_code"`
	Description  *string         `json:"description"`
	Qty          decimal.Decimal `json:"qty"`
	Rate         decimal.Decimal `json:"rate"`
	HSNCode      *string         `json:"hsn_code"`
	CGSTRate     decimal.Decimal `json:"cgst_rate"`
	SGSTRate     decimal.Decimal `json:"sgst_rate"`
	IGSTRate     decimal.Decimal `json:"igst_rate"`
	LineSubtotal decimal.Decimal `json:"line_subtotal"`
	CGSTAmount   decimal.Decimal `json:"cgst_amount"`
	SGSTAmount   decimal.Decimal `json:"sgst_amount"`
	IGSTAmount   decimal.Decimal `json:"igst_amount"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// PurchaseOrderDTO is the API shape of a purchase order, decorated with the
// vendor code and name when the vendor still exists.
type PurchaseOrderDTO struct {
	ID              uint            `json:"id"`
	PONumber        *string         `json:"po_number"`
	PODate          string          `json:"po_date"`
	ExpiryDate      string          `json:"expiry_date"`
	PaymentTerms    *string         `json:"payment_terms"`
	Remarks         *string         `json:"remarks"`
	TaxMode         enums.TaxMode   `json:"tax_mode"`
	VendorID        uint            `json:"vendor_id"`
	RetailerName    string          `json:"retailer_name"`
	RetailerAddress string          `json:"retailer_address"`
	RetailerGSTIN   string          `json:"retailer_gstin"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	CGSTTotal       decimal.Decimal `json:"cgst_total"`
	SGSTTotal       decimal.Decimal `json:"sgst_total"`
	IGSTTotal       decimal.Decimal `json:"igst_total"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	VendorCode      *string         `json:"vendor_code"`
	VendorName      *string         `json:"vendor_name"`
	CreatedAt       time.Time       `json:"created_at"`
	Lines           []LineDTO       `json:"lines"`
}

// FromModel maps a purchase order and its loaded lines. vendor may be nil.
func FromModel(m *models.PurchaseOrder, vendor *models.Vendor) *PurchaseOrderDTO {
	if m == nil {
		return nil
	}
	dto := &PurchaseOrderDTO{
		ID:              m.ID,
		PONumber:        m.PONumber,
		PODate:          m.PODate,
		ExpiryDate:      m.ExpiryDate,
		PaymentTerms:    m.PaymentTerms,
		Remarks:         m.Remarks,
		TaxMode:         m.TaxMode,
		VendorID:        m.VendorID,
		RetailerName:    m.RetailerName,
		RetailerAddress: m.RetailerAddress,
		RetailerGSTIN:   m.RetailerGSTIN,
		Subtotal:        m.Subtotal,
		CGSTTotal:       m.CGSTTotal,
		SGSTTotal:       m.SGSTTotal,
		IGSTTotal:       m.IGSTTotal,
		GrandTotal:      m.GrandTotal,
		CreatedAt:       m.CreatedAt,
		Lines:           make([]LineDTO, 0, len(m.Lines)),
	}
	if vendor != nil {
		code, name := vendor.VendorCode, vendor.VendorName
		dto.VendorCode = &code
		dto.VendorName = &name
	}
	for _, ln := range m.Lines {
		dto.Lines = append(dto.Lines, LineDTO{
			SKUCode:      ln.SKUCode,
			Description:  ln.Description,
			Qty:          ln.Qty,
			Rate:         ln.Rate,
			HSNCode:      ln.HSNCode,
			CGSTRate:     ln.CGSTRate,
			SGSTRate:     ln.SGSTRate,
			IGSTRate:     ln.IGSTRate,
			LineSubtotal: ln.LineSubtotal,
			CGSTAmount:   ln.CGSTAmount,
			SGSTAmount:   ln.SGSTAmount,
			IGSTAmount:   ln.IGSTAmount,
			LineTotal:    ln.LineTotal,
		})
	}
	return dto
}

func (in CreateInput) toModel() *models.PurchaseOrder {
	totals := Aggregate(in.Lines)
	po := &models.PurchaseOrder{
		VendorID:        in.VendorID,
		PONumber:        in.PONumber,
		PODate:          in.PODate,
		ExpiryDate:      in.ExpiryDate,
		PaymentTerms:    in.PaymentTerms,
		Remarks:         in.Remarks,
		TaxMode:         in.TaxMode,
		RetailerName:    in.RetailerName,
		RetailerAddress: in.RetailerAddress,
		RetailerGSTIN:   in.RetailerGSTIN,
		Subtotal:        totals.Subtotal,
		CGSTTotal:       totals.CGSTTotal,
		SGSTTotal:       totals.SGSTTotal,
		IGSTTotal:       totals.IGSTTotal,
		GrandTotal:      totals.GrandTotal,
		Lines:           make([]models.PurchaseOrderLine, 0, len(in.Lines)),
	}
	for _, ln := range in.Lines {
		po.Lines = append(po.Lines, models.PurchaseOrderLine{
			SKUCode:      ln.SKUCode,
			HSNCode:      ln.HSNCode,
			Description:  ln.Description,
			Qty:          ln.Qty,
			Rate:         ln.Rate,
			CGSTRate:     ln.CGSTRate,
			SGSTRate:     ln.SGSTRate,
			IGSTRate:     ln.IGSTRate,
			LineSubtotal: ln.LineSubtotal,
			CGSTAmount:   ln.CGSTAmount,
			SGSTAmount:   ln.SGSTAmount,
			IGSTAmount:   ln.IGSTAmount,
			LineTotal:    ln.LineTotal,
		})
	}
	return po
}
