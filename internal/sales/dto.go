package sales

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
)

type LineInput struct {
	SKUCode      string
	Description  *string
	HSNCode      *string
	Qty          decimal.Decimal
	Rate         decimal.Decimal
	CGSTRate     decimal.Decimal
	SGSTRate     decimal.Decimal
	IGSTRate     decimal.Decimal
	LineSubtotal decimal.Decimal
	LineTax      decimal.Decimal
	LineTotal    decimal.Decimal
}

func (ln LineInput) overScale() (models.Scaled, bool) {
	return models.FirstOverScale(
		models.Scaled{Field: "qty", Value: ln.Qty, Places: models.QuantityScale},
		models.Scaled{Field: "rate", Value: ln.Rate, Places: models.AmountScale},
		models.Scaled{Field: "cgst_rate", Value: ln.CGSTRate, Places: models.RateScale},
		models.Scaled{Field: "sgst_rate", Value: ln.SGSTRate, Places: models.RateScale},
		models.Scaled{Field: "igst_rate", Value: ln.IGSTRate, Places: models.RateScale},
		models.Scaled{Field: "line_subtotal", Value: ln.LineSubtotal, Places: models.AmountScale},
		models.Scaled{Field: "line_tax", Value: ln.LineTax, Places: models.AmountScale},
		models.Scaled{Field: "line_total", Value: ln.LineTotal, Places: models.AmountScale},
	)
}

// CreateInput is a till bill. Totals are recorded as supplied.
type CreateInput struct {
	BillNumber    string
	SaleDate      string
	CustomerName  *string
	CustomerEmail *string
	CustomerPhone *string
	Subtotal      decimal.Decimal
	TaxTotal      decimal.Decimal
	GrandTotal    decimal.Decimal
	Lines         []LineInput
}

type LineDTO struct {
	SKUCode      string          `json:"sku_code"`
	Description  *string         `json:"description"`
	HSNCode      *string         `json:"hsn_code"`
	Qty          decimal.Decimal `json:"qty"`
	Rate         decimal.Decimal `json:"rate"`
	CGSTRate     decimal.Decimal `json:"cgst_rate"`
	SGSTRate     decimal.Decimal `json:"sgst_rate"`
	IGSTRate     decimal.Decimal `json:"igst_rate"`
	LineSubtotal decimal.Decimal `json:"line_subtotal"`
	LineTax      decimal.Decimal `json:"line_tax"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

type SaleDTO struct {
	ID            uint            `json:"id"`
	BillNumber    string          `json:"bill_number"`
	SaleDate      string          `json:"sale_date"`
	CustomerName  *string         `json:"customer_name"`
	CustomerEmail *string         `json:"customer_email"`
	CustomerPhone *string         `json:"customer_phone"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxTotal      decimal.Decimal `json:"tax_total"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
	CreatedAt     time.Time       `json:"created_at"`
	Lines         []LineDTO       `json:"lines"`
}

func FromModel(m *models.Sale) *SaleDTO {
	if m == nil {
		return nil
	}
	dto := &SaleDTO{
		ID:            m.ID,
		BillNumber:    m.BillNumber,
		SaleDate:      m.SaleDate,
		CustomerName:  m.CustomerName,
		CustomerEmail: m.CustomerEmail,
		CustomerPhone: m.CustomerPhone,
		Subtotal:      m.Subtotal,
		TaxTotal:      m.TaxTotal,
		GrandTotal:    m.GrandTotal,
		CreatedAt:     m.CreatedAt,
		Lines:         make([]LineDTO, 0, len(m.Lines)),
	}
	for _, ln := range m.Lines {
		dto.Lines = append(dto.Lines, LineDTO{
			SKUCode:      ln.SKUCode,
			Description:  ln.Description,
			HSNCode:      ln.HSNCode,
			Qty:          ln.Qty,
			Rate:         ln.Rate,
			CGSTRate:     ln.CGSTRate,
			SGSTRate:     ln.SGSTRate,
			IGSTRate:     ln.IGSTRate,
			LineSubtotal: ln.LineSubtotal,
			LineTax:      ln.LineTax,
			LineTotal:    ln.LineTotal,
		})
	}
	return dto
}

func (ln LineInput) toModel(sku string) models.SaleLine {
	return models.SaleLine{
		SKUCode:      sku,
		Description:  ln.Description,
		HSNCode:      ln.HSNCode,
		Qty:          ln.Qty,
		Rate:         ln.Rate,
		CGSTRate:     ln.CGSTRate,
		SGSTRate:     ln.SGSTRate,
		IGSTRate:     ln.IGSTRate,
		LineSubtotal: ln.LineSubtotal,
		LineTax:      ln.LineTax,
		LineTotal:    ln.LineTotal,
	}
}
