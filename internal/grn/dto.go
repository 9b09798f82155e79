package grn

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
)

type LineInput struct {
	SKUCode     string
	ReceivedQty decimal.Decimal
	AcceptedQty decimal.Decimal
	RejectedQty decimal.Decimal
}

// CreateInput describes goods received against a purchase order.
type CreateInput struct {
	POID         uint
	ReceivedDate string
	Remarks      *string
	Lines        []LineInput
}

type LineDTO struct {
	SKUCode     string          `json:"sku_code"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	AcceptedQty decimal.Decimal `json:"accepted_qty"`
	RejectedQty decimal.Decimal `json:"rejected_qty"`
}

type GRNDTO struct {
	ID           uint      `json:"id"`
	GRNNumber    string    `json:"grn_number"`
	POID         uint      `json:"po_id"`
	ReceivedDate string    `json:"received_date"`
	Remarks      *string   `json:"remarks"`
	CreatedAt    time.Time `json:"created_at"`
	Lines        []LineDTO `json:"lines"`
}

func FromModel(m *models.GRN) *GRNDTO {
	if m == nil {
		return nil
	}
	dto := &GRNDTO{
		ID:           m.ID,
		GRNNumber:    m.GRNNumber,
		POID:         m.POID,
		ReceivedDate: m.ReceivedDate,
		Remarks:      m.Remarks,
		CreatedAt:    m.CreatedAt,
		Lines:        make([]LineDTO, 0, len(m.Lines)),
	}
	for _, ln := range m.Lines {
		dto.Lines = append(dto.Lines, LineDTO{
			SKUCode:     ln.SKUCode,
			ReceivedQty: ln.ReceivedQty,
			AcceptedQty: ln.AcceptedQty,
			RejectedQty: ln.RejectedQty,
		})
	}
	return dto
}
