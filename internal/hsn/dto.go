package hsn

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
)

// HSNDTO is the API shape of an HSN record.
type HSNDTO struct {
	ID          uint            `json:"id"`
	HSNCode     string          `json:"hsn_code"`
	Description *string         `json:"description"`
	CGSTRate    decimal.Decimal `json:"cgst_rate"`
	SGSTRate    decimal.Decimal `json:"sgst_rate"`
	IGSTRate    decimal.Decimal `json:"igst_rate"`
}

// Input carries the mutable fields for create and update.
type Input struct {
	HSNCode     string
	Description *string
	CGSTRate    decimal.Decimal
	SGSTRate    decimal.Decimal
	IGSTRate    decimal.Decimal
}

// FromModel maps the persisted record into a DTO.
func FromModel(m *models.HSN) *HSNDTO {
	if m == nil {
		return nil
	}
	return &HSNDTO{
		ID:          m.ID,
		HSNCode:     m.HSNCode,
		Description: m.Description,
		CGSTRate:    m.CGSTRate,
		SGSTRate:    m.SGSTRate,
		IGSTRate:    m.IGSTRate,
	}
}

func (in Input) apply(m *models.HSN) {
	m.HSNCode = in.HSNCode
	m.Description = in.Description
	m.CGSTRate = in.CGSTRate
	m.SGSTRate = in.SGSTRate
	m.IGSTRate = in.IGSTRate
}
