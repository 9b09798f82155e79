package vendors

import (
	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/retailflow-backend/pkg/db/types"
	"github.com/angelmondragon/retailflow-backend/pkg/enums"
)

// VendorDTO is the API shape of a vendor. TaggedSKUs is never null.
type VendorDTO struct {
	ID         uint               `json:"id"`
	VendorCode string             `json:"vendor_code"`
	VendorName string             `json:"vendor_name"`
	Address    *string            `json:"address"`
	Email      *string            `json:"email"`
	Phone      *string            `json:"phone"`
	TaggedSKUs []string           `json:"tagged_skus"`
	Status     enums.VendorStatus `json:"status"`
}

// Input carries vendor fields for create and update. A blank VendorCode is
// generated on create and left unchanged on update.
type Input struct {
	VendorCode string
	VendorName string
	Address    *string
	Email      *string
	Phone      *string
	TaggedSKUs []string
	Status     enums.VendorStatus
}

func FromModel(m *models.Vendor) *VendorDTO {
	if m == nil {
		return nil
	}
	status := m.Status
	if status == "" {
		status = enums.VendorStatusActive
	}
	return &VendorDTO{
		ID:         m.ID,
		VendorCode: m.VendorCode,
		VendorName: m.VendorName,
		Address:    m.Address,
		Email:      m.Email,
		Phone:      m.Phone,
		TaggedSKUs: m.TaggedSKUs.Strings(),
		Status:     status,
	}
}

func (in Input) apply(m *models.Vendor) {
	if in.VendorCode != "" {
		m.VendorCode = in.VendorCode
	}
	m.VendorName = in.VendorName
	m.Address = in.Address
	m.Email = in.Email
	m.Phone = in.Phone
	m.TaggedSKUs = dbtypes.NewSKUList(in.TaggedSKUs)
	m.Status = in.Status
}
