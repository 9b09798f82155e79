package models

import (
	dbtypes "github.com/angelmondragon/retailflow-backend/pkg/db/types"
	"github.com/angelmondragon/retailflow-backend/pkg/enums"
)

// Vendor is a supplier that purchase orders are raised against.
type Vendor struct {
	ID         uint               `gorm:"column:id;primaryKey"`
	VendorCode string             `gorm:"column:vendor_code;uniqueIndex;not null"`
	VendorName string             `gorm:"column:vendor_name;not null"`
	Address    *string            `gorm:"column:address"`
	Email      *string            `gorm:"column:email"`
	Phone      *string            `gorm:"column:phone"`
	TaggedSKUs dbtypes.SKUList    `gorm:"column:tagged_skus;type:text"`
	Status     enums.VendorStatus `gorm:"column:status;not null;default:'Active'"`
}

func (Vendor) TableName() string { return "vendor_master" }
