package models

import "github.com/angelmondragon/retailflow-backend/pkg/enums"

// Item is a sellable SKU and its low-stock threshold. HSNCode is a soft
// reference to HSN.HSNCode.
type Item struct {
	ID            uint             `gorm:"column:id;primaryKey"`
	SKUCode       string           `gorm:"column:sku_code;uniqueIndex;not null"`
	Brand         *string          `gorm:"column:brand"`
	Division      *string          `gorm:"column:division"`
	Category      *string          `gorm:"column:category"`
	SubCategory   *string          `gorm:"column:sub_category"`
	Style         *string          `gorm:"column:style"`
	Color         *string          `gorm:"column:color"`
	Size          *string          `gorm:"column:size"`
	HSNCode       *string          `gorm:"column:hsn_code"`
	Status        enums.ItemStatus `gorm:"column:status;not null;default:'DRAFT'"`
	ImagePath     *string          `gorm:"column:image_path"`
	MinStockLevel int              `gorm:"column:min_stock_level;not null"`
}

func (Item) TableName() string { return "item_master" }
