package items

import (
	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
	"github.com/angelmondragon/retailflow-backend/pkg/enums"
)

// DefaultMinStockLevel applies when an item is created without a threshold.
const DefaultMinStockLevel = 10

// ItemDTO is the API shape of an item.
type ItemDTO struct {
	ID            uint             `json:"id"`
	SKUCode       string           `json:"sku_code"`
	Brand         *string          `json:"brand"`
	Division      *string          `json:"division"`
	Category      *string          `json:"category"`
	SubCategory   *string          `json:"sub_category"`
	Style         *string          `json:"style"`
	Color         *string          `json:"color"`
	Size          *string          `json:"size"`
	HSNCode       *string          `json:"hsn_code"`
	Status        enums.ItemStatus `json:"status"`
	ImagePath     *string          `json:"image_path"`
	MinStockLevel int              `json:"min_stock_level"`
}

// Input carries the fields accepted on create and update. A nil
// MinStockLevel means "default" on create and "unchanged" on update.
type Input struct {
	SKUCode       string
	Brand         *string
	Division      *string
	Category      *string
	SubCategory   *string
	Style         *string
	Color         *string
	Size          *string
	HSNCode       *string
	Status        enums.ItemStatus
	ImagePath     *string
	MinStockLevel *int
}

func FromModel(m *models.Item) *ItemDTO {
	if m == nil {
		return nil
	}
	return &ItemDTO{
		ID:            m.ID,
		SKUCode:       m.SKUCode,
		Brand:         m.Brand,
		Division:      m.Division,
		Category:      m.Category,
		SubCategory:   m.SubCategory,
		Style:         m.Style,
		Color:         m.Color,
		Size:          m.Size,
		HSNCode:       m.HSNCode,
		Status:        m.Status,
		ImagePath:     m.ImagePath,
		MinStockLevel: m.MinStockLevel,
	}
}

func (in Input) apply(m *models.Item) {
	m.SKUCode = in.SKUCode
	m.Brand = in.Brand
	m.Division = in.Division
	m.Category = in.Category
	m.SubCategory = in.SubCategory
	m.Style = in.Style
	m.Color = in.Color
	m.Size = in.Size
	m.HSNCode = in.HSNCode
	m.Status = in.Status
	m.ImagePath = in.ImagePath
	if in.MinStockLevel != nil {
		m.MinStockLevel = *in.MinStockLevel
	}
}
