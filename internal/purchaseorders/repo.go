package purchaseorders

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
)

// Repository defines purchase order persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, po *models.PurchaseOrder) error
	List(ctx context.Context) ([]models.PurchaseOrder, error)
	FindByID(ctx context.Context, id uint) (*models.PurchaseOrder, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a purchase order repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create inserts the header and its lines.
func (r *repository) Create(ctx context.Context, po *models.PurchaseOrder) error {
	return r.db.WithContext(ctx).Create(po).Error
}

// List returns every purchase order newest first with lines in entry order.
func (r *repository) List(ctx context.Context) ([]models.PurchaseOrder, error) {
	var rows []models.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines", orderLines).
		Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.PurchaseOrder, error) {
	var row models.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines", orderLines).
		Where("id = ?", id).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PurchaseOrder{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func orderLines(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
