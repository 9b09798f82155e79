package grn

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
)

// Repository persists goods receipts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, grn *models.GRN) error
	List(ctx context.Context) ([]models.GRN, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, grn *models.GRN) error {
	return r.db.WithContext(ctx).Create(grn).Error
}

func (r *repository) List(ctx context.Context) ([]models.GRN, error) {
	var rows []models.GRN
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
