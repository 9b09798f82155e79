package hsn

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
)

// Repository handles HSN persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to HSN operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List returns every HSN ordered by code.
func (r *Repository) List(ctx context.Context) ([]models.HSN, error) {
	var rows []models.HSN
	if err := r.db.WithContext(ctx).Order("hsn_code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads one HSN row.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.HSN, error) {
	var row models.HSN
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// CodeTaken reports whether another row already uses code. excludeID of 0
// checks every row.
func (r *Repository) CodeTaken(ctx context.Context, code string, excludeID uint) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.HSN{}).Where("hsn_code = ?", code)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) Create(ctx context.Context, row *models.HSN) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) Update(ctx context.Context, row *models.HSN) error {
	return r.db.WithContext(ctx).Save(row).Error
}

// Delete removes the row and reports whether it existed.
func (r *Repository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.HSN{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
