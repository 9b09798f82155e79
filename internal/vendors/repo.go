package vendors

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
)

// Repository defines vendor persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context) ([]models.Vendor, error)
	FindByID(ctx context.Context, id uint) (*models.Vendor, error)
	FindByIDs(ctx context.Context, ids []uint) (map[uint]models.Vendor, error)
	CodeTaken(ctx context.Context, code string, excludeID uint) (bool, error)
	Create(ctx context.Context, row *models.Vendor) error
	Update(ctx context.Context, row *models.Vendor) error
	Delete(ctx context.Context, id uint) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a vendor repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context) ([]models.Vendor, error) {
	var rows []models.Vendor
	if err := r.db.WithContext(ctx).Order("vendor_code ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Vendor, error) {
	var row models.Vendor
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByIDs loads the vendors that exist among ids, keyed by id.
func (r *repository) FindByIDs(ctx context.Context, ids []uint) (map[uint]models.Vendor, error) {
	out := make(map[uint]models.Vendor, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Vendor
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

func (r *repository) CodeTaken(ctx context.Context, code string, excludeID uint) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Vendor{}).Where("vendor_code = ?", code)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) Create(ctx context.Context, row *models.Vendor) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *repository) Update(ctx context.Context, row *models.Vendor) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *repository) Delete(ctx context.Context, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Vendor{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
