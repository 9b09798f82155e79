package items

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/retailflow-backend/pkg/db"
	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/retailflow-backend/pkg/db/types"
	"github.com/angelmondragon/retailflow-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/retailflow-backend/pkg/errors"
	"github.com/angelmondragon/retailflow-backend/pkg/types"
)

const (
	msgSKUExists = "SKU code already exists"
	msgNotFound  = "Item not found"
)

type itemRepository interface {
	List(ctx context.Context) ([]models.Item, error)
	FindByID(ctx context.Context, id uint) (*models.Item, error)
	SKUTaken(ctx context.Context, sku string, excludeID uint) (bool, error)
	Create(ctx context.Context, row *models.Item) error
	Update(ctx context.Context, row *models.Item) error
	Delete(ctx context.Context, id uint) (bool, error)
}

// Service exposes item master operations.
type Service interface {
	List(ctx context.Context) ([]ItemDTO, error)
	Create(ctx context.Context, input Input) (*ItemDTO, error)
	Update(ctx context.Context, id uint, input Input) (*ItemDTO, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo itemRepository
}

// NewService builds an item service.
func NewService(repo itemRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("item repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]ItemDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	out := make([]ItemDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, input Input) (*ItemDTO, error) {
	input, err := normalize(input)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSKUFree(ctx, input.SKUCode, 0); err != nil {
		return nil, err
	}

	row := &models.Item{MinStockLevel: DefaultMinStockLevel}
	input.apply(row)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, writeError(err, "create item")
	}
	return FromModel(row), nil
}

func (s *service) Update(ctx context.Context, id uint, input Input) (*ItemDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound(msgNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}

	input, err = normalize(input)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSKUFree(ctx, input.SKUCode, id); err != nil {
		return nil, err
	}

	input.apply(row)
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, writeError(err, "update item")
	}
	return FromModel(row), nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete item")
	}
	if !found {
		return pkgerrors.NotFound(msgNotFound)
	}
	return nil
}

func (s *service) ensureSKUFree(ctx context.Context, sku string, excludeID uint) error {
	taken, err := s.repo.SKUTaken(ctx, sku, excludeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check sku code")
	}
	if taken {
		return pkgerrors.Validation(msgSKUExists)
	}
	return nil
}

func normalize(input Input) (Input, error) {
	input.SKUCode = strings.TrimSpace(input.SKUCode)
	if input.SKUCode == "" {
		return input, pkgerrors.Validation("sku_code is required")
	}
	if err := dbtypes.CheckSKU(input.SKUCode); err != nil {
		return input, pkgerrors.Validation(err.Error())
	}
	if input.Status == "" {
		input.Status = enums.ItemStatusDraft
	}
	if !input.Status.IsValid() {
		return input, pkgerrors.Validation(fmt.Sprintf("invalid status %q", input.Status))
	}
	if input.MinStockLevel != nil && *input.MinStockLevel < 0 {
		return input, pkgerrors.Validation("min_stock_level must not be negative")
	}

	input.Brand = types.TrimmedString(input.Brand)
	input.Division = types.TrimmedString(input.Division)
	input.Category = types.TrimmedString(input.Category)
	input.SubCategory = types.TrimmedString(input.SubCategory)
	input.Style = types.TrimmedString(input.Style)
	input.Color = types.TrimmedString(input.Color)
	input.Size = types.TrimmedString(input.Size)
	input.HSNCode = types.TrimmedString(input.HSNCode)
	input.ImagePath = types.TrimmedString(input.ImagePath)
	return input, nil
}

func writeError(err error, action string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Conflict(err, msgSKUExists)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
