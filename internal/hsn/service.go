package hsn

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/retailflow-backend/pkg/db"
	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/retailflow-backend/pkg/errors"
	"github.com/angelmondragon/retailflow-backend/pkg/types"
)

const (
	msgCodeExists = "HSN code already exists"
	msgNotFound   = "HSN not found"
)

type hsnRepository interface {
	List(ctx context.Context) ([]models.HSN, error)
	FindByID(ctx context.Context, id uint) (*models.HSN, error)
	CodeTaken(ctx context.Context, code string, excludeID uint) (bool, error)
	Create(ctx context.Context, row *models.HSN) error
	Update(ctx context.Context, row *models.HSN) error
	Delete(ctx context.Context, id uint) (bool, error)
}

// Service exposes HSN master data operations.
type Service interface {
	List(ctx context.Context) ([]HSNDTO, error)
	Create(ctx context.Context, input Input) (*HSNDTO, error)
	Update(ctx context.Context, id uint, input Input) (*HSNDTO, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	repo hsnRepository
}

// NewService builds an HSN service.
func NewService(repo hsnRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("hsn repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]HSNDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list hsn")
	}
	out := make([]HSNDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, input Input) (*HSNDTO, error) {
	input, err := normalize(input)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.CodeTaken(ctx, input.HSNCode, 0)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check hsn code")
	}
	if taken {
		return nil, pkgerrors.Validation(msgCodeExists)
	}

	row := &models.HSN{}
	input.apply(row)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, writeError(err, "create hsn")
	}
	return FromModel(row), nil
}

func (s *service) Update(ctx context.Context, id uint, input Input) (*HSNDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound(msgNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load hsn")
	}

	input, err = normalize(input)
	if err != nil {
		return nil, err
	}

	taken, err := s.repo.CodeTaken(ctx, input.HSNCode, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check hsn code")
	}
	if taken {
		return nil, pkgerrors.Validation(msgCodeExists)
	}

	input.apply(row)
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, writeError(err, "update hsn")
	}
	return FromModel(row), nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete hsn")
	}
	if !found {
		return pkgerrors.NotFound(msgNotFound)
	}
	return nil
}

func normalize(input Input) (Input, error) {
	input.HSNCode = strings.TrimSpace(input.HSNCode)
	if input.HSNCode == "" {
		return input, pkgerrors.Validation("hsn_code is required")
	}
	input.Description = types.TrimmedString(input.Description)
	if input.CGSTRate.IsNegative() || input.SGSTRate.IsNegative() || input.IGSTRate.IsNegative() {
		return input, pkgerrors.Validation("tax rates must not be negative")
	}
	if f, bad := models.FirstOverScale(
		models.Scaled{Field: "cgst_rate", Value: input.CGSTRate, Places: models.RateScale},
		models.Scaled{Field: "sgst_rate", Value: input.SGSTRate, Places: models.RateScale},
		models.Scaled{Field: "igst_rate", Value: input.IGSTRate, Places: models.RateScale},
	); bad {
		return input, pkgerrors.Validation(fmt.Sprintf("%s allows at most %d decimal places", f.Field, f.Places))
	}
	return input, nil
}

func writeError(err error, action string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Conflict(err, msgCodeExists)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
