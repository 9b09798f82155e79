package vendors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/retailflow-backend/internal/numbering"
	"github.com/angelmondragon/retailflow-backend/pkg/db"
	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/retailflow-backend/pkg/db/types"
	"github.com/angelmondragon/retailflow-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/retailflow-backend/pkg/errors"
	"github.com/angelmondragon/retailflow-backend/pkg/types"
)

const (
	msgCodeExists   = "Vendor code already exists"
	msgCodeInUse    = "Vendor code already used by another vendor"
	msgNotFound     = "Vendor not found"
	msgNameRequired = "vendor name is required"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sequencer interface {
	Next(ctx context.Context, tx *gorm.DB, series numbering.Series) (string, error)
}

// Service exposes vendor master operations.
type Service interface {
	List(ctx context.Context) ([]VendorDTO, error)
	Create(ctx context.Context, input Input) (*VendorDTO, error)
	Update(ctx context.Context, id uint, input Input) (*VendorDTO, error)
	Delete(ctx context.Context, id uint) error
}

type service struct {
	tx   txRunner
	repo Repository
	seq  sequencer
}

// NewService builds a vendor service. A nil sequencer falls back to the
// document_sequences backed implementation.
func NewService(tx txRunner, repo Repository, seq sequencer) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("vendor repository required")
	}
	if seq == nil {
		seq = numbering.NewSequencer()
	}
	return &service{tx: tx, repo: repo, seq: seq}, nil
}

func (s *service) List(ctx context.Context) ([]VendorDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors")
	}
	out := make([]VendorDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, input Input) (*VendorDTO, error) {
	input, err := normalize(input)
	if err != nil {
		return nil, err
	}

	row := &models.Vendor{}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if input.VendorCode == "" {
			code, err := s.seq.Next(ctx, tx, numbering.VendorCodes)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate vendor code")
			}
			input.VendorCode = code
		}

		taken, err := repo.CodeTaken(ctx, input.VendorCode, 0)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check vendor code")
		}
		if taken {
			return pkgerrors.Validation(msgCodeExists)
		}

		input.apply(row)
		if err := repo.Create(ctx, row); err != nil {
			return writeError(err, msgCodeExists, "create vendor")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(row), nil
}

func (s *service) Update(ctx context.Context, id uint, input Input) (*VendorDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound(msgNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}

	input, err = normalize(input)
	if err != nil {
		return nil, err
	}

	if input.VendorCode != "" && input.VendorCode != row.VendorCode {
		taken, err := s.repo.CodeTaken(ctx, input.VendorCode, id)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check vendor code")
		}
		if taken {
			return nil, pkgerrors.Validation(msgCodeInUse)
		}
	}

	input.apply(row)
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, writeError(err, msgCodeInUse, "update vendor")
	}
	return FromModel(row), nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete vendor")
	}
	if !found {
		return pkgerrors.NotFound(msgNotFound)
	}
	return nil
}

func normalize(input Input) (Input, error) {
	input.VendorName = strings.TrimSpace(input.VendorName)
	if input.VendorName == "" {
		return input, pkgerrors.Validation(msgNameRequired)
	}
	input.VendorCode = strings.TrimSpace(input.VendorCode)
	input.Address = types.TrimmedString(input.Address)
	input.Email = types.TrimmedString(input.Email)
	input.Phone = types.TrimmedString(input.Phone)
	for _, sku := range input.TaggedSKUs {
		if err := dbtypes.CheckSKU(sku); err != nil {
			return input, pkgerrors.Validation(err.Error())
		}
	}
	if input.Status == "" {
		input.Status = enums.VendorStatusActive
	}
	if !input.Status.IsValid() {
		return input, pkgerrors.Validation(fmt.Sprintf("invalid status %q", input.Status))
	}
	return input, nil
}

func writeError(err error, conflictMsg, action string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Conflict(err, conflictMsg)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
