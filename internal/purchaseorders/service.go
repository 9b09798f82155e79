package purchaseorders

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
	"github.com/angelmondragon/retailflow-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/retailflow-backend/pkg/errors"
	"github.com/angelmondragon/retailflow-backend/pkg/logger"
	"github.com/angelmondragon/retailflow-backend/pkg/metrics"
	"github.com/angelmondragon/retailflow-backend/pkg/types"
)

const (
	msgLinesRequired = "PO must have at least one line"
	msgNotFound      = "PO not found"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// vendorLookup resolves vendors for response decoration. Missing vendors are
// not an error.
type vendorLookup interface {
	FindByIDs(ctx context.Context, ids []uint) (map[uint]models.Vendor, error)
}

// Service exposes purchase order operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*PurchaseOrderDTO, error)
	List(ctx context.Context) ([]PurchaseOrderDTO, error)
	Get(ctx context.Context, id uint) (*PurchaseOrderDTO, error)
}

type service struct {
	tx      txRunner
	repo    Repository
	vendors vendorLookup
	logg    *logger.Logger
	metrics *metrics.DocumentMetrics
}

// NewService wires the purchase order service. metrics may be nil.
func NewService(tx txRunner, repo Repository, vendors vendorLookup, logg *logger.Logger, m *metrics.DocumentMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("purchase order repository required")
	}
	if vendors == nil {
		return nil, fmt.Errorf("vendor lookup required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{tx: tx, repo: repo, vendors: vendors, logg: logg, metrics: m}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*PurchaseOrderDTO, error) {
	input, err := normalize(input)
	if err != nil {
		s.metrics.IncRejected(metrics.DocumentPurchaseOrder, metrics.RejectReason(err))
		return nil, err
	}

	po := input.toModel()
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, po); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create purchase order")
		}
		return nil
	})
	if err != nil {
		s.metrics.IncRejected(metrics.DocumentPurchaseOrder, metrics.RejectReason(err))
		return nil, err
	}

	s.metrics.IncCommitted(metrics.DocumentPurchaseOrder)
	logCtx := s.logg.WithDocument(ctx, metrics.DocumentPurchaseOrder, documentNumber(po))
	logCtx = s.logg.WithField(logCtx, "line_count", len(po.Lines))
	s.logg.Info(logCtx, "po.created")

	decorated, err := s.decorate(ctx, []models.PurchaseOrder{*po})
	if err != nil {
		return nil, err
	}
	return &decorated[0], nil
}

func (s *service) List(ctx context.Context) ([]PurchaseOrderDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchase orders")
	}
	return s.decorate(ctx, rows)
}

func (s *service) Get(ctx context.Context, id uint) (*PurchaseOrderDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.NotFound(msgNotFound)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase order")
	}
	decorated, err := s.decorate(ctx, []models.PurchaseOrder{*row})
	if err != nil {
		return nil, err
	}
	return &decorated[0], nil
}

func (s *service) decorate(ctx context.Context, rows []models.PurchaseOrder) ([]PurchaseOrderDTO, error) {
	ids := make([]uint, 0, len(rows))
	seen := make(map[uint]struct{}, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.VendorID]; ok {
			continue
		}
		seen[row.VendorID] = struct{}{}
		ids = append(ids, row.VendorID)
	}

	vendors, err := s.vendors.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendors")
	}

	out := make([]PurchaseOrderDTO, 0, len(rows))
	for i := range rows {
		var vendor *models.Vendor
		if v, ok := vendors[rows[i].VendorID]; ok {
			vendor = &v
		}
		out = append(out, *FromModel(&rows[i], vendor))
	}
	return out, nil
}

func normalize(input CreateInput) (CreateInput, error) {
	if len(input.Lines) == 0 {
		return input, pkgerrors.Validation(msgLinesRequired)
	}
	if input.TaxMode == "" {
		input.TaxMode = enums.TaxModeCGSTSGST
	}
	mode, err := enums.ParseTaxMode(string(input.TaxMode))
	if err != nil {
		return input, pkgerrors.Validation(fmt.Sprintf("invalid tax_mode %q", input.TaxMode))
	}
	input.TaxMode = mode
	input.PONumber = types.TrimmedString(input.PONumber)
	input.PaymentTerms = types.TrimmedString(input.PaymentTerms)
	input.Remarks = types.TrimmedString(input.Remarks)
	input.PODate = strings.TrimSpace(input.PODate)
	input.ExpiryDate = strings.TrimSpace(input.ExpiryDate)

	for i := range input.Lines {
		input.Lines[i].SKUCode = strings.TrimSpace(input.Lines[i].SKUCode)
		input.Lines[i].HSNCode = types.TrimmedString(input.Lines[i].HSNCode)
		input.Lines[i].Description = types.TrimmedString(input.Lines[i].Description)
		if err := checkLineScale(i, input.Lines[i]); err != nil {
			return input, err
		}
	}
	return input, nil
}

// checkLineScale rejects line values the numeric columns would round, which
// would make the stored header totals disagree with the stored lines.
func checkLineScale(i int, ln LineInput) error {
	f, bad := models.FirstOverScale(
		models.Scaled{Field: "qty", Value: ln.Qty, Places: models.QuantityScale},
		models.Scaled{Field: "rate", Value: ln.Rate, Places: models.AmountScale},
		models.Scaled{Field: "cgst_rate", Value: ln.CGSTRate, Places: models.RateScale},
		models.Scaled{Field: "sgst_rate", Value: ln.SGSTRate, Places: models.RateScale},
		models.Scaled{Field: "igst_rate", Value: ln.IGSTRate, Places: models.RateScale},
		models.Scaled{Field: "line_subtotal", Value: ln.LineSubtotal, Places: models.AmountScale},
		models.Scaled{Field: "cgst_amount", Value: ln.CGSTAmount, Places: models.AmountScale},
		models.Scaled{Field: "sgst_amount", Value: ln.SGSTAmount, Places: models.AmountScale},
		models.Scaled{Field: "igst_amount", Value: ln.IGSTAmount, Places: models.AmountScale},
		models.Scaled{Field: "line_total", Value: ln.LineTotal, Places: models.AmountScale},
	)
	if !bad {
		return nil
	}
	return pkgerrors.Validation(fmt.Sprintf("lines[%d].%s allows at most %d decimal places", i, f.Field, f.Places))
}

func documentNumber(po *models.PurchaseOrder) string {
	if po.PONumber != nil {
		return *po.PONumber
	}
	return strconv.FormatUint(uint64(po.ID), 10)
}
