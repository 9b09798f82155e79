package grn

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/retailflow-backend/internal/inventory"
	"github.com/angelmondragon/retailflow-backend/internal/numbering"
	"github.com/angelmondragon/retailflow-backend/internal/purchaseorders"
	"github.com/angelmondragon/retailflow-backend/pkg/db"
	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/retailflow-backend/pkg/errors"
	"github.com/angelmondragon/retailflow-backend/pkg/logger"
	"github.com/angelmondragon/retailflow-backend/pkg/metrics"
	"github.com/angelmondragon/retailflow-backend/pkg/types"
)

const (
	msgPONotFound    = "PO not found"
	msgLinesRequired = "GRN must have at least one line"
	msgNoValidLines  = "No valid GRN lines"
	msgNumberExists  = "GRN number already exists"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sequencer interface {
	Next(ctx context.Context, tx *gorm.DB, series numbering.Series) (string, error)
}

// Service records goods receipts and credits the stock ledger.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*GRNDTO, error)
	List(ctx context.Context) ([]GRNDTO, error)
}

// Deps groups the collaborators of the GRN service.
type Deps struct {
	Tx             txRunner
	Repo           Repository
	PurchaseOrders purchaseorders.Repository
	Ledger         inventory.Repository
	Sequencer      sequencer
	Logger         *logger.Logger
	Metrics        *metrics.DocumentMetrics
}

type service struct {
	tx      txRunner
	repo    Repository
	pos     purchaseorders.Repository
	ledger  inventory.Repository
	seq     sequencer
	logg    *logger.Logger
	metrics *metrics.DocumentMetrics
}

func NewService(deps Deps) (Service, error) {
	if deps.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if deps.Repo == nil {
		return nil, fmt.Errorf("grn repository required")
	}
	if deps.PurchaseOrders == nil {
		return nil, fmt.Errorf("purchase order repository required")
	}
	if deps.Ledger == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	seq := deps.Sequencer
	if seq == nil {
		seq = numbering.NewSequencer()
	}
	return &service{
		tx:      deps.Tx,
		repo:    deps.Repo,
		pos:     deps.PurchaseOrders,
		ledger:  deps.Ledger,
		seq:     seq,
		logg:    deps.Logger,
		metrics: deps.Metrics,
	}, nil
}

// Create persists the GRN header, its lines and the stock credits for the
// accepted quantities in one transaction.
func (s *service) Create(ctx context.Context, input CreateInput) (*GRNDTO, error) {
	row := &models.GRN{
		POID:         input.POID,
		ReceivedDate: strings.TrimSpace(input.ReceivedDate),
		Remarks:      types.TrimmedString(input.Remarks),
	}
	var credits creditPlan

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		exists, err := s.pos.WithTx(tx).Exists(ctx, input.POID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase order")
		}
		if !exists {
			return pkgerrors.NotFound(msgPONotFound)
		}

		lines, plan, err := buildLines(input.Lines)
		if err != nil {
			return err
		}
		row.Lines = lines
		credits = plan

		number, err := s.seq.Next(ctx, tx, numbering.GRNNumbers)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate grn number")
		}
		row.GRNNumber = number

		if err := s.repo.WithTx(tx).Create(ctx, row); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Conflict(err, msgNumberExists)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create grn")
		}

		ledger := s.ledger.WithTx(tx)
		for _, sku := range credits.order {
			if err := ledger.Credit(ctx, sku, credits.qty[sku]); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit stock")
			}
		}
		return nil
	})
	if err != nil {
		s.metrics.IncRejected(metrics.DocumentGRN, metrics.RejectReason(err))
		return nil, err
	}

	s.metrics.IncCommitted(metrics.DocumentGRN)
	s.metrics.AddStockMovement(metrics.DirectionIn, credits.total())

	logCtx := s.logg.WithDocument(ctx, metrics.DocumentGRN, row.GRNNumber)
	logCtx = s.logg.WithFields(logCtx, map[string]any{
		"po_id":       row.POID,
		"line_count":  len(row.Lines),
		"sku_credits": len(credits.order),
	})
	s.logg.Info(logCtx, "grn.created")
	for _, sku := range credits.order {
		s.logg.Debug(s.logg.WithStockMove(logCtx, sku, metrics.DirectionIn, credits.qty[sku].String()), "stock.credited")
	}

	return FromModel(row), nil
}

func (s *service) List(ctx context.Context) ([]GRNDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list grns")
	}
	out := make([]GRNDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

// creditPlan accumulates accepted quantities per SKU in first-seen order.
type creditPlan struct {
	order []string
	qty   map[string]decimal.Decimal
}

func (p creditPlan) total() decimal.Decimal {
	sum := decimal.Zero
	for _, sku := range p.order {
		sum = sum.Add(p.qty[sku])
	}
	return sum
}

// buildLines drops lines without a positive received quantity and plans a
// credit for every positive accepted quantity.
func buildLines(in []LineInput) ([]models.GRNLine, creditPlan, error) {
	plan := creditPlan{qty: map[string]decimal.Decimal{}}
	if len(in) == 0 {
		return nil, plan, pkgerrors.Validation(msgLinesRequired)
	}

	lines := make([]models.GRNLine, 0, len(in))
	for i, ln := range in {
		sku := strings.TrimSpace(ln.SKUCode)
		if sku == "" || !ln.ReceivedQty.IsPositive() {
			continue
		}
		if f, bad := models.FirstOverScale(
			models.Scaled{Field: "received_qty", Value: ln.ReceivedQty, Places: models.QuantityScale},
			models.Scaled{Field: "accepted_qty", Value: ln.AcceptedQty, Places: models.QuantityScale},
			models.Scaled{Field: "rejected_qty", Value: ln.RejectedQty, Places: models.QuantityScale},
		); bad {
			return nil, plan, pkgerrors.Validation(fmt.Sprintf("lines[%d].%s allows at most %d decimal places", i, f.Field, f.Places))
		}
		lines = append(lines, models.GRNLine{
			SKUCode:     sku,
			ReceivedQty: ln.ReceivedQty,
			AcceptedQty: ln.AcceptedQty,
			RejectedQty: ln.RejectedQty,
		})
		if !ln.AcceptedQty.IsPositive() {
			continue
		}
		if _, ok := plan.qty[sku]; !ok {
			plan.order = append(plan.order, sku)
			plan.qty[sku] = decimal.Zero
		}
		plan.qty[sku] = plan.qty[sku].Add(ln.AcceptedQty)
	}
	if len(lines) == 0 {
		return nil, plan, pkgerrors.Validation(msgNoValidLines)
	}
	return lines, plan, nil
}
