package sales

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/retailflow-backend/internal/inventory"
	"github.com/angelmondragon/retailflow-backend/internal/numbering"
	"github.com/angelmondragon/retailflow-backend/pkg/db"
	"github.com/angelmondragon/retailflow-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/retailflow-backend/pkg/errors"
	"github.com/angelmondragon/retailflow-backend/pkg/logger"
	"github.com/angelmondragon/retailflow-backend/pkg/metrics"
	"github.com/angelmondragon/retailflow-backend/pkg/types"
)

const (
	msgLinesRequired = "Sale must have at least one line"
	msgNoValidLines  = "No valid sale lines"
	msgBillExists    = "Bill number already exists"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type sequencer interface {
	Next(ctx context.Context, tx *gorm.DB, series numbering.Series) (string, error)
}

// Service records sales and debits the stock ledger.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*SaleDTO, error)
	List(ctx context.Context) ([]SaleDTO, error)
}

// Deps groups the collaborators of the sales service.
type Deps struct {
	Tx        txRunner
	Repo      Repository
	Ledger    inventory.Repository
	Sequencer sequencer
	Logger    *logger.Logger
	Metrics   *metrics.DocumentMetrics
}

type service struct {
	tx      txRunner
	repo    Repository
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
		return nil, fmt.Errorf("sales repository required")
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
		ledger:  deps.Ledger,
		seq:     seq,
		logg:    deps.Logger,
		metrics: deps.Metrics,
	}, nil
}

// Create validates stock for every SKU under row locks, persists the bill
// and debits the ledger in one transaction. Any failure leaves both the
// sales tables and the ledger untouched.
func (s *service) Create(ctx context.Context, input CreateInput) (*SaleDTO, error) {
	sale, demand, err := buildSale(input)
	if err != nil {
		s.metrics.IncRejected(metrics.DocumentSale, metrics.RejectReason(err))
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ledger := s.ledger.WithTx(tx)
		repo := s.repo.WithTx(tx)

		stock, err := ledger.LockForUpdate(ctx, demand.order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock stock")
		}
		for _, sku := range demand.order {
			entry, ok := stock[sku]
			if !ok {
				return pkgerrors.Validation(fmt.Sprintf("No stock row for SKU %s", sku))
			}
			if entry.AvailableQty.LessThan(demand.qty[sku]) {
				return insufficient(sku, entry.AvailableQty, demand.qty[sku])
			}
		}

		if sale.BillNumber == "" {
			number, err := s.seq.Next(ctx, tx, numbering.BillNumbers)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate bill number")
			}
			sale.BillNumber = number
		} else {
			taken, err := repo.BillNumberTaken(ctx, sale.BillNumber)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check bill number")
			}
			if taken {
				return pkgerrors.Validation(msgBillExists)
			}
		}

		if err := repo.Create(ctx, sale); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Conflict(err, msgBillExists)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create sale")
		}

		for _, sku := range demand.order {
			ok, err := ledger.Debit(ctx, sku, demand.qty[sku])
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit stock")
			}
			if !ok {
				return insufficient(sku, stock[sku].AvailableQty, demand.qty[sku])
			}
		}
		return nil
	})
	if err != nil {
		s.metrics.IncRejected(metrics.DocumentSale, metrics.RejectReason(err))
		return nil, err
	}

	s.metrics.IncCommitted(metrics.DocumentSale)
	s.metrics.AddStockMovement(metrics.DirectionOut, demand.total())

	logCtx := s.logg.WithDocument(ctx, metrics.DocumentSale, sale.BillNumber)
	logCtx = s.logg.WithField(logCtx, "line_count", len(sale.Lines))
	s.logg.Info(logCtx, "sale.created")
	for _, sku := range demand.order {
		s.logg.Debug(s.logg.WithStockMove(logCtx, sku, metrics.DirectionOut, demand.qty[sku].String()), "stock.debited")
	}

	return FromModel(sale), nil
}

func (s *service) List(ctx context.Context) ([]SaleDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}
	out := make([]SaleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

// demandPlan is the quantity sold per SKU in first-seen order.
type demandPlan struct {
	order []string
	qty   map[string]decimal.Decimal
}

func (p demandPlan) total() decimal.Decimal {
	sum := decimal.Zero
	for _, sku := range p.order {
		sum = sum.Add(p.qty[sku])
	}
	return sum
}

func buildSale(input CreateInput) (*models.Sale, demandPlan, error) {
	demand := demandPlan{qty: map[string]decimal.Decimal{}}
	if len(input.Lines) == 0 {
		return nil, demand, pkgerrors.Validation(msgLinesRequired)
	}

	sale := &models.Sale{
		BillNumber:    strings.TrimSpace(input.BillNumber),
		SaleDate:      strings.TrimSpace(input.SaleDate),
		CustomerName:  types.TrimmedString(input.CustomerName),
		CustomerEmail: types.TrimmedString(input.CustomerEmail),
		CustomerPhone: types.TrimmedString(input.CustomerPhone),
		Subtotal:      input.Subtotal,
		TaxTotal:      input.TaxTotal,
		GrandTotal:    input.GrandTotal,
		Lines:         make([]models.SaleLine, 0, len(input.Lines)),
	}
	if f, bad := models.FirstOverScale(
		models.Scaled{Field: "subtotal", Value: input.Subtotal, Places: models.AmountScale},
		models.Scaled{Field: "tax_total", Value: input.TaxTotal, Places: models.AmountScale},
		models.Scaled{Field: "grand_total", Value: input.GrandTotal, Places: models.AmountScale},
	); bad {
		return nil, demand, scaleError(f)
	}
	for i, ln := range input.Lines {
		sku := strings.TrimSpace(ln.SKUCode)
		if sku == "" || !ln.Qty.IsPositive() {
			continue
		}
		if f, bad := ln.overScale(); bad {
			f.Field = fmt.Sprintf("lines[%d].%s", i, f.Field)
			return nil, demand, scaleError(f)
		}
		sale.Lines = append(sale.Lines, ln.toModel(sku))
		if _, ok := demand.qty[sku]; !ok {
			demand.order = append(demand.order, sku)
			demand.qty[sku] = decimal.Zero
		}
		demand.qty[sku] = demand.qty[sku].Add(ln.Qty)
	}
	if len(sale.Lines) == 0 {
		return nil, demand, pkgerrors.Validation(msgNoValidLines)
	}
	return sale, demand, nil
}

func scaleError(f models.Scaled) error {
	return pkgerrors.Validation(fmt.Sprintf("%s allows at most %d decimal places", f.Field, f.Places))
}

func insufficient(sku string, available, sold decimal.Decimal) error {
	return pkgerrors.Validation(fmt.Sprintf("Insufficient stock for %s. Available=%s, Sold=%s", sku, available.String(), sold.String()))
}
