package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/retailflow-backend/pkg/errors"
)

const (
	DocumentPurchaseOrder = "purchase_order"
	DocumentGRN           = "grn"
	DocumentSale          = "sale"

	DirectionIn  = "in"
	DirectionOut = "out"
)

// DocumentMetrics counts committed and rejected documents and the stock units
// they moved.
type DocumentMetrics struct {
	committed *prometheus.CounterVec
	rejected  *prometheus.CounterVec
	movement  *prometheus.CounterVec
}

// NewDocumentMetrics registers the document metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewDocumentMetrics(reg prometheus.Registerer) *DocumentMetrics {
	if reg == nil {
		return &DocumentMetrics{}
	}
	committed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_committed_total",
		Help:      "Documents persisted, by document type.",
	}, []string{"document"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "documents_rejected_total",
		Help:      "Documents refused before commit, by document type and error code.",
	}, []string{"document", "reason"})
	movement := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stock_movement_units_total",
		Help:      "Stock units credited (in) or debited (out).",
	}, []string{"direction"})
	reg.MustRegister(committed, rejected, movement)
	return &DocumentMetrics{
		committed: committed,
		rejected:  rejected,
		movement:  movement,
	}
}

// IncCommitted counts one persisted document.
func (d *DocumentMetrics) IncCommitted(document string) {
	if d == nil || d.committed == nil {
		return
	}
	d.committed.WithLabelValues(normalizeLabel(document)).Inc()
}

// IncRejected counts one refused document.
func (d *DocumentMetrics) IncRejected(document, reason string) {
	if d == nil || d.rejected == nil {
		return
	}
	d.rejected.WithLabelValues(normalizeLabel(document), normalizeLabel(reason)).Inc()
}

// AddStockMovement adds qty units to the given direction. Non-positive
// quantities are ignored.
func (d *DocumentMetrics) AddStockMovement(direction string, qty decimal.Decimal) {
	if d == nil || d.movement == nil || !qty.IsPositive() {
		return
	}
	d.movement.WithLabelValues(normalizeLabel(direction)).Add(qty.InexactFloat64())
}

// RejectReason derives the rejected-document reason label from a service error.
func RejectReason(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return string(typed.Code())
	}
	return string(pkgerrors.CodeInternal)
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
