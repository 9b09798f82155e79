package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// tableResources names the resource stored in each table so store failures
// can be logged against the document or master record that was rejected.
var tableResources = map[string]string{
	"hsn_master":           "hsn",
	"item_master":          "item",
	"vendor_master":        "vendor",
	"purchase_orders":      "purchase_order",
	"purchase_order_lines": "purchase_order",
	"grn":                  "grn",
	"grn_lines":            "grn",
	"sales":                "sale",
	"sale_lines":           "sale",
	"inventory_stock":      "stock",
	"document_sequences":   "numbering",
}

// ErrorDump is the log view of an error chain. The store fields are filled
// from Postgres errors (pgx or lib/pq) or parsed from SQLite constraint
// messages.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`

	Resource        string `json:"resource,omitempty"`
	StoreCode       string `json:"store_code,omitempty"`
	StoreTable      string `json:"store_table,omitempty"`
	StoreColumn     string `json:"store_column,omitempty"`
	StoreConstraint string `json:"store_constraint,omitempty"`
	StoreDetail     string `json:"store_detail,omitempty"`
}

// Fields flattens the dump for structured logging.
func (d ErrorDump) Fields() map[string]any {
	return map[string]any{
		"error":            d.TopMessage,
		"error_code":       d.Code,
		"error_chain":      d.Chain,
		"resource":         d.Resource,
		"store_code":       d.StoreCode,
		"store_table":      d.StoreTable,
		"store_column":     d.StoreColumn,
		"store_constraint": d.StoreConstraint,
		"store_detail":     d.StoreDetail,
	}
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var pgxErr *pgconn.PgError
	var pqErr *pq.Error
	switch {
	case errors.As(err, &pgxErr):
		d.StoreCode = pgxErr.Code
		d.StoreTable = pgxErr.TableName
		d.StoreColumn = pgxErr.ColumnName
		d.StoreConstraint = pgxErr.ConstraintName
		d.StoreDetail = pgxErr.Detail
	case errors.As(err, &pqErr):
		d.StoreCode = string(pqErr.Code)
		d.StoreTable = pqErr.Table
		d.StoreColumn = pqErr.Column
		d.StoreConstraint = pqErr.Constraint
		d.StoreDetail = pqErr.Detail
	default:
		d.fillFromSQLite(d.TopMessage)
	}

	d.Resource = resourceOf(d.StoreTable, d.StoreConstraint)
	return d
}

// fillFromSQLite reads messages such as
// "UNIQUE constraint failed: vendor_master.vendor_code" and
// "CHECK constraint failed: available_qty >= 0".
func (d *ErrorDump) fillFromSQLite(msg string) {
	for _, kind := range []string{"UNIQUE", "CHECK", "NOT NULL", "FOREIGN KEY"} {
		marker := kind + " constraint failed"
		idx := strings.Index(msg, marker)
		if idx < 0 {
			continue
		}
		d.StoreCode = kind
		target := strings.TrimSpace(strings.TrimPrefix(msg[idx+len(marker):], ":"))
		if first, _, ok := strings.Cut(target, ","); ok {
			target = first
		}
		if table, column, ok := strings.Cut(target, "."); ok && !strings.ContainsAny(table, " ()") {
			d.StoreTable = table
			d.StoreColumn = column
			return
		}
		d.StoreDetail = target
		return
	}
}

// resourceOf prefers the table name and falls back to the uq_<table>_<column>
// naming used by the migrations.
func resourceOf(table, constraint string) string {
	if r, ok := tableResources[table]; ok {
		return r
	}
	name := strings.TrimPrefix(constraint, "uq_")
	best := ""
	for t := range tableResources {
		if strings.HasPrefix(name, t+"_") && len(t) > len(best) {
			best = t
		}
	}
	return tableResources[best]
}
