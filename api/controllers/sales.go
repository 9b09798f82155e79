package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retailflow-backend/api/responses"
	"github.com/angelmondragon/retailflow-backend/api/validators"
	"github.com/angelmondragon/retailflow-backend/internal/sales"
	"github.com/angelmondragon/retailflow-backend/pkg/logger"
)

type saleLineRequest struct {
	SKUCode      string          `json:"sku_code"`
	Description  *string         `json:"description"`
	HSNCode      *string         `json:"hsn_code"`
	Qty          decimal.Decimal `json:"qty"`
	Rate         decimal.Decimal `json:"rate"`
	CGSTRate     decimal.Decimal `json:"cgst_rate"`
	SGSTRate     decimal.Decimal `json:"sgst_rate"`
	IGSTRate     decimal.Decimal `json:"igst_rate"`
	LineSubtotal decimal.Decimal `json:"line_subtotal"`
	LineTax      decimal.Decimal `json:"line_tax"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

type saleRequest struct {
	BillNumber    *string           `json:"bill_number"`
	SaleDate      string            `json:"sale_date" validate:"required,isodate"`
	CustomerName  *string           `json:"customer_name"`
	CustomerEmail *string           `json:"customer_email"`
	CustomerPhone *string           `json:"customer_phone"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	TaxTotal      decimal.Decimal   `json:"tax_total"`
	GrandTotal    decimal.Decimal   `json:"grand_total"`
	Lines         []saleLineRequest `json:"lines"`
}

func (req saleRequest) toInput() sales.CreateInput {
	in := sales.CreateInput{
		SaleDate:      req.SaleDate,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Subtotal:      req.Subtotal,
		TaxTotal:      req.TaxTotal,
		GrandTotal:    req.GrandTotal,
		Lines:         make([]sales.LineInput, 0, len(req.Lines)),
	}
	if req.BillNumber != nil {
		in.BillNumber = *req.BillNumber
	}
	for _, ln := range req.Lines {
		in.Lines = append(in.Lines, sales.LineInput{
			SKUCode:      ln.SKUCode,
			Description:  ln.Description,
			HSNCode:      ln.HSNCode,
			Qty:          ln.Qty,
			Rate:         ln.Rate,
			CGSTRate:     ln.CGSTRate,
			SGSTRate:     ln.SGSTRate,
			IGSTRate:     ln.IGSTRate,
			LineSubtotal: ln.LineSubtotal,
			LineTax:      ln.LineTax,
			LineTotal:    ln.LineTotal,
		})
	}
	return in
}

func SalesList(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func SalesCreate(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.Create(r.Context(), req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}
