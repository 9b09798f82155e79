package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retailflow-backend/api/responses"
	"github.com/angelmondragon/retailflow-backend/api/validators"
	"github.com/angelmondragon/retailflow-backend/internal/purchaseorders"
	"github.com/angelmondragon/retailflow-backend/pkg/enums"
	"github.com/angelmondragon/retailflow-backend/pkg/logger"
)

type purchaseOrderLineRequest struct {
	SKUCode      string          `json:"sku_code" validate:"required,sku"`
	Description  *string         `json:"description"`
	Qty          decimal.Decimal `json:"qty" validate:"gte=0"`
	Rate         decimal.Decimal `json:"rate" validate:"gte=0"`
	HSNCode      *string         `json:"hsn_code"`
	CGSTRate     decimal.Decimal `json:"cgst_rate" validate:"gte=0"`
	SGSTRate     decimal.Decimal `json:"sgst_rate" validate:"gte=0"`
	IGSTRate     decimal.Decimal `json:"igst_rate" validate:"gte=0"`
	LineSubtotal decimal.Decimal `json:"line_subtotal" validate:"gte=0"`
	CGSTAmount   decimal.Decimal `json:"cgst_amount" validate:"gte=0"`
	SGSTAmount   decimal.Decimal `json:"sgst_amount" validate:"gte=0"`
	IGSTAmount   decimal.Decimal `json:"igst_amount" validate:"gte=0"`
	LineTotal    decimal.Decimal `json:"line_total" validate:"gte=0"`
}

type purchaseOrderRequest struct {
	PONumber        *string                    `json:"po_number"`
	PODate          string                     `json:"po_date" validate:"required,isodate"`
	ExpiryDate      string                     `json:"expiry_date" validate:"required,isodate"`
	PaymentTerms    *string                    `json:"payment_terms"`
	Remarks         *string                    `json:"remarks"`
	TaxMode         string                     `json:"tax_mode"`
	VendorID        uint                       `json:"vendor_id" validate:"required"`
	RetailerName    string                     `json:"retailer_name" validate:"required"`
	RetailerAddress string                     `json:"retailer_address" validate:"required"`
	RetailerGSTIN   string                     `json:"retailer_gstin" validate:"required"`
	Lines           []purchaseOrderLineRequest `json:"lines" validate:"dive"`
}

func (req purchaseOrderRequest) toInput() purchaseorders.CreateInput {
	in := purchaseorders.CreateInput{
		PONumber:        req.PONumber,
		PODate:          req.PODate,
		ExpiryDate:      req.ExpiryDate,
		PaymentTerms:    req.PaymentTerms,
		Remarks:         req.Remarks,
		TaxMode:         enums.TaxMode(req.TaxMode),
		VendorID:        req.VendorID,
		RetailerName:    req.RetailerName,
		RetailerAddress: req.RetailerAddress,
		RetailerGSTIN:   req.RetailerGSTIN,
		Lines:           make([]purchaseorders.LineInput, 0, len(req.Lines)),
	}
	for _, ln := range req.Lines {
		in.Lines = append(in.Lines, purchaseorders.LineInput{
			SKUCode:      ln.SKUCode,
			HSNCode:      ln.HSNCode,
			Description:  ln.Description,
			Qty:          ln.Qty,
			Rate:         ln.Rate,
			CGSTRate:     ln.CGSTRate,
			SGSTRate:     ln.SGSTRate,
			IGSTRate:     ln.IGSTRate,
			LineSubtotal: ln.LineSubtotal,
			CGSTAmount:   ln.CGSTAmount,
			SGSTAmount:   ln.SGSTAmount,
			IGSTAmount:   ln.IGSTAmount,
			LineTotal:    ln.LineTotal,
		})
	}
	return in
}

func PurchaseOrdersList(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func PurchaseOrdersGet(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

func PurchaseOrdersCreate(svc purchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req purchaseOrderRequest
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
