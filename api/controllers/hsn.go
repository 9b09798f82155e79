package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retailflow-backend/api/responses"
	"github.com/angelmondragon/retailflow-backend/api/validators"
	"github.com/angelmondragon/retailflow-backend/internal/hsn"
	"github.com/angelmondragon/retailflow-backend/pkg/logger"
)

type hsnRequest struct {
	HSNCode     string          `json:"hsn_code" validate:"required"`
	Description *string         `json:"description"`
	CGSTRate    decimal.Decimal `json:"cgst_rate" validate:"gte=0"`
	SGSTRate    decimal.Decimal `json:"sgst_rate" validate:"gte=0"`
	IGSTRate    decimal.Decimal `json:"igst_rate" validate:"gte=0"`
}

func (req hsnRequest) toInput() hsn.Input {
	return hsn.Input{
		HSNCode:     req.HSNCode,
		Description: req.Description,
		CGSTRate:    req.CGSTRate,
		SGSTRate:    req.SGSTRate,
		IGSTRate:    req.IGSTRate,
	}
}

func HSNList(svc hsn.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func HSNCreate(svc hsn.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req hsnRequest
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

func HSNUpdate(svc hsn.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req hsnRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		row, err := svc.Update(r.Context(), id, req.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

func HSNDelete(svc hsn.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.Deleted(w)
	}
}
