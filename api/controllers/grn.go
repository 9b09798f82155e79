package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/retailflow-backend/api/responses"
	"github.com/angelmondragon/retailflow-backend/api/validators"
	"github.com/angelmondragon/retailflow-backend/internal/grn"
	"github.com/angelmondragon/retailflow-backend/pkg/logger"
)

type grnLineRequest struct {
	SKUCode     string          `json:"sku_code"`
	ReceivedQty decimal.Decimal `json:"received_qty"`
	AcceptedQty decimal.Decimal `json:"accepted_qty"`
	RejectedQty decimal.Decimal `json:"rejected_qty"`
}

// grnRequest accepts a grn_number for compatibility; numbers are always
// issued by the server.
type grnRequest struct {
	GRNNumber    *string          `json:"grn_number"`
	POID         uint             `json:"po_id" validate:"required"`
	ReceivedDate string           `json:"received_date" validate:"required,isodate"`
	Remarks      *string          `json:"remarks"`
	Lines        []grnLineRequest `json:"lines"`
}

func (req grnRequest) toInput() grn.CreateInput {
	in := grn.CreateInput{
		POID:         req.POID,
		ReceivedDate: req.ReceivedDate,
		Remarks:      req.Remarks,
		Lines:        make([]grn.LineInput, 0, len(req.Lines)),
	}
	for _, ln := range req.Lines {
		in.Lines = append(in.Lines, grn.LineInput{
			SKUCode:     ln.SKUCode,
			ReceivedQty: ln.ReceivedQty,
			AcceptedQty: ln.AcceptedQty,
			RejectedQty: ln.RejectedQty,
		})
	}
	return in
}

func GRNList(svc grn.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func GRNCreate(svc grn.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req grnRequest
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
