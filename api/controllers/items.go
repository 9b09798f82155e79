package controllers

import (
	"net/http"

	"github.com/angelmondragon/retailflow-backend/api/responses"
	"github.com/angelmondragon/retailflow-backend/api/validators"
	"github.com/angelmondragon/retailflow-backend/internal/items"
	"github.com/angelmondragon/retailflow-backend/pkg/enums"
	"github.com/angelmondragon/retailflow-backend/pkg/logger"
)

type itemRequest struct {
	SKUCode       string  `json:"sku_code" validate:"required,sku"`
	Brand         *string `json:"brand"`
	Division      *string `json:"division"`
	Category      *string `json:"category"`
	SubCategory   *string `json:"sub_category"`
	Style         *string `json:"style"`
	Color         *string `json:"color"`
	Size          *string `json:"size"`
	HSNCode       *string `json:"hsn_code"`
	Status        string  `json:"status"`
	ImagePath     *string `json:"image_path"`
	MinStockLevel *int    `json:"min_stock_level" validate:"omitempty,min=0"`
}

func (req itemRequest) toInput() items.Input {
	return items.Input{
		SKUCode:       req.SKUCode,
		Brand:         req.Brand,
		Division:      req.Division,
		Category:      req.Category,
		SubCategory:   req.SubCategory,
		Style:         req.Style,
		Color:         req.Color,
		Size:          req.Size,
		HSNCode:       req.HSNCode,
		Status:        enums.ItemStatus(req.Status),
		ImagePath:     req.ImagePath,
		MinStockLevel: req.MinStockLevel,
	}
}

func ItemsList(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func ItemsCreate(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req itemRequest
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

func ItemsUpdate(svc items.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req itemRequest
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

func ItemsDelete(svc items.Service, logg *logger.Logger) http.HandlerFunc {
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
