package controllers

import (
	"net/http"

	"github.com/angelmondragon/retailflow-backend/api/responses"
	"github.com/angelmondragon/retailflow-backend/api/validators"
	"github.com/angelmondragon/retailflow-backend/internal/vendors"
	"github.com/angelmondragon/retailflow-backend/pkg/enums"
	"github.com/angelmondragon/retailflow-backend/pkg/logger"
)

type vendorRequest struct {
	VendorCode *string  `json:"vendor_code"`
	VendorName string   `json:"vendor_name"`
	Address    *string  `json:"address"`
	Email      *string  `json:"email"`
	Phone      *string  `json:"phone"`
	TaggedSKUs []string `json:"tagged_skus"`
	Status     string   `json:"status"`
}

func (req vendorRequest) toInput() vendors.Input {
	in := vendors.Input{
		VendorName: req.VendorName,
		Address:    req.Address,
		Email:      req.Email,
		Phone:      req.Phone,
		TaggedSKUs: req.TaggedSKUs,
		Status:     enums.VendorStatus(req.Status),
	}
	if req.VendorCode != nil {
		in.VendorCode = *req.VendorCode
	}
	return in
}

func VendorsList(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func VendorsCreate(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req vendorRequest
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

func VendorsUpdate(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req vendorRequest
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

func VendorsDelete(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
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
