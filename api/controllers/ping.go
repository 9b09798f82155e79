package controllers

import (
	"net/http"

	"github.com/angelmondragon/retailflow-backend/api/responses"
)

func Ping() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"status":  "ok",
			"message": "RetailFlow backend is alive.",
		})
	}
}
