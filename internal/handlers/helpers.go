package handlers

import (
	"net/http"

	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/httpx"
	"github.com/go-playground/validator/v10"
)

func decodeJSON(r *http.Request, v interface{}) error {
	return httpx.DecodeJSON(r.Body, v)
}

func validationDetails(errs validator.ValidationErrors) map[string]string {
	return httpx.ValidationDetails(errs)
}
