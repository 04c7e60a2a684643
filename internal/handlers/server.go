package handlers

import (
	"log/slog"
	"net/http"

	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/config"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/db"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/middleware"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/validation"
)

// Server carries the shared dependencies for the admin auth and user
// management endpoints.
type Server struct {
	Cfg  *config.Config
	Cols *db.Collections
	Val  *validation.Validator
	Log  *slog.Logger
}

func (s *Server) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return s.Log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return s.Log.With(slog.String("request_id", id))
	}
	return s.Log
}
