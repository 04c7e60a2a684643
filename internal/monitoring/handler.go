package monitoring

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/middleware"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/projects"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/transport"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	client   *Client
	projects *projects.Service
	log      *slog.Logger
}

func NewHandler(client *Client, projectService *projects.Service, log *slog.Logger) *Handler {
	return &Handler{client: client, projects: projectService, log: log}
}

// ProjectTelemetry resolves a project's monitoring system id and proxies
// its production summary. Projects without a linked system yield 404.
func (h *Handler) ProjectTelemetry(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(slog.String("request_id", middleware.RequestIDFromContext(r.Context())))

	if h.client == nil {
		transport.WriteError(w, http.StatusServiceUnavailable, "monitoring is not configured", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	project, err := h.projects.GetByID(ctx, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, projects.ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "project not found", nil)
			return
		}
		log.Error("monitoring: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}
	if project.MonitoringSystemID == "" {
		transport.WriteError(w, http.StatusNotFound, "project has no monitoring system", nil)
		return
	}

	summary, err := h.client.SystemSummary(ctx, project.MonitoringSystemID)
	if err != nil {
		log.Warn("monitoring: upstream failure",
			slog.String("project_id", project.ID),
			slog.String("error", err.Error()),
		)
		transport.WriteError(w, http.StatusBadGateway, "telemetry unavailable", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(summary)
}
