package solar

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/middleware"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/transport"
)

var coordinatePattern = regexp.MustCompile(`^-?[0-9]{1,3}(\.[0-9]+)?$`)

type Handler struct {
	client *Client
	log    *slog.Logger
}

func NewHandler(client *Client, log *slog.Logger) *Handler {
	return &Handler{client: client, log: log}
}

// Estimate answers GET requests with lat and lng query parameters. A
// missing integration yields 503, an upstream failure 502.
func (h *Handler) Estimate(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(slog.String("request_id", middleware.RequestIDFromContext(r.Context())))

	if h.client == nil {
		transport.WriteError(w, http.StatusServiceUnavailable, "solar estimates are not configured", nil)
		return
	}

	lat := strings.TrimSpace(r.URL.Query().Get("lat"))
	lng := strings.TrimSpace(r.URL.Query().Get("lng"))
	if !coordinatePattern.MatchString(lat) || !coordinatePattern.MatchString(lng) {
		transport.WriteError(w, http.StatusBadRequest, "lat and lng are required", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	insights, err := h.client.BuildingInsights(ctx, lat, lng)
	if err != nil {
		log.Warn("solar estimate: upstream failure", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadGateway, "solar estimate unavailable", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(insights)
}
