package leads

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/httpx"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/middleware"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/transport"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/validation"
	"github.com/go-chi/chi/v5"
)

// Dispatcher runs a named side-effect off the request path. Failures are
// logged centrally and never propagate to the caller.
type Dispatcher interface {
	Go(name string, fn func(ctx context.Context) error)
}

// SnapshotClearer drops the cached funnel snapshot once a session reaches
// its terminal write.
type SnapshotClearer interface {
	Clear(ctx context.Context, sessionID string) error
}

type Handler struct {
	service   *Service
	val       *validation.Validator
	log       *slog.Logger
	dispatch  Dispatcher
	snapshots SnapshotClearer
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger, dispatch Dispatcher, snapshots SnapshotClearer) *Handler {
	return &Handler{
		service:   service,
		val:       val,
		log:       log,
		dispatch:  dispatch,
		snapshots: snapshots,
	}
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req SubmitRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("lead submit: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("lead submit: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	lead, err := h.service.Submit(ctx, req)
	if err != nil {
		if errors.Is(err, ErrIncomplete) {
			transport.WriteError(w, http.StatusBadRequest, "final submission missing contact fields", nil)
			return
		}
		log.Error("lead submit: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	// Final submissions fan out three independent side-effects. Each is
	// best-effort relative to the others and to the response.
	if !lead.IsPartial {
		submitted := lead
		h.dispatch.Go("meta pixel lead event", func(ctx context.Context) error {
			return h.service.NotifyPixel(ctx, submitted)
		})
		h.dispatch.Go("ga4 lead event", func(ctx context.Context) error {
			return h.service.NotifyAnalytics(ctx, submitted)
		})
		if req.SendEmailNotification {
			h.dispatch.Go("new lead email", func(ctx context.Context) error {
				return h.service.NotifyNewLead(ctx, submitted)
			})
		}
		if h.snapshots != nil {
			h.dispatch.Go("funnel snapshot clear", func(ctx context.Context) error {
				return h.snapshots.Clear(ctx, submitted.SessionID)
			})
		}
	}

	log.Info("lead submit: ok",
		slog.String("session_id", lead.SessionID),
		slog.Bool("is_partial", lead.IsPartial),
		slog.Int("current_step", lead.CurrentStep),
	)
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"id":        lead.ID,
		"sessionId": lead.SessionID,
		"isPartial": lead.IsPartial,
	})
}

func (h *Handler) CreateDisqualified(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req DisqualifiedRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("disqualified lead: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("disqualified lead: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	lead, err := h.service.CreateDisqualified(ctx, req)
	if err != nil {
		log.Error("disqualified lead: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	created := lead
	h.dispatch.Go("disqualified lead email", func(ctx context.Context) error {
		return h.service.NotifyDisqualified(ctx, created)
	})
	h.dispatch.Go("disqualified lead sms", func(ctx context.Context) error {
		return h.service.NotifyDisqualifiedSMS(ctx, created)
	})

	log.Info("disqualified lead: stored",
		slog.String("lead_id", lead.ID),
		slog.String("reason", lead.DisqualificationReason),
	)
	transport.WriteJSON(w, http.StatusOK, lead)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 20, 100)
	if err != nil {
		log.Warn("admin leads list: invalid query", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	filter := ListFilter{
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
	}
	switch strings.TrimSpace(r.URL.Query().Get("partial")) {
	case "true":
		v := true
		filter.Partial = &v
	case "false":
		v := false
		filter.Partial = &v
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.ListAdmin(ctx, filter, limit, offset)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			transport.WriteError(w, http.StatusBadRequest, "invalid query", map[string]string{"status": "oneof"})
			return
		}
		log.Error("admin leads list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin leads list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

func (h *Handler) AdminListDisqualified(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 20, 100)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, err := h.service.ListDisqualifiedAdmin(ctx, limit, offset)
	if err != nil {
		log.Error("admin disqualified list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin disqualified list: ok", slog.Int("count", len(items)))
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
	})
}

func (h *Handler) AdminGetByID(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	lead, err := h.service.GetAdminByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin lead get: not found", slog.String("lead_id", id))
			transport.WriteError(w, http.StatusNotFound, "lead not found", nil)
			return
		}
		log.Error("admin lead get: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin lead get: ok", slog.String("lead_id", id))
	transport.WriteJSON(w, http.StatusOK, lead)
}

func (h *Handler) AdminUpdateStatus(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing id", nil)
		return
	}

	var req AdminStatusUpdateRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("admin lead status: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("admin lead status: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	lead, err := h.service.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			transport.WriteError(w, http.StatusBadRequest, "validation error", map[string]string{"status": "oneof"})
			return
		}
		if errors.Is(err, ErrNotFound) {
			log.Warn("admin lead status: not found", slog.String("lead_id", id))
			transport.WriteError(w, http.StatusNotFound, "lead not found", nil)
			return
		}
		log.Error("admin lead status: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	log.Info("admin lead status: ok", slog.String("lead_id", id), slog.String("status", lead.Status))
	transport.WriteJSON(w, http.StatusOK, lead)
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if r == nil {
		return h.log
	}
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}
