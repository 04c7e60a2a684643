package funnel

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/httpx"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/middleware"
	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/transport"
	"github.com/go-chi/chi/v5"
)

// Save reasons accepted by the snapshot endpoint.
const (
	SaveReasonAutosave = "autosave"
	SaveReasonUnload   = "unload"
)

type Handler struct {
	store    *SnapshotStore
	location *time.Location
	log      *slog.Logger
}

func NewHandler(store *SnapshotStore, location *time.Location, log *slog.Logger) *Handler {
	return &Handler{store: store, location: location, log: log}
}

type saveRequest struct {
	Reason  string  `json:"reason"`
	Session Session `json:"session"`
}

type saveResponse struct {
	Saved   bool       `json:"saved"`
	SavedAt *time.Time `json:"savedAt,omitempty"`
}

// Save persists a session snapshot when the persistence policy allows it.
// Autosaves only land on cadence steps after consent; unload flushes
// additionally require a phone number. A skipped save is still a 200 so
// the browser never retries it.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req saveRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("funnel save: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}
	if strings.TrimSpace(req.Session.SessionID) == "" {
		transport.WriteError(w, http.StatusBadRequest, "missing session id", nil)
		return
	}

	eligible := false
	switch req.Reason {
	case SaveReasonUnload:
		eligible = req.Session.EligibleForUnloadFlush()
	case SaveReasonAutosave, "":
		eligible = req.Session.ShouldAutosave()
	default:
		transport.WriteError(w, http.StatusBadRequest, "invalid save reason", nil)
		return
	}
	if !eligible {
		transport.WriteJSON(w, http.StatusOK, saveResponse{Saved: false})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	now := time.Now().In(h.location)
	if err := h.store.Save(ctx, &req.Session, now); err != nil {
		log.Warn("funnel save: cache error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "cache error", nil)
		return
	}

	log.Info("funnel save: ok",
		slog.String("session_id", req.Session.SessionID),
		slog.Int("current_step", req.Session.CurrentStep),
		slog.String("reason", req.Reason),
	)
	transport.WriteJSON(w, http.StatusOK, saveResponse{Saved: true, SavedAt: &now})
}

// Resume returns the stored snapshot for a session, or 404 when none
// survives.
func (h *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	sessionID := chi.URLParam(r, "sessionID")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	session, ok, err := h.store.Load(ctx, sessionID)
	if err != nil {
		log.Warn("funnel resume: cache error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "cache error", nil)
		return
	}
	if !ok {
		transport.WriteError(w, http.StatusNotFound, "no saved session", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, session)
}

// Discard drops a stored snapshot, backing the funnel's restart action.
func (h *Handler) Discard(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	sessionID := chi.URLParam(r, "sessionID")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.store.Clear(ctx, sessionID); err != nil {
		log.Warn("funnel discard: cache error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "cache error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	return h.log.With(slog.String("request_id", middleware.RequestIDFromContext(r.Context())))
}
