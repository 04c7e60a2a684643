package uploads

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
)

// Dispatcher runs a named side-effect off the request path.
type Dispatcher interface {
	Go(name string, fn func(ctx context.Context) error)
}

type Handler struct {
	service  *Service
	val      *validation.Validator
	log      *slog.Logger
	dispatch Dispatcher
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger, dispatch Dispatcher) *Handler {
	return &Handler{
		service:  service,
		val:      val,
		log:      log,
		dispatch: dispatch,
	}
}

// UploadBill accepts a utility bill as multipart field "file" plus the
// homeowner's contact details.
func (h *Handler) UploadBill(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		log.Warn("bill upload: invalid multipart body")
		transport.WriteError(w, http.StatusBadRequest, "invalid multipart body", nil)
		return
	}

	meta := BillMeta{
		FirstName: strings.TrimSpace(r.FormValue("firstName")),
		LastName:  strings.TrimSpace(r.FormValue("lastName")),
		Email:     strings.TrimSpace(r.FormValue("email")),
		Phone:     strings.TrimSpace(r.FormValue("phone")),
		SourceTag: strings.TrimSpace(r.FormValue("sourceTag")),
	}
	if err := h.val.Struct(meta); err != nil {
		log.Warn("bill upload: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, "missing file field", nil)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if err := ValidateFile(contentType, header.Size); err != nil {
		log.Warn("bill upload: rejected file",
			slog.String("content_type", contentType),
			slog.Int64("size", header.Size),
		)
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	artifact, err := h.service.ProcessBill(ctx, meta, header.Filename, contentType, header.Size, file)
	if err != nil {
		log.Error("bill upload: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	stored := artifact
	h.dispatch.Go("bill upload email", func(ctx context.Context) error {
		return h.service.NotifyBillUpload(ctx, stored)
	})

	log.Info("bill upload: ok",
		slog.String("artifact_id", artifact.ID),
		slog.String("status", artifact.Status),
	)
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"id":      artifact.ID,
		"status":  artifact.Status,
		"url":     artifact.URL,
	})
}

// UploadPhotos accepts a batch of installation photos as multipart field
// "photos" plus a submissionType field.
func (h *Handler) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	// Headroom for a handful of photos in one request.
	if err := r.ParseMultipartForm(6 * MaxUploadBytes); err != nil {
		log.Warn("photo upload: invalid multipart body")
		transport.WriteError(w, http.StatusBadRequest, "invalid multipart body", nil)
		return
	}

	meta := PhotoMeta{
		SubmissionType: strings.TrimSpace(r.FormValue("submissionType")),
		Technician:     strings.TrimSpace(r.FormValue("technician")),
		ProjectID:      strings.TrimSpace(r.FormValue("projectId")),
		Latitude:       strings.TrimSpace(r.FormValue("latitude")),
		Longitude:      strings.TrimSpace(r.FormValue("longitude")),
	}
	if err := h.val.Struct(meta); err != nil {
		log.Warn("photo upload: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["photos"]) == 0 {
		transport.WriteError(w, http.StatusBadRequest, "no files in request", nil)
		return
	}

	files := make([]PhotoFile, 0, len(r.MultipartForm.File["photos"]))
	for _, header := range r.MultipartForm.File["photos"] {
		f, err := header.Open()
		if err != nil {
			transport.WriteError(w, http.StatusBadRequest, "unreadable file part", nil)
			return
		}
		defer f.Close()

		files = append(files, PhotoFile{
			Name:        header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        f,
		})
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	summary, err := h.service.ProcessPhotos(ctx, meta, files)
	if err != nil {
		switch {
		case errors.Is(err, ErrSubmissionType):
			transport.WriteError(w, http.StatusBadRequest, "invalid submission type", nil)
		case errors.Is(err, ErrNoFiles):
			transport.WriteError(w, http.StatusBadRequest, "no files in request", nil)
		default:
			log.Error("photo upload: database error", slog.String("error", err.Error()))
			transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		}
		return
	}

	log.Info("photo upload: done",
		slog.String("status", summary.Status),
		slog.Int("stored", summary.Stored),
		slog.Int("failed", summary.Failed),
	)
	transport.WriteJSON(w, http.StatusCreated, summary)
}

func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)
	limit, offset, err := httpx.ParseLimitOffset(r.URL.Query(), 20, 100)
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	kind := strings.TrimSpace(r.URL.Query().Get("kind"))
	if kind != "" && kind != KindBill && kind != KindPhoto {
		transport.WriteError(w, http.StatusBadRequest, "invalid kind", nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	items, total, err := h.service.ListAdmin(ctx, kind, limit, offset)
	if err != nil {
		log.Error("uploads list: database error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "database error", nil)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	return h.log.With(slog.String("request_id", middleware.RequestIDFromContext(r.Context())))
}
