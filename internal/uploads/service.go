package uploads

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNoFiles        = errors.New("no files in request")
	ErrSubmissionType = errors.New("invalid submission type")
)

// EmailNotifier sends the sales team a heads-up about a freshly uploaded
// utility bill.
type EmailNotifier interface {
	SendBillUploadNotification(ctx context.Context, artifact Artifact) (string, error)
}

// PhotoFile is one file lifted out of a multipart photo batch.
type PhotoFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.ReadSeeker
}

type Service struct {
	repo     Repository
	storage  Storage
	location *time.Location
	mailer   EmailNotifier
	log      *slog.Logger
}

func NewService(repo Repository, storage Storage, location *time.Location, mailer EmailNotifier, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		storage:  storage,
		location: location,
		mailer:   mailer,
		log:      log,
	}
}

// ProcessBill stores a utility bill and records the artifact. A storage
// failure is recorded on the artifact instead of failing the request; the
// contact details are the part the sales team cannot lose.
func (s *Service) ProcessBill(ctx context.Context, meta BillMeta, name, contentType string, size int64, body io.ReadSeeker) (Artifact, error) {
	artifact := Artifact{
		ID:           primitive.NewObjectID().Hex(),
		Kind:         KindBill,
		SourceTag:    strings.TrimSpace(meta.SourceTag),
		FirstName:    strings.TrimSpace(meta.FirstName),
		LastName:     strings.TrimSpace(meta.LastName),
		Email:        strings.ToLower(strings.TrimSpace(meta.Email)),
		Phone:        strings.TrimSpace(meta.Phone),
		OriginalName: name,
		StoredName:   GenerateStoredName(name),
		ContentType:  contentType,
		SizeBytes:    size,
		Status:       StatusReceived,
		CreatedAt:    time.Now().In(s.location),
	}

	if s.storage != nil {
		artifact.Status = StatusProcessing
		url, err := s.storage.Put(ctx, artifact.StoredName, contentType, body)
		if err != nil {
			s.log.Warn("bill upload: storage failed",
				slog.String("artifact_id", artifact.ID),
				slog.String("error", err.Error()),
			)
			artifact.Status = StatusFailed
			artifact.FailureReason = err.Error()
		} else {
			artifact.Status = StatusCompleted
			artifact.URL = url
		}
	}

	if err := s.repo.Insert(ctx, artifact); err != nil {
		return Artifact{}, err
	}
	return artifact, nil
}

// ProcessPhotos handles an installation photo batch one file at a time.
// Each file succeeds or fails on its own; the summary carries the
// per-file breakdown and the overall status.
func (s *Service) ProcessPhotos(ctx context.Context, meta PhotoMeta, files []PhotoFile) (BatchSummary, error) {
	submissionType := strings.ToLower(strings.TrimSpace(meta.SubmissionType))
	if !IsValidSubmissionType(submissionType) {
		return BatchSummary{}, ErrSubmissionType
	}
	if len(files) == 0 {
		return BatchSummary{}, ErrNoFiles
	}

	summary := BatchSummary{Total: len(files), Results: make([]PhotoResult, 0, len(files))}
	now := time.Now().In(s.location)

	for _, file := range files {
		result := PhotoResult{OriginalName: file.Name}
		artifact := Artifact{
			ID:             primitive.NewObjectID().Hex(),
			Kind:           KindPhoto,
			SubmissionType: submissionType,
			Technician:     strings.TrimSpace(meta.Technician),
			ProjectID:      strings.TrimSpace(meta.ProjectID),
			Latitude:       strings.TrimSpace(meta.Latitude),
			Longitude:      strings.TrimSpace(meta.Longitude),
			OriginalName:   file.Name,
			StoredName:     GenerateStoredName(file.Name),
			ContentType:    file.ContentType,
			SizeBytes:      file.Size,
			Status:         StatusReceived,
			CreatedAt:      now,
		}

		if err := ValidateFile(file.ContentType, file.Size); err != nil {
			result.Status = StatusFailed
			result.Error = err.Error()
			artifact.Status = StatusFailed
			artifact.FailureReason = err.Error()
			summary.Failed++
		} else if s.storage != nil {
			url, err := s.storage.Put(ctx, artifact.StoredName, file.ContentType, file.Body)
			if err != nil {
				s.log.Warn("photo upload: storage failed",
					slog.String("file", file.Name),
					slog.String("error", err.Error()),
				)
				result.Status = StatusFailed
				result.Error = "storage failed"
				artifact.Status = StatusFailed
				artifact.FailureReason = err.Error()
				summary.Failed++
			} else {
				result.Status = StatusCompleted
				result.URL = url
				artifact.Status = StatusCompleted
				artifact.URL = url
				summary.Stored++
			}
		} else {
			result.Status = StatusReceived
			summary.Stored++
		}

		if err := s.repo.Insert(ctx, artifact); err != nil {
			s.log.Warn("photo upload: record write failed",
				slog.String("file", file.Name),
				slog.String("error", err.Error()),
			)
		}
		summary.Results = append(summary.Results, result)
	}

	switch {
	case summary.Failed == 0:
		summary.Status = StatusCompleted
	case summary.Stored == 0:
		summary.Status = StatusFailed
	default:
		summary.Status = StatusPartiallyCompleted
	}

	return summary, nil
}

// NotifyBillUpload is dispatched off the request path after a bill lands.
func (s *Service) NotifyBillUpload(ctx context.Context, artifact Artifact) error {
	if s.mailer == nil {
		return nil
	}
	_, err := s.mailer.SendBillUploadNotification(ctx, artifact)
	return err
}

func (s *Service) ListAdmin(ctx context.Context, kind string, limit, offset int64) ([]Artifact, int64, error) {
	items, err := s.repo.List(ctx, kind, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.Count(ctx, kind)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
