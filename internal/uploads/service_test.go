package uploads

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type fakeRepo struct {
	inserted []Artifact
}

func (f *fakeRepo) Insert(ctx context.Context, artifact Artifact) error {
	f.inserted = append(f.inserted, artifact)
	return nil
}

func (f *fakeRepo) List(ctx context.Context, kind string, limit, offset int64) ([]Artifact, error) {
	return f.inserted, nil
}

func (f *fakeRepo) Count(ctx context.Context, kind string) (int64, error) {
	return int64(len(f.inserted)), nil
}

type fakeStorage struct {
	failNames map[string]bool
	puts      []string
}

func (f *fakeStorage) Put(ctx context.Context, key, contentType string, body io.ReadSeeker) (string, error) {
	for name := range f.failNames {
		if strings.HasSuffix(key, name) {
			return "", errors.New("bucket unavailable")
		}
	}
	f.puts = append(f.puts, key)
	return "https://bucket.s3.us-east-2.amazonaws.com/" + key, nil
}

func newTestService(repo Repository, storage Storage) *Service {
	return NewService(repo, storage, time.UTC, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func photo(name string, size int64) PhotoFile {
	return PhotoFile{
		Name:        name,
		ContentType: "image/jpeg",
		Size:        size,
		Body:        bytes.NewReader([]byte("jpegdata")),
	}
}

func TestProcessBillStoresAndRecords(t *testing.T) {
	repo := &fakeRepo{}
	storage := &fakeStorage{}
	svc := newTestService(repo, storage)

	meta := BillMeta{FirstName: "Jane", LastName: "Doe", Email: "Jane@Example.com"}
	artifact, err := svc.ProcessBill(context.Background(), meta, "bill.pdf", "application/pdf", 2<<20, bytes.NewReader([]byte("pdf")))
	if err != nil {
		t.Fatalf("process bill: %v", err)
	}
	if artifact.Status != StatusCompleted {
		t.Errorf("status = %q, want %q", artifact.Status, StatusCompleted)
	}
	if artifact.URL == "" {
		t.Error("expected a storage URL")
	}
	if artifact.Email != "jane@example.com" {
		t.Errorf("email = %q, want lowercased", artifact.Email)
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 record, got %d", len(repo.inserted))
	}
	if !strings.HasSuffix(repo.inserted[0].StoredName, ".pdf") {
		t.Errorf("stored name = %q, want .pdf suffix", repo.inserted[0].StoredName)
	}
}

func TestProcessBillStorageFailureStillRecorded(t *testing.T) {
	repo := &fakeRepo{}
	storage := &fakeStorage{failNames: map[string]bool{".pdf": true}}
	svc := newTestService(repo, storage)

	meta := BillMeta{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"}
	artifact, err := svc.ProcessBill(context.Background(), meta, "bill.pdf", "application/pdf", 1<<20, bytes.NewReader([]byte("pdf")))
	if err != nil {
		t.Fatalf("process bill: %v", err)
	}
	if artifact.Status != StatusFailed {
		t.Errorf("status = %q, want %q", artifact.Status, StatusFailed)
	}
	if artifact.FailureReason == "" {
		t.Error("expected a failure reason")
	}
	if len(repo.inserted) != 1 {
		t.Fatalf("record must be kept even when storage fails, got %d", len(repo.inserted))
	}
}

func TestProcessBillWithoutStorage(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo, nil)

	meta := BillMeta{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"}
	artifact, err := svc.ProcessBill(context.Background(), meta, "bill.pdf", "application/pdf", 1<<20, bytes.NewReader([]byte("pdf")))
	if err != nil {
		t.Fatalf("process bill: %v", err)
	}
	if artifact.Status != StatusReceived {
		t.Errorf("status = %q, want %q when no storage is configured", artifact.Status, StatusReceived)
	}
	if artifact.URL != "" {
		t.Errorf("url = %q, want empty", artifact.URL)
	}
}

func TestProcessPhotosAllSucceed(t *testing.T) {
	repo := &fakeRepo{}
	storage := &fakeStorage{}
	svc := newTestService(repo, storage)

	summary, err := svc.ProcessPhotos(context.Background(), PhotoMeta{SubmissionType: SubmissionNewInstallation, Technician: "M. Reyes"}, []PhotoFile{
		photo("roof1.jpg", 2<<20),
		photo("roof2.jpg", 2<<20),
	})
	if err != nil {
		t.Fatalf("process photos: %v", err)
	}
	if summary.Status != StatusCompleted {
		t.Errorf("status = %q, want %q", summary.Status, StatusCompleted)
	}
	if summary.Stored != 2 || summary.Failed != 0 {
		t.Errorf("stored=%d failed=%d, want 2/0", summary.Stored, summary.Failed)
	}
	if len(repo.inserted) != 2 {
		t.Errorf("expected 2 records, got %d", len(repo.inserted))
	}
	for _, a := range repo.inserted {
		if a.Technician != "M. Reyes" {
			t.Errorf("technician = %q, want M. Reyes", a.Technician)
		}
	}
}

func TestProcessPhotosPartialFailure(t *testing.T) {
	repo := &fakeRepo{}
	storage := &fakeStorage{}
	svc := newTestService(repo, storage)

	oversized := photo("huge.jpg", 70<<20)
	summary, err := svc.ProcessPhotos(context.Background(), PhotoMeta{SubmissionType: SubmissionServiceVisit, Technician: "M. Reyes"}, []PhotoFile{
		photo("ok.jpg", 2<<20),
		oversized,
	})
	if err != nil {
		t.Fatalf("process photos: %v", err)
	}
	if summary.Status != StatusPartiallyCompleted {
		t.Errorf("status = %q, want %q", summary.Status, StatusPartiallyCompleted)
	}
	if summary.Stored != 1 || summary.Failed != 1 {
		t.Errorf("stored=%d failed=%d, want 1/1", summary.Stored, summary.Failed)
	}

	var failedResult *PhotoResult
	for i := range summary.Results {
		if summary.Results[i].OriginalName == "huge.jpg" {
			failedResult = &summary.Results[i]
		}
	}
	if failedResult == nil || failedResult.Status != StatusFailed || failedResult.Error == "" {
		t.Fatalf("expected a failed result with an error for huge.jpg, got %+v", summary.Results)
	}
	// The failed file still gets a record so the batch is auditable.
	if len(repo.inserted) != 2 {
		t.Errorf("expected 2 records, got %d", len(repo.inserted))
	}
}

func TestProcessPhotosAllFail(t *testing.T) {
	svc := newTestService(&fakeRepo{}, &fakeStorage{failNames: map[string]bool{".jpg": true}})

	summary, err := svc.ProcessPhotos(context.Background(), PhotoMeta{SubmissionType: SubmissionFinalInspection, Technician: "M. Reyes"}, []PhotoFile{
		photo("a.jpg", 1<<20),
		photo("b.jpg", 1<<20),
	})
	if err != nil {
		t.Fatalf("process photos: %v", err)
	}
	if summary.Status != StatusFailed {
		t.Errorf("status = %q, want %q", summary.Status, StatusFailed)
	}
}

func TestProcessPhotosRejectsBadInput(t *testing.T) {
	svc := newTestService(&fakeRepo{}, nil)

	if _, err := svc.ProcessPhotos(context.Background(), PhotoMeta{SubmissionType: "walkthrough", Technician: "M. Reyes"}, []PhotoFile{photo("a.jpg", 1)}); !errors.Is(err, ErrSubmissionType) {
		t.Errorf("err = %v, want ErrSubmissionType", err)
	}
	if _, err := svc.ProcessPhotos(context.Background(), PhotoMeta{SubmissionType: SubmissionNewInstallation, Technician: "M. Reyes"}, nil); !errors.Is(err, ErrNoFiles) {
		t.Errorf("err = %v, want ErrNoFiles", err)
	}
}
