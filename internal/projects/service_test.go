package projects

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func newTestService(repo Repository) *Service {
	return NewService(repo, time.UTC, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func seedProject(t *testing.T, svc *Service) Project {
	t.Helper()
	project, err := svc.Create(context.Background(), CreateRequest{
		CustomerName: "Ada Lovelace",
		Address:      "1 Main St, Springfield, IL",
		SystemSizeKW: 8.4,
		ValueUSD:     24500,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return project
}

func TestCreateDefaultsToFirstStage(t *testing.T) {
	svc := newTestService(&fakeProjectRepo{})
	project := seedProject(t, svc)

	if project.Stage != 1 {
		t.Errorf("stage = %d, want 1", project.Stage)
	}
	if project.Status != StatusActive {
		t.Errorf("status = %q, want %q", project.Status, StatusActive)
	}
	if project.ID == "" {
		t.Error("expected a generated id")
	}
}

func TestAdvanceStageRecordsHistory(t *testing.T) {
	repo := &fakeProjectRepo{}
	svc := newTestService(repo)
	project := seedProject(t, svc)

	updated, err := svc.AdvanceStage(context.Background(), project.ID, StageAdvanceRequest{Stage: 3, Note: "permits drafted"})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if updated.Stage != 3 {
		t.Errorf("stage = %d, want 3", updated.Stage)
	}

	entries, err := svc.History(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	if entries[0].FromStage != 1 || entries[0].ToStage != 3 {
		t.Errorf("transition = %d -> %d, want 1 -> 3", entries[0].FromStage, entries[0].ToStage)
	}
	if entries[0].Note != "permits drafted" {
		t.Errorf("note = %q", entries[0].Note)
	}
}

func TestAdvanceStageRejectsBackwardMoves(t *testing.T) {
	repo := &fakeProjectRepo{}
	svc := newTestService(repo)
	project := seedProject(t, svc)

	if _, err := svc.AdvanceStage(context.Background(), project.ID, StageAdvanceRequest{Stage: 5}); err != nil {
		t.Fatalf("advance to 5: %v", err)
	}

	for _, stage := range []int{5, 3, 1} {
		_, err := svc.AdvanceStage(context.Background(), project.ID, StageAdvanceRequest{Stage: stage})
		if !errors.Is(err, ErrStageBackward) {
			t.Errorf("advance to %d: err = %v, want ErrStageBackward", stage, err)
		}
	}
	if len(repo.history) != 1 {
		t.Errorf("rejected moves must not append history, got %d entries", len(repo.history))
	}
}

func TestAdvanceStageRejectsOutOfRange(t *testing.T) {
	svc := newTestService(&fakeProjectRepo{})
	project := seedProject(t, svc)

	for _, stage := range []int{0, -1, StageCount + 1} {
		_, err := svc.AdvanceStage(context.Background(), project.ID, StageAdvanceRequest{Stage: stage})
		if !errors.Is(err, ErrInvalidStage) {
			t.Errorf("advance to %d: err = %v, want ErrInvalidStage", stage, err)
		}
	}
}

func TestAdvanceStageSurvivesHistoryWriteFailure(t *testing.T) {
	repo := &fakeProjectRepo{historyErr: errors.New("history collection down")}
	svc := newTestService(repo)
	project := seedProject(t, svc)

	updated, err := svc.AdvanceStage(context.Background(), project.ID, StageAdvanceRequest{Stage: 2})
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if updated.Stage != 2 {
		t.Errorf("stage = %d, want 2 even when the history write fails", updated.Stage)
	}
}

func TestGetByIDUnknownProject(t *testing.T) {
	svc := newTestService(&fakeProjectRepo{})
	if _, err := svc.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStageNames(t *testing.T) {
	if got := StageName(1); got != "Sale" {
		t.Errorf("StageName(1) = %q", got)
	}
	if got := StageName(StageCount); got != "Closeout" {
		t.Errorf("StageName(%d) = %q", StageCount, got)
	}
	if got := StageName(0); got != "" {
		t.Errorf("StageName(0) = %q, want empty", got)
	}
	if got := StageName(StageCount + 1); got != "" {
		t.Errorf("StageName(%d) = %q, want empty", StageCount+1, got)
	}
}
