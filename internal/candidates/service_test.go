package candidates

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

type fakeRepo struct {
	items []Candidate
}

func (f *fakeRepo) Create(ctx context.Context, candidate Candidate) error {
	f.items = append(f.items, candidate)
	return nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Candidate, error) {
	matched := make([]Candidate, 0)
	for _, c := range f.items {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.Position != "" && c.Position != filter.Position {
			continue
		}
		matched = append(matched, c)
	}
	return matched, nil
}

func (f *fakeRepo) Count(ctx context.Context, filter ListFilter) (int64, error) {
	items, _ := f.List(ctx, filter, 0, 0)
	return int64(len(items)), nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Candidate, error) {
	for _, c := range f.items {
		if c.ID == id {
			return c, nil
		}
	}
	return Candidate{}, mongo.ErrNoDocuments
}

func (f *fakeRepo) Update(ctx context.Context, candidate Candidate) (Candidate, error) {
	for i := range f.items {
		if f.items[i].ID == candidate.ID {
			candidate.CreatedAt = f.items[i].CreatedAt
			f.items[i] = candidate
			return candidate, nil
		}
	}
	return Candidate{}, mongo.ErrNoDocuments
}

func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}

func TestCreateStartsAsApplied(t *testing.T) {
	svc := NewService(&fakeRepo{}, time.UTC)

	candidate, err := svc.Create(context.Background(), CreateRequest{
		FirstName: "Rosa",
		LastName:  "Marin",
		Email:     "Rosa.Marin@Example.com",
		Position:  "Installer",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if candidate.Status != StatusApplied {
		t.Errorf("status = %q, want %q", candidate.Status, StatusApplied)
	}
	if candidate.Email != "rosa.marin@example.com" {
		t.Errorf("email = %q, want lowercased", candidate.Email)
	}
	if candidate.ID == "" {
		t.Error("expected a generated id")
	}
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, time.UTC)

	candidate, err := svc.Create(context.Background(), CreateRequest{
		FirstName: "Rosa",
		LastName:  "Marin",
		Email:     "rosa@example.com",
		Position:  "Installer",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Update(context.Background(), candidate.ID, UpdateRequest{
		FirstName: "Rosa",
		LastName:  "Marin",
		Email:     "rosa@example.com",
		Position:  "Installer",
		Status:    "ghosted",
	})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestUpdateAdvancesStatus(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, time.UTC)

	candidate, err := svc.Create(context.Background(), CreateRequest{
		FirstName: "Rosa",
		LastName:  "Marin",
		Email:     "rosa@example.com",
		Position:  "Installer",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), candidate.ID, UpdateRequest{
		FirstName: "Rosa",
		LastName:  "Marin",
		Email:     "rosa@example.com",
		Position:  "Installer",
		Status:    StatusInterviewing,
		Notes:     "phone screen done",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != StatusInterviewing {
		t.Errorf("status = %q, want %q", updated.Status, StatusInterviewing)
	}
	if updated.Notes != "phone screen done" {
		t.Errorf("notes = %q", updated.Notes)
	}
}

func TestDeleteUnknownCandidate(t *testing.T) {
	svc := NewService(&fakeRepo{}, time.UTC)
	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
