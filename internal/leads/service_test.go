package leads

import (
	"context"
	"testing"
	"time"
)

type fakeRepo struct {
	bySession    map[string]Lead
	disqualified []DisqualifiedLead
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{bySession: make(map[string]Lead)}
}

func (f *fakeRepo) UpsertBySession(ctx context.Context, lead Lead) (Lead, error) {
	if existing, ok := f.bySession[lead.SessionID]; ok {
		// session-keyed upsert keeps identity and creation time
		lead.ID = existing.ID
		lead.CreatedAt = existing.CreatedAt
		lead.Status = existing.Status
	}
	f.bySession[lead.SessionID] = lead
	return lead, nil
}

func (f *fakeRepo) List(ctx context.Context, filter ListFilter, limit, offset int64) ([]Lead, error) {
	items := make([]Lead, 0, len(f.bySession))
	for _, l := range f.bySession {
		items = append(items, l)
	}
	return items, nil
}

func (f *fakeRepo) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return int64(len(f.bySession)), nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (Lead, error) {
	for _, l := range f.bySession {
		if l.ID == id {
			return l, nil
		}
	}
	return Lead{}, ErrNotFound
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id string, status string, now time.Time) (Lead, error) {
	for k, l := range f.bySession {
		if l.ID == id {
			l.Status = status
			l.UpdatedAt = now
			f.bySession[k] = l
			return l, nil
		}
	}
	return Lead{}, ErrNotFound
}

func (f *fakeRepo) InsertDisqualified(ctx context.Context, lead DisqualifiedLead) error {
	f.disqualified = append(f.disqualified, lead)
	return nil
}

func (f *fakeRepo) ListDisqualified(ctx context.Context, limit, offset int64) ([]DisqualifiedLead, error) {
	return f.disqualified, nil
}

func completeRequest(sessionID string) SubmitRequest {
	return SubmitRequest{
		SessionID:   sessionID,
		IsPartial:   false,
		CurrentStep: 13,
		Zip:         "62701",
		Utility:     "Ameren Illinois",
		AvgBill:     "150",
		Homeowner:   "yes",
		Credit:      "650+",
		Shading:     "none",
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane.doe@example.com",
		Phone:       "2175551234",
		Street:      "100 E Capitol Ave",
		City:        "Springfield",
		State:       "IL",
		TCPAConsent: true,
		SMSConsent:  true,
	}
}

func TestSubmitRetrySameSessionIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, time.UTC, nil, nil, nil, nil)
	ctx := context.Background()

	first, err := svc.Submit(ctx, completeRequest("sess-a"))
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second, err := svc.Submit(ctx, completeRequest("sess-a"))
	if err != nil {
		t.Fatalf("retried submit: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("retry created a new record: %s vs %s", first.ID, second.ID)
	}
	if count, _ := repo.Count(ctx, ListFilter{}); count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}
}

func TestSubmitFreshSessionCreatesNewRecord(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, time.UTC, nil, nil, nil, nil)
	ctx := context.Background()

	a, err := svc.Submit(ctx, completeRequest("sess-a"))
	if err != nil {
		t.Fatalf("submit a: %v", err)
	}
	b, err := svc.Submit(ctx, completeRequest("sess-b"))
	if err != nil {
		t.Fatalf("submit b: %v", err)
	}

	if a.ID == b.ID {
		t.Fatalf("distinct sessions share a record id")
	}
	if count, _ := repo.Count(ctx, ListFilter{}); count != 2 {
		t.Fatalf("expected 2 records, got %d", count)
	}
}

func TestSubmitPartialThenFinalSameRecord(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, time.UTC, nil, nil, nil, nil)
	ctx := context.Background()

	partial := SubmitRequest{
		SessionID:   "sess-c",
		IsPartial:   true,
		CurrentStep: 8,
		Zip:         "62701",
		Phone:       "2175551234",
		TCPAConsent: true,
		SMSConsent:  true,
	}
	p, err := svc.Submit(ctx, partial)
	if err != nil {
		t.Fatalf("partial submit: %v", err)
	}
	if !p.IsPartial {
		t.Fatalf("partial write stored as final")
	}
	if p.CompletedAt != nil {
		t.Fatalf("partial write has completedAt")
	}

	final, err := svc.Submit(ctx, completeRequest("sess-c"))
	if err != nil {
		t.Fatalf("final submit: %v", err)
	}
	if final.ID != p.ID {
		t.Fatalf("final write created a second record")
	}
	if final.IsPartial {
		t.Fatalf("final write still partial")
	}
	if final.CompletedAt == nil {
		t.Fatalf("final write missing completedAt")
	}
}

func TestSubmitFinalRequiresContactFields(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, time.UTC, nil, nil, nil, nil)

	req := completeRequest("sess-d")
	req.Email = ""
	if _, err := svc.Submit(context.Background(), req); err != ErrIncomplete {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
}

func TestCreateDisqualifiedStoresReason(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, time.UTC, nil, nil, nil, nil)

	lead, err := svc.CreateDisqualified(context.Background(), DisqualifiedRequest{
		FirstName:              "Sam",
		LastName:               "Renter",
		Phone:                  "2175550000",
		DisqualificationReason: "not a homeowner",
	})
	if err != nil {
		t.Fatalf("create disqualified: %v", err)
	}
	if lead.DisqualificationReason != "not a homeowner" {
		t.Fatalf("reason lost: %q", lead.DisqualificationReason)
	}
	if len(repo.disqualified) != 1 {
		t.Fatalf("expected 1 disqualified record, got %d", len(repo.disqualified))
	}
}
