package funnel

import (
	"context"
	"testing"
	"time"
)

type mapCache struct {
	entries map[string][]byte
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (m *mapCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *mapCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.entries[key] = value
	return nil
}

func (m *mapCache) Delete(ctx context.Context, key string) error {
	delete(m.entries, key)
	return nil
}

func TestSnapshotRoundtrip(t *testing.T) {
	store := NewSnapshotStore(newMapCache(), time.Hour)
	ctx := context.Background()

	s := NewSession("sess-snap")
	s.Zip = "62701"
	s.Utility = "Ameren Illinois"
	s.Phone = "2175551234"
	s.CurrentStep = 9
	s.TCPAConsent = true
	s.SMSConsent = true

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := store.Save(ctx, s, now); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := store.Load(ctx, "sess-snap")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatalf("snapshot missing")
	}
	if *got != *s {
		t.Fatalf("roundtrip mismatch:\n got %+v\nwant %+v", *got, *s)
	}
	if !got.SavedAt.Equal(now) {
		t.Fatalf("savedAt not recorded")
	}
}

func TestSnapshotOverwriteAndClear(t *testing.T) {
	store := NewSnapshotStore(newMapCache(), time.Hour)
	ctx := context.Background()

	s := NewSession("sess-ow")
	s.CurrentStep = 2
	if err := store.Save(ctx, s, time.Now()); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.CurrentStep = 5
	if err := store.Save(ctx, s, time.Now()); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, ok, err := store.Load(ctx, "sess-ow")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.CurrentStep != 5 {
		t.Fatalf("expected latest snapshot, got step %d", got.CurrentStep)
	}

	if err := store.Clear(ctx, "sess-ow"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := store.Load(ctx, "sess-ow"); ok {
		t.Fatalf("snapshot survived clear")
	}
}
