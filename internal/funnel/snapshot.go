package funnel

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cesarlugojr/quantum-solar-crm-sub000/internal/cache"
)

const snapshotKeyPrefix = "quantumsolar:funnel:"

// SnapshotStore keeps the latest serialized session per session id. Each
// save overwrites the previous one; there is no versioning. Losing a
// snapshot only loses convenience, never an acknowledged datastore write.
type SnapshotStore struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewSnapshotStore(c cache.Cache, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{cache: c, ttl: ttl}
}

func (st *SnapshotStore) Save(ctx context.Context, s *Session, now time.Time) error {
	s.SavedAt = now
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return st.cache.Set(ctx, snapshotKeyPrefix+s.SessionID, raw, st.ttl)
}

func (st *SnapshotStore) Load(ctx context.Context, sessionID string) (*Session, bool, error) {
	raw, ok, err := st.cache.Get(ctx, snapshotKeyPrefix+sessionID)
	if err != nil || !ok {
		return nil, false, err
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false, err
	}
	return &s, true, nil
}

func (st *SnapshotStore) Clear(ctx context.Context, sessionID string) error {
	return st.cache.Delete(ctx, snapshotKeyPrefix+sessionID)
}
