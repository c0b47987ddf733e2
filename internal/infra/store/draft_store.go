package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/BruksfildServices01/homefix/internal/domain/booking"
	"github.com/BruksfildServices01/homefix/internal/infra/kv"
)

const (
	draftKeyPrefix = "draft:"
	draftVersion   = 1
)

// draftEnvelope is the persisted shape. Bump draftVersion when Draft
// changes incompatibly; older entries are then discarded on read.
type draftEnvelope struct {
	Version int            `json:"version"`
	SavedAt time.Time      `json:"savedAt"`
	Draft   *booking.Draft `json:"draft"`
}

type DraftStore struct {
	kv  kv.Store
	ttl time.Duration
	now func() time.Time
}

func NewDraftStore(backend kv.Store, ttl time.Duration) *DraftStore {
	return &DraftStore{kv: backend, ttl: ttl, now: time.Now}
}

// Get returns booking.ErrDraftNotFound when nothing usable is stored.
// Entries with an unknown version or an inconsistent draft are deleted.
func (s *DraftStore) Get(ctx context.Context, owner string) (*booking.Draft, error) {
	if owner == "" {
		return nil, booking.ErrDraftNotFound
	}

	raw, err := s.kv.Get(ctx, draftKeyPrefix+owner)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, booking.ErrDraftNotFound
	}
	if err != nil {
		return nil, err
	}

	var env draftEnvelope
	if err := json.Unmarshal(raw, &env); err != nil ||
		env.Version != draftVersion ||
		env.Draft == nil ||
		!env.Draft.Consistent() {
		_ = s.kv.Del(ctx, draftKeyPrefix+owner)
		return nil, booking.ErrDraftNotFound
	}

	return env.Draft, nil
}

func (s *DraftStore) Save(ctx context.Context, owner string, d *booking.Draft) error {
	raw, err := json.Marshal(draftEnvelope{
		Version: draftVersion,
		SavedAt: s.now().UTC(),
		Draft:   d,
	})
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, draftKeyPrefix+owner, raw, s.ttl)
}

func (s *DraftStore) Delete(ctx context.Context, owner string) error {
	return s.kv.Del(ctx, draftKeyPrefix+owner)
}

var _ booking.DraftStore = (*DraftStore)(nil)
