package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/BruksfildServices01/homefix/internal/domain/session"
	"github.com/BruksfildServices01/homefix/internal/infra/kv"
)

const sessionKeyPrefix = "session:"

type SessionStore struct {
	kv  kv.Store
	ttl time.Duration
}

func NewSessionStore(backend kv.Store, ttl time.Duration) *SessionStore {
	return &SessionStore{kv: backend, ttl: ttl}
}

// Get returns session.ErrNoSession for missing keys. An entry that no
// longer decodes into a valid user is deleted and treated as missing.
func (s *SessionStore) Get(ctx context.Context, sid string) (*session.User, error) {
	if sid == "" {
		return nil, session.ErrNoSession
	}

	raw, err := s.kv.Get(ctx, sessionKeyPrefix+sid)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, session.ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	var u session.User
	if err := json.Unmarshal(raw, &u); err != nil || !u.Valid() {
		_ = s.kv.Del(ctx, sessionKeyPrefix+sid)
		return nil, session.ErrNoSession
	}

	return &u, nil
}

func (s *SessionStore) Set(ctx context.Context, sid string, u session.User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, sessionKeyPrefix+sid, raw, s.ttl)
}

func (s *SessionStore) Clear(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return s.kv.Del(ctx, sessionKeyPrefix+sid)
}

var _ session.Store = (*SessionStore)(nil)
