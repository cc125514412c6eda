package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"paintpro/internal/cache"
	"paintpro/internal/model"
)

// SessionStoreInterface mirrors the active session into the local cache so a
// restart (or a remote outage) keeps the signed-in profile.
type SessionStoreInterface interface {
	Save(ctx context.Context, session *model.Session) error
	Load(ctx context.Context) (*model.Session, error)
	Clear(ctx context.Context) error
}

// SessionStore is the cache-backed session mirror.
type SessionStore struct {
	cache cache.Store
}

var _ SessionStoreInterface = (*SessionStore)(nil)

// NewSessionStore creates a new session store.
func NewSessionStore(cache cache.Store) *SessionStore {
	return &SessionStore{cache: cache}
}

// Save mirrors the session record. Sessions do not expire; logout clears them.
func (s *SessionStore) Save(ctx context.Context, session *model.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.cache.Set(ctx, cache.KeySession, payload, 0)
}

// Load returns the mirrored session, or nil when none is stored.
func (s *SessionStore) Load(ctx context.Context) (*model.Session, error) {
	data, err := s.cache.Get(ctx, cache.KeySession)
	if err != nil || data == nil {
		return nil, nil
	}
	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

// Clear removes the mirrored session.
func (s *SessionStore) Clear(ctx context.Context) error {
	return s.cache.Delete(ctx, cache.KeySession)
}
