// Package session holds credentials for remote sources in caller-owned
// sessions with a fixed lifetime.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dbsmedya/stackburn/internal/config"
	"github.com/dbsmedya/stackburn/internal/logger"
)

var (
	// ErrNotFound is returned for an unknown or revoked session ID.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned for a session past its expiry time.
	ErrExpired = errors.New("session expired")
)

// Session is one set of credentials for a remote source.
type Session struct {
	ID        string
	Provider  string
	Principal string
	Secret    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// String renders the session without its secret.
func (s *Session) String() string {
	return fmt.Sprintf("session %s (%s as %s, expires %s)",
		s.ID, s.Provider, s.Principal, s.ExpiresAt.UTC().Format(time.RFC3339))
}

// Store keeps sessions until they expire, are revoked, or are pushed out by
// newer sessions once MaxSessions is reached.
type Store struct {
	cache  *expirable.LRU[string, *Session]
	ttl    time.Duration
	now    func() time.Time
	logger *logger.Logger
}

// NewStore creates a session store.
//
// Parameters:
//   - cfg: session lifetime and capacity
//   - log: logger for lifecycle events (uses default if nil)
func NewStore(cfg config.SessionConfig, log *logger.Logger) *Store {
	if log == nil {
		log = logger.NewDefault()
	}

	s := &Store{
		ttl:    cfg.TTL,
		now:    time.Now,
		logger: log,
	}
	s.cache = expirable.NewLRU[string, *Session](cfg.MaxSessions, s.evicted, cfg.TTL)
	return s
}

func (s *Store) evicted(id string, _ *Session) {
	s.logger.Debugf("Session %s evicted", id)
}

// SetClock replaces the clock used for creation and expiry checks.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Create starts a new session for provider.
func (s *Store) Create(provider, principal, secret string) (*Session, error) {
	if provider == "" {
		return nil, fmt.Errorf("create session: provider is required")
	}

	now := s.now()
	sess := &Session{
		ID:        uuid.NewString(),
		Provider:  provider,
		Principal: principal,
		Secret:    secret,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.cache.Add(sess.ID, sess)

	s.logger.Debugf("Created %s", sess)
	return sess, nil
}

// Get returns the live session with the given ID. An expired session is
// removed and reported as ErrExpired.
func (s *Store) Get(id string) (*Session, error) {
	sess, ok := s.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if sess.Expired(s.now()) {
		s.cache.Remove(id)
		return nil, fmt.Errorf("%w: %s", ErrExpired, id)
	}
	return sess, nil
}

// Revoke removes a session. It reports whether the session existed.
func (s *Store) Revoke(id string) bool {
	return s.cache.Remove(id)
}

// Len returns the number of sessions held, including any not yet swept.
func (s *Store) Len() int {
	return s.cache.Len()
}

// Close revokes every session.
func (s *Store) Close() {
	s.cache.Purge()
}
