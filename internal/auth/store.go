package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/wedding-planner-api/internal/validation"
)

// Pruner drops per-email state that no longer matters
type Pruner interface {
	Prune() int
}

type storeEntry struct {
	sess     *Session
	lastUsed time.Time
}

// Store holds client sessions by opaque token until they are deleted or
// reaped for idleness
type Store struct {
	provider Provider
	forms    *validation.FormValidator
	log      zerolog.Logger
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*storeEntry
}

// NewStore creates an empty session store over provider
func NewStore(provider Provider, log zerolog.Logger) *Store {
	return &Store{
		provider: provider,
		forms:    validation.NewFormValidator(),
		log:      log.With().Str("component", "sessions").Logger(),
		now:      time.Now,
		sessions: make(map[string]*storeEntry),
	}
}

// Create starts a new signed-out session and returns its token
func (s *Store) Create() (string, *Session) {
	token := uuid.New().String()
	sess := NewSession(s.provider, s.forms, s.log.With().Str("session", token[:8]).Logger())

	s.mu.Lock()
	s.sessions[token] = &storeEntry{sess: sess, lastUsed: s.now()}
	s.mu.Unlock()

	return token, sess
}

// Get looks a session up by token and marks it used
func (s *Store) Get(token string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	e.lastUsed = s.now()
	return e.sess, true
}

// Delete forgets a session. It reports whether the token was known.
func (s *Store) Delete(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[token]; !ok {
		return false
	}
	delete(s.sessions, token)
	return true
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Reap drops sessions last used before cutoff and returns how many went.
// A provider that is also a Pruner is pruned on the same pass.
func (s *Store) Reap(cutoff time.Time) int {
	s.mu.Lock()
	reaped := 0
	for token, e := range s.sessions {
		if e.lastUsed.Before(cutoff) {
			delete(s.sessions, token)
			reaped++
		}
	}
	s.mu.Unlock()

	if reaped > 0 {
		s.log.Info().Int("count", reaped).Msg("Idle sessions dropped")
	}
	if p, ok := s.provider.(Pruner); ok {
		p.Prune()
	}
	return reaped
}
