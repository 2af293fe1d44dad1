// Package session keeps per-token editing state: the current layout
// tree, the live figure, the detached-cell cache and the composed post
// processor. Sessions are isolated from each other; edits within one
// session are serialized by its own mutex.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/matzehuels/panegrid/pkg/errors"
	"github.com/matzehuels/panegrid/pkg/figure"
	"github.com/matzehuels/panegrid/pkg/layout"
	"github.com/matzehuels/panegrid/pkg/observability"
	"github.com/matzehuels/panegrid/pkg/render"
)

// DefaultTTL is how long a session stays valid after creation.
const DefaultTTL = 12 * time.Hour

// State is everything a session owns.
type State struct {
	Layout  layout.Element
	FigSize [2]float64
	Figure  *figure.Figure
	Cache   *figure.Cache
	Post    render.PostProcess
}

// Session is one user's editing context. Lock it around every state
// mutation; concurrent edits against the same token are otherwise
// undefined.
type Session struct {
	mu      sync.Mutex
	token   string
	expires time.Time

	// State is the mutable editing state; hold the session lock while
	// touching it.
	State State
}

// Token returns the opaque bearer token identifying the session.
func (s *Session) Token() string { return s.token }

// Expires returns the session's fixed expiry time.
func (s *Session) Expires() time.Time { return s.expires }

// Lock serializes access to the session state.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session lock.
func (s *Session) Unlock() { s.mu.Unlock() }

// Store is an in-memory session store with TTL-based expiry.
type Store struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]*Session
}

// NewStore creates a store whose sessions expire ttl after creation.
// A non-positive ttl falls back to [DefaultTTL].
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{ttl: ttl, sessions: make(map[string]*Session)}
}

// Create registers a new session holding state and returns it.
func (s *Store) Create(state State) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	sess := &Session{
		token:   token,
		expires: time.Now().Add(s.ttl),
		State:   state,
	}
	s.mu.Lock()
	s.sessions[token] = sess
	s.mu.Unlock()
	observability.Session().OnCreate(context.Background())
	return sess, nil
}

// Get returns the session for token. Unknown tokens fail with
// SESSION_NOT_FOUND; expired sessions are evicted and fail with
// SESSION_EXPIRED.
func (s *Store) Get(token string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "unknown session token")
	}
	if time.Now().After(sess.expires) {
		s.Delete(token)
		return nil, errors.New(errors.ErrCodeSessionExpired, "session has expired")
	}
	return sess, nil
}

// Delete removes the session for token, if present.
func (s *Store) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Len returns the number of stored sessions, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Cleanup evicts all expired sessions and returns how many were
// removed.
func (s *Store) Cleanup() int {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for token, sess := range s.sessions {
		if now.After(sess.expires) {
			delete(s.sessions, token)
			n++
		}
	}
	return n
}

// StartCleanup runs Cleanup at the given interval until ctx is done.
func (s *Store) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Cleanup(); n > 0 {
					observability.Session().OnEvict(ctx, n)
					charmlog.Debug("evicted expired sessions", "count", n)
				}
			}
		}
	}()
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "generating session token")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
