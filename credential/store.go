package credential

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/studyhub/logger"
)

// DefaultKey is the backend key holding the access token.
const DefaultKey = "access_token"

// Store holds the current access token and mirrors it to a Backend.
// Safe for concurrent use.
type Store struct {
	// persistMu serializes writers so backend writes land in the same
	// order as in-memory updates; mu guards token for readers.
	persistMu sync.Mutex
	mu        sync.RWMutex
	token     string

	backend Backend
	key     string
	log     *logger.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the backend key (default "access_token").
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used to report backend failures.
func WithLogger(l *logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l.WithComponent("credential")
		}
	}
}

// NewStore creates a Store and loads the persisted token, if any.
// A nil backend behaves like NopBackend.
func NewStore(ctx context.Context, backend Backend, opts ...Option) *Store {
	if backend == nil {
		backend = NopBackend{}
	}
	s := &Store{
		backend: backend,
		key:     DefaultKey,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	token, ok, err := backend.Get(ctx, s.key)
	switch {
	case err != nil:
		s.log.Warn("credential load failed, starting unauthenticated", s.fields(err))
	case ok:
		s.token = token
	}
	return s
}

// Get returns the held token; ok is false when none is held.
func (s *Store) Get() (token string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Set replaces the held token and persists it. An empty token clears both the
// in-memory value and the persisted key. Persistence failures are logged,
// never returned.
func (s *Store) Set(ctx context.Context, token string) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	var err error
	if token == "" {
		err = s.backend.Remove(ctx, s.key)
	} else {
		err = s.backend.Set(ctx, s.key, token)
	}
	if err != nil {
		s.log.Warn("credential persist failed, keeping in-memory value", s.fields(err))
	}
}

// Clear drops the held token.
func (s *Store) Clear(ctx context.Context) {
	s.Set(ctx, "")
}

func (s *Store) fields(err error) map[string]interface{} {
	return logger.Fields(
		logger.FieldBackend, fmt.Sprintf("%T", s.backend),
		"key", s.key,
		logger.FieldError, err.Error(),
	)
}
