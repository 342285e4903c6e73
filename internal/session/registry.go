package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/debemdeboas/postdeck/internal/cache"
	"github.com/debemdeboas/postdeck/internal/gateway"
	"github.com/debemdeboas/postdeck/internal/pagination"
)

// ErrTooManySessions is returned when the registry is full of sessions that are still active.
var ErrTooManySessions = errors.New("too many active sessions")

const (
	DefaultIdleTimeout = 30 * time.Minute
	DefaultMaxSessions = 10000
)

type Option func(*Registry)

// WithIdleTimeout sets how long a session may go unused before Sweep evicts it.
func WithIdleTimeout(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.idleTimeout = d
		}
	}
}

// WithMaxSessions caps the number of live sessions.
func WithMaxSessions(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.maxSessions = n
		}
	}
}

// WithClock replaces time.Now for last-access bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// Registry maps session ids to sessions. Ids are always minted here; a cookie naming an
// unknown session gets a new one under a fresh id.
type Registry struct {
	gw          gateway.Gateway
	pageSize    int
	idleTimeout time.Duration
	maxSessions int
	now         func() time.Time
	sessions    *cache.Cache[string, *Session]

	// createMu makes the size check and the insert of a new session atomic.
	createMu sync.Mutex

	mu       sync.RWMutex
	onChange func(id string, version uint64)
	onEvict  func(evicted, remaining int)
}

func NewRegistry(gw gateway.Gateway, pageSize int, opts ...Option) (*Registry, error) {
	if pageSize <= 0 {
		return nil, pagination.ErrInvalidPageSize
	}
	r := &Registry{
		gw:          gw,
		pageSize:    pageSize,
		idleTimeout: DefaultIdleTimeout,
		maxSessions: DefaultMaxSessions,
		now:         time.Now,
		sessions:    cache.NewCache[string, *Session](),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// NewID returns a fresh session id.
func NewID() string {
	return uuid.NewString()
}

// SetChangeNotifier sets a function called whenever the collection of any session changes.
func (r *Registry) SetChangeNotifier(fn func(id string, version uint64)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// SetEvictNotifier sets a function called after a sweep removes at least one session.
func (r *Registry) SetEvictNotifier(fn func(evicted, remaining int)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onEvict = fn
}

func (r *Registry) notify(id string, version uint64) {
	r.mu.RLock()
	fn := r.onChange
	r.mu.RUnlock()
	if fn != nil {
		fn(id, version)
	}
}

// Resolve returns the live session named by id and marks it used. When id is empty or
// unknown a new session is created under a fresh id; the boolean reports that case.
func (r *Registry) Resolve(id string) (*Session, bool, error) {
	now := r.now()
	if s, ok := r.sessions.Get(id); ok && !s.idleSince(now, r.idleTimeout) {
		s.touch(now)
		return s, false, nil
	}

	r.createMu.Lock()
	defer r.createMu.Unlock()

	if r.sessions.Len() >= r.maxSessions && r.Sweep() == 0 {
		sessionLogger.Warn().Int("max", r.maxSessions).Msg("Session limit reached")
		return nil, false, ErrTooManySessions
	}

	id = NewID()
	s, err := New(id, r.gw, r.pageSize)
	if err != nil {
		return nil, false, err
	}
	s.touch(now)
	s.setChangeNotifier(func(version uint64) {
		r.notify(id, version)
	})
	r.sessions.Set(id, s)

	sessionLogger.Debug().Str("session", id).Msg("Created session")
	return s, true, nil
}

func (r *Registry) Get(id string) (*Session, bool) {
	return r.sessions.Get(id)
}

func (r *Registry) Len() int {
	return r.sessions.Len()
}

// Sweep evicts every session left unused for longer than the idle timeout and reports how
// many were removed.
func (r *Registry) Sweep() int {
	now := r.now()
	evicted := r.sessions.DeleteFunc(func(_ string, s *Session) bool {
		return s.idleSince(now, r.idleTimeout)
	})
	if evicted == 0 {
		return 0
	}

	remaining := r.sessions.Len()
	sessionLogger.Debug().Int("evicted", evicted).Int("remaining", remaining).Msg("Evicted idle sessions")

	r.mu.RLock()
	fn := r.onEvict
	r.mu.RUnlock()
	if fn != nil {
		fn(evicted, remaining)
	}
	return evicted
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
