package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"calculator-brain/internal/brain"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for unknown or evicted session ids.
var ErrSessionNotFound = errors.New("session not found")

// Store keeps sessions in memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	logger  *zap.Logger
	now     func() time.Time
	options []brain.Option
	evicted prometheus.Counter
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) { s.logger = logger }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithBrainOptions passes options to every engine the store creates.
func WithBrainOptions(opts ...brain.Option) StoreOption {
	return func(s *Store) { s.options = append(s.options, opts...) }
}

// NewStore returns an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		sessions: make(map[uuid.UUID]*Session),
		logger:   zap.NewNop(),
		now:      time.Now,
		evicted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "calculator_sessions_evicted_total",
			Help: "Number of calculator sessions evicted after being idle.",
		}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a new session.
func (s *Store) Create() *Session {
	sess := newSession(s.now, s.options...)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Debug("session created", zap.String("session_id", sess.ID.String()))
	return sess
}

// Get returns the session with the given id.
func (s *Store) Get(id string) (*Session, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}

	s.mu.RLock()
	sess, ok := s.sessions[key]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// Delete removes a session.
func (s *Store) Delete(id string) error {
	sess, err := s.Get(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.sessions, sess.ID)
	s.mu.Unlock()

	s.logger.Debug("session deleted", zap.String("session_id", id))
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep evicts sessions idle for longer than idle and returns how many went.
func (s *Store) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.sessions {
		if sess.LastUsed().Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	if n > 0 {
		s.evicted.Add(float64(n))
		s.logger.Info("idle sessions evicted", zap.Int("count", n), zap.Int("remaining", len(s.sessions)))
	}
	return n
}

// Run sweeps idle sessions every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(idle)
		}
	}
}

// Collectors returns the Prometheus collectors describing the store.
func (s *Store) Collectors() []prometheus.Collector {
	active := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "calculator_sessions_active",
		Help: "Number of live calculator sessions.",
	}, func() float64 {
		return float64(s.Len())
	})
	return []prometheus.Collector{active, s.evicted}
}

// Register registers the store's collectors with reg.
func (s *Store) Register(reg prometheus.Registerer) error {
	for _, c := range s.Collectors() {
		if err := reg.Register(c); err != nil {
			return fmt.Errorf("registering session collector: %w", err)
		}
	}
	return nil
}
