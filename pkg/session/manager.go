package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/senacirak/DEU-DevClubGames/internal/logging"
	"github.com/senacirak/DEU-DevClubGames/pkg/domain"
	"github.com/senacirak/DEU-DevClubGames/pkg/player"
	"github.com/senacirak/DEU-DevClubGames/pkg/ports"
)

// Stories resolves story IDs. *catalog.Catalog satisfies it.
type Stories interface {
	Get(id string) (*domain.Story, error)
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates session access, ensuring safe concurrent operations.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	stories Stories
	store   ports.SessionStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
	newID   func() string
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets how long a distributed lock may be held.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithHooks registers hooks on every session the Manager rebuilds.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithIDGenerator replaces the UUID session ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// NewManager creates a Session Manager over a story source and a store.
func NewManager(stories Stories, store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		stories: stories,
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu and call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes fn while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

func (m *Manager) newSession(sessionID string) *player.Session {
	return player.New(
		player.WithLogger(m.logger.With("session_id", sessionID)),
		player.WithHooks(m.hooks),
	)
}

// Start begins a new playthrough of storyID and persists it.
func (m *Manager) Start(ctx context.Context, storyID string) (string, *player.Session, error) {
	story, err := m.stories.Get(storyID)
	if err != nil {
		return "", nil, err
	}

	sessionID := m.newID()
	s := m.newSession(sessionID)
	if !s.SelectStory(story) {
		return "", nil, fmt.Errorf("story %s cannot be started", storyID)
	}

	err = m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		return m.store.Save(ctx, sessionID, s.Snapshot())
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to save session: %w", err)
	}

	m.logger.Info("session started", "session_id", sessionID, "story_id", storyID)
	return sessionID, s, nil
}

// Load rebuilds a session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*player.Session, error) {
	var s *player.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		s, err = m.restore(ctx, sessionID)
		return err
	})
	return s, err
}

// Apply loads a session, runs fn on it and saves the result when it changed.
// The session is not saved when fn returns an error.
func (m *Manager) Apply(ctx context.Context, sessionID string, fn func(*player.Session) error) (*player.Session, error) {
	var s *player.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		s, err = m.restore(ctx, sessionID)
		if err != nil {
			return err
		}

		before := s.Snapshot()
		if err := fn(s); err != nil {
			return err
		}

		diff := domain.Diff(before, s.Snapshot())
		if diff == nil {
			return nil
		}
		m.logger.Debug("session updated", "session_id", sessionID, "diff", diff)
		return m.store.Save(ctx, sessionID, s.Snapshot())
	})
	return s, err
}

func (m *Manager) restore(ctx context.Context, sessionID string) (*player.Session, error) {
	snap, err := m.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	story, err := m.stories.Get(snap.StoryID)
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}

	s := m.newSession(sessionID)
	if err := s.Restore(story, snap); err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return s, nil
}

// Delete removes the session from the store.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if _, err := m.store.Load(ctx, sessionID); err != nil {
			return err
		}
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// IsNotFound reports whether err means the session or its story is gone.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrSessionNotFound) || errors.Is(err, domain.ErrStoryNotFound)
}
