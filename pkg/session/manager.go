package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/vialsort"
	"github.com/aretw0/vialsort/internal/logging"
	"github.com/aretw0/vialsort/pkg/domain"
	"github.com/aretw0/vialsort/pkg/ports"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a distributed lock outlives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates game access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	store ports.GameStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker   ports.DistributedLocker // Optional distributed locker
	lockTTL  time.Duration
	logger   *slog.Logger
	gameOpts []vialsort.Option
	onCreate func(context.Context, *vialsort.Game)
	newID    func() string
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL for distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithGameOptions sets options applied to every game the Manager rebuilds,
// such as lifecycle hooks or a logger.
func WithGameOptions(opts ...vialsort.Option) Option {
	return func(m *Manager) {
		m.gameOpts = append(m.gameOpts, opts...)
	}
}

// WithOnCreate registers a callback run after a new game is stored.
func WithOnCreate(fn func(context.Context, *vialsort.Game)) Option {
	return func(m *Manager) {
		m.onCreate = fn
	}
}

// WithIDGenerator replaces the random UUID game ids.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// NewManager creates a new game session Manager with the given store.
func NewManager(store ports.GameStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(), // Default to no-op
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(id) after unlocking.
func (m *Manager) acquire(id string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		entry = &lockEntry{}
		m.locks[id] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[id]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, id)
	}
}

func (m *Manager) restore(id string, snapshots []*domain.Puzzle) (*vialsort.Game, error) {
	opts := append([]vialsort.Option{vialsort.WithID(id)}, m.gameOpts...)
	return vialsort.Restore(snapshots, opts...)
}

// Create stores a new game starting at initial and returns it.
func (m *Manager) Create(ctx context.Context, initial *domain.Puzzle) (*vialsort.Game, error) {
	if initial == nil {
		return nil, fmt.Errorf("%w: no initial puzzle", domain.ErrMalformedPuzzle)
	}

	id := m.newID()
	var game *vialsort.Game
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		var err error
		game, err = m.restore(id, []*domain.Puzzle{initial})
		if err != nil {
			return err
		}
		if err := m.store.Save(ctx, id, game.Snapshots()); err != nil {
			return fmt.Errorf("failed to store game: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("Game Created", "game_id", id, "vials", initial.VialCount())
	if m.onCreate != nil {
		m.onCreate(ctx, game)
	}
	return game, nil
}

// Load rebuilds a stored game without modifying it.
func (m *Manager) Load(ctx context.Context, id string) (*vialsort.Game, error) {
	var game *vialsort.Game
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		snapshots, err := m.store.Load(ctx, id)
		if err != nil {
			return err
		}
		game, err = m.restore(id, snapshots)
		return err
	})
	return game, err
}

// Update loads a game, runs fn on it and stores the result, all under the game lock.
// When fn fails nothing is stored; the game is still returned so callers can
// report the unchanged board alongside a rejection.
func (m *Manager) Update(ctx context.Context, id string, fn func(context.Context, *vialsort.Game) error) (*vialsort.Game, error) {
	var game *vialsort.Game
	var fnErr error
	err := m.WithLock(ctx, id, func(ctx context.Context) error {
		snapshots, err := m.store.Load(ctx, id)
		if err != nil {
			return err
		}
		game, err = m.restore(id, snapshots)
		if err != nil {
			return err
		}

		if fnErr = fn(ctx, game); fnErr != nil {
			return nil
		}
		if err := m.store.Save(ctx, id, game.Snapshots()); err != nil {
			return fmt.Errorf("failed to store game: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return game, fnErr
}

// Delete removes the game. Unknown ids report domain.ErrGameNotFound.
func (m *Manager) Delete(ctx context.Context, id string) error {
	return m.WithLock(ctx, id, func(ctx context.Context) error {
		if _, err := m.store.Load(ctx, id); err != nil {
			return err
		}
		if err := m.store.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete game: %w", err)
		}
		m.logger.Info("Game Deleted", "game_id", id)
		return nil
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying game store.
func (m *Manager) Store() ports.GameStore {
	return m.store
}

// WithLock executes a function while holding the lock for the game.
func (m *Manager) WithLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := m.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(id)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, id, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			// Release with a fresh context so a cancelled request still unlocks.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"game_id", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// IsNotFound reports whether err means the game does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrGameNotFound)
}
