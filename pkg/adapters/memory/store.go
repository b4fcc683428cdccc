package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/vialsort/pkg/domain"
)

// Store implements ports.GameStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string][]*domain.Puzzle
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]*domain.Puzzle),
	}
}

// Save stores a copy of the history.
// Snapshots are immutable, so copying the slice is enough to isolate callers.
func (s *Store) Save(ctx context.Context, id string, snapshots []*domain.Puzzle) error {
	copied := make([]*domain.Puzzle, len(snapshots))
	copy(copied, snapshots)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = copied
	return nil
}

// Load retrieves the history from memory.
func (s *Store) Load(ctx context.Context, id string) ([]*domain.Puzzle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshots, ok := s.data[id]
	if !ok {
		return nil, domain.ErrGameNotFound
	}

	ret := make([]*domain.Puzzle, len(snapshots))
	copy(ret, snapshots)
	return ret, nil
}

// Delete removes the game.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored game ids in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := make([]string, 0, len(s.data))
	for id := range s.data {
		games = append(games, id)
	}
	sort.Strings(games)
	return games, nil
}
