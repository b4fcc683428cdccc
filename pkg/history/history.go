// Package history keeps the linear undo stack of puzzle snapshots.
package history

import (
	"errors"

	"github.com/aretw0/vialsort/pkg/domain"
)

// ErrEmptyHistory is returned by Restore when no snapshots are given.
var ErrEmptyHistory = errors.New("history needs at least the initial puzzle")

// History is a stack of snapshots, most recent last.
// The first entry is the initial puzzle and is never popped.
// Snapshots are immutable, so entries are stored without copying.
type History struct {
	entries []*domain.Puzzle
}

// New starts a history at the initial puzzle.
func New(initial *domain.Puzzle) *History {
	return &History{entries: []*domain.Puzzle{initial}}
}

// Restore rebuilds a history from snapshots ordered oldest first.
func Restore(entries []*domain.Puzzle) (*History, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyHistory
	}
	return &History{entries: append([]*domain.Puzzle(nil), entries...)}, nil
}

// Record pushes the snapshot produced by an accepted mutation.
func (h *History) Record(p *domain.Puzzle) {
	h.entries = append(h.entries, p)
}

// Undo discards the most recent snapshot and returns the one before it.
// At the initial puzzle it returns that puzzle and false, leaving the stack alone.
func (h *History) Undo() (*domain.Puzzle, bool) {
	if len(h.entries) == 1 {
		return h.entries[0], false
	}
	h.entries[len(h.entries)-1] = nil
	h.entries = h.entries[:len(h.entries)-1]
	return h.Current(), true
}

// Current returns the most recent snapshot.
func (h *History) Current() *domain.Puzzle {
	return h.entries[len(h.entries)-1]
}

// Depth returns how many undo steps are available.
func (h *History) Depth() int {
	return len(h.entries) - 1
}

// Entries returns the snapshots oldest first.
func (h *History) Entries() []*domain.Puzzle {
	return append([]*domain.Puzzle(nil), h.entries...)
}
