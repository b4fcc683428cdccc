package ports

import (
	"context"

	"github.com/aretw0/vialsort/pkg/domain"
)

// GameStore keeps the snapshot history of live games between requests.
// Snapshots are ordered oldest first; the first one is the undo floor.
type GameStore interface {
	// Save replaces the history stored under id.
	Save(ctx context.Context, id string, snapshots []*domain.Puzzle) error

	// Load retrieves the history stored under id.
	// Returns domain.ErrGameNotFound if the game does not exist.
	Load(ctx context.Context, id string) ([]*domain.Puzzle, error)

	// Delete removes the game. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the ids of the stored games.
	List(ctx context.Context) ([]string, error)
}
