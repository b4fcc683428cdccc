package vialsort

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/vialsort/pkg/domain"
	"github.com/aretw0/vialsort/pkg/history"
)

// Version is the release of the vialsort module. It may be overridden at link time.
var Version = "0.3.0"

// Game is the high-level entry point for the vialsort library.
// It owns the current puzzle snapshot and the undo history and is the single
// handle a front end mutates. A Game is not safe for concurrent use.
type Game struct {
	history *history.History
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	ID      string
}

// Option defines a functional option for configuring the Game.
type Option func(*Game)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(g *Game) {
		g.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the game.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Game) {
		g.logger = logger
	}
}

// WithID labels the game in logs and lifecycle events.
func WithID(id string) Option {
	return func(g *Game) {
		g.ID = id
	}
}

// New starts a game at the given initial puzzle.
func New(initial *domain.Puzzle, opts ...Option) (*Game, error) {
	if initial == nil {
		return nil, fmt.Errorf("%w: no initial puzzle", domain.ErrMalformedPuzzle)
	}
	return newGame(history.New(initial), opts), nil
}

// Restore resumes a game from its snapshots, oldest first.
// The first snapshot becomes the undo floor.
func Restore(snapshots []*domain.Puzzle, opts ...Option) (*Game, error) {
	h, err := history.Restore(snapshots)
	if err != nil {
		return nil, fmt.Errorf("failed to restore game: %w", err)
	}
	return newGame(h, opts), nil
}

func newGame(h *history.History, opts []Option) *Game {
	g := &Game{history: h}
	for _, opt := range opts {
		opt(g)
	}

	// Ensure logger is initialized so callers never check for nil.
	if g.logger == nil {
		g.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if g.ID != "" {
		g.logger = g.logger.With("game", g.ID)
	}
	return g
}

// Current returns the current snapshot.
func (g *Game) Current() *domain.Puzzle {
	return g.history.Current()
}

// IsSolved reports whether the current snapshot is solved.
func (g *Game) IsSolved() bool {
	return g.history.Current().IsSolved()
}

// Depth returns how many undo steps are available.
func (g *Game) Depth() int {
	return g.history.Depth()
}

// Snapshots returns the full history, oldest first, for persistence by a front end.
func (g *Game) Snapshots() []*domain.Puzzle {
	return g.history.Entries()
}

// Pour attempts a pour on the current snapshot.
// On success the new snapshot is recorded and returned. On rejection the
// current snapshot is returned with a *domain.PourError.
func (g *Game) Pour(ctx context.Context, src, dst int) (*domain.Puzzle, error) {
	current := g.history.Current()

	next, move, err := current.Pour(src, dst)
	if err != nil {
		g.logger.Debug("pour rejected", "src", src, "dst", dst, "reason", domain.RejectionReason(err))
		if g.hooks.OnReject != nil {
			g.hooks.OnReject(ctx, &domain.RejectEvent{
				EventBase: domain.NewEventBase(domain.EventReject, g.ID),
				Source:    src,
				Dest:      dst,
				Reason:    domain.RejectionReason(err),
			})
		}
		return current, err
	}

	g.commit(ctx, current, next, move)
	return next, nil
}

// AddEmptyVial appends an empty vial to the current snapshot. It always succeeds.
func (g *Game) AddEmptyVial(ctx context.Context) *domain.Puzzle {
	current := g.history.Current()
	next, move := current.AddEmptyVial()
	g.commit(ctx, current, next, move)
	return next
}

// Undo steps back one accepted move. At the start of the game it returns the
// initial puzzle and false.
func (g *Game) Undo(ctx context.Context) (*domain.Puzzle, bool) {
	p, undone := g.history.Undo()
	g.logger.Debug("undo", "undone", undone, "depth", g.history.Depth())
	if g.hooks.OnUndo != nil {
		g.hooks.OnUndo(ctx, &domain.UndoEvent{
			EventBase: domain.NewEventBase(domain.EventUndo, g.ID),
			Undone:    undone,
			Depth:     g.history.Depth(),
		})
	}
	return p, undone
}

func (g *Game) commit(ctx context.Context, prev, next *domain.Puzzle, move domain.Move) {
	g.history.Record(next)
	g.logger.Debug("move accepted",
		"kind", move.Kind,
		"src", move.Source,
		"dst", move.Dest,
		"moved", move.Units,
		"depth", g.history.Depth(),
	)

	if g.hooks.OnMove != nil {
		g.hooks.OnMove(ctx, &domain.MoveEvent{
			EventBase: domain.NewEventBase(domain.EventMove, g.ID),
			Move:      move,
			Depth:     g.history.Depth(),
		})
	}

	if !prev.IsSolved() && next.IsSolved() {
		g.logger.Info("puzzle solved", "depth", g.history.Depth())
		if g.hooks.OnSolved != nil {
			base := domain.NewEventBase(domain.EventSolved, g.ID)
			g.hooks.OnSolved(ctx, &base)
		}
	}
}

// IsRejection reports whether err is a pour rejection rather than a failure.
func IsRejection(err error) bool {
	var pe *domain.PourError
	return errors.As(err, &pe)
}
