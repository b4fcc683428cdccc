package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/vialsort"
	"github.com/aretw0/vialsort/internal/presentation/tui"
	"github.com/aretw0/vialsort/pkg/puzzle"
	"github.com/aretw0/vialsort/pkg/runner"
	"golang.org/x/term"
)

// ErrNotTerminal is returned when play output is piped and --force is not set.
var ErrNotTerminal = errors.New("this application is interactive; its output is not meant to be piped to other applications or files")

// PlayOptions contains all the configuration for the play command.
type PlayOptions struct {
	Path  string
	Index int // 1-based puzzle number; 0 plays every puzzle in the file
	Force bool
	Debug bool

	Input      io.Reader
	Output     io.Writer
	IsTerminal func() bool
}

func (o *PlayOptions) defaults() {
	if o.Input == nil {
		o.Input = os.Stdin
	}
	if o.Output == nil {
		o.Output = os.Stdout
	}
	if o.IsTerminal == nil {
		o.IsTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
	}
}

// RunPlay plays the puzzles of a file in order. Quitting or closing the input
// ends the whole session; a signal ends it with ErrInterrupted.
func RunPlay(ctx context.Context, opts PlayOptions) error {
	opts.defaults()

	if !opts.Force && !opts.IsTerminal() {
		return ErrNotTerminal
	}

	descs, err := selectPuzzles(opts.Path, opts.Index)
	if err != nil {
		return err
	}

	logger := createLogger(opts.Debug)
	board := tui.NewBoardRenderer(opts.Output)

	runnerOpts := []runner.Option{
		runner.WithInput(opts.Input),
		runner.WithOutput(opts.Output),
		runner.WithLogger(logger),
		runner.WithRenderer(board.Render),
	}
	if !opts.Debug {
		// Debug logs would be wiped along with the board.
		runnerOpts = append(runnerOpts, runner.WithClearScreen(tui.ClearScreen))
	}
	r := runner.NewRunner(runnerOpts...)

	tui.PrintBanner(opts.Output, vialsort.Version)

	for i, desc := range descs {
		number := i + 1
		if opts.Index > 0 {
			number = opts.Index
		}

		initial, err := desc.Puzzle()
		if err != nil {
			return fmt.Errorf("puzzle %d: %w", number, err)
		}

		game, err := vialsort.New(initial,
			vialsort.WithID(fmt.Sprintf("puzzle-%d", number)),
			vialsort.WithLogger(logger),
			vialsort.WithLifecycleHooks(createDebugHooks(logger)),
		)
		if err != nil {
			return err
		}

		logger.Info("Puzzle Started", "puzzle", number, "vials", initial.VialCount(), "capacity", initial.Capacity())
		outcome, err := r.Run(ctx, game)
		if err != nil {
			if isInterrupted(err) {
				fmt.Fprintln(opts.Output)
				printSystemMessage(opts.Output, "Interrupted at puzzle %d.", number)
				return ErrInterrupted
			}
			return err
		}

		logger.Info("Puzzle Finished", "puzzle", number, "outcome", outcome.String(), "moves", game.Depth())
		if outcome != runner.OutcomeSolved {
			return nil
		}
	}

	return nil
}

// selectPuzzles loads a puzzle file and narrows it to one puzzle when index is set.
func selectPuzzles(path string, index int) ([]*puzzle.Description, error) {
	descs, err := puzzle.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(descs) == 0 {
		return nil, fmt.Errorf("%s contains no puzzles", path)
	}
	if index < 0 || index > len(descs) {
		return nil, fmt.Errorf("puzzle %d does not exist (%s contains %d)", index, path, len(descs))
	}
	if index > 0 {
		return descs[index-1 : index], nil
	}
	return descs, nil
}
