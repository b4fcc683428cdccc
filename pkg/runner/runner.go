package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/vialsort"
	"github.com/aretw0/vialsort/pkg/domain"
)

// Outcome tells the caller why Run returned.
type Outcome int

const (
	// OutcomeSolved means the puzzle was solved.
	OutcomeSolved Outcome = iota
	// OutcomeQuit means the player asked to leave.
	OutcomeQuit
	// OutcomeEOF means the input ended.
	OutcomeEOF
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSolved:
		return "solved"
	case OutcomeQuit:
		return "quit"
	case OutcomeEOF:
		return "eof"
	default:
		return "unknown"
	}
}

// BoardRenderer turns a snapshot into the text shown above the prompt.
type BoardRenderer func(*domain.Puzzle) string

// Runner handles the play loop using provided IO.
// This allows for easy testing and integration with different frontends.
type Runner struct {
	Input       io.Reader
	Output      io.Writer
	Renderer    BoardRenderer
	ClearScreen func(io.Writer)
	Logger      *slog.Logger

	lines     chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// NewRunner creates a Runner reading Stdin and writing Stdout by default.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Input:    os.Stdin,
		Output:   os.Stdout,
		Renderer: PlainRenderer,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// PlainRenderer lists vials one per line, bottom unit first.
func PlainRenderer(p *domain.Puzzle) string {
	var b strings.Builder
	for i, v := range p.Vials() {
		fmt.Fprintf(&b, "%2d. %v\n", i+1, v)
	}
	return b.String()
}

// Run plays game until it is solved, the player quits, the input ends, or
// ctx is cancelled. Cancellation only takes effect between moves.
func (r *Runner) Run(ctx context.Context, game *vialsort.Game) (Outcome, error) {
	selected := -1
	comment := ""

	for {
		if r.ClearScreen != nil {
			r.ClearScreen(r.Output)
		}
		fmt.Fprintln(r.Output, r.Renderer(game.Current()))

		if game.IsSolved() {
			fmt.Fprintln(r.Output, "Congratulations, you won!")
			r.Logger.Info("puzzle solved", "depth", game.Depth())
			return OutcomeSolved, nil
		}

		if selected < 0 {
			fmt.Fprintln(r.Output, "Select a vial by typing the number to its left.")
			fmt.Fprintln(r.Output, `Or, enter "help" for more commands.`)
		} else {
			fmt.Fprintf(r.Output, "Selected vial %d. Now, select a destination vial.\n", selected+1)
			fmt.Fprintln(r.Output, `Or, enter "c" to cancel.`)
		}

		if comment != "" {
			fmt.Fprintln(r.Output)
			fmt.Fprintln(r.Output, comment)
			comment = ""
		}

		fmt.Fprint(r.Output, "> ")
		line, err := r.readLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return OutcomeEOF, nil
			}
			return OutcomeQuit, err
		}

		clean, err := SanitizeInput(line)
		if err != nil {
			comment = fmt.Sprintf("Error: %v. Please try again.", err)
			continue
		}

		cmd := ParseCommand(clean)
		r.Logger.Debug("command", "input", clean, "kind", cmd.Kind)

		switch cmd.Kind {
		case CmdNone:
		case CmdVial:
			selected, comment = r.handleVial(ctx, game, selected, cmd.Vial)
		case CmdCancel:
			selected = -1
		case CmdAddVial:
			game.AddEmptyVial(ctx)
		case CmdUndo:
			// An undo invalidates any pending selection.
			selected = -1
			if _, undone := game.Undo(ctx); !undone {
				comment = "Nothing to undo"
			}
		case CmdHelp:
			comment = HelpText
		case CmdQuit:
			return OutcomeQuit, nil
		case CmdXyzzy:
			comment = "Nothing happens"
		default:
			comment = `Unknown command. Enter "help" for a list of commands.`
		}
	}
}

// handleVial applies a vial number to the current selection and returns the
// new selection and the message to show, if any.
func (r *Runner) handleVial(ctx context.Context, game *vialsort.Game, selected, vial int) (int, string) {
	p := game.Current()
	if vial < 0 || vial >= p.VialCount() {
		return selected, "That vial does not exist"
	}

	if selected < 0 {
		if _, ok, _ := p.Top(vial); !ok {
			return -1, "That vial is empty"
		}
		return vial, ""
	}

	if selected == vial {
		return -1, ""
	}

	if _, err := game.Pour(ctx, selected, vial); err != nil {
		return -1, rejectionMessage(err)
	}
	return -1, ""
}

func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrDestinationFull):
		return "That vial is full"
	case errors.Is(err, domain.ErrColorMismatch):
		return "The colors on top do not match"
	case errors.Is(err, domain.ErrEmptySource):
		return "That vial is empty"
	default:
		return fmt.Sprintf("Cannot pour: %v", err)
	}
}

func (r *Runner) initPump() {
	r.startOnce.Do(func() {
		r.lines = make(chan inputResult)
		go r.pump(bufio.NewReader(r.Input))
	})
}

// pump reads lines in the background so a blocked read never prevents Run
// from observing cancellation. It is shared by every Run on this Runner.
func (r *Runner) pump(reader *bufio.Reader) {
	for {
		text, err := reader.ReadString('\n')
		if text != "" {
			r.lines <- inputResult{text: text}
		}
		if err != nil {
			r.lines <- inputResult{err: err}
			close(r.lines)
			return
		}
	}
}

func (r *Runner) readLine(ctx context.Context) (string, error) {
	r.initPump()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-r.lines:
		if !ok {
			return "", io.EOF
		}
		return res.text, res.err
	}
}
