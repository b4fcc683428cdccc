package runner

import (
	"io"
	"log/slog"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithInput sets where commands are read from.
func WithInput(in io.Reader) Option {
	return func(r *Runner) {
		r.Input = in
	}
}

// WithOutput sets where the board and prompts are written.
func WithOutput(out io.Writer) Option {
	return func(r *Runner) {
		r.Output = out
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithRenderer configures how the board is drawn (e.g. colored TUI output).
func WithRenderer(renderer BoardRenderer) Option {
	return func(r *Runner) {
		r.Renderer = renderer
	}
}

// WithClearScreen sets a function called before every redraw.
func WithClearScreen(clear func(io.Writer)) Option {
	return func(r *Runner) {
		r.ClearScreen = clear
	}
}
