package runner_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/vialsort"
	"github.com/aretw0/vialsort/pkg/domain"
	"github.com/aretw0/vialsort/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGame(t *testing.T, capacity int, vials [][]domain.Color) *vialsort.Game {
	t.Helper()
	p, err := domain.NewPuzzle(capacity, vials)
	require.NoError(t, err)
	g, err := vialsort.New(p)
	require.NoError(t, err)
	return g
}

func run(t *testing.T, g *vialsort.Game, input string) (runner.Outcome, string) {
	t.Helper()
	var out bytes.Buffer
	r := runner.NewRunner(runner.WithInput(strings.NewReader(input)), runner.WithOutput(&out))
	outcome, err := r.Run(context.Background(), g)
	require.NoError(t, err)
	return outcome, out.String()
}

func TestRunner_SolvesPuzzle(t *testing.T) {
	g := newGame(t, 2, [][]domain.Color{{0, 1}, {1}, {0}})

	outcome, out := run(t, g, "1\n2\n")

	assert.Equal(t, runner.OutcomeSolved, outcome)
	assert.Contains(t, out, "Selected vial 1. Now, select a destination vial.")
	assert.Contains(t, out, "Congratulations, you won!")
	assert.Equal(t, [][]domain.Color{{0}, {1, 1}, {0}}, g.Current().Vials())
}

func TestRunner_AlreadySolved(t *testing.T) {
	g := newGame(t, 2, [][]domain.Color{{0, 0}, {}})

	outcome, out := run(t, g, "")
	assert.Equal(t, runner.OutcomeSolved, outcome)
	assert.NotContains(t, out, "> ")
}

func TestRunner_Messages(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "Missing vial", input: "9\n", want: "That vial does not exist"},
		{name: "Zero is not a vial", input: "0\n", want: "That vial does not exist"},
		{name: "Empty vial", input: "3\n", want: "That vial is empty"},
		{name: "Color mismatch", input: "1\n2\n", want: "The colors on top do not match"},
		{name: "Help", input: "help\n", want: "u: Undo last action"},
		{name: "Xyzzy", input: "xyzzy\n", want: "Nothing happens"},
		{name: "Unknown", input: "dance\n", want: "Unknown command"},
		{name: "Undo at start", input: "u\n", want: "Nothing to undo"},
		{name: "Oversized input", input: strings.Repeat("7", 300) + "\n", want: "Please try again"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGame(t, 3, [][]domain.Color{{0, 1}, {1, 0}, {}})
			before := g.Current()

			outcome, out := run(t, g, tt.input)
			assert.Equal(t, runner.OutcomeEOF, outcome)
			assert.Contains(t, out, tt.want)
			assert.True(t, before.Equal(g.Current()), "no command here changes the board")
		})
	}
}

func TestRunner_CancelAndReselect(t *testing.T) {
	g := newGame(t, 2, [][]domain.Color{{0, 1}, {1, 0}, {}})

	_, out := run(t, g, "1\nc\n1\n1\n")
	assert.Equal(t, 2, strings.Count(out, "Selected vial 1."))
	assert.Equal(t, 0, g.Depth(), "selecting the same vial twice deselects")
}

func TestRunner_AddVialAndUndo(t *testing.T) {
	g := newGame(t, 2, [][]domain.Color{{0, 1}, {1, 0}})

	outcome, _ := run(t, g, "v\n1\n3\nv\nu\n")
	assert.Equal(t, runner.OutcomeEOF, outcome)
	assert.Equal(t, 3, g.Current().VialCount())
	assert.Equal(t, [][]domain.Color{{0}, {1, 0}, {1}}, g.Current().Vials())
	assert.Equal(t, 2, g.Depth())
}

func TestRunner_Quit(t *testing.T) {
	g := newGame(t, 2, [][]domain.Color{{0, 1}, {1, 0}, {}})

	outcome, _ := run(t, g, "quit\n1\n3\n")
	assert.Equal(t, runner.OutcomeQuit, outcome)
	assert.Equal(t, 0, g.Depth())
}

func TestRunner_ContextCancel(t *testing.T) {
	g := newGame(t, 2, [][]domain.Color{{0, 1}, {1, 0}, {}})

	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	r := runner.NewRunner(runner.WithInput(pr), runner.WithOutput(io.Discard))
	_, err := r.Run(ctx, g)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunner_ReusedAcrossGames(t *testing.T) {
	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithInput(strings.NewReader("1\n2\n1\n2\n")),
		runner.WithOutput(&out),
	)

	first := newGame(t, 2, [][]domain.Color{{1, 0}, {0}})
	outcome, err := r.Run(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, runner.OutcomeSolved, outcome)

	assert.Equal(t, [][]domain.Color{{1}, {0, 0}}, first.Current().Vials())

	second := newGame(t, 2, [][]domain.Color{{0, 1}, {1}})
	outcome, err = r.Run(context.Background(), second)
	require.NoError(t, err)
	assert.Equal(t, runner.OutcomeSolved, outcome)
	assert.Equal(t, [][]domain.Color{{0}, {1, 1}}, second.Current().Vials())
}

func TestRunner_CustomRendererAndClear(t *testing.T) {
	g := newGame(t, 1, [][]domain.Color{{0}})
	var out bytes.Buffer
	clears := 0

	r := runner.NewRunner(
		runner.WithInput(strings.NewReader("")),
		runner.WithOutput(&out),
		runner.WithRenderer(func(p *domain.Puzzle) string { return "BOARD" }),
		runner.WithClearScreen(func(io.Writer) { clears++ }),
	)
	_, err := r.Run(context.Background(), g)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "BOARD")
	assert.Equal(t, 1, clears)
}
