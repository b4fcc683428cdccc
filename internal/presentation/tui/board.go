package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/vialsort/pkg/domain"
	"github.com/muesli/termenv"
)

// Black and white are left out so units never blend into the terminal background.
var unitColors = []termenv.ANSIColor{
	termenv.ANSIRed,
	termenv.ANSIGreen,
	termenv.ANSIYellow,
	termenv.ANSIBlue,
	termenv.ANSIMagenta,
	termenv.ANSICyan,
	termenv.ANSIBrightRed,
	termenv.ANSIBrightGreen,
	termenv.ANSIBrightYellow,
	termenv.ANSIBrightBlue,
	termenv.ANSIBrightMagenta,
	termenv.ANSIBrightCyan,
}

const symbols = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const (
	unitWidth         = 3
	numberPad         = 2
	spaceBetweenVials = 4
	termWidth         = 80
)

// BoardRenderer draws puzzles as rows of numbered vials, bottom unit on the left.
type BoardRenderer struct {
	profile termenv.Profile
}

// NewBoardRenderer detects the color profile of w.
func NewBoardRenderer(w io.Writer) *BoardRenderer {
	return &BoardRenderer{profile: termenv.NewOutput(w).EnvColorProfile()}
}

// NewBoardRendererWithProfile forces a profile. termenv.Ascii yields plain text.
func NewBoardRendererWithProfile(p termenv.Profile) *BoardRenderer {
	return &BoardRenderer{profile: p}
}

// Render returns the board, wrapped so rows fit in an 80 column terminal.
func (r *BoardRenderer) Render(p *domain.Puzzle) string {
	var b strings.Builder

	vialDrawSize := numberPad + 1 + unitWidth*p.Capacity() + spaceBetweenVials
	posX := 0

	for i, vial := range p.Vials() {
		r.renderVial(&b, i, vial, p.Capacity())
		b.WriteString(strings.Repeat(" ", spaceBetweenVials))

		posX += vialDrawSize
		if posX+vialDrawSize >= termWidth {
			posX = 0
			b.WriteString("\n\n")
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (r *BoardRenderer) renderVial(b *strings.Builder, index int, vial []domain.Color, capacity int) {
	fmt.Fprintf(b, "%*d.", numberPad, index+1)
	for slot := range capacity {
		if slot >= len(vial) {
			b.WriteString(strings.Repeat(" ", unitWidth))
			continue
		}
		b.WriteString(r.unit(vial[slot]))
	}
}

func (r *BoardRenderer) unit(c domain.Color) string {
	n := int(c)
	color := unitColors[n%len(unitColors)]
	symbol := symbols[n%len(symbols)]
	return r.profile.String(" " + string(symbol) + " ").Foreground(r.profile.Convert(color)).Reverse().String()
}

// ClearScreen erases the terminal and homes the cursor.
func ClearScreen(w io.Writer) {
	termenv.NewOutput(w).ClearScreen()
}
