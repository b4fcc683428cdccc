package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the vialsort title using the terminal's color profile.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	title := out.String(" vialsort ").Foreground(out.Color("#22d3ee")).Reverse().Bold()
	sub := out.String(fmt.Sprintf(" v%s  sort the fluids, one color per vial", version)).Faint()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s%s\n", title, sub)
	fmt.Fprintln(w)
}
