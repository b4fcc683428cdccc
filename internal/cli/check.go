package cli

import (
	"fmt"
	"io"
	"slices"
)

// RunCheck loads every puzzle of a file and prints a summary line per puzzle.
// It fails on the first malformed puzzle.
func RunCheck(path string, w io.Writer) error {
	descs, err := selectPuzzles(path, 0)
	if err != nil {
		return err
	}

	for i, desc := range descs {
		p, err := desc.Puzzle()
		if err != nil {
			return fmt.Errorf("puzzle %d: %w", i+1, err)
		}

		counts := p.ColorCounts()
		colors := make([]int, 0, len(counts))
		for c := range counts {
			colors = append(colors, int(c))
		}
		slices.Sort(colors)

		status := "unsolved"
		if p.IsSolved() {
			status = "solved"
		}
		fmt.Fprintf(w, "puzzle %d: %d vials, capacity %d, colors %v, %s\n",
			i+1, p.VialCount(), p.Capacity(), colors, status)
	}

	printSystemMessage(w, "%d puzzle(s) OK.", len(descs))
	return nil
}
