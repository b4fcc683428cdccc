package domain

import "slices"

// PuzzleDiff represents the changes between two snapshots of the same board.
// It is designed to be serialized to JSON for partial updates on the client.
type PuzzleDiff struct {
	// Vials holds the full new contents of every vial that changed or was added,
	// keyed by vial index. Removed vials (after an undo of an added vial) map to nil.
	Vials map[int][]Color `json:"vials,omitempty"`

	// VialCount changed?
	VialCount *int `json:"vial_count,omitempty"`

	// Solved changed?
	Solved *bool `json:"solved,omitempty"`
}

// Diff calculates the difference between oldPuzzle and newPuzzle.
// If oldPuzzle is nil, it returns a diff representing the entire newPuzzle (initial load).
// It returns nil when nothing changed.
func Diff(oldPuzzle, newPuzzle *Puzzle) *PuzzleDiff {
	if newPuzzle == nil {
		return nil
	}

	diff := &PuzzleDiff{}

	if oldPuzzle == nil || oldPuzzle.VialCount() != newPuzzle.VialCount() {
		n := newPuzzle.VialCount()
		diff.VialCount = &n
	}

	solved := newPuzzle.IsSolved()
	if oldPuzzle == nil || oldPuzzle.IsSolved() != solved {
		diff.Solved = &solved
	}

	diff.Vials = diffVials(oldPuzzle, newPuzzle)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffVials(old, new *Puzzle) map[int][]Color {
	delta := make(map[int][]Color)

	for i, v := range new.vials {
		if old == nil || i >= len(old.vials) || !slices.Equal(old.vials[i], v) {
			delta[i] = slices.Clone([]Color(v))
		}
	}

	// Vials only disappear when an added vial is undone.
	if old != nil {
		for i := len(new.vials); i < len(old.vials); i++ {
			delta[i] = nil
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *PuzzleDiff) IsEmpty() bool {
	return d.VialCount == nil &&
		d.Solved == nil &&
		len(d.Vials) == 0
}
