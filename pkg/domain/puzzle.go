package domain

import "slices"

// Color identifies a kind of fluid unit. Only equality is meaningful.
type Color int

// Vial is a bottom-to-top stack of units. The last element is the top.
type Vial []Color

// Empty reports whether the vial holds no units.
func (v Vial) Empty() bool {
	return len(v) == 0
}

// Settled reports whether the vial is empty or holds a single color.
func (v Vial) Settled() bool {
	for _, c := range v {
		if c != v[0] {
			return false
		}
	}
	return true
}

// topRun returns the color on top and the length of the contiguous run of it.
func (v Vial) topRun() (Color, int) {
	if len(v) == 0 {
		return 0, 0
	}
	top := v[len(v)-1]
	n := 0
	for i := len(v) - 1; i >= 0 && v[i] == top; i-- {
		n++
	}
	return top, n
}

// MaxCapacity bounds the vial size of a puzzle.
const MaxCapacity = 1024

// Puzzle is one immutable snapshot of the board.
// Vial identity is its index; vials are only ever appended.
type Puzzle struct {
	capacity int
	vials    []Vial
}

// NewPuzzle validates a board and returns its initial snapshot.
// The input slices are copied; the caller may reuse them.
func NewPuzzle(capacity int, vials [][]Color) (*Puzzle, error) {
	if capacity <= 0 {
		return nil, malformed("vial size must be positive, got %d", capacity)
	}
	if capacity > MaxCapacity {
		return nil, malformed("vial size %d exceeds %d", capacity, MaxCapacity)
	}

	p := &Puzzle{
		capacity: capacity,
		vials:    make([]Vial, len(vials)),
	}
	for i, units := range vials {
		if len(units) > capacity {
			return nil, malformed("vial %d holds %d units, capacity is %d", i, len(units), capacity)
		}
		for j, c := range units {
			if c < 0 {
				return nil, malformed("vial %d unit %d has negative color %d", i, j, c)
			}
		}
		p.vials[i] = slices.Clone(Vial(units))
	}
	return p, nil
}

// Capacity returns the maximum number of units per vial.
func (p *Puzzle) Capacity() int {
	return p.capacity
}

// VialCount returns the current number of vials.
func (p *Puzzle) VialCount() int {
	return len(p.vials)
}

// Vial returns a copy of the vial at index i.
func (p *Puzzle) Vial(i int) (Vial, error) {
	if !p.valid(i) {
		return nil, ErrInvalidVial
	}
	return slices.Clone(p.vials[i]), nil
}

// Vials returns a deep copy of every vial, bottom to top.
func (p *Puzzle) Vials() [][]Color {
	out := make([][]Color, len(p.vials))
	for i, v := range p.vials {
		out[i] = slices.Clone([]Color(v))
	}
	return out
}

// Top returns the color of the topmost unit of vial i.
// ok is false when the vial is empty; err is ErrInvalidVial when i is out of range.
func (p *Puzzle) Top(i int) (c Color, ok bool, err error) {
	if !p.valid(i) {
		return 0, false, ErrInvalidVial
	}
	v := p.vials[i]
	if v.Empty() {
		return 0, false, nil
	}
	return v[len(v)-1], true, nil
}

// IsSolved reports whether every vial is settled.
func (p *Puzzle) IsSolved() bool {
	for _, v := range p.vials {
		if !v.Settled() {
			return false
		}
	}
	return true
}

// ColorCounts returns the number of units of each color on the board.
func (p *Puzzle) ColorCounts() map[Color]int {
	counts := make(map[Color]int)
	for _, v := range p.vials {
		for _, c := range v {
			counts[c]++
		}
	}
	return counts
}

// Equal reports whether two snapshots have the same capacity and contents.
func (p *Puzzle) Equal(other *Puzzle) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.capacity != other.capacity || len(p.vials) != len(other.vials) {
		return false
	}
	for i := range p.vials {
		if !slices.Equal(p.vials[i], other.vials[i]) {
			return false
		}
	}
	return true
}

func (p *Puzzle) valid(i int) bool {
	return i >= 0 && i < len(p.vials)
}

// withVials returns a snapshot sharing capacity with p. Vials not replaced by
// the caller keep sharing backing arrays, which is safe since no snapshot
// mutates its vials in place.
func (p *Puzzle) withVials(vials []Vial) *Puzzle {
	return &Puzzle{capacity: p.capacity, vials: vials}
}
