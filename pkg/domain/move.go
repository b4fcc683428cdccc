package domain

import "slices"

// MoveKind distinguishes the mutating operations recorded in history.
type MoveKind string

const (
	MovePour    MoveKind = "pour"
	MoveAddVial MoveKind = "add_vial"
)

// Move describes an accepted operation.
type Move struct {
	Kind MoveKind `json:"kind"`

	// Source and Dest are set for pours. For MoveAddVial, Dest is the index of the new vial.
	Source int `json:"source"`
	Dest   int `json:"dest"`

	// Color and Units describe what a pour transferred.
	Color Color `json:"color"`
	Units int   `json:"units"`
}

// Pour moves the largest contiguous run of the source's top color onto the
// destination, bounded by the destination's free capacity.
//
// Preconditions are checked in a fixed order and each failure yields a
// distinct *PourError. On rejection p is returned unchanged.
func (p *Puzzle) Pour(src, dst int) (*Puzzle, Move, error) {
	if !p.valid(src) || !p.valid(dst) {
		return p, Move{}, &PourError{Source: src, Dest: dst, Reason: ErrInvalidVial}
	}
	if src == dst {
		return p, Move{}, &PourError{Source: src, Dest: dst, Reason: ErrSameVial}
	}

	from, to := p.vials[src], p.vials[dst]
	if from.Empty() {
		return p, Move{}, &PourError{Source: src, Dest: dst, Reason: ErrEmptySource}
	}
	free := p.capacity - len(to)
	if free <= 0 {
		return p, Move{}, &PourError{Source: src, Dest: dst, Reason: ErrDestinationFull}
	}

	color, run := from.topRun()
	if !to.Empty() && to[len(to)-1] != color {
		return p, Move{}, &PourError{Source: src, Dest: dst, Reason: ErrColorMismatch}
	}

	n := min(run, free)

	vials := slices.Clone(p.vials)
	vials[src] = slices.Clone(from[:len(from)-n])
	next := make(Vial, len(to), len(to)+n)
	copy(next, to)
	for range n {
		next = append(next, color)
	}
	vials[dst] = next

	return p.withVials(vials), Move{Kind: MovePour, Source: src, Dest: dst, Color: color, Units: n}, nil
}

// AddEmptyVial appends one empty vial. It always succeeds.
func (p *Puzzle) AddEmptyVial() (*Puzzle, Move) {
	vials := make([]Vial, len(p.vials), len(p.vials)+1)
	copy(vials, p.vials)
	vials = append(vials, Vial{})
	return p.withVials(vials), Move{Kind: MoveAddVial, Source: -1, Dest: len(vials) - 1}
}
