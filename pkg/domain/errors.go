package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidVial is returned when a vial index is outside the current range.
var ErrInvalidVial = errors.New("vial does not exist")

// ErrSameVial is returned when a pour names the same vial as source and destination.
var ErrSameVial = errors.New("source and destination are the same vial")

// ErrEmptySource is returned when the source vial has nothing to pour.
var ErrEmptySource = errors.New("source vial is empty")

// ErrDestinationFull is returned when the destination vial has no capacity left.
var ErrDestinationFull = errors.New("destination vial is full")

// ErrColorMismatch is returned when the destination top differs from the source top.
var ErrColorMismatch = errors.New("top colors do not match")

// ErrMalformedPuzzle is returned when a puzzle cannot be constructed from its description.
var ErrMalformedPuzzle = errors.New("malformed puzzle")

// PourError describes a rejected pour.
// Reason is one of the pour sentinels above and is exposed through Unwrap.
type PourError struct {
	Source int
	Dest   int
	Reason error
}

func (e *PourError) Error() string {
	return fmt.Sprintf("cannot pour %d -> %d: %v", e.Source, e.Dest, e.Reason)
}

func (e *PourError) Unwrap() error {
	return e.Reason
}

// RejectionReason returns a short stable label for a rejection, suitable for
// metric labels and API payloads. Unknown errors map to "unknown".
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidVial):
		return "invalid_vial"
	case errors.Is(err, ErrSameVial):
		return "same_vial"
	case errors.Is(err, ErrEmptySource):
		return "empty_source"
	case errors.Is(err, ErrDestinationFull):
		return "destination_full"
	case errors.Is(err, ErrColorMismatch):
		return "color_mismatch"
	case errors.Is(err, ErrMalformedPuzzle):
		return "malformed_puzzle"
	default:
		return "unknown"
	}
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedPuzzle, fmt.Sprintf(format, args...))
}

// ErrGameNotFound is returned by game stores when no game is stored under an id.
var ErrGameNotFound = errors.New("game not found")
