/*
Package domain contains the core puzzle model and rules of the vialsort engine.

It defines the fundamental entities of the puzzle, such as Colors, Vials and
the Puzzle snapshot, together with the pour rule. This package is kept pure
and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - Color: An opaque unit identifier. Only equality matters.
  - Vial: A bottom-to-top stack of Colors bounded by the puzzle capacity.
  - Puzzle: One immutable snapshot of the full board (capacity + vials).
  - Move: The record of an accepted operation (pour or added vial).

Every operation returns a new Puzzle and leaves the receiver untouched, so
older snapshots can be retained for undo.
*/
package domain
