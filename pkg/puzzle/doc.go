/*
Package puzzle reads and writes vialsort puzzle descriptions.

A description is an object with two required keys:

	{"vial_size": 4, "vials": [[0, 0, 1, 1], [1, 0, 1, 0], [], []]}

vial_size becomes the puzzle capacity and every inner array is one vial,
bottom to top. Any other top-level key is kept in Description.Extra and
written back out by MarshalJSON, so editors and generators can round-trip
fields they do not understand. The engine never looks at them.

Files hold many puzzles: JSON files carry one description per line, YAML
files carry one description per document.
*/
package puzzle
