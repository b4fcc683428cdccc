/*
Package vialsort is a liquid-sorting puzzle engine designed to be driven by any front end: a terminal, an HTTP API, an MCP client or a test harness.

A puzzle is a row of vials, each a bounded stack of colored units. A pour moves the largest run of the
source's top color onto a compatible destination. The puzzle is solved when every vial is empty or
holds a single color.

# Concept

The engine separates the pure rules (package domain) from the driver-owned handle (Game). Every
accepted operation produces a new immutable snapshot; the Game records it on a linear undo history.
Rejected operations have no effect and return a typed error.

# Usage

	p, err := domain.NewPuzzle(4, [][]domain.Color{{0, 0, 1, 1}, {1, 0, 1, 0}, {}, {}})
	if err != nil {
		log.Fatal(err)
	}

	game, err := vialsort.New(p)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if _, err := game.Pour(ctx, 1, 2); err != nil {
		log.Printf("rejected: %v", err)
	}
	game.AddEmptyVial(ctx)
	game.Undo(ctx)

	fmt.Println(game.IsSolved())

Puzzle files are read with package puzzle, which handles the JSON-lines and YAML description formats.
*/
package vialsort
