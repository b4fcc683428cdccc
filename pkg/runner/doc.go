/*
Package runner implements the interactive play loop for a vialsort Game.

It acts as the bridge between the engine and a line-oriented terminal. The
runner renders the board, reads one command per line, and translates
commands into engine calls. Rejected pours become a short message on the
next screen; the runner never mutates the puzzle itself.

# Key Components

  - Runner: The loop. One Runner may play several games in sequence.
  - ParseCommand: Turns a line such as "3", "u" or "help" into a Command.
  - SanitizeInput: Bounds and cleans raw input before parsing.

# Usage

	r := runner.NewRunner(
		runner.WithInput(os.Stdin),
		runner.WithOutput(os.Stderr),
		runner.WithLogger(logger),
	)

	outcome, err := r.Run(ctx, game)
	if err != nil {
		log.Fatal(err)
	}
*/
package runner
