package main

import (
	"context"
	"errors"

	"github.com/aretw0/vialsort/internal/cli"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play <puzzle-file>",
	Short: "Play the puzzles of a file in the terminal",
	Long: `Plays each puzzle in the file in turn. Type a vial number to select a source,
then another to pour. Enter "help" in the game for every command.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		index, _ := cmd.Flags().GetInt("index")
		force, _ := cmd.Flags().GetBool("force")

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		return cli.RunPlay(ctx, cli.PlayOptions{
			Path:   args[0],
			Index:  index,
			Force:  force,
			Debug:  debug,
			Input:  cmd.InOrStdin(),
			Output: cmd.OutOrStdout(),
		})
	},
}

// exitCode maps command errors to process exit codes.
func exitCode(err error) int {
	if errors.Is(err, cli.ErrInterrupted) {
		return 2
	}
	return 1
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().IntP("index", "n", 0, "Play only the N-th puzzle of the file (1-based)")
	playCmd.Flags().Bool("force", false, "Play even when stdout is not a terminal")
}
