package main

import (
	"github.com/aretw0/vialsort/internal/cli"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <puzzle-file>",
	Short: "Validate every puzzle of a file",
	Long:  `Loads each puzzle and reports its vial count, capacity, colors and whether it is already solved.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunCheck(args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
