package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/vialsort/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vialsort",
	Short: "vialsort is a liquid sorting puzzle",
	Long: `Pour colored fluids between vials until every vial is empty or holds a single color.
Puzzles are read from JSON-lines or YAML files and can be played in the terminal
or over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr (same as --log-level debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level of the servers: debug, info, warn or error")
}

// logLevel resolves --log-level. --debug wins over it.
func logLevel(cmd *cobra.Command) (slog.Level, error) {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		return slog.LevelDebug, nil
	}
	s, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(s)
	if err != nil {
		return level, fmt.Errorf("invalid --log-level: %w", err)
	}
	return level, nil
}
