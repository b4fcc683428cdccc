package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/vialsort"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of vialsort",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vialsort version %s\n", strings.TrimSpace(vialsort.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
