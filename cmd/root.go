// Package cmd provides the command-line interface for gh-traffic.
// It defines the Cobra command structure, flag handling, and command execution
// for collecting GitHub repository traffic and release-download metrics.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set by the main package from the build-time version.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "gh-traffic",
	Short: "Collect GitHub repository traffic and release-download metrics",
	Long: `gh-traffic pulls traffic views, clones, referrers, paths and release
download counts for a set of repositories and records them as append-only
CSV time series with derived summary rollups.`,
	Run: func(cmd *cobra.Command, args []string) {
		// fallback message, collection logic is in a subcommand
		fmt.Println("Use `gh-traffic run` to start a collection pass.")
	},
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
