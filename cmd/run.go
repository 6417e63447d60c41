package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/MuteJack/Traffic-Collector/internal/collect"
	"github.com/MuteJack/Traffic-Collector/internal/config"
)

var (
	inputFile string
	outputDir string
	hostname  string
	verbose   bool
	// Feature flags to control which collectors run
	noViews     bool
	noClones    bool
	noReferrers bool
	noPaths     bool
	noReleases  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one traffic collection pass",
	Long: `Run one collection pass for the configured repositories.

The repositories come from the TARGET_REPOS environment variable (comma
separated, either owner/repo or full URL form) and/or from an input file
with one repository per line. The GitHub token comes from GH_TOKEN.

Examples:
  gh-traffic run                                  # repos from TARGET_REPOS
  gh-traffic run --input repos.txt -v             # repos from a file, verbose
  gh-traffic run -O data --no-releases            # custom output dir, skip releases
  gh-traffic run --hostname github.company.com    # GitHub Enterprise Server

Collector failures are logged per repository and do not fail the run;
deduplication against existing rows makes repeated runs idempotent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Load a local .env when present; missing file is not an error.
		_ = godotenv.Load()

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger := logrus.New()
		logger.SetOutput(os.Stderr)
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}

		cc := collect.Config{
			Token:          cfg.Token,
			Repos:          cfg.Repos,
			InputFile:      inputFile,
			OutputDir:      outputDir,
			Hostname:       hostname,
			Verbose:        verbose,
			FetchViews:     !noViews,
			FetchClones:    !noClones,
			FetchReferrers: !noReferrers,
			FetchPaths:     !noPaths,
			FetchReleases:  !noReleases,
		}
		if cc.OutputDir == "" {
			cc.OutputDir = cfg.OutputDir
		}

		// A collection pass is five API calls per repo; 30 minutes is a
		// generous bound against a hung network path.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		go func() {
			sig := <-sigChan
			if sig == syscall.SIGTERM {
				fmt.Fprintln(os.Stderr, "\nReceived termination signal (SIGTERM), shutting down gracefully...")
				cancel()
				return
			}
			fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully... (press Ctrl-C again to force quit)")
			cancel()
			<-sigChan
			fmt.Fprintln(os.Stderr, "\nForce quitting...")
			os.Exit(130) // Standard exit code for SIGINT
		}()

		return collect.RunWithContext(ctx, cc, logger)
	},
}

// init registers the run command and its flags.
func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&inputFile, "input", "i", "", "File with list of repositories to collect (one per line)")
	runCmd.Flags().StringVarP(&outputDir, "output-dir", "O", "", "Output directory for CSV/JSON tables (default: stats, or STATS_DIR)")
	runCmd.Flags().StringVar(&hostname, "hostname", "", "GitHub Enterprise Server hostname (e.g., github.company.com)")
	runCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	// Collector flags - disable individual endpoints
	runCmd.Flags().BoolVar(&noViews, "no-views", false, "Skip collecting traffic views")
	runCmd.Flags().BoolVar(&noClones, "no-clones", false, "Skip collecting traffic clones")
	runCmd.Flags().BoolVar(&noReferrers, "no-referrers", false, "Skip collecting popular referrers")
	runCmd.Flags().BoolVar(&noPaths, "no-paths", false, "Skip collecting popular paths")
	runCmd.Flags().BoolVar(&noReleases, "no-releases", false, "Skip collecting release download counts")
}
