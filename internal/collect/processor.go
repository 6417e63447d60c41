// Package collect implements the traffic collection pass.
//
// This file (processor.go) contains the orchestration logic: it loads the
// repository list, loads the dedup key sets once per table, runs every
// enabled collector against every repository sequentially, then regenerates
// the derived tables. Collector failures are isolated per (collector, repo)
// pairing and never fail the run.
package collect

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"

	"github.com/MuteJack/Traffic-Collector/internal/ghapi"
	"github.com/MuteJack/Traffic-Collector/internal/report"
	"github.com/MuteJack/Traffic-Collector/internal/store"
)

// Config holds all options for one collection pass. It is constructed once
// at startup from environment and flags; nothing below this layer reads
// ambient state.
type Config struct {
	Token     string   // GitHub API token
	Repos     []string // Repository specs from configuration
	InputFile string   // Optional file with additional repository specs
	OutputDir string   // Directory for all persisted tables
	Hostname  string   // GitHub Enterprise Server hostname (empty for github.com)
	Verbose   bool     // Enable debug logging

	// Collector toggles (default on, disabled by --no-* flags)
	FetchViews     bool
	FetchClones    bool
	FetchReferrers bool
	FetchPaths     bool
	FetchReleases  bool
}

// Result is the outcome of one collector call for one repository: either a
// count of newly appended rows or the reason it failed.
type Result struct {
	Collector string
	Repo      string
	Added     int
	Err       error
}

// collectorFunc is the common collector signature.
type collectorFunc func(ctx context.Context, owner, repo string) (int, error)

// namedCollector pairs a collector with its display name and config toggle.
type namedCollector struct {
	name    string
	enabled bool
	run     collectorFunc
}

// RunWithContext runs one full collection-and-aggregation pass.
//
// Returns nil when the pass completed, even if individual collectors
// failed; those are reported per repository and reflected in the summary
// line. A non-nil error means the run itself could not proceed: bad
// configuration, cancellation, or an aggregation write failure.
func RunWithContext(ctx context.Context, cfg Config, logger *logrus.Logger) error {
	client := ghapi.NewClient(cfg.Token, cfg.Hostname, logger)
	return runWithClient(ctx, client, cfg, logger)
}

// runWithClient is the body of RunWithContext with the API client injected,
// so tests can point it at a local server.
func runWithClient(ctx context.Context, client *ghapi.Client, cfg Config, logger *logrus.Logger) error {
	repos, err := loadRepos(cfg.Repos, cfg.InputFile)
	if err != nil {
		return err
	}

	tables := store.NewTables(cfg.OutputDir)
	r := &runner{
		client:       client,
		tables:       tables,
		viewKeys:     loadKeysOrEmpty(logger, tables.Views(), store.ViewKeyFields),
		cloneKeys:    loadKeysOrEmpty(logger, tables.Clones(), store.CloneKeyFields),
		referrerKeys: loadKeysOrEmpty(logger, tables.Referrers(), store.ReferrerKeyFields),
		pathKeys:     loadKeysOrEmpty(logger, tables.Paths(), store.PathKeyFields),
		releaseKeys:  loadKeysOrEmpty(logger, tables.Releases(), store.ReleaseKeyFields),
	}

	collectors := []namedCollector{
		{"Views", cfg.FetchViews, r.collectViews},
		{"Clones", cfg.FetchClones, r.collectClones},
		{"Referrers", cfg.FetchReferrers, r.collectReferrers},
		{"Paths", cfg.FetchPaths, r.collectPaths},
		{"Releases", cfg.FetchReleases, r.collectReleases},
	}

	var results []Result
	for _, spec := range repos {
		owner, repo, err := ParseRepoSpec(spec)
		if err != nil {
			pterm.Warning.Printf("⚠ Skipping %s: %v\n", spec, err)
			continue
		}

		pterm.Info.Printf("Processing %s/%s...\n", owner, repo)

		for _, c := range collectors {
			if !c.enabled {
				continue
			}

			added, err := c.run(ctx, owner, repo)
			results = append(results, Result{
				Collector: c.name,
				Repo:      owner + "/" + repo,
				Added:     added,
				Err:       err,
			})

			if err != nil {
				pterm.Warning.Printf("  ⚠ %s failed: %v\n", c.name, err)
				logger.WithFields(logrus.Fields{
					"collector": c.name,
					"repo":      owner + "/" + repo,
				}).WithError(err).Warn("collector failed")
			} else {
				pterm.Success.Printf("  ✓ %s: %d new records\n", c.name, added)
			}

			// A failed collector never aborts the pass, but a cancelled
			// context does: nothing after it can succeed.
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}

	if err := report.Generate(tables, logger); err != nil {
		return fmt.Errorf("failed to generate derived tables: %w", err)
	}

	printSummary(results)
	return nil
}

// loadKeysOrEmpty loads a table's key set, falling back to an empty set
// when the table is unreadable. A malformed local file means "nothing to
// deduplicate against", not a fatal error.
func loadKeysOrEmpty(logger *logrus.Logger, path string, keyFields []string) store.KeySet {
	keys, err := store.LoadKeys(path, keyFields)
	if err != nil {
		logger.WithField("table", path).WithError(err).Warn("could not load existing keys, treating table as empty")
		return make(store.KeySet)
	}
	return keys
}

// printSummary prints the completion line for the pass.
func printSummary(results []Result) {
	totalAdded := 0
	failed := 0
	repos := make(map[string]struct{})
	for _, res := range results {
		repos[res.Repo] = struct{}{}
		if res.Err != nil {
			failed++
			continue
		}
		totalAdded += res.Added
	}

	if failed > 0 {
		pterm.Warning.Printf("Complete with warnings: %d repos | %d new records | %d collector failures\n",
			len(repos), totalAdded, failed)
		return
	}
	pterm.Success.Printf("✓ Complete! %d repos | %d new records\n", len(repos), totalAdded)
}
