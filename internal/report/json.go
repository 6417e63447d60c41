// Package report regenerates the derived tables from the raw tables.
//
// This file (json.go) builds the denormalized JSON export consumed by the
// chart frontend and writes it atomically (temp file + fsync + rename) so a
// crash mid-write never leaves a truncated document behind.
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/MuteJack/Traffic-Collector/internal/store"
)

// Export is the top-level structure of summary.json.
type Export struct {
	Generated string                 `json:"generated"`
	Repos     map[string]*RepoExport `json:"repos"`
}

// RepoExport combines one repository's summary totals with its full daily
// and monthly series.
type RepoExport struct {
	SummaryRecord
	DailyViews  []store.ViewRecord  `json:"daily_views"`
	DailyClones []store.CloneRecord `json:"daily_clones"`
	Monthly     []MonthlyRecord     `json:"monthly"`
}

// BuildExport assembles the export keyed by repo. Only repositories present
// in the summary appear; raw rows for any other repo are dropped. The join
// is deliberately defensive: the summary defines which repos exist.
func BuildExport(generated string, summary []SummaryRecord, monthly []MonthlyRecord, views []store.ViewRecord, clones []store.CloneRecord) *Export {
	export := &Export{
		Generated: generated,
		Repos:     make(map[string]*RepoExport, len(summary)),
	}

	for _, rec := range summary {
		export.Repos[rec.Repo] = &RepoExport{
			SummaryRecord: rec,
			DailyViews:    []store.ViewRecord{},
			DailyClones:   []store.CloneRecord{},
			Monthly:       []MonthlyRecord{},
		}
	}

	for _, v := range views {
		if repo, ok := export.Repos[v.Repo]; ok {
			repo.DailyViews = append(repo.DailyViews, v)
		}
	}
	for _, c := range clones {
		if repo, ok := export.Repos[c.Repo]; ok {
			repo.DailyClones = append(repo.DailyClones, c)
		}
	}
	for _, m := range monthly {
		if repo, ok := export.Repos[m.Repo]; ok {
			repo.Monthly = append(repo.Monthly, m)
		}
	}

	return export
}

// WriteExport writes the export as pretty-printed JSON using an atomic
// temp-file-and-rename.
func WriteExport(path string, export *Export) (err error) {
	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create temp file %s: %w", tmpFile, err)
	}

	defer func() {
		if err != nil {
			_ = file.Close()
			_ = os.Remove(tmpFile)
		}
	}()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err = encoder.Encode(export); err != nil {
		return fmt.Errorf("failed to write JSON to %s: %w", tmpFile, err)
	}

	if err = file.Sync(); err != nil {
		return fmt.Errorf("failed to sync file %s: %w", tmpFile, err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", tmpFile, err)
	}

	if err = os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}

	return nil
}
