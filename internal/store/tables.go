// Package store persists collected metrics as flat CSV tables.
//
// Raw tables (views, clones, referrers, paths, releases) are append-only:
// a row is written once, on first observation of its natural key, and never
// mutated. Derived tables (summary, monthly) are rewritten wholesale on
// every run. Each record type maps to and from its CSV row explicitly; no
// table is accessed through untyped key lookups.
package store

import (
	"path/filepath"
	"strconv"
)

// File names for all tables under the output directory.
const (
	ViewsFile     = "traffic_views.csv"
	ClonesFile    = "traffic_clones.csv"
	ReferrersFile = "traffic_referrers.csv"
	PathsFile     = "traffic_paths.csv"
	ReleasesFile  = "releases_daily.csv"
	SummaryFile   = "summary.csv"
	MonthlyFile   = "monthly.csv"
	ExportFile    = "summary.json"
)

// Column sets for each table. The leading columns of each raw table form
// its natural key.
var (
	ViewColumns     = []string{"date", "repo", "views", "unique_visitors"}
	CloneColumns    = []string{"date", "repo", "clones", "unique_cloners"}
	ReferrerColumns = []string{"date", "repo", "referrer", "views", "unique_visitors"}
	PathColumns     = []string{"date", "repo", "path", "title", "views", "unique_visitors"}
	ReleaseColumns  = []string{"date", "repo", "tag", "asset_name", "download_count"}
	SummaryColumns  = []string{"repo", "total_views", "total_unique_visitors", "total_clones", "total_unique_cloners", "total_downloads", "last_date"}
	MonthlyColumns  = []string{"repo", "month", "views", "unique_visitors", "clones", "unique_cloners", "downloads"}
)

// Natural key fields per raw table, in key order.
var (
	ViewKeyFields     = []string{"date", "repo"}
	CloneKeyFields    = []string{"date", "repo"}
	ReferrerKeyFields = []string{"date", "repo", "referrer"}
	PathKeyFields     = []string{"date", "repo", "path"}
	ReleaseKeyFields  = []string{"date", "repo", "tag", "asset_name"}
)

// Tables resolves the file paths for all tables under one output directory.
type Tables struct {
	Dir string
}

func NewTables(dir string) Tables {
	return Tables{Dir: dir}
}

func (t Tables) Views() string     { return filepath.Join(t.Dir, ViewsFile) }
func (t Tables) Clones() string    { return filepath.Join(t.Dir, ClonesFile) }
func (t Tables) Referrers() string { return filepath.Join(t.Dir, ReferrersFile) }
func (t Tables) Paths() string     { return filepath.Join(t.Dir, PathsFile) }
func (t Tables) Releases() string  { return filepath.Join(t.Dir, ReleasesFile) }
func (t Tables) Summary() string   { return filepath.Join(t.Dir, SummaryFile) }
func (t Tables) Monthly() string   { return filepath.Join(t.Dir, MonthlyFile) }
func (t Tables) Export() string    { return filepath.Join(t.Dir, ExportFile) }

// ViewRecord is one UTC day of view traffic for one repository.
type ViewRecord struct {
	Date           string `json:"date"`
	Repo           string `json:"-"`
	Views          int    `json:"views"`
	UniqueVisitors int    `json:"unique_visitors"`
}

func (r ViewRecord) Key() string { return KeyOf(r.Date, r.Repo) }

func (r ViewRecord) Row() []string {
	return []string{r.Date, r.Repo, strconv.Itoa(r.Views), strconv.Itoa(r.UniqueVisitors)}
}

// CloneRecord is one UTC day of clone traffic for one repository.
type CloneRecord struct {
	Date          string `json:"date"`
	Repo          string `json:"-"`
	Clones        int    `json:"clones"`
	UniqueCloners int    `json:"unique_cloners"`
}

func (r CloneRecord) Key() string { return KeyOf(r.Date, r.Repo) }

func (r CloneRecord) Row() []string {
	return []string{r.Date, r.Repo, strconv.Itoa(r.Clones), strconv.Itoa(r.UniqueCloners)}
}

// ReferrerRecord is one referrer from the "popular referrers" snapshot,
// stamped with the UTC date it was observed.
type ReferrerRecord struct {
	Date           string
	Repo           string
	Referrer       string
	Views          int
	UniqueVisitors int
}

func (r ReferrerRecord) Key() string { return KeyOf(r.Date, r.Repo, r.Referrer) }

func (r ReferrerRecord) Row() []string {
	return []string{r.Date, r.Repo, r.Referrer, strconv.Itoa(r.Views), strconv.Itoa(r.UniqueVisitors)}
}

// PathRecord is one content path from the "popular paths" snapshot.
type PathRecord struct {
	Date           string
	Repo           string
	Path           string
	Title          string
	Views          int
	UniqueVisitors int
}

func (r PathRecord) Key() string { return KeyOf(r.Date, r.Repo, r.Path) }

func (r PathRecord) Row() []string {
	return []string{r.Date, r.Repo, r.Path, r.Title, strconv.Itoa(r.Views), strconv.Itoa(r.UniqueVisitors)}
}

// ReleaseRecord is one daily sample of the cumulative download counter for
// one release asset.
type ReleaseRecord struct {
	Date          string
	Repo          string
	Tag           string
	AssetName     string
	DownloadCount int
}

func (r ReleaseRecord) Key() string { return KeyOf(r.Date, r.Repo, r.Tag, r.AssetName) }

func (r ReleaseRecord) Row() []string {
	return []string{r.Date, r.Repo, r.Tag, r.AssetName, strconv.Itoa(r.DownloadCount)}
}

// ReadViews loads all view rows from a table. A missing file is an empty
// table, not an error.
func ReadViews(path string) ([]ViewRecord, error) {
	rows, err := readTable(path, ViewColumns)
	if err != nil {
		return nil, err
	}
	records := make([]ViewRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ViewRecord{
			Date:           row[0],
			Repo:           row[1],
			Views:          atoi(row[2]),
			UniqueVisitors: atoi(row[3]),
		})
	}
	return records, nil
}

// ReadClones loads all clone rows from a table.
func ReadClones(path string) ([]CloneRecord, error) {
	rows, err := readTable(path, CloneColumns)
	if err != nil {
		return nil, err
	}
	records := make([]CloneRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, CloneRecord{
			Date:          row[0],
			Repo:          row[1],
			Clones:        atoi(row[2]),
			UniqueCloners: atoi(row[3]),
		})
	}
	return records, nil
}

// ReadReleases loads all release download samples from a table.
func ReadReleases(path string) ([]ReleaseRecord, error) {
	rows, err := readTable(path, ReleaseColumns)
	if err != nil {
		return nil, err
	}
	records := make([]ReleaseRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ReleaseRecord{
			Date:          row[0],
			Repo:          row[1],
			Tag:           row[2],
			AssetName:     row[3],
			DownloadCount: atoi(row[4]),
		})
	}
	return records, nil
}

// atoi parses a numeric cell, treating malformed values as zero. Existing
// tables are never trusted to be well formed; a bad cell should not abort
// aggregation.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
