// Package report regenerates the derived tables from the raw tables.
//
// Derived tables are not append-only: summary.csv, monthly.csv and
// summary.json are rebuilt from scratch on every run, so they always
// reflect the current raw-table contents with no drift.
package report

import (
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MuteJack/Traffic-Collector/internal/store"
)

// SummaryRecord holds the cumulative totals for one repository across all
// raw tables, plus the most recent date observed in any of them.
type SummaryRecord struct {
	Repo                string `json:"-"`
	TotalViews          int    `json:"total_views"`
	TotalUniqueVisitors int    `json:"total_unique_visitors"`
	TotalClones         int    `json:"total_clones"`
	TotalUniqueCloners  int    `json:"total_unique_cloners"`
	TotalDownloads      int    `json:"total_downloads"`
	LastDate            string `json:"last_date"`
}

func (r SummaryRecord) Row() []string {
	return []string{
		r.Repo,
		strconv.Itoa(r.TotalViews),
		strconv.Itoa(r.TotalUniqueVisitors),
		strconv.Itoa(r.TotalClones),
		strconv.Itoa(r.TotalUniqueCloners),
		strconv.Itoa(r.TotalDownloads),
		r.LastDate,
	}
}

// MonthlyRecord holds one repository's totals for one calendar month.
type MonthlyRecord struct {
	Repo           string `json:"-"`
	Month          string `json:"month"`
	Views          int    `json:"views"`
	UniqueVisitors int    `json:"unique_visitors"`
	Clones         int    `json:"clones"`
	UniqueCloners  int    `json:"unique_cloners"`
	Downloads      int    `json:"downloads"`
}

func (r MonthlyRecord) Row() []string {
	return []string{
		r.Repo,
		r.Month,
		strconv.Itoa(r.Views),
		strconv.Itoa(r.UniqueVisitors),
		strconv.Itoa(r.Clones),
		strconv.Itoa(r.UniqueCloners),
		strconv.Itoa(r.Downloads),
	}
}

// BuildSummary computes per-repo cumulative totals, sorted by repo name.
func BuildSummary(views []store.ViewRecord, clones []store.CloneRecord, releases []store.ReleaseRecord) []SummaryRecord {
	byRepo := make(map[string]*SummaryRecord)

	get := func(repo string) *SummaryRecord {
		rec, ok := byRepo[repo]
		if !ok {
			rec = &SummaryRecord{Repo: repo}
			byRepo[repo] = rec
		}
		return rec
	}

	for _, v := range views {
		rec := get(v.Repo)
		rec.TotalViews += v.Views
		rec.TotalUniqueVisitors += v.UniqueVisitors
		if v.Date > rec.LastDate {
			rec.LastDate = v.Date
		}
	}
	for _, c := range clones {
		rec := get(c.Repo)
		rec.TotalClones += c.Clones
		rec.TotalUniqueCloners += c.UniqueCloners
		if c.Date > rec.LastDate {
			rec.LastDate = c.Date
		}
	}
	for _, r := range releases {
		rec := get(r.Repo)
		rec.TotalDownloads += r.DownloadCount
		if r.Date > rec.LastDate {
			rec.LastDate = r.Date
		}
	}

	records := make([]SummaryRecord, 0, len(byRepo))
	for _, rec := range byRepo {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Repo < records[j].Repo
	})
	return records
}

// BuildMonthly groups the raw rows by (repo, calendar month) and sums each
// metric per bucket. Sorting by (repo, month) lexicographically is
// chronological because dates are ISO YYYY-MM-DD.
func BuildMonthly(views []store.ViewRecord, clones []store.CloneRecord, releases []store.ReleaseRecord) []MonthlyRecord {
	type bucket struct {
		repo, month string
	}
	byBucket := make(map[bucket]*MonthlyRecord)

	get := func(repo, date string) *MonthlyRecord {
		b := bucket{repo: repo, month: monthOf(date)}
		rec, ok := byBucket[b]
		if !ok {
			rec = &MonthlyRecord{Repo: b.repo, Month: b.month}
			byBucket[b] = rec
		}
		return rec
	}

	for _, v := range views {
		rec := get(v.Repo, v.Date)
		rec.Views += v.Views
		rec.UniqueVisitors += v.UniqueVisitors
	}
	for _, c := range clones {
		rec := get(c.Repo, c.Date)
		rec.Clones += c.Clones
		rec.UniqueCloners += c.UniqueCloners
	}
	for _, r := range releases {
		rec := get(r.Repo, r.Date)
		rec.Downloads += r.DownloadCount
	}

	records := make([]MonthlyRecord, 0, len(byBucket))
	for _, rec := range byBucket {
		records = append(records, *rec)
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Repo != records[j].Repo {
			return records[i].Repo < records[j].Repo
		}
		return records[i].Month < records[j].Month
	})
	return records
}

// monthOf extracts the YYYY-MM month from an ISO date.
func monthOf(date string) string {
	if len(date) > 7 {
		return date[:7]
	}
	return date
}

// Generate reads the current raw tables and rewrites all three derived
// outputs: summary.csv, monthly.csv and summary.json.
func Generate(tables store.Tables, logger *logrus.Logger) error {
	views, err := store.ReadViews(tables.Views())
	if err != nil {
		return err
	}
	clones, err := store.ReadClones(tables.Clones())
	if err != nil {
		return err
	}
	releases, err := store.ReadReleases(tables.Releases())
	if err != nil {
		return err
	}

	summary := BuildSummary(views, clones, releases)
	monthly := BuildMonthly(views, clones, releases)

	logger.WithFields(logrus.Fields{
		"repos":        len(summary),
		"monthly_rows": len(monthly),
		"view_rows":    len(views),
		"clone_rows":   len(clones),
		"release_rows": len(releases),
	}).Debug("rebuilding derived tables")

	summaryRows := make([][]string, 0, len(summary))
	for _, rec := range summary {
		summaryRows = append(summaryRows, rec.Row())
	}
	if err := store.WriteAll(tables.Summary(), store.SummaryColumns, summaryRows); err != nil {
		return err
	}

	monthlyRows := make([][]string, 0, len(monthly))
	for _, rec := range monthly {
		monthlyRows = append(monthlyRows, rec.Row())
	}
	if err := store.WriteAll(tables.Monthly(), store.MonthlyColumns, monthlyRows); err != nil {
		return err
	}

	generated := time.Now().UTC().Format("2006-01-02")
	export := BuildExport(generated, summary, monthly, views, clones)
	return WriteExport(tables.Export(), export)
}
