package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MuteJack/Traffic-Collector/internal/store"
)

func TestBuildSummary(t *testing.T) {
	views := []store.ViewRecord{
		{Date: "2025-01-01", Repo: "a/one", Views: 5, UniqueVisitors: 2},
		{Date: "2025-01-02", Repo: "a/one", Views: 3, UniqueVisitors: 1},
		{Date: "2025-01-01", Repo: "b/two", Views: 10, UniqueVisitors: 4},
	}
	clones := []store.CloneRecord{
		{Date: "2025-01-03", Repo: "a/one", Clones: 4, UniqueCloners: 2},
	}
	releases := []store.ReleaseRecord{
		{Date: "2025-01-01", Repo: "a/one", Tag: "v1.0.0", AssetName: "app.tar.gz", DownloadCount: 42},
		{Date: "2025-01-02", Repo: "a/one", Tag: "v1.0.0", AssetName: "app.tar.gz", DownloadCount: 45},
	}

	summary := BuildSummary(views, clones, releases)
	require.Len(t, summary, 2)

	// Sorted by repo name.
	assert.Equal(t, "a/one", summary[0].Repo)
	assert.Equal(t, "b/two", summary[1].Repo)

	a := summary[0]
	assert.Equal(t, 8, a.TotalViews)
	assert.Equal(t, 3, a.TotalUniqueVisitors)
	assert.Equal(t, 4, a.TotalClones)
	assert.Equal(t, 2, a.TotalUniqueCloners)
	assert.Equal(t, 87, a.TotalDownloads)
	// Max date across all sources, here from the clone row.
	assert.Equal(t, "2025-01-03", a.LastDate)

	b := summary[1]
	assert.Equal(t, 10, b.TotalViews)
	assert.Equal(t, 0, b.TotalClones)
	assert.Equal(t, "2025-01-01", b.LastDate)
}

func TestBuildMonthly(t *testing.T) {
	views := []store.ViewRecord{
		{Date: "2025-01-01", Repo: "a/one", Views: 5, UniqueVisitors: 2},
		{Date: "2025-01-02", Repo: "a/one", Views: 3, UniqueVisitors: 1},
		{Date: "2025-02-01", Repo: "a/one", Views: 7, UniqueVisitors: 6},
	}
	clones := []store.CloneRecord{
		{Date: "2025-01-15", Repo: "a/one", Clones: 2, UniqueCloners: 1},
	}
	releases := []store.ReleaseRecord{
		{Date: "2025-02-10", Repo: "a/one", Tag: "v1.0.0", AssetName: "app.tar.gz", DownloadCount: 9},
	}

	monthly := BuildMonthly(views, clones, releases)
	require.Len(t, monthly, 2)

	jan := monthly[0]
	assert.Equal(t, "a/one", jan.Repo)
	assert.Equal(t, "2025-01", jan.Month)
	assert.Equal(t, 8, jan.Views)
	assert.Equal(t, 3, jan.UniqueVisitors)
	assert.Equal(t, 2, jan.Clones)
	assert.Equal(t, 1, jan.UniqueCloners)
	assert.Equal(t, 0, jan.Downloads)

	feb := monthly[1]
	assert.Equal(t, "2025-02", feb.Month)
	assert.Equal(t, 7, feb.Views)
	assert.Equal(t, 9, feb.Downloads)
}

func TestBuildMonthly_SortedAcrossRepos(t *testing.T) {
	views := []store.ViewRecord{
		{Date: "2025-02-01", Repo: "b/two", Views: 1, UniqueVisitors: 1},
		{Date: "2025-01-01", Repo: "b/two", Views: 1, UniqueVisitors: 1},
		{Date: "2025-03-01", Repo: "a/one", Views: 1, UniqueVisitors: 1},
	}

	monthly := BuildMonthly(views, nil, nil)
	require.Len(t, monthly, 3)
	assert.Equal(t, "a/one", monthly[0].Repo)
	assert.Equal(t, "2025-01", monthly[1].Month)
	assert.Equal(t, "2025-02", monthly[2].Month)
}

func TestBuildSummary_Empty(t *testing.T) {
	assert.Empty(t, BuildSummary(nil, nil, nil))
	assert.Empty(t, BuildMonthly(nil, nil, nil))
}
