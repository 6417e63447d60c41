package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend(t *testing.T) {
	t.Run("creates parent directory and header on first write", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", ViewsFile)

		record := ViewRecord{Date: "2025-01-01", Repo: "a/one", Views: 5, UniqueVisitors: 2}
		require.NoError(t, Append(path, ViewColumns, record.Row()))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "date,repo,views,unique_visitors", lines[0])
		assert.Equal(t, "2025-01-01,a/one,5,2", lines[1])
	})

	t.Run("appends without rewriting header", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ViewsFile)

		first := ViewRecord{Date: "2025-01-01", Repo: "a/one", Views: 5, UniqueVisitors: 2}
		second := ViewRecord{Date: "2025-01-02", Repo: "a/one", Views: 3, UniqueVisitors: 1}
		require.NoError(t, Append(path, ViewColumns, first.Row()))
		require.NoError(t, Append(path, ViewColumns, second.Row()))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "date,repo,views,unique_visitors", lines[0])
	})

	t.Run("quotes fields containing commas", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), PathsFile)

		record := PathRecord{
			Date: "2025-01-01", Repo: "a/one", Path: "/index",
			Title: "Hello, world", Views: 1, UniqueVisitors: 1,
		}
		require.NoError(t, Append(path, PathColumns, record.Row()))

		rows, err := readTable(path, PathColumns)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Hello, world", rows[0][3])
	})
}

func TestLoadKeys(t *testing.T) {
	t.Run("missing file yields empty set", func(t *testing.T) {
		keys, err := LoadKeys(filepath.Join(t.TempDir(), "absent.csv"), ViewKeyFields)
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("loads one key per row", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ViewsFile)
		a := ViewRecord{Date: "2025-01-01", Repo: "a/one", Views: 5, UniqueVisitors: 2}
		b := ViewRecord{Date: "2025-01-02", Repo: "a/one", Views: 3, UniqueVisitors: 1}
		require.NoError(t, Append(path, ViewColumns, a.Row()))
		require.NoError(t, Append(path, ViewColumns, b.Row()))

		keys, err := LoadKeys(path, ViewKeyFields)
		require.NoError(t, err)
		assert.Len(t, keys, 2)
		assert.True(t, keys.Has(a.Key()))
		assert.True(t, keys.Has(b.Key()))
		assert.False(t, keys.Has(KeyOf("2025-01-03", "a/one")))
	})

	t.Run("missing key fields read as empty strings", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "short.csv")
		require.NoError(t, os.WriteFile(path, []byte("date\n2025-01-01\n"), 0o644))

		keys, err := LoadKeys(path, ViewKeyFields)
		require.NoError(t, err)
		assert.True(t, keys.Has(KeyOf("2025-01-01", "")))
	})
}

func TestWriteAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), SummaryFile)

	require.NoError(t, WriteAll(path, SummaryColumns, [][]string{
		{"a/one", "8", "3", "0", "0", "0", "2025-01-02"},
	}))
	// Rewrite replaces previous contents entirely.
	require.NoError(t, WriteAll(path, SummaryColumns, [][]string{
		{"b/two", "1", "1", "0", "0", "0", "2025-02-01"},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.NotContains(t, content, "a/one")
	assert.Contains(t, content, "b/two")
}

func TestReaders(t *testing.T) {
	t.Run("round trips view records", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ViewsFile)
		record := ViewRecord{Date: "2025-01-01", Repo: "a/one", Views: 5, UniqueVisitors: 2}
		require.NoError(t, Append(path, ViewColumns, record.Row()))

		records, err := ReadViews(path)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, record, records[0])
	})

	t.Run("missing file is an empty table", func(t *testing.T) {
		records, err := ReadClones(filepath.Join(t.TempDir(), "absent.csv"))
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("malformed numeric cells read as zero", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ReleasesFile)
		content := "date,repo,tag,asset_name,download_count\n2025-01-01,a/one,v1.0.0,app.tar.gz,not-a-number\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		records, err := ReadReleases(path)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, 0, records[0].DownloadCount)
		assert.Equal(t, "v1.0.0", records[0].Tag)
	})
}
