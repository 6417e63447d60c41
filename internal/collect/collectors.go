// Package collect implements the traffic collection pass.
//
// This file (collectors.go) contains the five per-endpoint collectors.
// Each collector fetches one API endpoint for one repository, skips items
// whose natural key is already recorded, appends the new rows, and returns
// how many it added. Keys added during the run stay in the in-memory set,
// so a repeated observation later in the same run is still skipped.
package collect

import (
	"context"
	"time"

	"github.com/MuteJack/Traffic-Collector/internal/ghapi"
	"github.com/MuteJack/Traffic-Collector/internal/store"
)

const dayFormat = "2006-01-02"

// utcToday returns the current UTC calendar date. Snapshot endpoints
// (referrers, paths) and release samples are stamped with it because the
// API provides no per-item date.
func utcToday() string {
	return time.Now().UTC().Format(dayFormat)
}

// bucketDate extracts the calendar date from a traffic bucket timestamp
// such as "2025-02-03T00:00:00Z".
func bucketDate(timestamp string) string {
	if len(timestamp) > 10 {
		return timestamp[:10]
	}
	return timestamp
}

// runner holds the shared state for one collection pass: the API client,
// the table paths, and one key set per raw table, loaded once at startup.
type runner struct {
	client *ghapi.Client
	tables store.Tables

	viewKeys     store.KeySet
	cloneKeys    store.KeySet
	referrerKeys store.KeySet
	pathKeys     store.KeySet
	releaseKeys  store.KeySet
}

// collectViews records the daily view buckets not yet present in the views
// table. The endpoint returns up to 14 trailing days.
func (r *runner) collectViews(ctx context.Context, owner, repo string) (int, error) {
	traffic, err := r.client.TrafficViews(ctx, owner, repo)
	if err != nil {
		return 0, err
	}

	repoFull := owner + "/" + repo
	added := 0
	for _, bucket := range traffic.Views {
		record := store.ViewRecord{
			Date:           bucketDate(bucket.Timestamp),
			Repo:           repoFull,
			Views:          bucket.Count,
			UniqueVisitors: bucket.Uniques,
		}
		if r.viewKeys.Has(record.Key()) {
			continue
		}
		if err := store.Append(r.tables.Views(), store.ViewColumns, record.Row()); err != nil {
			return added, err
		}
		r.viewKeys.Add(record.Key())
		added++
	}
	return added, nil
}

// collectClones records the daily clone buckets not yet present in the
// clones table.
func (r *runner) collectClones(ctx context.Context, owner, repo string) (int, error) {
	traffic, err := r.client.TrafficClones(ctx, owner, repo)
	if err != nil {
		return 0, err
	}

	repoFull := owner + "/" + repo
	added := 0
	for _, bucket := range traffic.Clones {
		record := store.CloneRecord{
			Date:          bucketDate(bucket.Timestamp),
			Repo:          repoFull,
			Clones:        bucket.Count,
			UniqueCloners: bucket.Uniques,
		}
		if r.cloneKeys.Has(record.Key()) {
			continue
		}
		if err := store.Append(r.tables.Clones(), store.CloneColumns, record.Row()); err != nil {
			return added, err
		}
		r.cloneKeys.Add(record.Key())
		added++
	}
	return added, nil
}

// collectReferrers records today's top referrers snapshot. Re-running later
// the same day with the same referrer is a no-op even if its counts moved;
// the endpoint has no per-day history, one sample per day is all there is.
func (r *runner) collectReferrers(ctx context.Context, owner, repo string) (int, error) {
	referrers, err := r.client.PopularReferrers(ctx, owner, repo)
	if err != nil {
		return 0, err
	}

	today := utcToday()
	repoFull := owner + "/" + repo
	added := 0
	for _, ref := range referrers {
		record := store.ReferrerRecord{
			Date:           today,
			Repo:           repoFull,
			Referrer:       ref.Referrer,
			Views:          ref.Count,
			UniqueVisitors: ref.Uniques,
		}
		if r.referrerKeys.Has(record.Key()) {
			continue
		}
		if err := store.Append(r.tables.Referrers(), store.ReferrerColumns, record.Row()); err != nil {
			return added, err
		}
		r.referrerKeys.Add(record.Key())
		added++
	}
	return added, nil
}

// collectPaths records today's top content paths snapshot.
func (r *runner) collectPaths(ctx context.Context, owner, repo string) (int, error) {
	paths, err := r.client.PopularPaths(ctx, owner, repo)
	if err != nil {
		return 0, err
	}

	today := utcToday()
	repoFull := owner + "/" + repo
	added := 0
	for _, p := range paths {
		record := store.PathRecord{
			Date:           today,
			Repo:           repoFull,
			Path:           p.Path,
			Title:          p.Title,
			Views:          p.Count,
			UniqueVisitors: p.Uniques,
		}
		if r.pathKeys.Has(record.Key()) {
			continue
		}
		if err := store.Append(r.tables.Paths(), store.PathColumns, record.Row()); err != nil {
			return added, err
		}
		r.pathKeys.Add(record.Key())
		added++
	}
	return added, nil
}

// collectReleases records one daily sample of the cumulative download count
// per (release, asset) pair, up to 100 releases.
func (r *runner) collectReleases(ctx context.Context, owner, repo string) (int, error) {
	releases, err := r.client.Releases(ctx, owner, repo)
	if err != nil {
		return 0, err
	}

	today := utcToday()
	repoFull := owner + "/" + repo
	added := 0
	for _, rel := range releases {
		for _, asset := range rel.Assets {
			record := store.ReleaseRecord{
				Date:          today,
				Repo:          repoFull,
				Tag:           rel.TagName,
				AssetName:     asset.Name,
				DownloadCount: asset.DownloadCount,
			}
			if r.releaseKeys.Has(record.Key()) {
				continue
			}
			if err := store.Append(r.tables.Releases(), store.ReleaseColumns, record.Row()); err != nil {
				return added, err
			}
			r.releaseKeys.Add(record.Key())
			added++
		}
	}
	return added, nil
}
