// Package ghapi provides GitHub API client functionality.
//
// This file (types.go) defines the response structures for the REST
// endpoints consumed by the collectors: traffic views, traffic clones,
// popular referrers, popular paths, and releases.
package ghapi

// TrafficBucket is one daily bucket from the traffic views/clones endpoints.
type TrafficBucket struct {
	Timestamp string `json:"timestamp"` // ISO 8601, e.g. "2025-02-03T00:00:00Z"
	Count     int    `json:"count"`
	Uniques   int    `json:"uniques"`
}

// TrafficViews is the response from /repos/{owner}/{repo}/traffic/views.
// The API exposes at most 14 trailing daily buckets.
type TrafficViews struct {
	Count   int             `json:"count"`
	Uniques int             `json:"uniques"`
	Views   []TrafficBucket `json:"views"`
}

// TrafficClones is the response from /repos/{owner}/{repo}/traffic/clones.
type TrafficClones struct {
	Count   int             `json:"count"`
	Uniques int             `json:"uniques"`
	Clones  []TrafficBucket `json:"clones"`
}

// Referrer is one entry from /repos/{owner}/{repo}/traffic/popular/referrers.
// The endpoint is a rolling "current top N" snapshot with no per-item date.
type Referrer struct {
	Referrer string `json:"referrer"`
	Count    int    `json:"count"`
	Uniques  int    `json:"uniques"`
}

// PopularPath is one entry from /repos/{owner}/{repo}/traffic/popular/paths.
type PopularPath struct {
	Path    string `json:"path"`
	Title   string `json:"title"`
	Count   int    `json:"count"`
	Uniques int    `json:"uniques"`
}

// ReleaseAsset is a downloadable asset attached to a release. DownloadCount
// is cumulative over the lifetime of the asset.
type ReleaseAsset struct {
	Name          string `json:"name"`
	DownloadCount int    `json:"download_count"`
}

// Release is one entry from /repos/{owner}/{repo}/releases.
type Release struct {
	TagName string         `json:"tag_name"`
	Name    string         `json:"name"`
	Assets  []ReleaseAsset `json:"assets"`
}
