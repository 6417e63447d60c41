// Package ghapi provides GitHub API client functionality.
//
// This file (client.go) implements the REST client used by all collectors.
// Requests are authenticated with a bearer token, carry the standard GitHub
// media type and API version headers, and are bounded by a fixed timeout.
// There is no retry logic: a failed call surfaces immediately and the caller
// decides what to skip.
package ghapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	defaultBaseURL = "https://api.github.com"
	apiVersion     = "2022-11-28"
	requestTimeout = 30 * time.Second
)

// APIError is returned for any non-2xx response. It carries the HTTP status
// and the raw response body so auth failures and rate limit messages reach
// the log unmangled.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client is a GitHub REST API client scoped to the traffic and releases
// endpoints. Safe for sequential use; the orchestrator is single-threaded.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *logrus.Logger
}

// ClientOption allows configuring the client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL. Used by tests and for GitHub
// Enterprise Server instances.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a client authenticating with the given token. A
// non-empty hostname switches the base URL to that GitHub Enterprise Server.
func NewClient(token, hostname string, logger *logrus.Logger, opts ...ClientOption) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), ts)
	httpClient.Timeout = requestTimeout

	client := &Client{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		logger:     logger,
	}
	if hostname != "" {
		client.baseURL = fmt.Sprintf("https://%s/api/v3", hostname)
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// getJSON issues a GET against the API path and decodes the JSON body into
// out. Any non-2xx status returns an *APIError.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	c.logger.WithField("url", url).Debug("GET")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// TrafficViews fetches the daily view buckets for a repository.
func (c *Client) TrafficViews(ctx context.Context, owner, repo string) (*TrafficViews, error) {
	var views TrafficViews
	path := fmt.Sprintf("/repos/%s/%s/traffic/views", owner, repo)
	if err := c.getJSON(ctx, path, &views); err != nil {
		return nil, err
	}
	return &views, nil
}

// TrafficClones fetches the daily clone buckets for a repository.
func (c *Client) TrafficClones(ctx context.Context, owner, repo string) (*TrafficClones, error) {
	var clones TrafficClones
	path := fmt.Sprintf("/repos/%s/%s/traffic/clones", owner, repo)
	if err := c.getJSON(ctx, path, &clones); err != nil {
		return nil, err
	}
	return &clones, nil
}

// PopularReferrers fetches the current top referrers snapshot.
func (c *Client) PopularReferrers(ctx context.Context, owner, repo string) ([]Referrer, error) {
	var referrers []Referrer
	path := fmt.Sprintf("/repos/%s/%s/traffic/popular/referrers", owner, repo)
	if err := c.getJSON(ctx, path, &referrers); err != nil {
		return nil, err
	}
	return referrers, nil
}

// PopularPaths fetches the current top content paths snapshot.
func (c *Client) PopularPaths(ctx context.Context, owner, repo string) ([]PopularPath, error) {
	var paths []PopularPath
	path := fmt.Sprintf("/repos/%s/%s/traffic/popular/paths", owner, repo)
	if err := c.getJSON(ctx, path, &paths); err != nil {
		return nil, err
	}
	return paths, nil
}

// Releases fetches up to 100 releases with their assets.
func (c *Client) Releases(ctx context.Context, owner, repo string) ([]Release, error) {
	var releases []Release
	path := fmt.Sprintf("/repos/%s/%s/releases?per_page=100", owner, repo)
	if err := c.getJSON(ctx, path, &releases); err != nil {
		return nil, err
	}
	return releases, nil
}
