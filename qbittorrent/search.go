package qbittorrent

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// SearchJob identifies a running plugin search.
type SearchJob struct {
	ID int64 `json:"id"`
}

// SearchStatus reports the progress of one search job.
type SearchStatus struct {
	ID     int64  `json:"id"`
	Status string `json:"status"` // "Running" or "Stopped"
	Total  int    `json:"total"`
}

// SearchResult is a single hit returned by a search plugin.
type SearchResult struct {
	FileName        string `json:"fileName"`
	FileURL         string `json:"fileUrl"`
	FileSize        int64  `json:"fileSize"`
	Seeders         int    `json:"nbSeeders"`
	Leechers        int    `json:"nbLeechers"`
	SiteURL         string `json:"siteUrl"`
	DescriptionLink string `json:"descrLink"`
}

// SearchResults is one page of hits for a search job.
type SearchResults struct {
	Results []SearchResult `json:"results"`
	Status  string         `json:"status"`
	Total   int            `json:"total"`
}

// SearchPlugin describes an installed search plugin.
type SearchPlugin struct {
	Enabled             bool     `json:"enabled"`
	FullName            string   `json:"fullName"`
	Name                string   `json:"name"`
	SupportedCategories []string `json:"supportedCategories"`
	URL                 string   `json:"url"`
	Version             string   `json:"version"`
}

// StartSearch begins a plugin search for pattern. plugins may be specific
// plugin names, or nil for every enabled plugin. The returned job ID feeds
// SearchStatus, SearchResults and StopSearch.
func (c *Client) StartSearch(ctx context.Context, pattern string, plugins []string, category string) (int64, error) {
	form := url.Values{}
	form.Set("pattern", pattern)
	if len(plugins) > 0 {
		form.Set("plugins", joinList(plugins, "|"))
	} else {
		form.Set("plugins", "enabled")
	}
	if category == "" {
		category = "all"
	}
	form.Set("category", category)

	var job SearchJob
	if err := c.postFormJSON(ctx, "search/start", form, &job); err != nil {
		return 0, err
	}
	return job.ID, nil
}

// StopSearch halts a running search job.
func (c *Client) StopSearch(ctx context.Context, id int64) error {
	form := url.Values{}
	form.Set("id", strconv.FormatInt(id, 10))
	return c.postForm(ctx, "search/stop", form)
}

// SearchJobStatus reports the state of one search job.
func (c *Client) SearchJobStatus(ctx context.Context, id int64) (*SearchStatus, error) {
	q := url.Values{}
	q.Set("id", strconv.FormatInt(id, 10))

	var statuses []SearchStatus
	if err := c.getJSON(ctx, "search/status", q, &statuses); err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		return nil, fmt.Errorf("search job %d not found", id)
	}
	return &statuses[0], nil
}

// SearchResultsPage returns one page of hits for a search job. limit 0
// means no limit.
func (c *Client) SearchResultsPage(ctx context.Context, id int64, limit, offset int) (*SearchResults, error) {
	q := url.Values{}
	q.Set("id", strconv.FormatInt(id, 10))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}

	var results SearchResults
	if err := c.getJSON(ctx, "search/results", q, &results); err != nil {
		return nil, err
	}
	return &results, nil
}

// DeleteSearch discards a finished search job and its results.
func (c *Client) DeleteSearch(ctx context.Context, id int64) error {
	form := url.Values{}
	form.Set("id", strconv.FormatInt(id, 10))
	return c.postForm(ctx, "search/delete", form)
}

// SearchPlugins lists the installed search plugins.
func (c *Client) SearchPlugins(ctx context.Context) ([]SearchPlugin, error) {
	var plugins []SearchPlugin
	if err := c.getJSON(ctx, "search/plugins", nil, &plugins); err != nil {
		return nil, err
	}
	return plugins, nil
}
