package qbittorrent

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// Torrents lists torrents matching the filter. State filter tokens are
// remapped to the connected server's vocabulary, so both "paused"/"resumed"
// and "stopped"/"running" work against either generation.
func (c *Client) Torrents(ctx context.Context, opts TorrentFilterOptions) ([]Torrent, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}

	var torrents []Torrent
	if err := c.getJSON(ctx, "torrents/info", opts.values(c.policy()), &torrents); err != nil {
		return nil, err
	}
	c.logger.Debug().Int("count", len(torrents)).Msg("Listed torrents")
	return torrents, nil
}

// TorrentByHash returns the torrent with the given info hash, or an error
// when the server does not know it.
func (c *Client) TorrentByHash(ctx context.Context, hash string) (*Torrent, error) {
	torrents, err := c.Torrents(ctx, TorrentFilterOptions{Hashes: []string{hash}})
	if err != nil {
		return nil, err
	}
	if len(torrents) == 0 {
		return nil, fmt.Errorf("torrent %s not found", hash)
	}
	return &torrents[0], nil
}

// AddTorrentURLs adds torrents from magnet links or .torrent URLs.
func (c *Client) AddTorrentURLs(ctx context.Context, urls []string, opts *AddTorrentOptions) error {
	if len(urls) == 0 {
		return fmt.Errorf("no torrent URLs given")
	}
	if err := c.ensureSession(ctx); err != nil {
		return err
	}

	form := url.Values{}
	for key, value := range opts.fields(c.policy()) {
		form.Set(key, value)
	}
	form.Set("urls", joinList(urls, "\n"))
	return c.postForm(ctx, "torrents/add", form)
}

// AddTorrentFiles adds torrents from raw .torrent file contents.
func (c *Client) AddTorrentFiles(ctx context.Context, files []UploadFile, opts *AddTorrentOptions) error {
	if len(files) == 0 {
		return fmt.Errorf("no torrent files given")
	}
	if err := c.ensureSession(ctx); err != nil {
		return err
	}
	return c.postMultipart(ctx, "torrents/add", opts.fields(c.policy()), files)
}

// DeleteTorrents removes torrents, optionally deleting their downloaded
// data. Pass AllTorrents to remove everything.
func (c *Client) DeleteTorrents(ctx context.Context, hashes []string, deleteFiles bool) error {
	form := url.Values{}
	form.Set("hashes", joinHashes(hashes))
	form.Set("deleteFiles", strconv.FormatBool(deleteFiles))
	return c.postForm(ctx, "torrents/delete", form)
}

// StopTorrents halts the given torrents. The endpoint name is chosen from
// the detected server version: "stop" on 5.0+, "pause" before.
func (c *Client) StopTorrents(ctx context.Context, hashes []string) error {
	if err := c.ensureSession(ctx); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("hashes", joinHashes(hashes))
	return c.postForm(ctx, c.policy().stopPath(), form)
}

// PauseTorrents is the pre-5.0 name for StopTorrents. Both resolve to the
// same version-appropriate endpoint.
func (c *Client) PauseTorrents(ctx context.Context, hashes []string) error {
	return c.StopTorrents(ctx, hashes)
}

// StartTorrents resumes the given torrents, choosing "start" or "resume"
// to match the server version.
func (c *Client) StartTorrents(ctx context.Context, hashes []string) error {
	if err := c.ensureSession(ctx); err != nil {
		return err
	}

	form := url.Values{}
	form.Set("hashes", joinHashes(hashes))
	return c.postForm(ctx, c.policy().startPath(), form)
}

// ResumeTorrents is the pre-5.0 name for StartTorrents.
func (c *Client) ResumeTorrents(ctx context.Context, hashes []string) error {
	return c.StartTorrents(ctx, hashes)
}

// RecheckTorrents re-verifies downloaded data against piece hashes.
func (c *Client) RecheckTorrents(ctx context.Context, hashes []string) error {
	form := url.Values{}
	form.Set("hashes", joinHashes(hashes))
	return c.postForm(ctx, "torrents/recheck", form)
}

// ReannounceTorrents forces a tracker reannounce.
func (c *Client) ReannounceTorrents(ctx context.Context, hashes []string) error {
	form := url.Values{}
	form.Set("hashes", joinHashes(hashes))
	return c.postForm(ctx, "torrents/reannounce", form)
}

// TorrentProperties returns the detailed properties of one torrent.
func (c *Client) TorrentProperties(ctx context.Context, hash string) (*TorrentProperties, error) {
	q := url.Values{}
	q.Set("hash", hash)

	var props TorrentProperties
	if err := c.getJSON(ctx, "torrents/properties", q, &props); err != nil {
		return nil, err
	}
	return &props, nil
}

// TorrentTrackers returns the tracker list of one torrent.
func (c *Client) TorrentTrackers(ctx context.Context, hash string) ([]Tracker, error) {
	q := url.Values{}
	q.Set("hash", hash)

	var trackers []Tracker
	if err := c.getJSON(ctx, "torrents/trackers", q, &trackers); err != nil {
		return nil, err
	}
	return trackers, nil
}

// AddTrackers attaches tracker URLs to a torrent.
func (c *Client) AddTrackers(ctx context.Context, hash string, urls []string) error {
	form := url.Values{}
	form.Set("hash", hash)
	form.Set("urls", joinList(urls, "\n"))
	return c.postForm(ctx, "torrents/addTrackers", form)
}

// TorrentFiles returns the content listing of one torrent.
func (c *Client) TorrentFiles(ctx context.Context, hash string) ([]TorrentFile, error) {
	q := url.Values{}
	q.Set("hash", hash)

	var files []TorrentFile
	if err := c.getJSON(ctx, "torrents/files", q, &files); err != nil {
		return nil, err
	}
	return files, nil
}
