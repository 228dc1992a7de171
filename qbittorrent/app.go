package qbittorrent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// AppVersion returns the server's release string, e.g. "v5.0.1". This asks
// the server directly; TestConnection returns the cached classification
// instead.
func (c *Client) AppVersion(ctx context.Context) (string, error) {
	return c.getText(ctx, "app/version", nil)
}

// WebAPIVersion returns the Web API version, e.g. "2.11.2".
func (c *Client) WebAPIVersion(ctx context.Context) (string, error) {
	return c.getText(ctx, "app/webapiVersion", nil)
}

// AppBuildInfo returns the libraries the server was built against.
func (c *Client) AppBuildInfo(ctx context.Context) (*BuildInfo, error) {
	var info BuildInfo
	if err := c.getJSON(ctx, "app/buildInfo", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Preferences returns the full server preference map. The set of keys
// varies between releases, so the result is left untyped.
func (c *Client) Preferences(ctx context.Context) (map[string]any, error) {
	var prefs map[string]any
	if err := c.getJSON(ctx, "app/preferences", nil, &prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

// SetPreferences updates the given preference keys, leaving the rest
// untouched.
func (c *Client) SetPreferences(ctx context.Context, prefs map[string]any) error {
	payload, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}

	form := url.Values{}
	form.Set("json", string(payload))
	return c.postForm(ctx, "app/setPreferences", form)
}

// DefaultSavePath returns the directory new torrents download into by
// default.
func (c *Client) DefaultSavePath(ctx context.Context) (string, error) {
	return c.getText(ctx, "app/defaultSavePath", nil)
}

// Shutdown asks the server process to exit.
func (c *Client) Shutdown(ctx context.Context) error {
	return c.postForm(ctx, "app/shutdown", url.Values{})
}
