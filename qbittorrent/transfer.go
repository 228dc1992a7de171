package qbittorrent

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// TransferInfo returns the global transfer statistics shown in the status
// bar of the Web UI.
func (c *Client) TransferInfo(ctx context.Context) (*TransferInfo, error) {
	var info TransferInfo
	if err := c.getJSON(ctx, "transfer/info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SpeedLimitsMode reports whether alternative speed limits are active.
func (c *Client) SpeedLimitsMode(ctx context.Context) (bool, error) {
	text, err := c.getText(ctx, "transfer/speedLimitsMode", nil)
	if err != nil {
		return false, err
	}
	switch text {
	case "1":
		return true, nil
	case "0":
		return false, nil
	}
	return false, fmt.Errorf("unexpected speed limits mode %q", text)
}

// ToggleSpeedLimitsMode switches between normal and alternative speed
// limits.
func (c *Client) ToggleSpeedLimitsMode(ctx context.Context) error {
	return c.postForm(ctx, "transfer/toggleSpeedLimitsMode", url.Values{})
}

// DownloadLimit returns the global download limit in bytes per second,
// zero meaning unlimited.
func (c *Client) DownloadLimit(ctx context.Context) (int64, error) {
	text, err := c.getText(ctx, "transfer/downloadLimit", nil)
	if err != nil {
		return 0, err
	}
	limit, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing download limit %q: %w", text, err)
	}
	return limit, nil
}

// SetDownloadLimit sets the global download limit in bytes per second,
// zero meaning unlimited.
func (c *Client) SetDownloadLimit(ctx context.Context, limit int64) error {
	form := url.Values{}
	form.Set("limit", strconv.FormatInt(limit, 10))
	return c.postForm(ctx, "transfer/setDownloadLimit", form)
}

// UploadLimit returns the global upload limit in bytes per second, zero
// meaning unlimited.
func (c *Client) UploadLimit(ctx context.Context) (int64, error) {
	text, err := c.getText(ctx, "transfer/uploadLimit", nil)
	if err != nil {
		return 0, err
	}
	limit, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing upload limit %q: %w", text, err)
	}
	return limit, nil
}

// SetUploadLimit sets the global upload limit in bytes per second, zero
// meaning unlimited.
func (c *Client) SetUploadLimit(ctx context.Context, limit int64) error {
	form := url.Values{}
	form.Set("limit", strconv.FormatInt(limit, 10))
	return c.postForm(ctx, "transfer/setUploadLimit", form)
}

// BanPeers blocks the given peers, each in "host:port" form.
func (c *Client) BanPeers(ctx context.Context, peers []string) error {
	form := url.Values{}
	form.Set("peers", joinList(peers, "|"))
	return c.postForm(ctx, "transfer/banPeers", form)
}
