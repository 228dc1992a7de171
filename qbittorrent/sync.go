package qbittorrent

import (
	"context"
	"net/url"
	"strconv"
)

// MainData returns one page of the incremental sync stream. Pass rid 0 for
// a full snapshot, then replay the returned Rid to receive only what
// changed since.
func (c *Client) MainData(ctx context.Context, rid int64) (*MainData, error) {
	q := url.Values{}
	q.Set("rid", strconv.FormatInt(rid, 10))

	var data MainData
	if err := c.getJSON(ctx, "sync/maindata", q, &data); err != nil {
		return nil, err
	}
	return &data, nil
}
