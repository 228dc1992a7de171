package qbittorrent

import (
	"context"
	"net/url"
)

// Tags returns every tag known to the server.
func (c *Client) Tags(ctx context.Context) ([]string, error) {
	var tags []string
	if err := c.getJSON(ctx, "torrents/tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTags registers tags without attaching them to any torrent.
func (c *Client) CreateTags(ctx context.Context, tags []string) error {
	form := url.Values{}
	form.Set("tags", joinList(tags, ","))
	return c.postForm(ctx, "torrents/createTags", form)
}

// DeleteTags removes tags from the server and from every torrent carrying
// them.
func (c *Client) DeleteTags(ctx context.Context, tags []string) error {
	form := url.Values{}
	form.Set("tags", joinList(tags, ","))
	return c.postForm(ctx, "torrents/deleteTags", form)
}

// AddTorrentTags attaches tags to the given torrents, creating unknown tags
// on the fly.
func (c *Client) AddTorrentTags(ctx context.Context, hashes, tags []string) error {
	form := url.Values{}
	form.Set("hashes", joinHashes(hashes))
	form.Set("tags", joinList(tags, ","))
	return c.postForm(ctx, "torrents/addTags", form)
}

// RemoveTorrentTags detaches tags from the given torrents. An empty tag
// list removes all tags.
func (c *Client) RemoveTorrentTags(ctx context.Context, hashes, tags []string) error {
	form := url.Values{}
	form.Set("hashes", joinHashes(hashes))
	form.Set("tags", joinList(tags, ","))
	return c.postForm(ctx, "torrents/removeTags", form)
}

// Categories returns every category keyed by name.
func (c *Client) Categories(ctx context.Context) (map[string]Category, error) {
	var categories map[string]Category
	if err := c.getJSON(ctx, "torrents/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory adds a category with an optional save path.
func (c *Client) CreateCategory(ctx context.Context, name, savePath string) error {
	form := url.Values{}
	form.Set("category", name)
	form.Set("savePath", savePath)
	return c.postForm(ctx, "torrents/createCategory", form)
}

// EditCategory changes a category's save path.
func (c *Client) EditCategory(ctx context.Context, name, savePath string) error {
	form := url.Values{}
	form.Set("category", name)
	form.Set("savePath", savePath)
	return c.postForm(ctx, "torrents/editCategory", form)
}

// RemoveCategories deletes categories; torrents keep their data but lose
// the assignment.
func (c *Client) RemoveCategories(ctx context.Context, names []string) error {
	form := url.Values{}
	form.Set("categories", joinList(names, "\n"))
	return c.postForm(ctx, "torrents/removeCategories", form)
}

// SetTorrentCategory moves the given torrents into a category. An empty
// name clears the assignment.
func (c *Client) SetTorrentCategory(ctx context.Context, hashes []string, category string) error {
	form := url.Values{}
	form.Set("hashes", joinHashes(hashes))
	form.Set("category", category)
	return c.postForm(ctx, "torrents/setCategory", form)
}
