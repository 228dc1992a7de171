// Package bridge exposes a qbittorrent.Client over the Model Context
// Protocol so that MCP-capable assistants can inspect and steer a
// qBittorrent instance.
//
// # Tools and resources
//
// Torrent operations (list, add, stop, start, delete, recheck, category
// and tag management) plus transfer controls are published as typed MCP
// tools. The torrent list, transfer statistics and the daemon's main
// log are additionally published as readable resources under the
// qbittorrent:// scheme.
//
// # Error envelope
//
// Tool failures never surface as protocol errors. Every failure is
// rendered as a CallToolResult with IsError set and the error text
// followed by a short diagnostic tail: the most recent qBittorrent main
// log entries from the last 30 seconds (or the most recent entries
// overall when that window is empty), capped at ten lines. When
// fetching that tail fails too, the original error is returned alone.
package bridge
