// Package qbittorrent is a typed client for the qBittorrent Web API.
//
// The client handles the full session lifecycle on its own: the first
// request logs in, the session cookie is replayed until its expiry, and an
// expired session triggers a fresh login before the next request is sent.
// Construction performs no network traffic.
//
// # Version awareness
//
// qBittorrent 5.0 renamed parts of the wire protocol: the pause/resume
// endpoints became stop/start, and the "paused"/"resumed" torrent list
// filters became "stopped"/"running". The client detects the server version
// once per session and translates endpoint names, filter tokens and
// add-torrent options in both directions, so callers can use either
// vocabulary against either server generation. When detection fails the
// client assumes the pre-5.0 protocol.
//
// # Usage
//
//	client, err := qbittorrent.NewClient(url, username, password, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// List torrents stopped on any server generation.
//	torrents, err := client.Torrents(ctx, qbittorrent.TorrentFilterOptions{
//	    Filter: "stopped",
//	})
//
//	// Works against both 4.x and 5.x servers.
//	err = client.StopTorrents(ctx, []string{hash})
//
// # Logs
//
// Client.Logs returns an incremental cache of the server's main and peer
// log streams, synced with a last-known-id cursor so repeated reads only
// transfer new entries:
//
//	entries, err := client.Logs().MainLogs(ctx, qbittorrent.MainLogOptions{
//	    Levels: qbittorrent.LogWarning | qbittorrent.LogCritical,
//	})
package qbittorrent
