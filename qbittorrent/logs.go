package qbittorrent

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// maxSyncPages bounds one sync's fetch loop. The server answers each poll
// with everything newer than the cursor, so the loop normally ends on the
// second round; the cap only guards against a stream that grows faster than
// it can be drained.
const maxSyncPages = 50

// LogStore is an incremental cache of the server's main and peer log
// streams. Entries are fetched with a last-known-id cursor, kept sorted
// ascending by ID, and never re-fetched once cached. Concurrent syncs of
// the same stream collapse into a single in-flight fetch.
//
// A LogStore is safe for concurrent use, including from error-handling
// paths that run while other requests are in flight.
type LogStore struct {
	client *Client
	group  singleflight.Group

	mu       sync.RWMutex
	mainLogs []LogEntry
	peerLogs []PeerLogEntry
}

func newLogStore(c *Client) *LogStore {
	return &LogStore{client: c}
}

// MainLogOptions filters the view returned by MainLogs.
type MainLogOptions struct {
	// Levels is a bitmask of severities to include. Zero means all levels.
	Levels LogLevel
	// LastKnownID excludes entries with IDs at or below it. The server
	// numbers entries from zero, so pass -1 (as the wire API itself does)
	// to request the complete log.
	LastKnownID int64
}

// MainLogs syncs the main stream and returns the cached entries that pass
// the filter, ascending by ID. The filter is a view: it never discards
// cached entries.
func (s *LogStore) MainLogs(ctx context.Context, opts MainLogOptions) ([]LogEntry, error) {
	if err := s.SyncMain(ctx); err != nil {
		return nil, err
	}

	levels := opts.Levels
	if levels == 0 {
		levels = LogAll
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]LogEntry, 0, len(s.mainLogs))
	for _, e := range s.mainLogs {
		if e.ID <= opts.LastKnownID {
			continue
		}
		if e.Type&levels == 0 {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// PeerLogs syncs the peer ban stream and returns all cached entries,
// ascending by ID.
func (s *LogStore) PeerLogs(ctx context.Context) ([]PeerLogEntry, error) {
	if err := s.SyncPeer(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PeerLogEntry, len(s.peerLogs))
	copy(out, s.peerLogs)
	return out, nil
}

// SyncMain fetches main log entries newer than the cache. Concurrent calls
// share one in-flight sync instead of issuing duplicate fetch loops.
func (s *LogStore) SyncMain(ctx context.Context) error {
	_, err, _ := s.group.Do("main", func() (any, error) {
		return nil, s.syncMain(ctx)
	})
	return err
}

// SyncPeer fetches peer log entries newer than the cache, with the same
// single-flight guarantee as SyncMain.
func (s *LogStore) SyncPeer(ctx context.Context) error {
	_, err, _ := s.group.Do("peers", func() (any, error) {
		return nil, s.syncPeer(ctx)
	})
	return err
}

// Refresh syncs both streams concurrently.
func (s *LogStore) Refresh(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.SyncMain(ctx) })
	g.Go(func() error { return s.SyncPeer(ctx) })
	return g.Wait()
}

// Clear drops both cached streams. A sync already in flight may still
// repopulate the cache after Clear returns.
func (s *LogStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mainLogs = nil
	s.peerLogs = nil
}

func (s *LogStore) syncMain(ctx context.Context) error {
	for page := 0; page < maxSyncPages; page++ {
		q := url.Values{}
		q.Set("last_known_id", strconv.FormatInt(s.mainCursor(), 10))

		var entries []LogEntry
		if err := s.client.getJSON(ctx, "log/main", q, &entries); err != nil {
			return err
		}
		if s.appendMain(entries) == 0 {
			return nil
		}
	}
	return nil
}

func (s *LogStore) syncPeer(ctx context.Context) error {
	for page := 0; page < maxSyncPages; page++ {
		q := url.Values{}
		q.Set("last_known_id", strconv.FormatInt(s.peerCursor(), 10))

		var entries []PeerLogEntry
		if err := s.client.getJSON(ctx, "log/peers", q, &entries); err != nil {
			return err
		}
		if s.appendPeer(entries) == 0 {
			return nil
		}
	}
	return nil
}

// mainCursor is the highest cached main log ID, or -1 for an empty cache so
// the first sync requests everything including entry zero.
func (s *LogStore) mainCursor() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.mainLogs) == 0 {
		return -1
	}
	return s.mainLogs[len(s.mainLogs)-1].ID
}

func (s *LogStore) peerCursor() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.peerLogs) == 0 {
		return -1
	}
	return s.peerLogs[len(s.peerLogs)-1].ID
}

// appendMain merges fetched entries into the cache, skipping IDs already
// present, and reports how many were new.
func (s *LogStore) appendMain(entries []LogEntry) int {
	if len(entries) == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[int64]struct{}, len(s.mainLogs))
	for _, e := range s.mainLogs {
		seen[e.ID] = struct{}{}
	}
	fresh := 0
	for _, e := range entries {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		s.mainLogs = append(s.mainLogs, e)
		fresh++
	}
	if fresh > 0 {
		sort.Slice(s.mainLogs, func(i, j int) bool { return s.mainLogs[i].ID < s.mainLogs[j].ID })
	}
	return fresh
}

func (s *LogStore) appendPeer(entries []PeerLogEntry) int {
	if len(entries) == 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[int64]struct{}, len(s.peerLogs))
	for _, e := range s.peerLogs {
		seen[e.ID] = struct{}{}
	}
	fresh := 0
	for _, e := range entries {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		s.peerLogs = append(s.peerLogs, e)
		fresh++
	}
	if fresh > 0 {
		sort.Slice(s.peerLogs, func(i, j int) bool { return s.peerLogs[i].ID < s.peerLogs[j].ID })
	}
	return fresh
}
