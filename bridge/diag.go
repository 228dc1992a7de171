package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yjl9903/nqbtc/qbittorrent"
)

const (
	// diagWindow is how far back the diagnostic tail looks for recent
	// daemon activity before falling back to the newest entries overall.
	diagWindow = 30 * time.Second
	// diagLimit caps the number of log lines attached to a tool error.
	diagLimit = 10
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("encoding response: %v", err)}},
			IsError: true,
		}
	}
	return textResult(string(data))
}

// errorResult renders err as a tool error with a diagnostic tail of
// recent qBittorrent log lines. Failure to fetch the tail is swallowed;
// the original error always wins.
func (s *Server) errorResult(ctx context.Context, err error) *mcp.CallToolResult {
	var b strings.Builder
	b.WriteString(err.Error())

	entries, logErr := s.logs.MainLogs(ctx, qbittorrent.MainLogOptions{LastKnownID: -1})
	if logErr != nil {
		s.logger.Debug().Err(logErr).Msg("Fetching diagnostic log tail failed")
	} else if tail := diagnosticTail(entries, time.Now()); len(tail) > 0 {
		b.WriteString("\n\nrecent qBittorrent log:")
		for _, e := range tail {
			b.WriteByte('\n')
			b.WriteString(formatLogEntry(e))
		}
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: b.String()}},
		IsError: true,
	}
}

// diagnosticTail selects the entries attached to a tool error: those
// within the trailing diagWindow of now, or the newest entries overall
// when the window is empty, capped at diagLimit. Entries arrive and
// leave ascending by ID.
func diagnosticTail(entries []qbittorrent.LogEntry, now time.Time) []qbittorrent.LogEntry {
	cutoff := now.Add(-diagWindow)
	recent := make([]qbittorrent.LogEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Time().Before(cutoff) {
			recent = append(recent, e)
		}
	}
	if len(recent) == 0 {
		recent = entries
	}
	if len(recent) > diagLimit {
		recent = recent[len(recent)-diagLimit:]
	}
	return recent
}

func formatLogEntry(e qbittorrent.LogEntry) string {
	return fmt.Sprintf("%s [%s] %s", e.Time().UTC().Format(time.RFC3339), e.Type, e.Message)
}
