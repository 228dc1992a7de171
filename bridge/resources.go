package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/yjl9903/nqbtc/qbittorrent"
)

const (
	torrentsResourceURI = "qbittorrent://torrents"
	transferResourceURI = "qbittorrent://transfer"
	mainLogResourceURI  = "qbittorrent://log/main"
)

func (s *Server) registerResources() {
	s.mcp.AddResource(&mcp.Resource{
		URI:         torrentsResourceURI,
		Name:        "torrents",
		Description: "All torrents with their state, progress and metadata.",
		MIMEType:    "application/json",
	}, s.readTorrents)
	s.mcp.AddResource(&mcp.Resource{
		URI:         transferResourceURI,
		Name:        "transfer",
		Description: "Global transfer statistics.",
		MIMEType:    "application/json",
	}, s.readTransfer)
	s.mcp.AddResource(&mcp.Resource{
		URI:         mainLogResourceURI,
		Name:        "main-log",
		Description: "The daemon's main log, one entry per line.",
		MIMEType:    "text/plain",
	}, s.readMainLog)
}

func (s *Server) readTorrents(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	torrents, err := s.client.Torrents(ctx, qbittorrent.TorrentFilterOptions{})
	if err != nil {
		return nil, fmt.Errorf("reading torrents: %w", err)
	}
	return jsonResource(req.Params.URI, torrents)
}

func (s *Server) readTransfer(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	info, err := s.client.TransferInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading transfer info: %w", err)
	}
	return jsonResource(req.Params.URI, info)
}

func (s *Server) readMainLog(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	entries, err := s.logs.MainLogs(ctx, qbittorrent.MainLogOptions{LastKnownID: -1})
	if err != nil {
		return nil, fmt.Errorf("reading main log: %w", err)
	}

	var b strings.Builder
	for _, e := range entries {
		b.WriteString(formatLogEntry(e))
		b.WriteByte('\n')
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     b.String(),
		}},
	}, nil
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
