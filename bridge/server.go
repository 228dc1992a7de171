package bridge

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/yjl9903/nqbtc/qbittorrent"
)

// Options controls the identity the server advertises during the MCP
// initialization handshake.
type Options struct {
	// Name is the implementation name reported to MCP clients.
	// Defaults to "nqbtc".
	Name string
	// Version is the implementation version reported to MCP clients.
	// Defaults to "dev".
	Version string
}

// Server wraps a qbittorrent.Client in an MCP server.
type Server struct {
	client *qbittorrent.Client
	logs   *qbittorrent.LogStore
	logger zerolog.Logger
	mcp    *mcp.Server
}

// New builds an MCP server around client. The log store backs the
// log_main tool, the qbittorrent://log/main resource and the diagnostic
// tail attached to tool errors; pass client.Logs() unless a test needs
// to substitute its own store.
func New(client *qbittorrent.Client, logs *qbittorrent.LogStore, logger zerolog.Logger, opts Options) *Server {
	if opts.Name == "" {
		opts.Name = "nqbtc"
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	s := &Server{
		client: client,
		logs:   logs,
		logger: logger.With().Str("component", "bridge").Logger(),
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    opts.Name,
			Version: opts.Version,
		}, nil),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// Run serves MCP over stdin/stdout until ctx is cancelled or the peer
// disconnects. Stdout belongs to the protocol while Run is active, so
// the surrounding process must route all of its own output through the
// injected logger.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info().Str("transport", "stdio").Msg("Starting MCP server")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}
