package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yjl9903/nqbtc/bridge"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve qBittorrent operations over MCP on stdio",
	Long: `Run an MCP server on stdin/stdout exposing torrent operations as tools
and resources. Intended to be launched by an MCP client; stdout carries
the protocol, so all logging goes to stderr.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := bridge.New(client, client.Logs(), logger, bridge.Options{
		Name:    cfg.MCP.ServerName,
		Version: version,
	})
	return srv.Run(ctx)
}
