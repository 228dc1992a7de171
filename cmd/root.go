package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yjl9903/nqbtc/config"
	"github.com/yjl9903/nqbtc/qbittorrent"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *qbittorrent.Client

	// Command flags
	filterExpr string
	preset     string
)

var (
	version   = "dev"
	buildTime = "unknown"
)

// SetVersion records build-time version information.
func SetVersion(v, t string) {
	version = v
	buildTime = t
	rootCmd.Version = fmt.Sprintf("%s (built %s)", v, t)
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "nqbtc",
	Short: "A typed qBittorrent Web API client with an MCP server",
	Long: `nqbtc talks to the qBittorrent Web API: list and inspect torrents from
the command line, or serve the same operations to MCP-capable assistants
over stdio.`,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(testCmd)
}

// initializeApp initializes the configuration and the qBittorrent client
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Create qBittorrent client; the session is established lazily on
	// the first request
	opts := []qbittorrent.Option{
		qbittorrent.WithTimeout(time.Duration(cfg.Qbittorrent.Timeout) * time.Second),
	}
	if cfg.Qbittorrent.TLSSkipVerify {
		opts = append(opts, qbittorrent.WithInsecureSkipVerify())
	}

	client, err = qbittorrent.NewClient(cfg.Qbittorrent.URL, cfg.Qbittorrent.Username, cfg.Qbittorrent.Password, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create qBittorrent client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; drop color when stderr is not a terminal
	noColor := !cfg.Color
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		noColor = true
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    noColor,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test connection to qBittorrent",
	Long:  `Test the connection to your qBittorrent instance and display basic information.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	fmt.Printf("Testing connection to qBittorrent at %s...\n", cfg.Qbittorrent.URL)

	ctx := context.Background()
	info, err := client.TestConnection(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	fmt.Println("✓ Connection successful!")
	if info.Application != "" {
		fmt.Printf("- qBittorrent version: %s\n", info.Application)
		if !info.AtLeastV5 {
			fmt.Println("- Using pre-5.0 endpoint names")
		}
	} else {
		fmt.Println("- Version unknown, assuming pre-5.0 endpoint names")
	}

	if webAPI, err := client.WebAPIVersion(ctx); err == nil {
		fmt.Printf("- Web API version: %s\n", webAPI)
	}

	// Get some basic stats
	torrents, err := client.Torrents(ctx, qbittorrent.TorrentFilterOptions{})
	if err != nil {
		return fmt.Errorf("failed to get torrents: %w", err)
	}

	tags, err := client.Tags(ctx)
	if err != nil {
		return fmt.Errorf("failed to get tags: %w", err)
	}

	categories, err := client.Categories(ctx)
	if err != nil {
		return fmt.Errorf("failed to get categories: %w", err)
	}

	fmt.Printf("\nqBittorrent Statistics:\n")
	fmt.Printf("- Total torrents: %d\n", len(torrents))
	fmt.Printf("- Total tags: %d\n", len(tags))
	fmt.Printf("- Total categories: %d\n", len(categories))

	if len(tags) > 0 {
		fmt.Printf("\nAvailable tags:\n")
		for _, tag := range tags {
			fmt.Printf("  • %s\n", tag)
		}
	}

	transfer, err := client.TransferInfo(ctx)
	if err != nil {
		return fmt.Errorf("failed to get transfer info: %w", err)
	}

	fmt.Printf("\nTransfer:\n")
	fmt.Printf("- Connection: %s\n", transfer.ConnectionStatus)
	fmt.Printf("- Download: %s/s\n", formatBytes(transfer.DownloadSpeed))
	fmt.Printf("- Upload: %s/s\n", formatBytes(transfer.UploadSpeed))

	return nil
}

// getFilterExpression determines the filter expression to use
func getFilterExpression() (string, error) {
	// Priority: command line filter > preset > default
	if filterExpr != "" {
		return filterExpr, nil
	}

	if preset != "" {
		if expr, ok := cfg.Filter.Presets[preset]; ok {
			return expr, nil
		}
		return "", fmt.Errorf("preset '%s' not found in config", preset)
	}

	// An empty expression lists everything.
	return cfg.Filter.DefaultExpression, nil
}
