package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yjl9903/nqbtc/filter"
	"github.com/yjl9903/nqbtc/qbittorrent"
)

var (
	listCategory string
	listState    string
	listLimit    int
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List torrents matching the filter criteria",
	Long: `List torrents in your qBittorrent instance, narrowed by state, category
or a filter expression. Server-side narrowing (state, category, limit)
happens first; the expression is applied to whatever comes back.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
	listCmd.Flags().StringVarP(&preset, "preset", "p", "", "use a preset filter from config")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "only torrents in this category")
	listCmd.Flags().StringVarP(&listState, "state", "s", "", "state filter (downloading, seeding, completed, stopped, ...)")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of torrents to list")
}

func runList(cmd *cobra.Command, args []string) error {
	// Determine filter expression
	expr, err := getFilterExpression()
	if err != nil {
		return err
	}

	ctx := context.Background()
	torrents, err := client.Torrents(ctx, qbittorrent.TorrentFilterOptions{
		Filter:   listState,
		Category: listCategory,
		Limit:    listLimit,
	})
	if err != nil {
		return err
	}

	if expr != "" {
		logger.Info().Str("filter", expr).Msg("Applying filter expression")

		f, err := filter.Compile(expr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
		torrents, err = f.Apply(torrents)
		if err != nil {
			return err
		}
	}

	// Display results
	if len(torrents) == 0 {
		fmt.Println("No torrents found matching the filter criteria.")
		return nil
	}

	fmt.Printf("\nFound %d torrents:\n", len(torrents))
	fmt.Println(strings.Repeat("-", 80))

	for _, t := range torrents {
		fmt.Printf("• %s [%s] %.1f%%\n", t.Name, t.State, t.Progress*100)
		fmt.Printf("  Hash: %s\n", t.Hash)
		fmt.Printf("  Size: %s  Ratio: %.2f\n", formatBytes(t.Size), t.Ratio)
		if t.Category != "" {
			fmt.Printf("  Category: %s\n", t.Category)
		}
		if tags := t.TagList(); len(tags) > 0 {
			fmt.Printf("  Tags: %s\n", strings.Join(tags, ", "))
		}
		fmt.Printf("  Added: %s\n", t.AddedTime().Format("2006-01-02"))
	}

	return nil
}

// formatBytes renders a byte count in a compact binary unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
