package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const updateRepo = "yjl9903/nqbtc"

var checkOnly bool

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update nqbtc to the latest release",
	Long: `Check GitHub for a newer release of nqbtc and replace the running
binary in place.`,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)

	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "only check for a newer version")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if _, err := semver.ParseTolerant(version); err != nil {
		return fmt.Errorf("version %q is not a release build, cannot self-update", version)
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(updateRepo))
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", updateRepo)
	}

	if latest.LessOrEqual(version) {
		fmt.Printf("✓ nqbtc is up to date (%s)\n", version)
		return nil
	}

	fmt.Printf("Newer release available: %s (current %s)\n", latest.Version(), version)
	if checkOnly {
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	logger.Info().Str("version", latest.Version()).Msg("Updating binary")
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update to %s: %w", latest.Version(), err)
	}

	fmt.Printf("✓ Updated to %s\n", latest.Version())
	return nil
}
