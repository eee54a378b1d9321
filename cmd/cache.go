package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/spiffcs/sonar/config"
	"github.com/spiffcs/sonar/internal/cache"
)

// NewCmdCache creates the cache command with subcommands.
func NewCmdCache() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the profile snapshot cache",
		Long: `Manage the on-disk cache of GitHub profile snapshots.

The cache is used when cache.enabled is true in the config.`,
	}

	cmd.AddCommand(newCmdCacheClear())
	cmd.AddCommand(newCmdCacheStats())

	return cmd
}

// newCmdCacheClear creates the cache clear subcommand.
func newCmdCacheClear() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the profile snapshot cache",
		RunE:  runCacheClear,
	}
}

// newCmdCacheStats creates the cache stats subcommand.
func newCmdCacheStats() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE:  runCacheStats,
	}
}

func openCache() (*cache.Cache, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c, err := cache.NewCache(cfg.GetCache().TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to access cache: %w", err)
	}
	return c, nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	c, err := openCache()
	if err != nil {
		return err
	}

	if err := c.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	fmt.Println("Cache cleared.")
	return nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	c, err := openCache()
	if err != nil {
		return err
	}

	stats, err := c.Stats()
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Println("Cache is empty.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get cache stats: %w", err)
	}

	fmt.Printf("Cache statistics:\n")
	fmt.Printf("  Location: %s\n", c.Dir())
	fmt.Printf("  Profile snapshots (TTL: %s):\n", c.TTL())
	fmt.Printf("    Total: %d\n", stats.Total)
	fmt.Printf("    Valid: %d\n", stats.Valid)
	fmt.Printf("    Expired: %d\n", stats.Total-stats.Valid)
	return nil
}
