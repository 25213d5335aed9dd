package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/labelforge/labelforge/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cacheStatsCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// fileCache opens the file cache at its configured location.
func (c *CLI) fileCache() (*cache.FileCache, string, error) {
	dir := c.cfg.CacheDir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return nil, "", fmt.Errorf("get cache dir: %w", err)
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, "", err
	}
	return fc, dir, nil
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all cached rendered images",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, dir, err := c.fileCache()
			if err != nil {
				return err
			}
			defer fc.Close()

			entries, _, err := fc.Stats()
			if err != nil {
				return err
			}
			if entries == 0 {
				printInfo("Cache is empty")
				return nil
			}
			if err := fc.Clear(); err != nil {
				return err
			}
			printSuccess("Cleared %d cached renders", entries)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// cacheStatsCommand creates the "cache stats" subcommand.
func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show render cache size",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, dir, err := c.fileCache()
			if err != nil {
				return err
			}
			defer fc.Close()

			entries, size, err := fc.Stats()
			if err != nil {
				return err
			}
			printKeyValue("Directory", dir)
			printKeyValue("Entries", fmt.Sprintf("%d", entries))
			printKeyValue("Size", formatBytes(size))
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := c.cfg.CacheDir
			if dir == "" {
				var err error
				dir, err = cacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
			}
			fmt.Fprintln(os.Stdout, dir)
			return nil
		},
	}
}

// formatBytes renders a byte count in a human-readable unit.
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
