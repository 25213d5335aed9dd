// Package cli implements the labelforge command-line interface.
//
// This package provides commands for managing the label collection,
// inspecting the page layout, previewing single labels, and exporting
// print-ready PDF sheets or PNG archives. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - add, import, list, remove, clear: manage the record collection
//   - layout: show how labels fit on the configured page
//   - preview: render a single record to a PNG file
//   - export: produce a PDF sheet, a PNG archive, or collection JSON
//   - cache: manage the render cache
//   - serve: run the HTTP API
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context for structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/labelforge/labelforge/pkg/buildinfo"
	"github.com/labelforge/labelforge/pkg/cache"
	"github.com/labelforge/labelforge/pkg/config"
	"github.com/labelforge/labelforge/pkg/export"
	"github.com/labelforge/labelforge/pkg/render"
	"github.com/labelforge/labelforge/pkg/store"
)

// appName is the application name used for directories and display.
const appName = "labelforge"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	cfg        config.Config
	configPath string
	collection string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:     newLogger(w, level),
		cfg:        config.Default(),
		collection: store.DefaultCollection,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Labelforge renders barcode labels onto printable sheets",
		Long:         `Labelforge is a CLI tool for batch-producing barcode and QR labels: build a collection of payloads, fit them onto a page grid, and export print-ready PDF sheets or PNG archives.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			ctx := withLogger(cmd.Context(), c.Logger)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ~/.config/labelforge/config.toml)")
	root.PersistentFlags().StringVar(&c.collection, "collection", store.DefaultCollection, "named record collection to operate on")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the render cache")

	// Register all subcommands
	root.AddCommand(c.addCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.clearCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Dependency Factories
// =============================================================================

// newStore opens the collection store configured for this invocation.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	if c.cfg.MongoURI != "" {
		return store.NewMongoStore(ctx, c.cfg.MongoURI)
	}
	return store.NewFileStore("")
}

// newRenderer builds the render pipeline, wrapping the symbology renderer
// with the configured cache unless caching is disabled.
func (c *CLI) newRenderer(ctx context.Context) render.Renderer {
	base := render.New(c.Logger)
	if c.noCache {
		return base
	}
	cch, err := c.newCache(ctx)
	if err != nil {
		c.Logger.Debugf("cache unavailable, rendering uncached: %v", err)
		return base
	}
	return render.NewCached(base, cch, c.Logger)
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	if c.cfg.RedisAddr != "" {
		return cache.NewRedisCache(ctx, c.cfg.RedisAddr)
	}
	dir := c.cfg.CacheDir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return nil, err
		}
	}
	return cache.NewFileCache(dir)
}

// newExporter assembles the export pipeline.
func (c *CLI) newExporter(ctx context.Context) *export.Exporter {
	return export.New(c.newRenderer(ctx), c.Logger)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/labelforge/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
