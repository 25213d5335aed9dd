// Package config loads the application's TOML configuration file and
// supplies defaults when no file exists.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/labelforge/labelforge/pkg/errors"
	"github.com/labelforge/labelforge/pkg/label"
	"github.com/labelforge/labelforge/pkg/layout"
)

// Config is the persisted application configuration. Every field has a
// working default; an absent file or an absent key falls back silently.
type Config struct {
	// Label is the default rendering configuration for new sessions.
	Label label.LabelConfig `toml:"label"`

	// Page is the default page setup for layout and PDF export.
	Page label.PageSetup `toml:"page"`

	// SuggestWithin tunes the layout suggestion threshold, in inches.
	// Zero keeps the built-in default.
	SuggestWithin float64 `toml:"suggest_within"`

	// Templates adds user-defined label sheet templates to the built-in
	// catalog, keyed by name.
	Templates map[string]layout.Template `toml:"templates"`

	// CacheDir overrides where rendered images are cached. Empty uses
	// the default under the user cache directory.
	CacheDir string `toml:"cache_dir"`

	// RedisAddr switches the render cache to Redis when set, for server
	// deployments (host:port).
	RedisAddr string `toml:"redis_addr"`

	// MongoURI switches collection storage to MongoDB when set.
	MongoURI string `toml:"mongo_uri"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Label: label.DefaultLabelConfig(),
		Page:  label.DefaultPageSetup(),
	}
}

// DefaultPath returns the conventional config file location,
// ~/.config/labelforge/config.toml (respecting XDG_CONFIG_HOME).
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "labelforge", "config.toml")
}

// Load reads the configuration at path, layered over the defaults. An
// empty path means DefaultPath; a missing file yields the defaults with
// no error. A file that exists but does not parse is an error: silently
// ignoring a broken config hides the user's intent.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Label.Validate(); err != nil {
		return cfg, err
	}
	if err := cfg.Page.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LayoutOptions assembles the layout options implied by the config.
func (c Config) LayoutOptions() layout.Options {
	return layout.Options{
		SuggestWithin: c.SuggestWithin,
		Templates:     c.Templates,
	}
}
