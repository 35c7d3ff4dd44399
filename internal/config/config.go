// Package config handles configuration loading and validation for worklist.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/hay-kot/criterio"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/nissyi-gh/worklist/internal/store"
	"github.com/nissyi-gh/worklist/internal/view"
)

// Config holds the application configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	View    ViewConfig    `yaml:"view"`
	DataDir string        `yaml:"-"` // set by caller, not from config file
}

// StorageConfig selects where the task list is persisted.
type StorageConfig struct {
	Backend string `yaml:"backend"` // sqlite, file or memory
	Path    string `yaml:"path"`    // empty uses the data directory
	Key     string `yaml:"key"`     // sqlite key holding the collection
}

// ViewConfig holds the initial list presentation.
type ViewConfig struct {
	Sort      string `yaml:"sort"`
	Direction string `yaml:"direction"`
	Locale    string `yaml:"locale"` // collation locale for alphabetical sorting
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Backend: store.BackendSQLite,
			Key:     store.DefaultKey,
		},
		View: ViewConfig{
			Sort:      string(view.SortCreatedAt),
			Direction: string(view.Descending),
			Locale:    view.DefaultLocale,
		},
	}
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "worklist", "config.yaml")
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.DataDir = dataDir

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if !slices.Contains(store.Backends, c.Storage.Backend) {
		errs = errs.Append("storage.backend", fmt.Errorf("must be one of %v, got %q", store.Backends, c.Storage.Backend))
	}
	if c.Storage.Backend == store.BackendSQLite && c.Storage.Key == "" {
		errs = errs.Append("storage.key", fmt.Errorf("cannot be empty"))
	}
	if _, err := view.ParseSortKey(c.View.Sort); err != nil {
		errs = errs.Append("view.sort", err)
	}
	if _, err := view.ParseDirection(c.View.Direction); err != nil {
		errs = errs.Append("view.direction", err)
	}
	if c.View.Locale != "" {
		if _, err := language.Parse(c.View.Locale); err != nil {
			errs = errs.Append("view.locale", fmt.Errorf("invalid locale %q: %w", c.View.Locale, err))
		}
	}

	return errs.ToError()
}

// Query returns the initial view query described by the config.
func (c *Config) Query() (view.Query, error) {
	key, err := view.ParseSortKey(c.View.Sort)
	if err != nil {
		return view.Query{}, err
	}
	dir, err := view.ParseDirection(c.View.Direction)
	if err != nil {
		return view.Query{}, err
	}
	coll, err := view.NewCollator(c.View.Locale)
	if err != nil {
		return view.Query{}, err
	}
	return view.Query{Sort: key, Direction: dir, Collator: coll}, nil
}
