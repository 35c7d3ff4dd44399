package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nissyi-gh/worklist/internal/config"
	"github.com/nissyi-gh/worklist/internal/store"
	"github.com/nissyi-gh/worklist/internal/tasks"
	"github.com/nissyi-gh/worklist/internal/view"
)

// App holds the dependencies commands share. It is populated by Open in the
// root Before hook; commands keep a pointer to it from registration on.
type App struct {
	Config  *config.Config
	Backend store.Backend
	Tasks   *tasks.Store
	Query   view.Query
}

// Open loads configuration and opens the task store described by flags.
func (a *App) Open(ctx context.Context, flags *Flags) error {
	cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flags.Storage != "" {
		cfg.Storage.Backend = flags.Storage
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid storage flag: %w", err)
		}
	}

	q, err := cfg.Query()
	if err != nil {
		return fmt.Errorf("build view: %w", err)
	}

	backend, err := store.Open(cfg.Storage.Backend, cfg.Storage.Path, cfg.Storage.Key, cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	log.Debug().
		Str("backend", cfg.Storage.Backend).
		Str("data_dir", cfg.DataDir).
		Msg("storage opened")

	a.Config = cfg
	a.Backend = backend
	a.Query = q
	a.Tasks = tasks.Open(ctx, backend)
	return nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	if a.Backend == nil {
		return nil
	}
	return a.Backend.Close()
}

// Now is the store's clock, falling back to the wall clock before Open.
func (a *App) Now() time.Time {
	if a.Tasks == nil {
		return time.Now()
	}
	return a.Tasks.Now()
}
