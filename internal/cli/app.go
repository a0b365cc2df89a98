// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/jeranaias/subroute/internal/access"
	"github.com/jeranaias/subroute/internal/commands"
	"github.com/jeranaias/subroute/internal/config"
	"github.com/jeranaias/subroute/internal/handlers"
	"github.com/jeranaias/subroute/internal/host"
	"github.com/jeranaias/subroute/internal/logging"
	"github.com/jeranaias/subroute/internal/messages"
	"github.com/jeranaias/subroute/internal/storage"
)

const (
	// limiterSweep is how often idle invocation limiters are dropped.
	limiterSweep = time.Minute

	// limiterIdle is how long a caller may be idle before its limiter is
	// dropped.
	limiterIdle = 10 * time.Minute
)

// Options configure an App.
type Options struct {
	// ConfigPath overrides the default configuration file.
	ConfigPath string

	// Out receives delivered messages; Err receives logs. They default to
	// stdout and stderr.
	Out io.Writer
	Err io.Writer

	// NoColor disables colour regardless of the terminal.
	NoColor bool

	// Watch reloads the configuration when its file changes.
	Watch bool
}

// App is a running host with its dispatcher.
type App struct {
	path  string
	log   *logging.Logger
	store *storage.PlayerStore

	Server     *host.Server
	Dispatcher *commands.Dispatcher

	mu  sync.Mutex
	cfg *config.Config

	watcher *config.Watcher
	cancel  context.CancelFunc
}

// NewApp loads the configuration and starts the host.
func NewApp(opts Options) (*App, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}

	path := opts.ConfigPath
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	color := ColorsEnabled(opts.NoColor || cfg.Server.NoColor)
	log := logging.New(opts.Err, cfg.Command.PluginName, color)

	store, err := storage.Open(cfg.Storage.PlayersDB)
	if err != nil {
		return nil, err
	}

	srv := host.NewServer(
		host.WithOutput(opts.Out, color),
		host.WithStore(store),
		host.WithPolicy(access.NewPolicy(cfg.PolicyOptions()...)),
		host.WithWorlds(cfg.Server.Worlds...),
		host.WithLogger(log),
	)
	srv.SetUnknownMessage(unknownMessage(cfg))

	d, err := commands.New(cfg.Dispatcher(), srv, commands.WithLogger(log))
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to start dispatcher: %w", err)
	}

	app := &App{path: path, log: log, store: store, Server: srv, Dispatcher: d, cfg: cfg}

	n := handlers.Register(d, handlers.Deps{
		Players: srv,
		Worlds:  srv,
		Mailer:  srv,
		Reload:  app.Reload,
	})
	log.Success("registered %d commands under /%s", n, cfg.Command.Name)

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	go srv.Maintain(ctx, limiterSweep, limiterIdle)

	if opts.Watch {
		w, err := config.NewWatcher(path, 0, app.onFileChange)
		if err == nil {
			err = w.Watch()
		}
		if err != nil {
			log.Warning("config watcher disabled: %v", err)
		} else {
			app.watcher = w
		}
	}
	return app, nil
}

func unknownMessage(cfg *config.Config) string {
	return cfg.Messages.Prefix + messages.Render(cfg.Messages.InvalidCommand, messages.Vars{
		messages.BaseCommand: cfg.Command.Name,
	})
}

// Config returns the active configuration.
func (a *App) Config() *config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg
}

// Path returns the configuration file path.
func (a *App) Path() string {
	return a.path
}

// Reload re-reads the configuration file and applies it.
func (a *App) Reload() error {
	cfg, err := config.LoadFromPath(a.path)
	if err != nil {
		return err
	}
	return a.apply(cfg)
}

func (a *App) onFileChange(cfg *config.Config, err error) {
	if err != nil {
		a.log.Error("config reload failed: %v", err)
		return
	}
	if err := a.apply(cfg); err != nil {
		a.log.Error("config reload failed: %v", err)
	}
}

// apply swaps in cfg. Storage is not reopened; a changed database path
// takes effect on restart.
func (a *App) apply(cfg *config.Config) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.Dispatcher.Reload(cfg.Dispatcher()); err != nil {
		return fmt.Errorf("failed to reload dispatcher: %w", err)
	}
	a.Server.SetPolicy(access.NewPolicy(cfg.PolicyOptions()...))
	a.Server.SetWorlds(cfg.Server.Worlds...)
	a.Server.SetUnknownMessage(unknownMessage(cfg))

	if cfg.Storage.PlayersDB != a.cfg.Storage.PlayersDB {
		a.log.Warning("players_db changed to %s; restart to apply", cfg.Storage.PlayersDB)
	}
	a.cfg = cfg
	a.log.Info("configuration reloaded")
	return nil
}

// Close stops the host and releases its resources.
func (a *App) Close() error {
	if a.watcher != nil {
		a.watcher.Close()
	}
	a.cancel()
	a.Dispatcher.Close()
	return a.store.Close()
}
