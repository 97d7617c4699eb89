// Package app wires storage, the fleet and the command table from config.
// Every binary starts from here.
package app

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/keshon/botinvoker/internal/commands"
	"github.com/keshon/botinvoker/internal/config"
	"github.com/keshon/botinvoker/internal/fleet"
	"github.com/keshon/botinvoker/internal/locale"
	"github.com/keshon/botinvoker/internal/logger"
	"github.com/keshon/botinvoker/internal/storage"
	"github.com/keshon/botinvoker/internal/version"
	"github.com/keshon/botinvoker/pkg/cmd"
)

type App struct {
	Config  *config.Config
	Storage *storage.Storage
	Fleet   *fleet.Fleet
	Format  *locale.Formatter
	Table   *cmd.Table
	Log     zerolog.Logger
}

// New builds the app and loads the built-in commands. Close releases the
// storage.
func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	f, err := fleet.New(cfg.Bots, cfg.OwnerIDs, store, logger.Component(log, "fleet"))
	if err != nil {
		store.Close()
		return nil, err
	}

	format := locale.New(cfg.Locale, version.AppName)
	host := cmd.Host{Access: f, Readiness: f, Targets: f, Privilege: f, Format: format}
	deps := commands.Deps{Fleet: f, Storage: store, Format: format, Log: logger.Component(log, "commands")}

	opts := append(commands.Options(deps),
		cmd.WithLogger(logger.Component(log, "table")),
		cmd.WithFanOutLimit(cfg.FanOutLimit),
	)
	table := cmd.NewTable(host, opts...)
	deps.Table = table
	if err := table.Load(commands.All(deps)...); err != nil {
		store.Close()
		return nil, fmt.Errorf("load commands: %w", err)
	}

	return &App{
		Config:  cfg,
		Storage: store,
		Fleet:   f,
		Format:  format,
		Table:   table,
		Log:     log,
	}, nil
}

// DefaultBot is the bot lines run against when they do not name one.
func (a *App) DefaultBot() cmd.Target {
	b, err := a.Fleet.Bot(a.Config.DefaultBot)
	if err != nil {
		return a.Fleet.Bots()[0]
	}
	return b
}

func (a *App) Close() error {
	return a.Storage.Close()
}
