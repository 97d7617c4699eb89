// cmd/discord/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/keshon/botinvoker/internal/app"
	"github.com/keshon/botinvoker/internal/config"
	"github.com/keshon/botinvoker/internal/discord"
	"github.com/keshon/botinvoker/internal/ipc"
	"github.com/keshon/botinvoker/internal/logger"
	v "github.com/keshon/botinvoker/internal/version"
	"github.com/keshon/botinvoker/pkg/cmd"
	"github.com/keshon/botinvoker/pkg/jobmgr"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog().Fatal().Err(err).Msg("Invalid configuration")
	}
	if err := cfg.ValidateForDiscord(); err != nil {
		bootLog().Fatal().Err(err).Msg("Invalid configuration")
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile, Console: logger.IsTerminal()})
	log.Info().Str("version", v.String()).Stringer("config", cfg).Msgf("Starting %s", v.AppName)

	a, err := app.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize")
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobs := jobmgr.NewManager(func(ev jobmgr.Event) {
		e := log.Info()
		if ev.Err != nil {
			e = log.Error().Err(ev.Err)
		}
		e.Str("job", ev.Job).Str("state", ev.State).Msg("Job state changed")
		if ev.State == jobmgr.StateError {
			stop()
		}
	})

	bot := discord.New(discord.Options{
		Token:     cfg.DiscordToken,
		Prefix:    cfg.CommandPrefix,
		ReplyRate: cfg.ReplyRate,
	}, a.Table, a.DefaultBot(), logger.Component(log, "discord"))
	server := ipc.New(ipc.Options{
		Addr:     cfg.IPCAddr,
		Password: cfg.IPCPassword,
		Caller:   cmd.CallerID(cfg.PrimaryOwner()),
	}, a.Table, a.Fleet, a.DefaultBot(), logger.Component(log, "ipc"))

	if err := jobs.StartAsync(ctx, "discord", bot.Run); err != nil {
		log.Fatal().Err(err).Msg("Failed to start Discord transport")
	}
	if err := jobs.StartAsync(ctx, "ipc", server.Run); err != nil {
		log.Fatal().Err(err).Msg("Failed to start IPC server")
	}

	log.Info().Msg(jobs.Status())

	<-ctx.Done()
	log.Info().Msg("Shutting down...")
	for _, name := range jobs.List() {
		if err := jobs.Stop(name); err != nil {
			log.Debug().Err(err).Str("job", name).Msg("Job already stopped")
		}
	}
	jobs.Wait()
	log.Info().Msgf("%s exited cleanly", v.AppName)
}

func bootLog() *zerolog.Logger {
	l := logger.New(logger.Options{Console: true})
	return &l
}
