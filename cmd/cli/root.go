package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/keshon/botinvoker/internal/app"
	"github.com/keshon/botinvoker/internal/config"
	"github.com/keshon/botinvoker/internal/logger"
	v "github.com/keshon/botinvoker/internal/version"
)

var (
	envFiles []string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "botinvoker",
	Short: v.AppName + " command line",
	Long: `Runs bot commands against the local datastore without a chat connection.

Commands run as the first OWNER_IDS entry. BOTS, DEFAULT_BOT and
STORAGE_PATH are read from .env and the environment like the Discord host.`,
	Version:       v.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env", nil, "env files to load (default: .env when present)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// openApp loads config and wires the app. Callers close it.
func openApp() (*app.App, error) {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	log := logger.New(logger.Options{Level: level, Console: true})
	return app.New(cfg, log)
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}
