// Package config loads settings from .env and the process environment.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is shared by every binary. Each binary validates the fields it needs.
type Config struct {
	DiscordToken  string   `env:"DISCORD_TOKEN"`
	StoragePath   string   `env:"STORAGE_PATH" envDefault:"datastore.json"`
	CommandPrefix string   `env:"COMMAND_PREFIX" envDefault:"!"`
	OwnerIDs      []uint64 `env:"OWNER_IDS" envSeparator:","`
	Bots          []string `env:"BOTS" envSeparator:"," envDefault:"main"`
	DefaultBot    string   `env:"DEFAULT_BOT"`

	IPCAddr     string `env:"IPC_ADDR" envDefault:"127.0.0.1:1242"`
	IPCPassword string `env:"IPC_PASSWORD"`

	Locale   string `env:"LOCALE" envDefault:"en"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	FanOutLimit int     `env:"FANOUT_LIMIT" envDefault:"0"`
	ReplyRate   float64 `env:"REPLY_RATE" envDefault:"5"`
}

// Load reads .env when present, then the environment. A missing .env is not
// an error.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && len(files) > 0 {
		return nil, fmt.Errorf("load env files: %w", err)
	}
	return Parse()
}

// Parse reads the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	bots := c.Bots[:0]
	for _, b := range c.Bots {
		if b = strings.TrimSpace(b); b != "" {
			bots = append(bots, b)
		}
	}
	c.Bots = bots
	if c.DefaultBot == "" && len(c.Bots) > 0 {
		c.DefaultBot = c.Bots[0]
	}
}

// Validate checks the settings every binary relies on.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Bots) == 0 {
		errs = append(errs, errors.New("BOTS must name at least one bot"))
	}
	if c.CommandPrefix == "" {
		errs = append(errs, errors.New("COMMAND_PREFIX is empty"))
	}
	if c.FanOutLimit < 0 {
		errs = append(errs, errors.New("FANOUT_LIMIT is negative"))
	}
	if c.ReplyRate <= 0 {
		errs = append(errs, errors.New("REPLY_RATE must be positive"))
	}
	if c.DefaultBot != "" && !c.hasBot(c.DefaultBot) {
		errs = append(errs, fmt.Errorf("DEFAULT_BOT %q is not listed in BOTS", c.DefaultBot))
	}
	return errors.Join(errs...)
}

// ValidateForDiscord additionally requires a bot token.
func (c *Config) ValidateForDiscord() error {
	if c.DiscordToken == "" {
		return errors.New("DISCORD_TOKEN is not set")
	}
	return nil
}

// PrimaryOwner is the caller id used for lines without an author, such as
// IPC and CLI commands. Zero when no owner is configured.
func (c *Config) PrimaryOwner() uint64 {
	if len(c.OwnerIDs) == 0 {
		return 0
	}
	return c.OwnerIDs[0]
}

func (c *Config) hasBot(name string) bool {
	for _, b := range c.Bots {
		if strings.EqualFold(b, name) {
			return true
		}
	}
	return false
}

// String renders the config with secrets masked.
func (c *Config) String() string {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "***"
	}
	return fmt.Sprintf("bots=%s default=%s prefix=%q owners=%d ipc=%s ipc_password=%s storage=%s fanout=%s",
		strings.Join(c.Bots, ","), c.DefaultBot, c.CommandPrefix, len(c.OwnerIDs),
		c.IPCAddr, mask(c.IPCPassword), c.StoragePath, strconv.Itoa(c.FanOutLimit))
}
