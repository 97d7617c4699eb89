package discord

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/keshon/botinvoker/internal/commands"
	"github.com/keshon/botinvoker/pkg/cmd"
	"github.com/keshon/botinvoker/pkg/util"
)

// Dispatcher runs one tokenized command line.
type Dispatcher interface {
	Dispatch(ctx context.Context, target cmd.Target, caller cmd.CallerID, message string, tokens []string) string
}

// Options configure the Discord transport.
type Options struct {
	Token     string
	Prefix    string
	ReplyRate float64
}

// Bot relays prefixed chat messages to the dispatcher and posts the replies.
type Bot struct {
	opts   Options
	table  Dispatcher
	target cmd.Target
	sender *sender
	log    zerolog.Logger
}

// New returns a transport whose lines run against target.
func New(opts Options, table Dispatcher, target cmd.Target, log zerolog.Logger) *Bot {
	return &Bot{
		opts:   opts,
		table:  table,
		target: target,
		log:    log,
	}
}

// Run connects and serves until ctx ends.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.opts.Token)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsDirectMessages | discordgo.IntentMessageContent

	b.sender = newSender(dg, b.opts.ReplyRate, b.log)
	dg.AddHandler(b.onReady)
	dg.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		b.onMessageCreate(ctx, s, m)
	})

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	b.log.Info().Msg("Shutdown signal received, closing Discord session")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.log.Info().Str("user", r.User.Username).Int("guilds", len(r.Guilds)).Msg("Discord bot is running")
}

func (b *Bot) onMessageCreate(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || (s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID) {
		return
	}

	reply := b.handle(ctx, m.Author.ID, m.Content)
	if reply == "" {
		return
	}
	if err := b.sender.send(ctx, m.ChannelID, reply); err != nil {
		b.log.Error().Err(err).Str("channel", m.ChannelID).Msg("Failed to send reply")
	}
}

// handle turns one chat message into a response. Messages without the prefix
// and authors without a numeric snowflake are ignored.
func (b *Bot) handle(ctx context.Context, authorID, content string) string {
	line, ok := util.StripPrefix(content, b.opts.Prefix)
	if !ok {
		return ""
	}
	caller, err := strconv.ParseUint(authorID, 10, 64)
	if err != nil {
		b.log.Warn().Str("author", authorID).Msg("Author id is not a snowflake")
		return ""
	}

	tokens := util.Tokenize(line)
	b.log.Debug().Uint64("caller", caller).Strs("tokens", tokens).Msg("Command received")
	return b.table.Dispatch(commands.WithSource(ctx, "discord"), b.target, cmd.CallerID(caller), line, tokens)
}

// restStatus exposes the HTTP status of discordgo REST failures to the
// retry policy.
func restStatus(err error) int {
	var rest *discordgo.RESTError
	if errors.As(err, &rest) && rest.Response != nil {
		return rest.Response.StatusCode
	}
	return 0
}
