package discord

import (
	"context"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/keshon/botinvoker/pkg/retrylimit"
)

// maxMessageLen is Discord's per-message character limit.
const maxMessageLen = 2000

type postFunc func(channelID, content string) error

// sender posts replies through one adaptive limiter shared by all channels.
type sender struct {
	post postFunc
	lim  *retrylimit.AdaptiveLimiter
	cfg  retrylimit.Config
}

func newSender(dg *discordgo.Session, perSecond float64, log zerolog.Logger) *sender {
	return newSenderFunc(func(channelID, content string) error {
		_, err := dg.ChannelMessageSend(channelID, content)
		return err
	}, perSecond, log)
}

func newSenderFunc(post postFunc, perSecond float64, log zerolog.Logger) *sender {
	if perSecond <= 0 {
		perSecond = 5
	}
	limit := rate.Limit(perSecond)
	cfg := retrylimit.DefaultConfig()
	cfg.StatusOf = restStatus
	cfg.Logger = log
	return &sender{
		post: post,
		lim:  retrylimit.NewAdaptiveLimiter(limit, 1, limit*2, 1, 0.5),
		cfg:  cfg,
	}
}

// send posts content, split at line breaks into messages Discord accepts.
func (s *sender) send(ctx context.Context, channelID, content string) error {
	for _, chunk := range splitMessage(content, maxMessageLen) {
		err := retrylimit.Do(ctx, s.lim, s.cfg, func() error {
			return permanentOnClientError(s.post(channelID, chunk))
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// permanentOnClientError stops retries for 4xx responses other than 429,
// such as missing permissions in the channel.
func permanentOnClientError(err error) error {
	if err == nil {
		return nil
	}
	if code := restStatus(err); code >= 400 && code < 500 && code != http.StatusTooManyRequests {
		return &retrylimit.Permanent{Err: err}
	}
	return err
}

// splitMessage cuts s into pieces of at most limit runes, preferring to cut
// after a newline.
func splitMessage(s string, limit int) []string {
	var out []string
	for {
		runes := []rune(s)
		if len(runes) <= limit {
			if s != "" {
				out = append(out, s)
			}
			return out
		}
		head := string(runes[:limit])
		if i := strings.LastIndexByte(head, '\n'); i > 0 {
			head = head[:i]
		}
		out = append(out, head)
		s = strings.TrimPrefix(s[len(head):], "\n")
	}
}
