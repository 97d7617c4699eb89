// Package fleet holds the managed bots and answers the dispatcher's questions
// about them: who may command a bot, whether it is running, and which bots a
// selector names.
package fleet

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/keshon/botinvoker/pkg/cmd"
)

var ErrUnknownBot = errors.New("unknown bot")

// State is the persisted part of the fleet.
type State interface {
	IsPaused(bot string) (bool, error)
	SetPaused(bot string, paused bool) error
	Grant(bot string, caller uint64) (cmd.Access, error)
	SetGrant(bot string, caller uint64, level cmd.Access) error
}

// Bot is one managed bot.
type Bot struct {
	name string
}

func (b *Bot) Name() string   { return b.name }
func (b *Bot) String() string { return b.name }

// Fleet is immutable after New apart from the persisted state.
type Fleet struct {
	bots   []*Bot
	byName map[string]*Bot
	owners map[cmd.CallerID]bool
	state  State
	log    zerolog.Logger
}

// New builds a fleet from bot names in order. Names are case-insensitive and
// must be unique.
func New(names []string, owners []uint64, state State, log zerolog.Logger) (*Fleet, error) {
	f := &Fleet{
		byName: make(map[string]*Bot, len(names)),
		owners: make(map[cmd.CallerID]bool, len(owners)),
		state:  state,
		log:    log,
	}
	for _, name := range names {
		key := strings.ToLower(name)
		if key == "" || strings.ContainsAny(key, ", ") {
			return nil, fmt.Errorf("invalid bot name %q", name)
		}
		if _, dup := f.byName[key]; dup {
			return nil, fmt.Errorf("duplicate bot name %q", name)
		}
		b := &Bot{name: name}
		f.bots = append(f.bots, b)
		f.byName[key] = b
	}
	for _, id := range owners {
		if id != 0 {
			f.owners[cmd.CallerID(id)] = true
		}
	}
	return f, nil
}

// Bots returns every bot in fleet order.
func (f *Fleet) Bots() []*Bot {
	return append([]*Bot(nil), f.bots...)
}

// Bot looks a bot up by name.
func (f *Fleet) Bot(name string) (*Bot, error) {
	if b, ok := f.byName[strings.ToLower(name)]; ok {
		return b, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownBot, name)
}

func (f *Fleet) ResolveOne(token string) (cmd.Target, bool) {
	b, ok := f.byName[strings.ToLower(token)]
	if !ok {
		return nil, false
	}
	return b, true
}

// ResolveMany understands comma-separated selectors:
//
//	ASF, all      every bot
//	r!<regex>     bots whose name matches
//	a..b          bots from a to b in fleet order
//	name          one bot
//
// The result follows fleet order with duplicates removed.
func (f *Fleet) ResolveMany(pattern string) ([]cmd.Target, bool) {
	picked := make([]bool, len(f.bots))
	for _, item := range strings.Split(pattern, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		f.mark(item, picked)
	}

	var out []cmd.Target
	for i, ok := range picked {
		if ok {
			out = append(out, f.bots[i])
		}
	}
	return out, len(out) > 0
}

func (f *Fleet) mark(item string, picked []bool) {
	switch {
	case strings.EqualFold(item, "ASF") || strings.EqualFold(item, "all"):
		for i := range picked {
			picked[i] = true
		}

	case len(item) > 2 && strings.EqualFold(item[:2], "r!"):
		re, err := regexp.Compile(item[2:])
		if err != nil {
			f.log.Warn().Err(err).Str("selector", item).Msg("Invalid bot selector regex")
			return
		}
		for i, b := range f.bots {
			if re.MatchString(b.name) {
				picked[i] = true
			}
		}

	case strings.Contains(item, ".."):
		from, to, _ := strings.Cut(item, "..")
		a, b := f.index(from), f.index(to)
		if a < 0 || b < 0 {
			return
		}
		if a > b {
			a, b = b, a
		}
		for i := a; i <= b; i++ {
			picked[i] = true
		}

	default:
		if i := f.index(item); i >= 0 {
			picked[i] = true
		}
	}
}

func (f *Fleet) index(name string) int {
	for i, b := range f.bots {
		if strings.EqualFold(b.name, name) {
			return i
		}
	}
	return -1
}

// HasAccess lets owners do anything. Other callers need a grant on the bot;
// lines without a bot are for owners only.
func (f *Fleet) HasAccess(t cmd.Target, c cmd.CallerID, a cmd.Access) bool {
	if a == cmd.AccessNone || f.owners[c] {
		return true
	}
	if t == nil || c == cmd.NoCaller {
		return false
	}
	level, err := f.state.Grant(t.Name(), uint64(c))
	if err != nil {
		f.log.Error().Err(err).Str("bot", t.Name()).Msg("Failed to read grant")
		return false
	}
	return level >= a
}

func (f *Fleet) IsPrivileged(c cmd.CallerID) bool {
	return f.owners[c]
}

// IsReady reports whether t is a bot of this fleet that is not paused.
func (f *Fleet) IsReady(t cmd.Target) bool {
	if t == nil {
		return false
	}
	if _, ok := f.byName[strings.ToLower(t.Name())]; !ok {
		return false
	}
	paused, err := f.state.IsPaused(t.Name())
	if err != nil {
		f.log.Error().Err(err).Str("bot", t.Name()).Msg("Failed to read bot state")
		return false
	}
	return !paused
}

// SetReady starts or pauses a bot.
func (f *Fleet) SetReady(t cmd.Target, ready bool) error {
	b, err := f.Bot(t.Name())
	if err != nil {
		return err
	}
	return f.state.SetPaused(b.name, !ready)
}

// Grant sets caller's level on t.
func (f *Fleet) Grant(t cmd.Target, caller cmd.CallerID, level cmd.Access) error {
	b, err := f.Bot(t.Name())
	if err != nil {
		return err
	}
	if caller == cmd.NoCaller {
		return errors.New("grant needs a caller")
	}
	return f.state.SetGrant(b.name, uint64(caller), level)
}
