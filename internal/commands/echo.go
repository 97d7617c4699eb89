package commands

import (
	"github.com/keshon/botinvoker/internal/fleet"
	"github.com/keshon/botinvoker/internal/locale"
	"github.com/keshon/botinvoker/pkg/cmd"
)

type Echo struct {
	format *locale.Formatter
}

func (e *Echo) CommandName() string { return "echo" }

func (e *Echo) CommandVariants() []cmd.Variant {
	return []cmd.Variant{{
		Method: "Text",
		Access: cmd.AccessOperator,
		Args:   []cmd.Arg{{Name: "text", Text: true, NonZero: true}},
	}}
}

func (e *Echo) Text(t cmd.Target, text string) string {
	return e.format.FormatForTarget(t, locale.MsgSaid, text)
}

// Say speaks through a named bot rather than the line's bot. The caller needs
// master access on both.
type Say struct {
	fleet  *fleet.Fleet
	format *locale.Formatter
}

func (s *Say) CommandName() string { return "say" }

func (s *Say) CommandVariants() []cmd.Variant {
	return []cmd.Variant{{
		Method: "Through",
		Access: cmd.AccessMaster,
		Args:   []cmd.Arg{{Name: "bot"}, {Name: "text", Text: true, NonZero: true}},
	}}
}

func (s *Say) Through(caller cmd.CallerID, bot cmd.TargetArg, text string) string {
	if !s.fleet.HasAccess(bot.Target, caller, cmd.AccessMaster) {
		return ""
	}
	if !s.fleet.IsReady(bot.Target) {
		return s.format.FormatForTarget(bot.Target, cmd.MsgNotReady)
	}
	return s.format.FormatForTarget(bot.Target, locale.MsgSaid, text)
}
