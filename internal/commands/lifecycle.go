package commands

import (
	"github.com/keshon/botinvoker/internal/fleet"
	"github.com/keshon/botinvoker/internal/locale"
	"github.com/keshon/botinvoker/pkg/cmd"
)

// Status reports whether each selected bot is running.
type Status struct {
	fleet  *fleet.Fleet
	format *locale.Formatter
}

func (s *Status) CommandName() string { return "status" }

func (s *Status) CommandVariants() []cmd.Variant {
	return []cmd.Variant{{Method: "Show", Access: cmd.AccessOperator, MultiTarget: true}}
}

func (s *Status) Show(t cmd.Target) string {
	if s.fleet.IsReady(t) {
		return s.format.FormatForTarget(t, locale.MsgStatusOnline)
	}
	return s.format.FormatForTarget(t, locale.MsgStatusOffline)
}

type Start struct {
	fleet  *fleet.Fleet
	format *locale.Formatter
}

func (s *Start) CommandName() string { return "start" }

func (s *Start) CommandVariants() []cmd.Variant {
	return []cmd.Variant{{Method: "Run", Access: cmd.AccessMaster, MultiTarget: true}}
}

func (s *Start) Run(t cmd.Target) (string, error) {
	return toggle(s.fleet, s.format, t, true)
}

type Pause struct {
	fleet  *fleet.Fleet
	format *locale.Formatter
}

func (p *Pause) CommandName() string { return "pause" }

func (p *Pause) CommandVariants() []cmd.Variant {
	return []cmd.Variant{{Method: "Run", Access: cmd.AccessMaster, MultiTarget: true}}
}

func (p *Pause) Run(t cmd.Target) (string, error) {
	return toggle(p.fleet, p.format, t, false)
}

func toggle(f *fleet.Fleet, format *locale.Formatter, t cmd.Target, ready bool) (string, error) {
	if f.IsReady(t) == ready {
		if ready {
			return format.FormatForTarget(t, locale.MsgAlreadyRunning), nil
		}
		return format.FormatForTarget(t, locale.MsgAlreadyPaused), nil
	}
	if err := f.SetReady(t, ready); err != nil {
		return "", err
	}
	return format.FormatForTarget(t, locale.MsgDone), nil
}
