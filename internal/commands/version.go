package commands

import (
	"github.com/keshon/botinvoker/internal/locale"
	"github.com/keshon/botinvoker/internal/version"
	"github.com/keshon/botinvoker/pkg/cmd"
)

type Version struct {
	format *locale.Formatter
}

func (v *Version) CommandName() string { return "version" }

func (v *Version) CommandVariants() []cmd.Variant {
	return []cmd.Variant{{Method: "Show", Access: cmd.AccessNone}}
}

func (v *Version) Show(t cmd.Target) string {
	return v.format.FormatForTarget(t, locale.MsgVersion, version.AppName, version.Version)
}
