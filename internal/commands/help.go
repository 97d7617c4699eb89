package commands

import (
	"strings"

	"github.com/keshon/botinvoker/internal/locale"
	"github.com/keshon/botinvoker/pkg/cmd"
)

type Help struct {
	table  *cmd.Table
	format *locale.Formatter
}

func (h *Help) CommandName() string { return "help" }

func (h *Help) CommandVariants() []cmd.Variant {
	return []cmd.Variant{
		{Method: "List", Access: cmd.AccessFamilySharing},
		{Method: "Describe", Access: cmd.AccessFamilySharing, Args: []cmd.Arg{{Name: "command", NonZero: true}}},
	}
}

// List prints one usage line per variant of every command.
func (h *Help) List(t cmd.Target) string {
	lines := []string{h.format.FormatForTarget(t, locale.MsgHelpHeader)}
	for _, name := range h.table.Names() {
		lines = append(lines, Usage(h.table, name)...)
	}
	return strings.Join(lines, "\n")
}

func (h *Help) Describe(t cmd.Target, command string) string {
	usage := Usage(h.table, command)
	if len(usage) == 0 {
		return h.format.FormatForTarget(t, cmd.MsgInvalidArgument, "command")
	}
	return h.format.FormatForTarget(t, locale.MsgHelpHeader) + "\n" + strings.Join(usage, "\n")
}

// Usage renders the variants of one command, e.g. "status <bots> (operator)".
func Usage(table *cmd.Table, command string) []string {
	var out []string
	for _, d := range table.Variants(command) {
		out = append(out, "  "+d.Usage()+" ("+d.Access.String()+")")
	}
	return out
}
