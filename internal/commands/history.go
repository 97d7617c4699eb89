package commands

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/keshon/botinvoker/internal/fleet"
	"github.com/keshon/botinvoker/internal/locale"
	"github.com/keshon/botinvoker/internal/storage"
	"github.com/keshon/botinvoker/pkg/cmd"
	"github.com/keshon/botinvoker/pkg/util"
)

const historyDateTpl = "YYYY-MM-DD hh:mm:ss"

// History lists the commands recently run against each selected bot.
type History struct {
	storage *storage.Storage
	format  *locale.Formatter
}

func (h *History) CommandName() string { return "history" }

func (h *History) CommandVariants() []cmd.Variant {
	return []cmd.Variant{{Method: "Show", Access: cmd.AccessMaster, MultiTarget: true, RequireReady: true}}
}

func (h *History) Show(t cmd.Target) (string, error) {
	records, err := h.storage.FetchCommandHistory(t.Name())
	if err != nil {
		return "", err
	}
	if len(records) == 0 {
		return h.format.FormatForTarget(t, locale.MsgHistoryEmpty), nil
	}

	lines := make([]string, 0, len(records))
	for _, rec := range records {
		line := strings.TrimSpace(rec.Command + " " + rec.Param)
		lines = append(lines, "  "+h.format.Text(locale.MsgHistoryLine,
			util.FormatDateTpl(rec.Datetime, historyDateTpl), strconv.FormatUint(rec.Caller, 10), line))
	}
	return h.format.FormatForTarget(t, locale.MsgHistoryHeader) + "\n" + strings.Join(lines, "\n"), nil
}

// RecordHistory stores every command that produced a response. A multi-target
// command is recorded once per bot its pattern names and the caller may use;
// other commands under the line's bot.
func RecordHistory(f *fleet.Fleet, st *storage.Storage, log zerolog.Logger) cmd.Middleware {
	return func(d *cmd.Descriptor, next cmd.Executor) cmd.Executor {
		command := strings.ToLower(d.Command)
		return func(ctx context.Context, inv cmd.Invocation) string {
			out := next(ctx, inv)
			if out == "" {
				return out
			}

			var bots []cmd.Target
			switch {
			case d.MultiTarget && len(inv.Args) > 0:
				resolved, _ := f.ResolveMany(inv.Args[0])
				for _, b := range resolved {
					if f.HasAccess(b, inv.Caller, d.Access) {
						bots = append(bots, b)
					}
				}
			case inv.Target != nil:
				bots = []cmd.Target{inv.Target}
			}

			rec := storage.CommandHistoryRecord{
				Caller:  uint64(inv.Caller),
				Source:  SourceFrom(ctx),
				Command: command,
				Param:   strings.Join(inv.Args, " "),
			}
			for _, b := range bots {
				if _, err := st.AppendCommandToHistory(b.Name(), rec); err != nil {
					log.Warn().Err(err).Str("command", command).Str("bot", b.Name()).Msg("Failed to log command")
				}
			}
			return out
		}
	}
}
