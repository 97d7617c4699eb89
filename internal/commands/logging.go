package commands

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/keshon/botinvoker/pkg/cmd"
)

// LogCommands logs every dispatched variant with its caller, source and run
// time. Silent results are logged at debug level only.
func LogCommands(log zerolog.Logger) cmd.Middleware {
	return func(d *cmd.Descriptor, next cmd.Executor) cmd.Executor {
		command := strings.ToLower(d.Command)
		return func(ctx context.Context, inv cmd.Invocation) string {
			start := time.Now()
			out := next(ctx, inv)

			e := log.Info()
			if out == "" {
				e = log.Debug()
			}
			e.Str("command", command).
				Str("method", d.Method).
				Uint64("caller", uint64(inv.Caller)).
				Str("source", SourceFrom(ctx)).
				Dur("took", time.Since(start)).
				Bool("silent", out == "").
				Msg("Command executed")
			return out
		}
	}
}
