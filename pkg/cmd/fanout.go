package cmd

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/keshon/botinvoker/pkg/util"
)

// Aggregator broadcasts one executor over a resolved set of targets.
type Aggregator struct {
	Targets   TargetResolver
	Privilege PrivilegeChecker
	Format    Formatter
	// Limit bounds concurrent targets; zero is unbounded.
	Limit  int
	Logger zerolog.Logger
}

// FanOut resolves pattern and runs exec once per target with the same caller,
// message and tokens. Non-empty responses are joined with newlines in
// resolution order. A pattern that matches nothing is reported to privileged
// callers only.
func (a *Aggregator) FanOut(ctx context.Context, caller CallerID, message string, tokens []string, pattern string, exec Executor) string {
	if caller == NoCaller {
		a.Logger.Error().Str("message", message).Msg("Fan-out without a caller")
		return ""
	}

	targets, ok := a.Targets.ResolveMany(pattern)
	if !ok || len(targets) == 0 {
		if a.Privilege.IsPrivileged(caller) {
			return a.Format.FormatStatic(MsgTargetsNotFound, pattern)
		}
		return ""
	}

	responses := util.InParallel(ctx, targets, a.Limit, func(ctx context.Context, t Target) string {
		return exec(ctx, Invocation{
			Target:  t,
			Caller:  caller,
			Message: message,
			Args:    tokens,
		})
	})

	out := responses[:0]
	for _, r := range responses {
		if r != "" {
			out = append(out, r)
		}
	}
	return strings.Join(out, "\n")
}
