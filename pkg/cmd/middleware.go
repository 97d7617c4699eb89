package cmd

import "context"

// Guard wraps an executor with a precondition. A guard either calls next or
// returns its own terminal response.
type Guard func(next Executor) Executor

// Middleware wraps a whole variant, fan-out included, for cross-cutting
// concerns such as command logging. It sees the descriptor it wraps.
type Middleware func(d *Descriptor, next Executor) Executor

// Chain applies guards so that the first one in the list runs first.
func Chain(exec Executor, guards ...Guard) Executor {
	for i := len(guards) - 1; i >= 0; i-- {
		exec = guards[i](exec)
	}
	return exec
}

// RequireAccess terminates silently when the caller lacks level on the
// target, so unauthorized callers cannot tell the command exists.
func RequireAccess(checker AccessChecker, level Access) Guard {
	level = level.effective()
	return func(next Executor) Executor {
		if level == AccessNone {
			return next
		}
		return func(ctx context.Context, inv Invocation) string {
			if !checker.HasAccess(inv.Target, inv.Caller, level) {
				return ""
			}
			return next(ctx, inv)
		}
	}
}

// RequireReady answers with the not-ready message when the target is not
// connected.
func RequireReady(host Host) Guard {
	return func(next Executor) Executor {
		return func(ctx context.Context, inv Invocation) string {
			if !host.Readiness.IsReady(inv.Target) {
				return host.formatFor(inv.Target, MsgNotReady)
			}
			return next(ctx, inv)
		}
	}
}
