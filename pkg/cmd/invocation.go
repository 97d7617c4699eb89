// Package cmd compiles handler methods into guarded, type-coercing executors
// and routes text command lines to them. A handler is any value with a command
// name; each of its exported methods becomes one variant of that command. How
// lines reach the table (Discord, CLI, HTTP) is defined by adapters.
package cmd

import "context"

// CallerID identifies whoever issued a command line.
type CallerID uint64

// NoCaller is the zero CallerID. Fan-out refuses to run without a caller.
const NoCaller CallerID = 0

// Target is a managed entity (a bot) a command acts on or is broadcast to.
type Target interface {
	Name() string
}

// TargetArg is a parameter type resolved from a token through ResolveOne.
type TargetArg struct {
	Target
}

// TargetSet is a parameter type resolved from a token through ResolveMany.
type TargetSet []Target

// Invocation carries one call. Args excludes the command name; for a
// multi-target variant the first arg is the target pattern.
type Invocation struct {
	Target  Target
	Caller  CallerID
	Message string
	Args    []string
}

// Executor runs one compiled variant. An empty result means no response.
type Executor func(ctx context.Context, inv Invocation) string
