package cmd

import "errors"

// Message keys passed to the Formatter.
const (
	MsgNotReady        = "not_ready"
	MsgInvalidArgument = "invalid_argument"
	MsgTargetsNotFound = "targets_not_found"
)

// AccessChecker reports whether caller c holds at least level a on target t.
// t is nil when the line arrived without a bot context.
type AccessChecker interface {
	HasAccess(t Target, c CallerID, a Access) bool
}

// ReadinessChecker reports whether a target is connected and usable.
type ReadinessChecker interface {
	IsReady(t Target) bool
}

// TargetResolver turns tokens into targets.
type TargetResolver interface {
	ResolveOne(token string) (Target, bool)
	ResolveMany(pattern string) ([]Target, bool)
}

// PrivilegeChecker decides who may learn that a pattern matched nothing.
type PrivilegeChecker interface {
	IsPrivileged(c CallerID) bool
}

// Formatter renders localized responses.
type Formatter interface {
	FormatForTarget(t Target, key string, args ...any) string
	FormatStatic(key string, args ...any) string
}

// Host bundles the collaborators a Table consumes. All fields are required.
type Host struct {
	Access    AccessChecker
	Readiness ReadinessChecker
	Targets   TargetResolver
	Privilege PrivilegeChecker
	Format    Formatter
}

func (h Host) validate() error {
	switch {
	case h.Access == nil:
		return errors.New("cmd: host has no access checker")
	case h.Readiness == nil:
		return errors.New("cmd: host has no readiness checker")
	case h.Targets == nil:
		return errors.New("cmd: host has no target resolver")
	case h.Privilege == nil:
		return errors.New("cmd: host has no privilege checker")
	case h.Format == nil:
		return errors.New("cmd: host has no formatter")
	}
	return nil
}

func (h Host) formatFor(t Target, key string, args ...any) string {
	if t == nil {
		return h.Format.FormatStatic(key, args...)
	}
	return h.Format.FormatForTarget(t, key, args...)
}
