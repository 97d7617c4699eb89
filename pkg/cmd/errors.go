package cmd

import (
	"errors"
	"fmt"
)

// ErrAlreadyLoaded is returned by Load on a table that was loaded before.
// Hosts treat it as a fatal misconfiguration.
var ErrAlreadyLoaded = errors.New("cmd: table is already loaded")

var (
	errZeroValue = errors.New("value is empty")
	errNoTarget  = errors.New("no matching target")
	errParse     = errors.New("cannot parse value")
)

// BuildError rejects one handler method. Loading continues without it.
type BuildError struct {
	Command string
	Method  string
	Reason  string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("cmd: %s.%s: %s", e.Command, e.Method, e.Reason)
}

// CoercionError is a call-time failure to turn a token into an argument.
type CoercionError struct {
	Arg   string
	Token string
	Err   error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("cmd: argument %s (%q): %v", e.Arg, e.Token, e.Err)
}

func (e *CoercionError) Unwrap() error { return e.Err }
