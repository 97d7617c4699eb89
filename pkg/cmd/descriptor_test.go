package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wrapper struct{ s string }

func (w *wrapper) UnmarshalText(b []byte) error {
	if strings.HasPrefix(string(b), "!") {
		return errors.New("bang")
	}
	w.s = "wrapped:" + string(b)
	return nil
}

type probeHandler struct {
	calls int
}

func (h *probeHandler) CommandName() string { return "test" }

func (h *probeHandler) CommandVariants() []Variant {
	return []Variant{
		{Method: "NoArgs", Access: AccessMaster},
		{Method: "IntArg", Args: []Arg{{Name: "param", NonZero: true}}},
		{Method: "StringNonDefault", Args: []Arg{{Name: "param", NonZero: true}}},
		{Method: "TextArg", Access: AccessOperator, Args: []Arg{{Name: "text", Text: true}}},
		{Method: "Wrapped", Args: []Arg{{Name: "value"}}},
		{Method: "Object", Args: []Arg{{Name: "value", NonZero: true}}},
		{Method: "Connected", RequireReady: true},
		{Method: "Public", Access: AccessNone},
		{Method: "TextFirst", Args: []Arg{{Text: true}, {}}},
		{Method: "TextInt", Args: []Arg{{Text: true}}},
		{Method: "TooManyArgs", Args: []Arg{{}, {}}},
	}
}

func (h *probeHandler) NoArgs() string { h.calls++; return "Done" }

func (h *probeHandler) IntArg(param int) string { h.calls++; return strconv.Itoa(param) }

func (h *probeHandler) StringNonDefault(param string) string { h.calls++; return param }

func (h *probeHandler) TextArg(text string) string { h.calls++; return text }

func (h *probeHandler) Wrapped(w wrapper) string { return w.s }

func (h *probeHandler) Object(v any) string { return fmt.Sprint(v) }

func (h *probeHandler) Connected() string { h.calls++; return "connected" }

func (h *probeHandler) Public() string { return "public" }

func (h *probeHandler) WhoAmI(ctx context.Context, t Target, c CallerID) string {
	if ctx == nil {
		return "no context"
	}
	return fmt.Sprintf("%s:%d", t.Name(), c)
}

func (h *probeHandler) Failing() (string, error) { return "ignored", errors.New("boom") }

func (h *probeHandler) Succeeding() (string, error) { return "ok", nil }

func (h *probeHandler) Pick(bot TargetArg) string { return bot.Name() }

func (h *probeHandler) Count(bots TargetSet) string { return strconv.Itoa(len(bots)) }

func (h *probeHandler) Duration(d time.Duration) string { return d.String() }

func (h *probeHandler) ImpossibleCast(h2 Handler) string { return "" }

func (h *probeHandler) InvalidReturn() int { return 0 }

func (h *probeHandler) NoReturn() {}

func (h *probeHandler) Variadic(args ...string) string { return "" }

func (h *probeHandler) TextFirst(a, b string) string { return a + b }

func (h *probeHandler) TextInt(n int) string { return "" }

func (h *probeHandler) TooManyArgs(a string) string { return a }

func newProbe(t *testing.T, fh *fakeHost) (*Table, *probeHandler) {
	t.Helper()
	return NewTable(fh.host()), &probeHandler{}
}

func build(t *testing.T, tbl *Table, h Handler, method string) *Descriptor {
	t.Helper()
	d, err := tbl.Build(h, method)
	require.NoError(t, err, "descriptor_test - build %s", method)
	return d
}

func call(d *Descriptor, caller CallerID, args ...string) string {
	return d.Execute(context.Background(), Invocation{
		Target: fakeTarget("alpha"),
		Caller: caller,
		Args:   args,
	})
}

func TestBuildNoArgs(t *testing.T) {
	tbl, h := newProbe(t, newFakeHost("alpha"))
	d := build(t, tbl, h, "NoArgs")

	assert.Equal(t, 0, d.Arity())
	assert.Equal(t, "Done", call(d, master))
	assert.Equal(t, "", call(d, stranger), "descriptor_test - no access must be silent")
	assert.Equal(t, "", call(d, operator))
	assert.Equal(t, 1, h.calls)
}

func TestBuildIntArg(t *testing.T) {
	tbl, h := newProbe(t, newFakeHost("alpha"))
	d := build(t, tbl, h, "IntArg")

	assert.Equal(t, 1, d.Arity())
	assert.Equal(t, "123", call(d, master, "123"))
	assert.Equal(t, "<alpha> invalid_argument param", call(d, master, "0"))
	assert.Equal(t, "<alpha> invalid_argument param", call(d, master, "twelve"))
	assert.Equal(t, 1, h.calls)
}

func TestBuildGuardsRunBeforeCoercion(t *testing.T) {
	tbl, h := newProbe(t, newFakeHost("alpha"))
	d := build(t, tbl, h, "IntArg")

	assert.Equal(t, "", call(d, stranger, "twelve"))
	assert.Equal(t, 0, h.calls)
}

func TestBuildStringNonDefault(t *testing.T) {
	tbl, h := newProbe(t, newFakeHost("alpha"))
	d := build(t, tbl, h, "StringNonDefault")

	assert.Equal(t, "value", call(d, master, "value"))
	assert.Equal(t, "<alpha> invalid_argument param", call(d, master, ""))
	assert.Equal(t, "<alpha> invalid_argument param", call(d, master))
}

func TestBuildTextArg(t *testing.T) {
	tbl, h := newProbe(t, newFakeHost("alpha"))
	d := build(t, tbl, h, "TextArg")

	require.True(t, d.HasText())
	assert.Equal(t, RoleText, d.Args[0].Role)
	assert.Equal(t, "hello big world", call(d, operator, "hello", "big", "world"))
	assert.Equal(t, "", call(d, operator))
	assert.Equal(t, "test <text...>", d.Usage())
}

func TestBuildTextUnmarshaler(t *testing.T) {
	tbl, h := newProbe(t, newFakeHost("alpha"))
	d := build(t, tbl, h, "Wrapped")

	assert.Equal(t, "wrapped:abc", call(d, master, "abc"))
	assert.Equal(t, "<alpha> invalid_argument value", call(d, master, "!abc"))
}

func TestBuildObjectArg(t *testing.T) {
	tbl, h := newProbe(t, newFakeHost("alpha"))
	d := build(t, tbl, h, "Object")

	assert.Equal(t, "abc", call(d, master, "abc"))
	assert.Equal(t, "<alpha> invalid_argument value", call(d, master, ""))
}

func TestBuildRequireReady(t *testing.T) {
	fh := newFakeHost("alpha")
	tbl, h := newProbe(t, fh)
	d := build(t, tbl, h, "Connected")

	assert.Equal(t, "connected", call(d, master))

	fh.notReady["alpha"] = true
	assert.Equal(t, "<alpha> not_ready", call(d, master))
	assert.Equal(t, "", call(d, stranger), "descriptor_test - access is checked before readiness")
	assert.Equal(t, 1, h.calls)
}

func TestBuildAccessNone(t *testing.T) {
	fh := newFakeHost("alpha")
	tbl, h := newProbe(t, fh)
	d := build(t, tbl, h, "Public")

	assert.Equal(t, "public", call(d, stranger))
	assert.Equal(t, 0, fh.checked)
}

func TestBuildDefaultAccessIsMaster(t *testing.T) {
	tbl, h := newProbe(t, newFakeHost("alpha"))
	d := build(t, tbl, h, "Succeeding")

	assert.Equal(t, AccessMaster, d.Access)
	assert.Equal(t, "ok", call(d, master))
	assert.Equal(t, "", call(d, operator))
}

func TestBuildErrorResultIsDropped(t *testing.T) {
	tbl, h := newProbe(t, newFakeHost("alpha"))
	d := build(t, tbl, h, "Failing")

	assert.Equal(t, "", call(d, master))
}

type panicHandler struct{}

func (panicHandler) CommandName() string { return "panic" }

func (panicHandler) Explode(n int) string { return strconv.Itoa(10 / n) }

func TestBuildPanicIsRecovered(t *testing.T) {
	tbl := NewTable(newFakeHost("alpha").host())
	d := build(t, tbl, panicHandler{}, "Explode")

	assert.Equal(t, "5", call(d, master, "2"))
	assert.NotPanics(t, func() {
		assert.Equal(t, "", call(d, master, "0"))
	})
}

func TestBuildContextRoles(t *testing.T) {
	tbl, h := newProbe(t, newFakeHost("alpha"))
	d := build(t, tbl, h, "WhoAmI")

	assert.Equal(t, 0, d.Arity())
	assert.Equal(t, []Role{RoleContext, RoleTarget, RoleCaller}, []Role{d.Args[0].Role, d.Args[1].Role, d.Args[2].Role})
	assert.Equal(t, "alpha:1", call(d, master))
}

func TestBuildTargetArgs(t *testing.T) {
	tbl, h := newProbe(t, newFakeHost("alpha", "beta"))

	pick := build(t, tbl, h, "Pick")
	assert.Equal(t, "beta", call(pick, master, "BETA"))
	assert.Equal(t, "<alpha> invalid_argument arg1", call(pick, master, "gamma"))

	count := build(t, tbl, h, "Count")
	assert.Equal(t, "2", call(count, master, "all"))
	assert.Equal(t, "1", call(count, master, "alpha,gamma"))
	assert.Equal(t, "<alpha> invalid_argument arg1", call(count, master, "gamma"))
}

func TestBuildDuration(t *testing.T) {
	tbl, h := newProbe(t, newFakeHost("alpha"))
	d := build(t, tbl, h, "Duration")

	assert.Equal(t, "1m30s", call(d, master, "90s"))
	assert.Equal(t, "<alpha> invalid_argument arg1", call(d, master, "soon"))
}

func TestBuildInvalidArgumentWithoutTarget(t *testing.T) {
	tbl, h := newProbe(t, newFakeHost("alpha"))
	d := build(t, tbl, h, "IntArg")

	got := d.Execute(context.Background(), Invocation{Caller: master, Args: []string{"x"}})
	assert.Equal(t, "<static> invalid_argument param", got)
}

func TestBuildRejections(t *testing.T) {
	tbl, h := newProbe(t, newFakeHost("alpha"))

	for _, method := range []string{
		"ImpossibleCast",
		"InvalidReturn",
		"NoReturn",
		"Variadic",
		"TextFirst",
		"TextInt",
		"TooManyArgs",
		"Missing",
	} {
		t.Run(method, func(t *testing.T) {
			d, err := tbl.Build(h, method)
			assert.Nil(t, d)
			var be *BuildError
			require.ErrorAs(t, err, &be)
			assert.Equal(t, "test", be.Command)
			assert.Equal(t, method, be.Method)
		})
	}
}

type levelHandler struct{}

func (levelHandler) CommandName() string { return "level" }

func (levelHandler) Set(level Access) string { return level.String() }

func TestBuildRegisteredParser(t *testing.T) {
	tbl := NewTable(newFakeHost("alpha").host(), WithParser(ParseAccess))
	d := build(t, tbl, levelHandler{}, "Set")

	assert.Equal(t, "operator", call(d, master, "Operator"))
	assert.Equal(t, "master", call(d, master, "3"))
	assert.Equal(t, "<alpha> invalid_argument arg1", call(d, master, "root"))
}
