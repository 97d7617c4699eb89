package cmd

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func aggregator(fh *fakeHost, limit int) *Aggregator {
	return &Aggregator{Targets: fh, Privilege: fh, Format: fh, Limit: limit}
}

func TestFanOutPreservesOrderAndDropsEmpty(t *testing.T) {
	fh := newFakeHost("A", "B", "C")
	replies := map[string]string{"A": "x", "B": "", "C": "y"}

	exec := func(_ context.Context, inv Invocation) string {
		// Later targets answer first.
		if inv.Target.Name() == "A" {
			time.Sleep(20 * time.Millisecond)
		}
		return replies[inv.Target.Name()]
	}

	got := aggregator(fh, 0).FanOut(context.Background(), master, "msg", nil, "all", exec)
	assert.Equal(t, "x\ny", got)
}

func TestFanOutPassesInvocation(t *testing.T) {
	fh := newFakeHost("A", "B")

	exec := func(_ context.Context, inv Invocation) string {
		return inv.Target.Name() + ":" + inv.Message + ":" + inv.Args[0]
	}

	got := aggregator(fh, 1).FanOut(context.Background(), operator, "line", []string{"tok"}, "b,a", exec)
	assert.Equal(t, "B:line:tok\nA:line:tok", got)
}

func TestFanOutAllEmpty(t *testing.T) {
	fh := newFakeHost("A", "B")
	exec := func(context.Context, Invocation) string { return "" }

	assert.Equal(t, "", aggregator(fh, 0).FanOut(context.Background(), master, "", nil, "all", exec))
}

func TestFanOutNoTargets(t *testing.T) {
	fh := newFakeHost("A")
	var calls atomic.Int32
	exec := func(context.Context, Invocation) string { calls.Add(1); return "x" }
	agg := aggregator(fh, 0)

	assert.Equal(t, "<static> targets_not_found nobody", agg.FanOut(context.Background(), master, "", nil, "nobody", exec))
	assert.Equal(t, "", agg.FanOut(context.Background(), operator, "", nil, "nobody", exec))
	assert.Zero(t, calls.Load())
}

func TestFanOutWithoutCaller(t *testing.T) {
	fh := newFakeHost("A")
	var calls atomic.Int32
	exec := func(context.Context, Invocation) string { calls.Add(1); return "x" }

	assert.Equal(t, "", aggregator(fh, 0).FanOut(context.Background(), NoCaller, "", nil, "all", exec))
	assert.Zero(t, calls.Load())
}

func TestFanOutLimit(t *testing.T) {
	fh := newFakeHost("A", "B", "C", "D")
	var running, peak atomic.Int32
	exec := func(_ context.Context, inv Invocation) string {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return inv.Target.Name()
	}

	got := aggregator(fh, 2).FanOut(context.Background(), master, "", nil, "all", exec)
	assert.Equal(t, "A\nB\nC\nD", got)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestDispatchMultiTargetScenario(t *testing.T) {
	fh := newFakeHost("A", "B")
	fh.levels[stranger] = AccessMaster
	tbl := NewTable(fh.host())
	h := &statusHandler{replies: map[string]string{"A": "A-ok", "B": ""}}
	if err := tbl.Load(h); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, "A-ok", dispatch(tbl, master, "status all"))
	assert.Equal(t, "", dispatch(tbl, stranger, "status nobody"))
	assert.Equal(t, "<static> targets_not_found nobody", dispatch(tbl, master, "status nobody"))
}

type statusHandler struct {
	replies map[string]string
}

func (h *statusHandler) CommandName() string { return "status" }

func (h *statusHandler) CommandVariants() []Variant {
	return []Variant{{Method: "Status", MultiTarget: true}}
}

func (h *statusHandler) Status(t Target) string { return h.replies[t.Name()] }
