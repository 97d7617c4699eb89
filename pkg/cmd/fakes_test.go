package cmd

import (
	"fmt"
	"strings"
	"sync"
)

type fakeTarget string

func (t fakeTarget) Name() string { return string(t) }

const (
	master   CallerID = 1
	operator CallerID = 2
	stranger CallerID = 3
)

// fakeHost serves every collaborator from in-memory maps.
type fakeHost struct {
	mu       sync.Mutex
	levels   map[CallerID]Access
	notReady map[string]bool
	targets  []Target
	owners   map[CallerID]bool
	checked  int
}

func newFakeHost(names ...string) *fakeHost {
	h := &fakeHost{
		levels:   map[CallerID]Access{master: AccessMaster, operator: AccessOperator},
		notReady: map[string]bool{},
		owners:   map[CallerID]bool{master: true},
	}
	for _, n := range names {
		h.targets = append(h.targets, fakeTarget(n))
	}
	return h
}

func (h *fakeHost) host() Host {
	return Host{Access: h, Readiness: h, Targets: h, Privilege: h, Format: h}
}

func (h *fakeHost) HasAccess(_ Target, c CallerID, a Access) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checked++
	return h.levels[c] >= a
}

func (h *fakeHost) IsReady(t Target) bool {
	return t != nil && !h.notReady[t.Name()]
}

func (h *fakeHost) ResolveOne(token string) (Target, bool) {
	for _, t := range h.targets {
		if strings.EqualFold(t.Name(), token) {
			return t, true
		}
	}
	return nil, false
}

func (h *fakeHost) ResolveMany(pattern string) ([]Target, bool) {
	if strings.EqualFold(pattern, "all") {
		return h.targets, len(h.targets) > 0
	}
	var out []Target
	for _, item := range strings.Split(pattern, ",") {
		if t, ok := h.ResolveOne(item); ok {
			out = append(out, t)
		}
	}
	return out, len(out) > 0
}

func (h *fakeHost) IsPrivileged(c CallerID) bool { return h.owners[c] }

func (h *fakeHost) FormatForTarget(t Target, key string, args ...any) string {
	return strings.TrimSpace(fmt.Sprintf("<%s> %s %s", t.Name(), key, fmt.Sprint(args...)))
}

func (h *fakeHost) FormatStatic(key string, args ...any) string {
	return strings.TrimSpace(fmt.Sprintf("<static> %s %s", key, fmt.Sprint(args...)))
}
