package fleet

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/botinvoker/internal/storage"
	"github.com/keshon/botinvoker/pkg/cmd"
)

const (
	owner cmd.CallerID = 100
	guest cmd.CallerID = 200
)

func newFleet(t *testing.T, names ...string) *Fleet {
	t.Helper()
	st, err := storage.New(filepath.Join(t.TempDir(), "ds.json"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	f, err := New(names, []uint64{uint64(owner)}, st, zerolog.Nop())
	require.NoError(t, err)
	return f
}

func names(ts []cmd.Target) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Name()
	}
	return out
}

func TestNewRejectsBadNames(t *testing.T) {
	_, err := New([]string{"a", "A"}, nil, nil, zerolog.Nop())
	assert.Error(t, err)
	_, err = New([]string{"a b"}, nil, nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestResolveOne(t *testing.T) {
	f := newFleet(t, "Alpha", "Beta")

	b, ok := f.ResolveOne("alpha")
	require.True(t, ok)
	assert.Equal(t, "Alpha", b.Name())

	_, ok = f.ResolveOne("gamma")
	assert.False(t, ok)

	_, err := f.Bot("gamma")
	assert.ErrorIs(t, err, ErrUnknownBot)
}

func TestResolveMany(t *testing.T) {
	f := newFleet(t, "alpha", "beta", "gamma", "delta", "main1", "main2")

	tests := []struct {
		pattern string
		want    []string
	}{
		{"ASF", []string{"alpha", "beta", "gamma", "delta", "main1", "main2"}},
		{"all", []string{"alpha", "beta", "gamma", "delta", "main1", "main2"}},
		{"gamma,alpha", []string{"alpha", "gamma"}},
		{"beta..delta", []string{"beta", "gamma", "delta"}},
		{"delta..beta", []string{"beta", "gamma", "delta"}},
		{"r!^main\\d$", []string{"main1", "main2"}},
		{"alpha,alpha,r!^a", []string{"alpha"}},
		{"beta..nobody", nil},
		{"r![", nil},
		{"nobody", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, ok := f.ResolveMany(tt.pattern)
			assert.Equal(t, len(tt.want) > 0, ok)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestHasAccess(t *testing.T) {
	f := newFleet(t, "alpha", "beta")
	alpha, _ := f.ResolveOne("alpha")
	beta, _ := f.ResolveOne("beta")

	assert.True(t, f.HasAccess(nil, owner, cmd.AccessMaster))
	assert.True(t, f.HasAccess(alpha, guest, cmd.AccessNone))
	assert.False(t, f.HasAccess(alpha, guest, cmd.AccessFamilySharing))
	assert.False(t, f.HasAccess(nil, guest, cmd.AccessFamilySharing))

	require.NoError(t, f.Grant(alpha, guest, cmd.AccessOperator))
	assert.True(t, f.HasAccess(alpha, guest, cmd.AccessFamilySharing))
	assert.True(t, f.HasAccess(alpha, guest, cmd.AccessOperator))
	assert.False(t, f.HasAccess(alpha, guest, cmd.AccessMaster))
	assert.False(t, f.HasAccess(beta, guest, cmd.AccessOperator))

	assert.Error(t, f.Grant(alpha, cmd.NoCaller, cmd.AccessOperator))
	assert.True(t, f.IsPrivileged(owner))
	assert.False(t, f.IsPrivileged(guest))
}

func TestReadiness(t *testing.T) {
	f := newFleet(t, "alpha")
	alpha, _ := f.ResolveOne("alpha")

	assert.True(t, f.IsReady(alpha))
	require.NoError(t, f.SetReady(alpha, false))
	assert.False(t, f.IsReady(alpha))
	require.NoError(t, f.SetReady(alpha, true))
	assert.True(t, f.IsReady(alpha))

	assert.False(t, f.IsReady(nil))
	assert.False(t, f.IsReady(&Bot{name: "stranger"}))
}
