package app

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/botinvoker/internal/commands"
	"github.com/keshon/botinvoker/internal/config"
	"github.com/keshon/botinvoker/pkg/cmd"
)

func newApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{
		StoragePath:   filepath.Join(t.TempDir(), "ds.json"),
		CommandPrefix: "!",
		OwnerIDs:      []uint64{42},
		Bots:          []string{"main", "spare"},
		DefaultBot:    "spare",
		Locale:        "en",
	}
	a, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestNewLoadsBuiltins(t *testing.T) {
	a := newApp(t)
	assert.Contains(t, a.Table.Names(), "STATUS")
	assert.Equal(t, "spare", a.DefaultBot().Name())
}

func TestOwnerDrivesFleet(t *testing.T) {
	a := newApp(t)
	ctx := commands.WithSource(context.Background(), "test")
	run := func(line string) string {
		return a.Table.Dispatch(ctx, a.DefaultBot(), cmd.CallerID(42), line, strings.Fields(line))
	}

	assert.Equal(t, "<main> Done!", run("pause main"))
	main, err := a.Fleet.Bot("main")
	require.NoError(t, err)
	assert.False(t, a.Fleet.IsReady(main))
}

func TestDefaultBotFallsBackToFirst(t *testing.T) {
	a := newApp(t)
	a.Config.DefaultBot = "gone"
	assert.Equal(t, "main", a.DefaultBot().Name())
}
