package commands

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/keshon/botinvoker/internal/fleet"
	"github.com/keshon/botinvoker/internal/locale"
	"github.com/keshon/botinvoker/internal/storage"
	"github.com/keshon/botinvoker/pkg/cmd"
)

// Grant sets a user's access level on the selected bots. Level "none"
// revokes it.
type Grant struct {
	fleet  *fleet.Fleet
	format *locale.Formatter
}

func (g *Grant) CommandName() string { return "grant" }

func (g *Grant) CommandVariants() []cmd.Variant {
	return []cmd.Variant{{
		Method:      "Set",
		Access:      cmd.AccessMaster,
		MultiTarget: true,
		Args:        []cmd.Arg{{Name: "user", NonZero: true}, {Name: "level"}},
	}}
}

func (g *Grant) Set(t cmd.Target, user uint64, level cmd.Access) (string, error) {
	if err := g.fleet.Grant(t, cmd.CallerID(user), level); err != nil {
		return "", err
	}
	if level == cmd.AccessNone {
		return g.format.FormatForTarget(t, locale.MsgRevoked, strconv.FormatUint(user, 10)), nil
	}
	return g.format.FormatForTarget(t, locale.MsgGranted, level.String(), strconv.FormatUint(user, 10)), nil
}

// Grants lists the stored grants of each selected bot. Owners are implicit
// and not listed.
type Grants struct {
	storage *storage.Storage
	format  *locale.Formatter
}

func (g *Grants) CommandName() string { return "grants" }

func (g *Grants) CommandVariants() []cmd.Variant {
	return []cmd.Variant{{Method: "List", Access: cmd.AccessMaster, MultiTarget: true}}
}

func (g *Grants) List(t cmd.Target) (string, error) {
	grants, err := g.storage.Grants(t.Name())
	if err != nil {
		return "", err
	}
	if len(grants) == 0 {
		return g.format.FormatForTarget(t, locale.MsgGrantsEmpty), nil
	}

	ids := slices.Sorted(maps.Keys(grants))
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		lines = append(lines, "  "+g.format.Text(locale.MsgGrantLine, strconv.FormatUint(id, 10), grants[id].String()))
	}
	return g.format.FormatForTarget(t, locale.MsgGrantsHeader) + "\n" + strings.Join(lines, "\n"), nil
}
