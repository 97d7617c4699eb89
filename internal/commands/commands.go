// Package commands holds the built-in command handlers. Each handler is a
// plain struct; its exported methods are the command's variants.
package commands

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/keshon/botinvoker/internal/fleet"
	"github.com/keshon/botinvoker/internal/locale"
	"github.com/keshon/botinvoker/internal/storage"
	"github.com/keshon/botinvoker/pkg/cmd"
)

// Deps are the services handlers use. Table is the table the handlers are
// loaded into; help reads it at call time.
type Deps struct {
	Fleet   *fleet.Fleet
	Storage *storage.Storage
	Format  *locale.Formatter
	Table   *cmd.Table
	Log     zerolog.Logger
}

// All returns every built-in handler in registration order.
func All(d Deps) []cmd.Handler {
	return []cmd.Handler{
		&Help{table: d.Table, format: d.Format},
		&Version{format: d.Format},
		&Status{fleet: d.Fleet, format: d.Format},
		&Start{fleet: d.Fleet, format: d.Format},
		&Pause{fleet: d.Fleet, format: d.Format},
		&Grant{fleet: d.Fleet, format: d.Format},
		&Grants{storage: d.Storage, format: d.Format},
		&Echo{format: d.Format},
		&Roll{format: d.Format},
		&History{storage: d.Storage, format: d.Format},
		&Say{fleet: d.Fleet, format: d.Format},
	}
}

// Options are the table options the built-in handlers rely on.
func Options(d Deps) []cmd.Option {
	return []cmd.Option{
		cmd.WithParser(cmd.ParseAccess),
		cmd.WithMiddleware(LogCommands(d.Log), RecordHistory(d.Fleet, d.Storage, d.Log)),
	}
}

type sourceKey struct{}

// WithSource tags ctx with the transport a line came from.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

// SourceFrom returns the transport tag, "unknown" when unset.
func SourceFrom(ctx context.Context) string {
	if s, ok := ctx.Value(sourceKey{}).(string); ok {
		return s
	}
	return "unknown"
}
