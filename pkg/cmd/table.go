package cmd

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Table maps upper-cased command names to their compiled variants. Load fills
// it once; afterwards it is read-only and safe for concurrent Dispatch.
type Table struct {
	b        builder
	commands map[string][]*Descriptor
	names    []string
	loaded   bool
}

// Option configures a Table.
type Option func(*Table)

// WithLogger sets the logger used for build diagnostics and failed calls.
func WithLogger(log zerolog.Logger) Option {
	return func(t *Table) { t.b.log = log }
}

// WithParser registers a TryParse-shaped parser for T. It is consulted after
// the string and TextUnmarshaler strategies and before the built-in ones.
func WithParser[T any](fn func(string) (T, bool)) Option {
	return func(t *Table) { t.b.parsers[reflect.TypeFor[T]()] = typedParser(fn) }
}

// WithMiddleware wraps every variant. The first middleware listed is the
// outermost.
func WithMiddleware(mws ...Middleware) Option {
	return func(t *Table) { t.b.mws = append(t.b.mws, mws...) }
}

// WithFanOutLimit bounds how many targets a multi-target variant runs at
// once. Zero means unbounded.
func WithFanOutLimit(n int) Option {
	return func(t *Table) { t.b.fanOut.Limit = n }
}

// NewTable returns an empty table bound to host.
func NewTable(host Host, opts ...Option) *Table {
	t := &Table{
		b: builder{
			host:    host,
			parsers: make(map[reflect.Type]parseFunc),
			log:     zerolog.Nop(),
		},
		commands: make(map[string][]*Descriptor),
	}
	t.b.fanOut = &Aggregator{
		Targets:   host.Targets,
		Privilege: host.Privilege,
		Format:    host.Format,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.b.fanOut.Logger = t.b.log
	return t
}

// Load compiles every handler. Methods that fail to build are logged and
// skipped; a handler left with no variants is discarded. Load may succeed only
// once per table.
func (t *Table) Load(handlers ...Handler) error {
	if t.loaded {
		return ErrAlreadyLoaded
	}
	if err := t.b.host.validate(); err != nil {
		return err
	}
	t.loaded = true

	for _, h := range handlers {
		name := strings.ToUpper(h.CommandName())
		if name == "" {
			t.b.log.Error().Str("handler", reflect.TypeOf(h).String()).Msg("Handler has no command name")
			continue
		}
		if _, dup := t.commands[name]; dup {
			t.b.log.Error().Str("command", name).Msg("Duplicate command name, handler skipped")
			continue
		}

		var descs []*Descriptor
		for _, v := range variantsOf(h) {
			d, err := t.b.build(h, v.Method, v)
			if err != nil {
				var be *BuildError
				if errors.As(err, &be) {
					t.b.log.Error().Err(err).Str("command", be.Command).Str("method", be.Method).Msg("Variant rejected")
				}
				continue
			}
			descs = append(descs, d)
		}
		if len(descs) == 0 {
			t.b.log.Warn().Str("command", name).Msg("Handler has no usable variants")
			continue
		}
		t.commands[name] = descs
		t.names = append(t.names, name)
	}
	sort.Strings(t.names)

	t.b.log.Info().Msgf("Registered %d command(s)", len(t.names))
	return nil
}

// Build compiles one method of h with the table's configuration without
// registering it.
func (t *Table) Build(h Handler, method string) (*Descriptor, error) {
	for _, v := range variantsOf(h) {
		if v.Method == method {
			return t.b.build(h, method, v)
		}
	}
	return t.b.build(h, method, Variant{Method: method})
}

// Dispatch runs the variant selected by tokens[0] and the number of remaining
// tokens. Unknown commands and arity misses return "".
func (t *Table) Dispatch(ctx context.Context, target Target, caller CallerID, message string, tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	d := t.Select(tokens[0], len(tokens)-1)
	if d == nil {
		return ""
	}
	return d.Execute(ctx, Invocation{
		Target:  target,
		Caller:  caller,
		Message: message,
		Args:    tokens[1:],
	})
}

// Select returns the variant of name that accepts argc tokens. An exact arity
// match wins; failing that, the first variant with a text argument that can
// absorb the surplus is chosen.
func (t *Table) Select(name string, argc int) *Descriptor {
	descs := t.commands[strings.ToUpper(name)]
	for _, d := range descs {
		if d.Arity() == effectiveArgc(d, argc) {
			return d
		}
	}
	for _, d := range descs {
		if d.HasText() && effectiveArgc(d, argc) > d.Arity() {
			return d
		}
	}
	return nil
}

func effectiveArgc(d *Descriptor, argc int) int {
	if d.MultiTarget {
		return argc - 1
	}
	return argc
}

// Names lists the registered command names, sorted.
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

// Variants returns the compiled variants of name in selection order.
func (t *Table) Variants(name string) []*Descriptor {
	return append([]*Descriptor(nil), t.commands[strings.ToUpper(name)]...)
}

var reservedMethods = map[string]bool{
	"CommandName":     true,
	"CommandVariants": true,
}

// variantsOf lists the variants of h: declared options first, then every
// other exported method by name with default options.
func variantsOf(h Handler) []Variant {
	var out []Variant
	seen := make(map[string]bool)
	if vp, ok := h.(VariantProvider); ok {
		for _, v := range vp.CommandVariants() {
			if reservedMethods[v.Method] || seen[v.Method] {
				continue
			}
			seen[v.Method] = true
			out = append(out, v)
		}
	}

	rt := reflect.TypeOf(h)
	for i := 0; i < rt.NumMethod(); i++ {
		m := rt.Method(i)
		if reservedMethods[m.Name] || seen[m.Name] {
			continue
		}
		out = append(out, Variant{Method: m.Name})
	}
	return out
}
