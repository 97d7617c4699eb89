package cmd

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/rs/zerolog"
)

// ArgSpec describes one parameter of a compiled variant.
type ArgSpec struct {
	Name    string
	Type    reflect.Type
	Role    Role
	NonZero bool

	coerce coercer
}

// Descriptor is one compiled variant of a command. It is immutable once built.
type Descriptor struct {
	Command      string
	Method       string
	Args         []ArgSpec
	Access       Access
	RequireReady bool
	MultiTarget  bool

	exec Executor
}

// Arity is the number of tokens the variant's arguments consume, excluding
// the target pattern of a multi-target variant.
func (d *Descriptor) Arity() int {
	n := 0
	for _, a := range d.Args {
		if a.Role.consumesTokens() {
			n++
		}
	}
	return n
}

// HasText reports whether the last argument swallows the rest of the line.
func (d *Descriptor) HasText() bool {
	for _, a := range d.Args {
		if a.Role == RoleText {
			return true
		}
	}
	return false
}

// Usage renders the variant as a command line template.
func (d *Descriptor) Usage() string {
	parts := []string{strings.ToLower(d.Command)}
	if d.MultiTarget {
		parts = append(parts, "<bots>")
	}
	for _, a := range d.Args {
		switch a.Role {
		case RolePlain:
			parts = append(parts, "<"+a.Name+">")
		case RoleText:
			parts = append(parts, "<"+a.Name+"...>")
		}
	}
	return strings.Join(parts, " ")
}

// Execute runs the variant's executor.
func (d *Descriptor) Execute(ctx context.Context, inv Invocation) string {
	return d.exec(ctx, inv)
}

// builder compiles handler methods. It holds no state shared between methods
// beyond its read-only configuration.
type builder struct {
	host    Host
	parsers map[reflect.Type]parseFunc
	mws     []Middleware
	fanOut  *Aggregator
	log     zerolog.Logger
}

func (b *builder) build(h Handler, method string, v Variant) (*Descriptor, error) {
	fail := func(format string, args ...any) (*Descriptor, error) {
		return nil, &BuildError{Command: h.CommandName(), Method: method, Reason: fmt.Sprintf(format, args...)}
	}

	fn := reflect.ValueOf(h).MethodByName(method)
	if !fn.IsValid() {
		return fail("no such method")
	}
	ft := fn.Type()

	returnsErr := false
	switch {
	case ft.NumOut() == 1 && ft.Out(0) == stringType:
	case ft.NumOut() == 2 && ft.Out(0) == stringType && ft.Out(1) == errorType:
		returnsErr = true
	default:
		return fail("invalid return type %s", ft)
	}
	if ft.IsVariadic() {
		return fail("variadic parameters are not supported")
	}

	d := &Descriptor{
		Command:      h.CommandName(),
		Method:       method,
		Args:         make([]ArgSpec, 0, ft.NumIn()),
		Access:       v.Access.effective(),
		RequireReady: v.RequireReady,
		MultiTarget:  v.MultiTarget,
	}

	plain := 0
	textSeen := false
	for i := 0; i < ft.NumIn(); i++ {
		pt := ft.In(i)
		spec := ArgSpec{Type: pt, Role: roleOf(pt)}
		if spec.Role != RolePlain {
			spec.Name = strings.ToLower(pt.Name())
			d.Args = append(d.Args, spec)
			continue
		}

		if textSeen {
			return fail("parameter %d follows a text parameter", i+1)
		}
		opts := Arg{Name: fmt.Sprintf("arg%d", plain+1)}
		if plain < len(v.Args) {
			opts = v.Args[plain]
			if opts.Name == "" {
				opts.Name = fmt.Sprintf("arg%d", plain+1)
			}
		}
		plain++
		spec.Name = opts.Name
		spec.NonZero = opts.NonZero

		if opts.Text {
			if pt != stringType {
				return fail("text parameter %s must be a string, got %s", opts.Name, pt)
			}
			spec.Role = RoleText
			textSeen = true
			d.Args = append(d.Args, spec)
			continue
		}

		coerce, ok := coercerFor(pt, b.parsers)
		if !ok {
			return fail("type %s could not be parsed", pt)
		}
		spec.coerce = coerce
		d.Args = append(d.Args, spec)
	}
	if len(v.Args) > plain {
		return fail("options describe %d arguments, method takes %d", len(v.Args), plain)
	}

	exec := Chain(b.invoker(d, fn, returnsErr), b.guards(d)...)
	if d.MultiTarget {
		exec = b.broadcast(exec)
	}
	for i := len(b.mws) - 1; i >= 0; i-- {
		exec = b.mws[i](d, exec)
	}
	d.exec = exec
	return d, nil
}

func (b *builder) guards(d *Descriptor) []Guard {
	guards := []Guard{RequireAccess(b.host.Access, d.Access)}
	if d.RequireReady {
		guards = append(guards, RequireReady(b.host))
	}
	return guards
}

// invoker resolves every argument in declared order and calls the method.
// The first failing argument ends the call with the invalid-argument response.
// A panicking method is logged and yields no response.
func (b *builder) invoker(d *Descriptor, fn reflect.Value, returnsErr bool) Executor {
	args := d.Args
	return func(ctx context.Context, inv Invocation) (resp string) {
		defer func() {
			if r := recover(); r != nil {
				b.log.Error().Interface("panic", r).
					Str("command", d.Command).Str("method", d.Method).Msg("Command panicked")
				resp = ""
			}
		}()

		in := make([]reflect.Value, len(args))
		next := 0
		for i, a := range args {
			var (
				v     reflect.Value
				token string
				err   error
			)
			switch a.Role {
			case RoleTarget:
				v = reflect.Zero(targetType)
				if inv.Target != nil {
					v = reflect.ValueOf(&inv.Target).Elem()
				}
			case RoleCaller:
				v = reflect.ValueOf(inv.Caller)
			case RoleContext:
				v = reflect.ValueOf(&ctx).Elem()
			case RoleText:
				if next < len(inv.Args) {
					token = strings.Join(inv.Args[next:], " ")
				}
				next = len(inv.Args)
				v = reflect.ValueOf(token)
			default:
				if next < len(inv.Args) {
					token = inv.Args[next]
				}
				next++
				v, err = a.coerce(b.host, token)
			}
			if err == nil && a.NonZero && isZero(v) {
				err = errZeroValue
			}
			if err != nil {
				b.log.Debug().Err(&CoercionError{Arg: a.Name, Token: token, Err: err}).
					Str("command", d.Command).Msg("Argument rejected")
				return b.host.formatFor(inv.Target, MsgInvalidArgument, a.Name)
			}
			in[i] = v
		}

		out := fn.Call(in)
		if returnsErr && !out[1].IsNil() {
			b.log.Warn().Err(out[1].Interface().(error)).
				Str("command", d.Command).Str("method", d.Method).Msg("Command failed")
			return ""
		}
		return out[0].String()
	}
}

// broadcast consumes the first token as a target pattern and fans the
// guarded executor out over the resolved targets.
func (b *builder) broadcast(exec Executor) Executor {
	return func(ctx context.Context, inv Invocation) string {
		if len(inv.Args) == 0 {
			return ""
		}
		return b.fanOut.FanOut(ctx, inv.Caller, inv.Message, inv.Args[1:], inv.Args[0], exec)
	}
}

// isZero looks through interfaces, so an any holding "" counts as empty.
func isZero(v reflect.Value) bool {
	for v.Kind() == reflect.Interface {
		if v.IsNil() {
			return true
		}
		v = v.Elem()
	}
	return v.IsZero()
}
