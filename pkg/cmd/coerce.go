package cmd

import (
	"context"
	"encoding"
	"reflect"
	"strconv"
	"time"
)

// Role says where an argument's value comes from.
type Role uint8

const (
	RolePlain   Role = iota // one token, coerced
	RoleText                // every remaining token, joined
	RoleTarget              // invocation target
	RoleCaller              // invocation caller
	RoleContext             // invocation context
)

func (r Role) consumesTokens() bool { return r == RolePlain || r == RoleText }

var (
	targetType          = reflect.TypeFor[Target]()
	callerType          = reflect.TypeFor[CallerID]()
	contextType         = reflect.TypeFor[context.Context]()
	stringType          = reflect.TypeFor[string]()
	errorType           = reflect.TypeFor[error]()
	targetArgType       = reflect.TypeFor[TargetArg]()
	targetSetType       = reflect.TypeFor[TargetSet]()
	durationType        = reflect.TypeFor[time.Duration]()
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
)

// coercer turns one token into a value of the parameter's type.
type coercer func(host Host, token string) (reflect.Value, error)

// parseFunc is the TryParse shape: a value plus a success flag.
type parseFunc func(string) (reflect.Value, bool)

// roleOf binds special parameter types to invocation fields.
func roleOf(t reflect.Type) Role {
	switch t {
	case targetType:
		return RoleTarget
	case callerType:
		return RoleCaller
	case contextType:
		return RoleContext
	}
	return RolePlain
}

// coercerFor picks the strategy for a token-consuming parameter type. The
// order matters: the first applicable strategy wins.
func coercerFor(t reflect.Type, parsers map[reflect.Type]parseFunc) (coercer, bool) {
	switch {
	case t == stringType:
		return func(_ Host, token string) (reflect.Value, error) {
			return reflect.ValueOf(token), nil
		}, true

	case t == targetArgType:
		return func(host Host, token string) (reflect.Value, error) {
			target, ok := host.Targets.ResolveOne(token)
			if !ok || target == nil {
				return reflect.Value{}, errNoTarget
			}
			return reflect.ValueOf(TargetArg{Target: target}), nil
		}, true

	case t == targetSetType || t.AssignableTo(targetSetType) || t.Kind() == reflect.Slice && t.Elem() == targetType:
		return func(host Host, token string) (reflect.Value, error) {
			targets, ok := host.Targets.ResolveMany(token)
			if !ok || len(targets) == 0 {
				return reflect.Value{}, errNoTarget
			}
			return reflect.ValueOf(TargetSet(targets)).Convert(t), nil
		}, true

	case stringType.AssignableTo(t):
		return func(_ Host, token string) (reflect.Value, error) {
			v := reflect.New(t).Elem()
			v.Set(reflect.ValueOf(token))
			return v, nil
		}, true

	case reflect.PointerTo(t).Implements(textUnmarshalerType):
		return func(_ Host, token string) (reflect.Value, error) {
			ptr := reflect.New(t)
			if err := ptr.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(token)); err != nil {
				return reflect.Value{}, err
			}
			return ptr.Elem(), nil
		}, true

	case t.Kind() == reflect.String:
		return func(_ Host, token string) (reflect.Value, error) {
			return reflect.ValueOf(token).Convert(t), nil
		}, true
	}

	parse, ok := parsers[t]
	if !ok {
		parse, ok = builtinParser(t)
	}
	if !ok {
		return nil, false
	}
	return func(_ Host, token string) (reflect.Value, error) {
		v, ok := parse(token)
		if !ok {
			return reflect.Value{}, errParse
		}
		return v, nil
	}, true
}

// builtinParser covers the strconv kinds and time.Duration.
func builtinParser(t reflect.Type) (parseFunc, bool) {
	if t == durationType {
		return func(s string) (reflect.Value, bool) {
			d, err := time.ParseDuration(s)
			if err != nil {
				return reflect.Value{}, false
			}
			return reflect.ValueOf(d), true
		}, true
	}

	switch t.Kind() {
	case reflect.Bool:
		return func(s string) (reflect.Value, bool) {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return reflect.Value{}, false
			}
			v := reflect.New(t).Elem()
			v.SetBool(b)
			return v, true
		}, true

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(s string) (reflect.Value, bool) {
			n, err := strconv.ParseInt(s, 10, t.Bits())
			if err != nil {
				return reflect.Value{}, false
			}
			v := reflect.New(t).Elem()
			v.SetInt(n)
			return v, true
		}, true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return func(s string) (reflect.Value, bool) {
			n, err := strconv.ParseUint(s, 10, t.Bits())
			if err != nil {
				return reflect.Value{}, false
			}
			v := reflect.New(t).Elem()
			v.SetUint(n)
			return v, true
		}, true

	case reflect.Float32, reflect.Float64:
		return func(s string) (reflect.Value, bool) {
			f, err := strconv.ParseFloat(s, t.Bits())
			if err != nil {
				return reflect.Value{}, false
			}
			v := reflect.New(t).Elem()
			v.SetFloat(f)
			return v, true
		}, true
	}
	return nil, false
}

// typedParser adapts a TryParse-shaped function to parseFunc.
func typedParser[T any](fn func(string) (T, bool)) parseFunc {
	return func(s string) (reflect.Value, bool) {
		v, ok := fn(s)
		if !ok {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(&v).Elem(), true
	}
}
