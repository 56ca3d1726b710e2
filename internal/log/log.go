package log

import "context"

// Kv is a helper type for structured logging fields.
type Kv = map[string]any

// Logger is the interface that the loggers used by the app must implement.
type Logger interface {
	Infof(format string, args ...any)
	Warningf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
	WithValues(values map[string]any) Logger
	WithCtxValues(ctx context.Context) Logger
	SetValuesOnCtx(parent context.Context, values map[string]any) context.Context
}

// Noop logger doesn't log anything.
var Noop Logger = noop(0)

type noop int

func (noop) Infof(format string, args ...any)     {}
func (noop) Warningf(format string, args ...any)  {}
func (noop) Errorf(format string, args ...any)    {}
func (noop) Debugf(format string, args ...any)    {}
func (n noop) WithValues(map[string]any) Logger   { return n }
func (n noop) WithCtxValues(context.Context) Logger { return n }
func (n noop) SetValuesOnCtx(parent context.Context, _ map[string]any) context.Context {
	return parent
}

type contextKey int

const contextLogValuesKey contextKey = 0

// CtxWithValues returns a copy of parent with the logging values attached,
// merged over any values already present.
func CtxWithValues(parent context.Context, kv Kv) context.Context {
	// Maps are mutable, so we copy to avoid race conditions on shared contexts.
	newValues := Kv{}
	for k, v := range ValuesFromCtx(parent) {
		newValues[k] = v
	}
	for k, v := range kv {
		newValues[k] = v
	}

	return context.WithValue(parent, contextLogValuesKey, newValues)
}

// ValuesFromCtx returns the logging values stored on the context. The returned
// map is a copy and safe to mutate.
func ValuesFromCtx(ctx context.Context) Kv {
	values, ok := ctx.Value(contextLogValuesKey).(Kv)
	if !ok {
		return Kv{}
	}

	copied := Kv{}
	for k, v := range values {
		copied[k] = v
	}

	return copied
}
