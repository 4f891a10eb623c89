// pattern: Functional Core

package logfake

import (
	"log/slog"
	"maps"
	"reflect"

	"logfake/internal/logging"
)

// Level is a log severity; see logging.Level.
type Level = logging.Level

// Severities accepted by every logging method.
const (
	LevelEmergency = logging.LevelEmergency
	LevelAlert     = logging.LevelAlert
	LevelCritical  = logging.LevelCritical
	LevelError     = logging.LevelError
	LevelWarning   = logging.LevelWarning
	LevelNotice    = logging.LevelNotice
	LevelInfo      = logging.LevelInfo
	LevelDebug     = logging.LevelDebug
)

// badKey is the key slog uses for a value with no key.
const badKey = "!BADKEY"

// Context is the key/value data attached to a log entry.
type Context map[string]any

// Entry is one recorded logging call. Entries are never modified after they
// are recorded.
type Entry struct {
	Level   Level
	Message any
	Context Context
	// TimesForgotten is how many times Channel had been forgotten when the
	// entry was written.
	TimesForgotten int
	Channel        string
}

// Predicate filters entries by message and context. The result is coerced
// with loose truthiness: nil, false, zero numbers, empty strings and empty
// collections reject; anything else accepts. A func returning bool works
// unchanged.
type Predicate func(message any, ctx Context) any

// merge returns a new Context holding every layer, later layers winning.
func merge(layers ...Context) Context {
	merged := make(Context)
	for _, layer := range layers {
		maps.Copy(merged, layer)
	}
	return merged
}

// argsToContext converts call-site args the way slog does: alternating
// key/value pairs or slog.Attr values. A Context (or map[string]any) is
// merged in place. A value with no key is stored under "!BADKEY".
func argsToContext(args []any) Context {
	ctx := make(Context)
	for i := 0; i < len(args); i++ {
		switch arg := args[i].(type) {
		case Context:
			maps.Copy(ctx, arg)
		case map[string]any:
			maps.Copy(ctx, arg)
		case slog.Attr:
			ctx[arg.Key] = arg.Value.Any()
		case string:
			if i+1 >= len(args) {
				ctx[badKey] = arg
				continue
			}
			ctx[arg] = args[i+1]
			i++
		default:
			ctx[badKey] = arg
		}
	}
	return ctx
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	default:
		return !rv.IsZero()
	}
}

// accepts reports whether every predicate accepts the entry. Nil predicates
// accept everything.
func (e Entry) accepts(preds []Predicate) bool {
	for _, pred := range preds {
		if pred != nil && !truthy(pred(e.Message, e.Context)) {
			return false
		}
	}
	return true
}
