// pattern: Imperative Shell

package logfake

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ErrUnsupportedOnStack is reported when a stack is asked about forget state
// or bound context.
var ErrUnsupportedOnStack = errors.New("stacks are recomputed each time they are resolved, so they cannot track forgotten state or current context")

// FailureText returns the message of a failure reported through TestingT,
// without testify's labels and error trace.
func FailureText(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if msg, ok := strings.CutPrefix(strings.TrimSpace(line), "Error:"); ok {
			return strings.TrimSpace(msg)
		}
	}
	return strings.TrimSpace(output)
}

type tHelper interface {
	Helper()
}

// failureMessage returns the caller's message when one is given, otherwise
// the default. msgAndArgs follows testify: a single value is printed as is,
// several are a format string and its arguments.
func failureMessage(def string, msgAndArgs []any) string {
	switch len(msgAndArgs) {
	case 0:
		return def
	case 1:
		if msg, ok := msgAndArgs[0].(string); ok {
			return msg
		}
		return fmt.Sprintf("%+v", msgAndArgs[0])
	default:
		if format, ok := msgAndArgs[0].(string); ok {
			return fmt.Sprintf(format, msgAndArgs[1:]...)
		}
		return fmt.Sprint(msgAndArgs...)
	}
}

// check reports a failure when ok is false.
func (s *Store) check(ok bool, def string, msgAndArgs []any) bool {
	if h, isHelper := s.t.(tHelper); isHelper {
		h.Helper()
	}
	if ok {
		return true
	}
	return assert.Fail(s.t, failureMessage(def, msgAndArgs))
}

func (s *Store) unsupported(name, op string) bool {
	if h, isHelper := s.t.(tHelper); isHelper {
		h.Helper()
	}
	require.Fail(s.t, fmt.Sprintf("%s is not supported on the [%s] stack: %v", op, name, ErrUnsupportedOnStack))
	return false
}

// sameMessage compares messages with == when that is defined for want, so
// distinct pointers never match. Maps, slices and other incomparable values
// are compared by content.
func sameMessage(want, got any) bool {
	if want == nil || got == nil {
		return want == got
	}
	if reflect.ValueOf(want).Comparable() {
		return want == got
	}
	return assert.ObjectsAreEqual(want, got)
}

func (s *Store) assertLogged(name string, level Level, pred Predicate, msgAndArgs []any) bool {
	found := len(s.logged(name, level, []Predicate{pred})) > 0
	return s.check(found,
		fmt.Sprintf("Expected [%s] log was not created in the [%s] channel.", level, name),
		msgAndArgs)
}

func (s *Store) assertLoggedTimes(name string, level Level, times int, pred Predicate, msgAndArgs []any) bool {
	count := len(s.logged(name, level, []Predicate{pred}))
	return s.check(count == times,
		fmt.Sprintf("Expected [%s] log was not created [%d] times in the [%s] channel. Instead was created [%d] times.", level, times, name, count),
		msgAndArgs)
}

func (s *Store) assertNotLogged(name string, level Level, pred Predicate, msgAndArgs []any) bool {
	count := len(s.logged(name, level, []Predicate{pred}))
	return s.check(count == 0,
		fmt.Sprintf("Unexpected [%s] log was created in the [%s] channel.", level, name),
		msgAndArgs)
}

func (s *Store) assertNothingLogged(name string, msgAndArgs []any) bool {
	count := len(s.snapshot(name))
	return s.check(count == 0,
		fmt.Sprintf("Expected no logs to be created in the [%s] channel. Instead [%d] logs were created.", name, count),
		msgAndArgs)
}

func (s *Store) assertLoggedMessage(name string, level Level, message any, msgAndArgs []any) bool {
	pred := func(m any, _ Context) any { return sameMessage(message, m) }
	found := len(s.logged(name, level, []Predicate{pred})) > 0
	return s.check(found,
		fmt.Sprintf("Expected [%s] log with message [%v] was not created in the [%s] channel.", level, message, name),
		msgAndArgs)
}

func (s *Store) assertCurrentContext(name string, expected Context, msgAndArgs []any) bool {
	actual := s.currentContext(name)
	return s.check(assert.ObjectsAreEqual(merge(expected), actual),
		fmt.Sprintf("Expected to find the context [%v] in the [%s] channel. Found [%v] instead.", expected, name, actual),
		msgAndArgs)
}

func (s *Store) assertWasForgotten(name string, msgAndArgs []any) bool {
	return s.check(s.forgetCount(name) > 0,
		fmt.Sprintf("Expected the [%s] channel to be forgotten at least once. Channel was never forgotten.", name),
		msgAndArgs)
}

func (s *Store) assertWasForgottenTimes(name string, times int, msgAndArgs []any) bool {
	count := s.forgetCount(name)
	return s.check(count == times,
		fmt.Sprintf("Expected the [%s] channel to be forgotten [%d] times. Instead was forgotten [%d] times.", name, times, count),
		msgAndArgs)
}

func (s *Store) assertWasNotForgotten(name string, msgAndArgs []any) bool {
	count := s.forgetCount(name)
	return s.check(count == 0,
		fmt.Sprintf("Expected the [%s] channel to not be forgotten. Channel was forgotten [%d] times.", name, count),
		msgAndArgs)
}

func (s *Store) assertCurrentlyForgotten(name string, msgAndArgs []any) bool {
	return s.check(s.currentlyForgotten(name),
		fmt.Sprintf("Expected to find the [%s] channel to be forgotten. It was not.", name),
		msgAndArgs)
}

// AssertLogged asserts that an entry at level was written to the current
// channel.
func (s *Store) AssertLogged(level Level, msgAndArgs ...any) bool {
	return s.assertLogged(s.CurrentChannel(), level, nil, msgAndArgs)
}

// AssertLoggedFunc asserts that an entry at level accepted by pred was
// written to the current channel.
func (s *Store) AssertLoggedFunc(level Level, pred Predicate, msgAndArgs ...any) bool {
	return s.assertLogged(s.CurrentChannel(), level, pred, msgAndArgs)
}

// AssertLoggedTimes asserts that exactly times entries at level were written
// to the current channel.
func (s *Store) AssertLoggedTimes(level Level, times int, msgAndArgs ...any) bool {
	return s.assertLoggedTimes(s.CurrentChannel(), level, times, nil, msgAndArgs)
}

// AssertLoggedTimesFunc is AssertLoggedTimes counting only entries accepted
// by pred.
func (s *Store) AssertLoggedTimesFunc(level Level, times int, pred Predicate, msgAndArgs ...any) bool {
	return s.assertLoggedTimes(s.CurrentChannel(), level, times, pred, msgAndArgs)
}

// AssertNotLogged asserts that no entry at level was written to the current
// channel.
func (s *Store) AssertNotLogged(level Level, msgAndArgs ...any) bool {
	return s.assertNotLogged(s.CurrentChannel(), level, nil, msgAndArgs)
}

// AssertNotLoggedFunc is AssertNotLogged considering only entries accepted
// by pred.
func (s *Store) AssertNotLoggedFunc(level Level, pred Predicate, msgAndArgs ...any) bool {
	return s.assertNotLogged(s.CurrentChannel(), level, pred, msgAndArgs)
}

// AssertNothingLogged asserts that the current channel has no entries.
func (s *Store) AssertNothingLogged(msgAndArgs ...any) bool {
	return s.assertNothingLogged(s.CurrentChannel(), msgAndArgs)
}

// AssertLoggedMessage asserts that an entry at level with exactly message was
// written to the current channel.
func (s *Store) AssertLoggedMessage(level Level, message any, msgAndArgs ...any) bool {
	return s.assertLoggedMessage(s.CurrentChannel(), level, message, msgAndArgs)
}

// AssertCurrentContext asserts that the current channel's bound context
// equals expected.
func (s *Store) AssertCurrentContext(expected Context, msgAndArgs ...any) bool {
	return s.assertCurrentContext(s.CurrentChannel(), expected, msgAndArgs)
}

// AssertWasForgotten asserts that the current channel was forgotten at least
// once.
func (s *Store) AssertWasForgotten(msgAndArgs ...any) bool {
	return s.assertWasForgotten(s.CurrentChannel(), msgAndArgs)
}

// AssertWasForgottenTimes asserts that the current channel was forgotten
// exactly times times.
func (s *Store) AssertWasForgottenTimes(times int, msgAndArgs ...any) bool {
	return s.assertWasForgottenTimes(s.CurrentChannel(), times, msgAndArgs)
}

// AssertWasNotForgotten asserts that the current channel was never
// forgotten.
func (s *Store) AssertWasNotForgotten(msgAndArgs ...any) bool {
	return s.assertWasNotForgotten(s.CurrentChannel(), msgAndArgs)
}

// AssertChannelIsCurrentlyForgotten asserts that the named channel was
// forgotten and not resolved again since.
func (s *Store) AssertChannelIsCurrentlyForgotten(name string, msgAndArgs ...any) bool {
	if name == "" {
		name = s.DefaultDriver()
	}
	return s.assertCurrentlyForgotten(name, msgAndArgs)
}

// AssertHasSharedContext asserts that the shared context equals expected.
func (s *Store) AssertHasSharedContext(expected Context, msgAndArgs ...any) bool {
	shared := s.SharedContext()
	return s.check(assert.ObjectsAreEqual(merge(expected), shared),
		fmt.Sprintf("Expected to find the shared context [%v]. Found [%v] instead.", expected, shared),
		msgAndArgs)
}
