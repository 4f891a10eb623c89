// pattern: Imperative Shell

package logfake

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logfake/internal/config"
)

// spyT records failures instead of failing the running test.
type spyT struct {
	errors    []string
	failedNow bool
}

func (s *spyT) Errorf(format string, args ...any) {
	s.errors = append(s.errors, fmt.Sprintf(format, args...))
}

func (s *spyT) FailNow() { s.failedNow = true }

func (s *spyT) failed() bool { return len(s.errors) > 0 }

func (s *spyT) last() string {
	if len(s.errors) == 0 {
		return ""
	}
	return s.errors[len(s.errors)-1]
}

func TestStackIdentityIgnoresMemberOrder(t *testing.T) {
	tests := []struct {
		name    string
		write   []string
		resolve []string
	}{
		{"two members", []string{"b", "a"}, []string{"a", "b"}},
		{"three members", []string{"c", "a", "b"}, []string{"b", "c", "a"}},
		{"same order", []string{"a", "b"}, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(t)
			s.Stack(tt.write, "grp").Info("hello")

			st := s.Stack(tt.resolve, "grp")
			assert.Equal(t, s.Stack(tt.write, "grp").Name(), st.Name())
			st.AssertLoggedTimes(LevelInfo, 1)
		})
	}
}

func TestStackLabelSeparatesIdentity(t *testing.T) {
	spy := &spyT{}
	s := New(spy)

	s.Stack([]string{"a", "b"}, "one").Info("hello")
	s.Stack([]string{"a", "b"}, "two").AssertNothingLogged()
	s.Stack([]string{"a", "b"}, "").AssertNothingLogged()

	assert.False(t, spy.failed(), spy.errors)
}

func TestContextPrecedence(t *testing.T) {
	s := New(t)
	s.ShareContext(Context{"k": "shared", "s": 1})
	s.Channel("x").WithContext(Context{"k": "bound", "b": 2})
	s.Channel("x").Info("m", "k", "call", "c", 3)

	entries := s.Channel("x").Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, Context{"k": "call", "s": 1, "b": 2, "c": 3}, entries[0].Context)
}

func TestWriteIsolation(t *testing.T) {
	s := New(t)
	s.Channel("a").Error("boom")
	s.Stack([]string{"a", "b"}, "").Error("boom")

	s.Channel("b").AssertNothingLogged()
	s.Stack([]string{"c", "d"}, "").AssertNothingLogged()
	s.AssertNothingLogged()
	s.Channel("a").AssertLoggedTimes(LevelError, 1)
}

func TestForgetMonotonicity(t *testing.T) {
	s := New(t)
	ch := s.Channel("x")
	ch.AssertWasNotForgotten()

	for i := 1; i <= 3; i++ {
		s.ForgetChannel("x")
		s.Channel("x").Info(fmt.Sprintf("after %d", i))
		s.Channel("x").AssertWasForgottenTimes(i)
	}

	for i, e := range s.Channel("x").Entries() {
		assert.Equal(t, i+1, e.TimesForgotten, "entry %d", i)
	}
}

func TestForgetKeepsEntries(t *testing.T) {
	s := New(t)
	s.Channel("x").Info("before")
	s.ForgetChannel("x")
	s.Channel("x").AssertLoggedMessage(LevelInfo, "before")
	assert.Equal(t, 0, s.Channel("x").Entries()[0].TimesForgotten)
}

func TestMarkerRestoredAfterCall(t *testing.T) {
	s := New(t)
	s.Channel("x").Info("hello")
	assert.Nil(t, s.marker)
	assert.Equal(t, "app", s.CurrentChannel())
}

func TestMarkerRestoredAfterPanic(t *testing.T) {
	s := New(t)
	func() {
		defer func() { _ = recover() }()
		s.proxy("x", func() { panic("boom") })
	}()
	assert.Nil(t, s.marker)
	assert.Equal(t, "app", s.CurrentChannel())
}

func TestMarkerRestoredOnReentry(t *testing.T) {
	s := New(t)
	s.proxy("outer", func() {
		s.Channel("inner").Info("nested")
		s.Log(LevelInfo, "after nested")
	})

	s.Channel("inner").AssertLoggedMessage(LevelInfo, "nested")
	s.Channel("outer").AssertLoggedMessage(LevelInfo, "after nested")
	assert.Nil(t, s.marker)
}

func TestEndToEndChannelQueries(t *testing.T) {
	s := New(t)
	s.Channel("x").Info("hello", Context{"a": 1})

	s.Channel("x").AssertLogged(LevelInfo)
	s.Channel("y").AssertNothingLogged()
	s.AssertNotLogged(LevelInfo)
}

func TestEndToEndStackResolution(t *testing.T) {
	s := New(t)
	s.Stack([]string{"b", "a"}, "grp").Warning("hello")
	s.Stack([]string{"a", "b"}, "grp").AssertLogged(LevelWarning)
}

func TestEndToEndSharedAndBoundContext(t *testing.T) {
	s := New(t)
	s.ShareContext(Context{"s": 1})
	s.Channel("x").WithContext(Context{"c": 2})
	s.Channel("x").Info("m", Context{"l": 3})

	s.Channel("x").AssertLoggedFunc(LevelInfo, func(_ any, ctx Context) any {
		return assert.ObjectsAreEqual(Context{"s": 1, "c": 2, "l": 3}, ctx)
	})
}

func TestEndToEndForgetClearsContext(t *testing.T) {
	s := New(t)
	s.Channel("x").WithContext(Context{"c": 2})
	s.ForgetChannel("x")
	s.Channel("x").Info("m")

	entries := s.Channel("x").Entries()
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Context)
}

func TestStackContextResetsOnResolution(t *testing.T) {
	s := New(t)
	st := s.Stack([]string{"a", "b"}, "")
	st.WithContext(Context{"k": "v"}).Info("first")
	s.Stack([]string{"a", "b"}, "").Info("second")

	entries := s.Stack([]string{"b", "a"}, "").Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, Context{"k": "v"}, entries[0].Context)
	assert.Empty(t, entries[1].Context)
}

func TestStackUnsupportedOperations(t *testing.T) {
	tests := []struct {
		name string
		call func(st *Stack) bool
	}{
		{"AssertCurrentContext", func(st *Stack) bool { return st.AssertCurrentContext(Context{}) }},
		{"AssertWasForgotten", func(st *Stack) bool { return st.AssertWasForgotten() }},
		{"AssertWasForgottenTimes", func(st *Stack) bool { return st.AssertWasForgottenTimes(0) }},
		{"AssertWasNotForgotten", func(st *Stack) bool { return st.AssertWasNotForgotten() }},
		{"AssertChannelIsCurrentlyForgotten", func(st *Stack) bool { return st.AssertChannelIsCurrentlyForgotten() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := &spyT{}
			st := New(spy).Stack([]string{"a"}, "")

			assert.False(t, tt.call(st))
			assert.True(t, spy.failedNow, "expected FailNow")
			assert.Contains(t, spy.last(), tt.name+" is not supported on the [stack::unnamed:a] stack")
			assert.Contains(t, spy.last(), ErrUnsupportedOnStack.Error())
		})
	}
}

func TestDefaultFailureMessages(t *testing.T) {
	tests := []struct {
		name string
		run  func(s *Store) bool
		want string
	}{
		{
			name: "logged",
			run:  func(s *Store) bool { return s.Channel("x").AssertLogged(LevelInfo) },
			want: "Expected [info] log was not created in the [x] channel.",
		},
		{
			name: "logged times",
			run: func(s *Store) bool {
				s.Channel("x").Info("once")
				return s.Channel("x").AssertLoggedTimes(LevelInfo, 2)
			},
			want: "Expected [info] log was not created [2] times in the [x] channel. Instead was created [1] times.",
		},
		{
			name: "not logged",
			run: func(s *Store) bool {
				s.Error("boom")
				return s.AssertNotLogged(LevelError)
			},
			want: "Unexpected [error] log was created in the [app] channel.",
		},
		{
			name: "nothing logged",
			run: func(s *Store) bool {
				s.Channel("x").Debug("a")
				return s.Channel("x").AssertNothingLogged()
			},
			want: "Expected no logs to be created in the [x] channel. Instead [1] logs were created.",
		},
		{
			name: "message",
			run: func(s *Store) bool {
				s.Info("other")
				return s.AssertLoggedMessage(LevelInfo, "hello")
			},
			want: "Expected [info] log with message [hello] was not created in the [app] channel.",
		},
		{
			name: "was forgotten",
			run:  func(s *Store) bool { return s.Channel("x").AssertWasForgotten() },
			want: "Expected the [x] channel to be forgotten at least once. Channel was never forgotten.",
		},
		{
			name: "forgotten times",
			run: func(s *Store) bool {
				s.ForgetChannel("x")
				return s.Channel("x").AssertWasForgottenTimes(2)
			},
			want: "Expected the [x] channel to be forgotten [2] times. Instead was forgotten [1] times.",
		},
		{
			name: "not forgotten",
			run: func(s *Store) bool {
				s.ForgetChannel("")
				return s.AssertWasNotForgotten()
			},
			want: "Expected the [app] channel to not be forgotten. Channel was forgotten [1] times.",
		},
		{
			name: "currently forgotten",
			run:  func(s *Store) bool { return s.AssertChannelIsCurrentlyForgotten("x") },
			want: "Expected to find the [x] channel to be forgotten. It was not.",
		},
		{
			name: "current context",
			run: func(s *Store) bool {
				s.Channel("x").WithContext(Context{"a": 1})
				return s.Channel("x").AssertCurrentContext(Context{"a": 2})
			},
			want: "Expected to find the context [map[a:2]] in the [x] channel. Found [map[a:1]] instead.",
		},
		{
			name: "shared context",
			run: func(s *Store) bool {
				s.ShareContext(Context{"a": 1})
				return s.AssertHasSharedContext(Context{"b": 1})
			},
			want: "Expected to find the shared context [map[b:1]]. Found [map[a:1]] instead.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spy := &spyT{}
			s := New(spy)

			assert.False(t, tt.run(s))
			require.Len(t, spy.errors, 1)
			assert.Contains(t, spy.last(), tt.want)
			assert.False(t, spy.failedNow)
		})
	}
}

func TestCustomMessageReplacesDefault(t *testing.T) {
	spy := &spyT{}
	s := New(spy)

	s.Channel("x").AssertLogged(LevelInfo, "audit entry for %s missing", "bob")
	assert.Contains(t, spy.last(), "audit entry for bob missing")
	assert.NotContains(t, spy.last(), "Expected [info] log")

	s.AssertNotLogged(LevelInfo, "single message")
	assert.Len(t, spy.errors, 1, "passing assertion must not report")
}

func TestPredicateTruthiness(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{"nil", nil, false},
		{"true", true, true},
		{"false", false, false},
		{"zero int", 0, false},
		{"non-zero int", 2, true},
		{"zero float", 0.0, false},
		{"empty string", "", false},
		{"string", "yes", true},
		{"empty slice", []string{}, false},
		{"slice", []int{1}, true},
		{"empty map", map[string]any{}, false},
		{"nil pointer", (*int)(nil), false},
		{"struct", struct{}{}, false},
		{"error", errors.New("x"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truthy(tt.value); got != tt.want {
				t.Errorf("truthy(%#v) = %v, want %v", tt.value, got, tt.want)
			}

			s := New(t)
			s.Info("m")
			got := len(s.Logged(LevelInfo, func(any, Context) any { return tt.value })) == 1
			if got != tt.want {
				t.Errorf("Logged with predicate returning %#v matched = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestMessagesKeepTheirType(t *testing.T) {
	type event struct{ ID int }
	s := New(t)
	s.Info(event{ID: 7})
	s.Info(42)

	s.AssertLoggedMessage(LevelInfo, event{ID: 7})
	s.AssertLoggedMessage(LevelInfo, 42)

	spy := &spyT{}
	strict := New(spy)
	strict.Info(42)
	strict.AssertLoggedMessage(LevelInfo, "42")
	assert.True(t, spy.failed(), "an int message must not match its string form")
}

func TestCallSiteArgs(t *testing.T) {
	s := New(t)
	s.Info("m", "user", "bob", slog.Int("attempt", 2), Context{"a": true}, "dangling")

	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, Context{
		"user":    "bob",
		"attempt": int64(2),
		"a":       true,
		badKey:    "dangling",
	}, entries[0].Context)
}

func TestSeverityHelpers(t *testing.T) {
	tests := []struct {
		level Level
		call  func(l Logger)
	}{
		{LevelEmergency, func(l Logger) { l.Emergency("m") }},
		{LevelAlert, func(l Logger) { l.Alert("m") }},
		{LevelCritical, func(l Logger) { l.Critical("m") }},
		{LevelError, func(l Logger) { l.Error("m") }},
		{LevelWarning, func(l Logger) { l.Warning("m") }},
		{LevelNotice, func(l Logger) { l.Notice("m") }},
		{LevelInfo, func(l Logger) { l.Info("m") }},
		{LevelDebug, func(l Logger) { l.Debug("m") }},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			s := New(t)
			tt.call(s)
			tt.call(s.Channel("x"))
			tt.call(s.Stack([]string{"y"}, ""))

			s.AssertLoggedTimes(tt.level, 1)
			s.Channel("x").AssertLoggedTimes(tt.level, 1)
			s.Stack([]string{"y"}, "").AssertLoggedTimes(tt.level, 1)
		})
	}
}

func TestWriteIsLog(t *testing.T) {
	s := New(t)
	s.Write(LevelNotice, "a")
	s.Channel("x").Write(LevelNotice, "b")

	s.AssertLoggedMessage(LevelNotice, "a")
	s.Channel("x").AssertLoggedMessage(LevelNotice, "b")
}

func TestChannelMemoization(t *testing.T) {
	s := New(t)
	ch := s.Channel("x")
	assert.Same(t, ch, s.Channel("x"))
	assert.Same(t, ch, s.Driver("x"))
	assert.Same(t, s.Channel("app"), s.Channel(""))

	s.ForgetChannel("x")
	s.AssertChannelIsCurrentlyForgotten("x")
	assert.NotSame(t, ch, s.Channel("x"))

	spy := &spyT{}
	s.t = spy
	s.AssertChannelIsCurrentlyForgotten("x")
	assert.True(t, spy.failed(), "re-resolved channel is no longer forgotten")
}

func TestDefaultDriver(t *testing.T) {
	repo := config.NewRepository(map[string]any{"logging": map[string]any{"default": "main"}})
	s := New(t, WithConfig(repo))
	assert.Equal(t, "main", s.DefaultDriver())

	s.Info("to main")
	s.Channel("main").AssertLogged(LevelInfo)

	require.NoError(t, s.SetDefaultDriver("audit"))
	assert.Equal(t, "audit", repo.Get(config.DefaultChannelKey))
	s.Info("to audit")
	s.Channel("audit").AssertLoggedTimes(LevelInfo, 1)
	s.Channel("main").AssertLoggedTimes(LevelInfo, 1)
}

func TestSetDefaultDriverPropagatesConfigErrors(t *testing.T) {
	repo := config.NewRepository(map[string]any{"logging": "flat"})
	s := New(t, WithConfig(repo))

	err := s.SetDefaultDriver("x")
	assert.ErrorIs(t, err, config.ErrKeyNotMap)
}

func TestStoreContext(t *testing.T) {
	s := New(t)
	s.WithContext(Context{"a": 1}).WithContext(Context{"b": 2, "a": 3})
	s.AssertCurrentContext(Context{"a": 3, "b": 2})
	s.Channel("app").AssertCurrentContext(Context{"a": 3, "b": 2})

	s.WithoutContext()
	s.AssertCurrentContext(Context{})

	s.ShareContext(Context{"req": "r1"}).ShareContext(Context{"user": "u"})
	s.AssertHasSharedContext(Context{"req": "r1", "user": "u"})
	assert.Equal(t, Context{"req": "r1", "user": "u"}, s.SharedContext())
}

func TestChannelWithoutContext(t *testing.T) {
	s := New(t)
	ch := s.Channel("x").WithContext(Context{"a": 1})
	ch.Info("with")
	ch.WithoutContext().Info("without")

	entries := ch.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, Context{"a": 1}, entries[0].Context)
	assert.Empty(t, entries[1].Context)
	assert.Empty(t, ch.CurrentContext())
}

func TestBuild(t *testing.T) {
	s := New(t)
	a, err := s.Build(map[string]any{"driver": "single", "path": "/tmp/a.log"})
	require.NoError(t, err)
	b, err := s.Build(map[string]any{"path": "/tmp/a.log", "driver": "single"})
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, a.Name(), b.Name())
	assert.True(t, strings.HasPrefix(a.Name(), "ondemand::"))

	a.Info("built")
	b.AssertLogged(LevelInfo)

	_, err = s.Build(map[string]any{"bad": func() {}})
	assert.Error(t, err)
}

func TestLoggedAndHasLogged(t *testing.T) {
	s := New(t)
	s.Info("one", "n", 1)
	s.Info("two", "n", 2)

	assert.Len(t, s.Logged(LevelInfo), 2)
	assert.Len(t, s.Logged(LevelInfo, func(_ any, ctx Context) any { return ctx["n"] == 2 }), 1)
	assert.True(t, s.HasLogged(LevelInfo))
	assert.True(t, s.HasNotLogged(LevelDebug))
	assert.False(t, s.Channel("x").HasLogged(LevelInfo))
	assert.True(t, s.Channel("x").HasNotLogged(LevelInfo))

	s.AssertLoggedTimesFunc(LevelInfo, 1, func(m any, _ Context) any { return m == "two" })
	s.AssertNotLoggedFunc(LevelInfo, func(m any, _ Context) any { return m == "three" })
}

func TestAllEntriesAndReset(t *testing.T) {
	s := New(t)
	s.Info("a")
	s.Channel("x").Info("b")
	s.Stack([]string{"y"}, "").Info("c")

	all := s.AllEntries()
	require.Len(t, all, 3)
	assert.Equal(t, []string{"app", "x", "stack::unnamed:y"}, []string{all[0].Channel, all[1].Channel, all[2].Channel})

	s.ShareContext(Context{"a": 1})
	s.ForgetChannel("x")
	s.Reset()

	assert.Empty(t, s.AllEntries())
	assert.Empty(t, s.SharedContext())
	s.Channel("x").AssertWasNotForgotten()
	assert.Equal(t, "app", s.DefaultDriver())
}

func TestConcurrentLogging(t *testing.T) {
	s := New(t)
	zl := s.For("zap")

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := fmt.Sprintf("worker-%d", i%2)
			for range 50 {
				s.Channel(name).Info("tick")
				zl.Debug("tick")
			}
		}()
	}
	wg.Wait()

	s.Channel("worker-0").AssertLoggedTimes(LevelInfo, 200)
	s.Channel("worker-1").AssertLoggedTimes(LevelInfo, 200)
	s.Channel("zap").AssertLoggedTimes(LevelDebug, 400)
	s.AssertNothingLogged()
}

func TestReturnedEntriesAreCopies(t *testing.T) {
	s := New(t)
	s.Channel("x").Info("m", "k", "orig")

	s.Channel("x").Entries()[0].Context["k"] = "mutated"
	s.AllEntries()[0].Context["k"] = "mutated"
	s.Channel("x").Logged(LevelInfo)[0].Context["k"] = "mutated"
	s.Channel("x").Logged(LevelInfo, func(_ any, ctx Context) any {
		ctx["k"] = "mutated"
		return true
	})

	assert.Equal(t, Context{"k": "orig"}, s.Channel("x").Entries()[0].Context)
	s.Channel("x").AssertLoggedFunc(LevelInfo, func(_ any, ctx Context) any {
		return ctx["k"] == "orig"
	})
}

// callbackPrinter runs fn for every dump.
type callbackPrinter struct {
	fn func(records []DumpRecord)
}

func (p callbackPrinter) Print(records []DumpRecord) error {
	p.fn(records)
	return nil
}

func TestCallbacksMayUseTheStore(t *testing.T) {
	var s *Store
	var printed []DumpRecord
	s = New(t, WithPrinter(callbackPrinter{fn: func(records []DumpRecord) {
		printed = records
		s.Channel("printer").Debug("printed", "count", len(records))
	}}))
	s.Channel("x").Info("hello")

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Channel("x").AssertLoggedFunc(LevelInfo, func(any, Context) any {
			return s.Channel("y").HasNotLogged(LevelInfo)
		})
		s.Channel("x").AssertNotLoggedFunc(LevelInfo, func(any, Context) any {
			s.Channel("side").Warning("seen")
			return false
		})
		s.Channel("x").Dump()
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("a predicate or printer calling back into the store did not return")
	}

	require.Len(t, printed, 1)
	s.Channel("side").AssertLoggedTimes(LevelWarning, 1)
	s.Channel("printer").AssertLoggedFunc(LevelDebug, func(_ any, ctx Context) any {
		return ctx["count"] == 1
	})
}

func TestLoggedMessageUsesEquality(t *testing.T) {
	type event struct{ ID int }
	first, twin := &event{ID: 1}, &event{ID: 1}

	s := New(t)
	s.Info(first)
	s.Info(map[string]int{"a": 1})
	s.AssertLoggedMessage(LevelInfo, first)
	s.AssertLoggedMessage(LevelInfo, map[string]int{"a": 1})

	spy := &spyT{}
	strict := New(spy)
	strict.Info(first)
	strict.AssertLoggedMessage(LevelInfo, twin)
	assert.True(t, spy.failed(), "a distinct pointer with equal contents must not match")
}
