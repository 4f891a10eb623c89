// pattern: Functional Core

package logfake

import (
	"errors"
	"fmt"

	"logfake/internal/logging"
)

// Check is one assertion over one channel, as selected from a command line
// or a query string.
type Check struct {
	Channel string
	Level   Level
	// Message, when set, only counts entries with exactly this message.
	Message string
	// Times, when not negative, requires exactly that many matching entries.
	Times   int
	Absent  bool
	Nothing bool
}

// Validate reports flag combinations that cannot be checked.
func (c Check) Validate() error {
	if c.Absent && c.Times >= 0 {
		return errors.New("absent and times are mutually exclusive")
	}
	if _, ok := logging.LookupLevel(string(c.Level)); !ok {
		return fmt.Errorf("unknown level %q", c.Level)
	}
	return nil
}

// Run performs the check against s and reports whether it held. Failures are
// reported to the store's TestingT.
func (c Check) Run(s *Store) bool {
	target := s.Channel(c.Channel)

	var pred Predicate
	if c.Message != "" {
		pred = func(m any, _ Context) any { return m == c.Message }
	}

	switch {
	case c.Nothing:
		return target.AssertNothingLogged()
	case c.Absent:
		return target.AssertNotLoggedFunc(c.Level, pred)
	case c.Times >= 0:
		return target.AssertLoggedTimesFunc(c.Level, c.Times, pred)
	case c.Message != "":
		return target.AssertLoggedMessage(c.Level, c.Message)
	default:
		return target.AssertLogged(c.Level)
	}
}

// Replay records entries read back from a log file, each under the channel
// it was written to. Entries from an unnamed logger go to the default channel.
func (s *Store) Replay(entries []logging.LogEntry) {
	for _, e := range entries {
		s.Channel(e.Channel).Log(e.Level, e.Message, Context(e.Fields))
	}
}
