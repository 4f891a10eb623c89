// pattern: Imperative Shell
package cli

import (
	"fmt"
	"io"

	"logfake/internal/config"
	"logfake/internal/logfake"
	"logfake/internal/logging"
)

// reporter collects assertion failures for a command instead of a test.
type reporter struct {
	w      io.Writer
	failed bool
}

func (r *reporter) Errorf(format string, args ...any) {
	r.failed = true
	_, _ = fmt.Fprintln(r.w, logfake.FailureText(fmt.Sprintf(format, args...)))
}

func (r *reporter) FailNow() {
	r.failed = true
}

// replay loads the entries of a log file into a new store. Each entry is
// recorded under the channel it was written to.
func replay(path string, env Env, t logfake.TestingT, opts ...logfake.Option) (*logfake.Store, error) {
	entries, err := logging.ReadLogFile(path)
	if err != nil {
		return nil, err
	}

	repo, err := config.NewRepositoryFromConfig(env.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config repository: %w", err)
	}

	store := logfake.New(t, append([]logfake.Option{logfake.WithConfig(repo)}, opts...)...)
	store.Replay(entries)

	env.logger().Debug("replayed log file", "path", path, "entries", len(entries))
	return store, nil
}

// fileArg returns the single positional argument, or the configured log file.
func fileArg(args []string, env Env) (string, error) {
	switch len(args) {
	case 0:
		return env.LogPath(), nil
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("expected one log file, got %d arguments", len(args))
	}
}
