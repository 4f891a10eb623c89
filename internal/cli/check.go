// pattern: Imperative Shell
package cli

import (
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"logfake/internal/instance"
	"logfake/internal/logfake"
	"logfake/internal/logging"
)

const checkUsage = `Usage: logfake check [flags] [file]

Replays a log file and asserts on one channel. Exits 1 when the assertion
fails. The file defaults to the configured log file. With --remote the check
runs on the server started by "logfake serve" for the same config directory.

Flags:
  --channel string   channel to check (default: configured default channel)
  --level string     level to look for (default "info")
  --message string   only count entries with exactly this message
  --times int        require exactly this many matching entries
  --absent           require that no matching entry exists
  --nothing          require that the channel has no entries at all
  --remote           run the check on the running logfake server`

type checkFlags struct {
	check  logfake.Check
	remote bool
	args   []string
}

func parseCheckFlags(args []string) (checkFlags, error) {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	channel := fs.String("channel", "", "channel to check")
	level := fs.String("level", string(logging.LevelInfo), "level to look for")
	message := fs.String("message", "", "only count entries with exactly this message")
	times := fs.Int("times", -1, "require exactly this many matching entries")
	absent := fs.Bool("absent", false, "require that no matching entry exists")
	nothing := fs.Bool("nothing", false, "require that the channel has no entries")
	remote := fs.Bool("remote", false, "run the check on the running logfake server")

	if err := fs.Parse(args); err != nil {
		return checkFlags{}, err
	}

	lvl, ok := logging.LookupLevel(*level)
	if !ok {
		names := make([]string, 0, 8)
		for _, l := range logging.Levels() {
			names = append(names, string(l))
		}
		return checkFlags{}, fmt.Errorf("unknown level %q (one of %s)", *level, strings.Join(names, ", "))
	}

	check := logfake.Check{
		Channel: *channel,
		Level:   lvl,
		Message: *message,
		Times:   *times,
		Absent:  *absent,
		Nothing: *nothing,
	}
	if err := check.Validate(); err != nil {
		return checkFlags{}, err
	}
	if *remote && fs.NArg() > 0 {
		return checkFlags{}, fmt.Errorf("--remote does not take a log file")
	}
	return checkFlags{check: check, remote: *remote, args: fs.Args()}, nil
}

func runCheck(args []string, env Env, out io.Writer) error {
	flags, err := parseCheckFlags(args)
	if err != nil {
		return err
	}
	check := flags.check
	if flags.remote {
		return runRemoteCheck(check, env, out)
	}

	path, err := fileArg(flags.args, env)
	if err != nil {
		return err
	}

	rep := &reporter{w: out}
	store, err := replay(path, env, rep)
	if err != nil {
		return err
	}

	name := store.Channel(check.Channel).Name()
	if !check.Run(store) || rep.failed {
		env.logger().Info("check failed", "path", path, "channel", name)
		return ErrCheckFailed
	}

	env.logger().Info("check passed", "path", path, "channel", name)
	_, err = fmt.Fprintf(out, "ok: [%s] channel\n", name)
	return err
}

func runRemoteCheck(check logfake.Check, env Env, out io.Writer) error {
	baseURL, err := instance.Discover(env.DataDir())
	if err != nil {
		return err
	}

	resp, err := instance.NewClient(baseURL).Check(check)
	if err != nil {
		return err
	}
	for _, failure := range resp.Failures {
		_, _ = fmt.Fprintln(out, failure)
	}
	if !resp.OK {
		env.logger().Info("remote check failed", "server", baseURL, "channel", resp.Channel)
		return ErrCheckFailed
	}

	env.logger().Info("remote check passed", "server", baseURL, "channel", resp.Channel)
	_, err = fmt.Fprintf(out, "ok: [%s] channel\n", resp.Channel)
	return err
}
