// pattern: Imperative Shell
package cli

import (
	"io"

	flag "github.com/spf13/pflag"

	"logfake/internal/logfake"
)

const dumpUsage = `Usage: logfake dump [flags] [file]

Replays a log file and prints its entries as YAML. The file defaults to the
configured log file.

Flags:
  --channel string   only print entries of this channel`

func runDump(args []string, env Env, out io.Writer) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	channel := fs.String("channel", "", "only print entries of this channel")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path, err := fileArg(fs.Args(), env)
	if err != nil {
		return err
	}

	rep := &reporter{w: out}
	store, err := replay(path, env, rep, logfake.WithPrinter(logfake.NewYAMLPrinter(out)))
	if err != nil {
		return err
	}

	if fs.Changed("channel") {
		store.Channel(*channel).Dump()
	} else {
		store.DumpAll()
	}
	if rep.failed {
		return ErrCheckFailed
	}
	return nil
}
