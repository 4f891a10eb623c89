// pattern: Imperative Shell
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"logfake/internal/logging"
)

const tailUsage = `Usage: logfake tail [flags] [file]

Follows a log file and prints entries as they are written. The file defaults
to the configured log file.

Flags:
  --channel string   only print channels with this prefix
  --from-start       print entries already in the file first
  --no-color         disable colors
  --theme string     color theme: latte, frappe, macchiato, mocha`

// TailConfig configures Tail.
type TailConfig struct {
	Path      string
	Prefix    string
	FromStart bool
	NoColor   bool
	Theme     string
	Writer    io.Writer
}

// Tail follows cfg.Path and writes rendered entries to cfg.Writer.
// It blocks until ctx is cancelled and returns nil on a clean exit.
func Tail(ctx context.Context, cfg TailConfig) error {
	sink := logging.NewChannelSink(256)
	reader, err := logging.NewLogFileReader(cfg.Path, sink)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- reader.Start(ctx, cfg.FromStart)
		_ = sink.Close()
	}()

	styles := NewStyles(cfg.Theme)
	for entry := range sink.Entries() {
		if !entry.MatchesChannel(cfg.Prefix) {
			continue
		}
		line := styles.RenderEntry(entry)
		if cfg.NoColor {
			line = StripANSI(line)
		}
		if _, err := fmt.Fprintln(cfg.Writer, line); err != nil {
			cancel()
			<-done
			return err
		}
	}

	if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runTail(args []string, env Env, out io.Writer) error {
	fs := flag.NewFlagSet("tail", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	prefix := fs.String("channel", "", "only print channels with this prefix")
	fromStart := fs.Bool("from-start", false, "print entries already in the file first")
	noColor := fs.Bool("no-color", false, "disable colors")
	theme := fs.String("theme", env.Config.Theme, "color theme")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path, err := fileArg(fs.Args(), env)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env.logger().Info("tailing log file", "path", path, "prefix", *prefix)
	return Tail(ctx, TailConfig{
		Path:      path,
		Prefix:    *prefix,
		FromStart: *fromStart,
		NoColor:   *noColor,
		Theme:     *theme,
		Writer:    out,
	})
}
