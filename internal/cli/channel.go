// pattern: Imperative Shell
package cli

import (
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"logfake/internal/channel"
)

// RegisterChannelCommands adds the channel identity commands to group.
func RegisterChannelCommands(group *Group, app *App) {
	group.AddCommand(&Command{
		Name:    "stack",
		Summary: "Print the identity of a stack of channels",
		Usage:   "Usage: logfake channel stack [--label name] <member>...",
		Run: func(args []string) error {
			return runChannelStack(args, app.Out)
		},
	})

	group.AddCommand(&Command{
		Name:    "ondemand",
		Summary: "Print the identity of an on-demand channel",
		Usage:   "Usage: logfake channel ondemand <key=value>...",
		Run: func(args []string) error {
			return runChannelOnDemand(args, app.Out)
		},
	})

	group.AddCommand(&Command{
		Name:    "parse",
		Summary: "Describe a channel identity",
		Usage:   "Usage: logfake channel parse <identity>",
		Run: func(args []string) error {
			return runChannelParse(args, app.Out)
		},
	})
}

func runChannelStack(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("stack", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	label := fs.String("label", "", "stack label")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("at least one member channel is required")
	}

	_, err := fmt.Fprintln(out, channel.Stack(fs.Args(), *label))
	return err
}

func runChannelOnDemand(args []string, out io.Writer) error {
	cfg := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid config entry %q, want key=value", arg)
		}
		cfg[key] = value
	}

	id, err := channel.OnDemand(cfg)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, id)
	return err
}

func runChannelParse(args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("expected one channel identity, got %d arguments", len(args))
	}
	id := args[0]

	switch {
	case channel.IsStack(id):
		label, members, ok := channel.ParseStack(id)
		if !ok {
			return fmt.Errorf("malformed stack identity %q", id)
		}
		_, err := fmt.Fprintf(out, "kind: stack\nlabel: %s\nmembers: %s\n", label, strings.Join(members, ", "))
		return err
	case channel.IsOnDemand(id):
		_, err := fmt.Fprintf(out, "kind: ondemand\nconfig: %s\n", strings.TrimPrefix(id, channel.OnDemandPrefix))
		return err
	default:
		_, err := fmt.Fprintf(out, "kind: plain\nname: %s\n", id)
		return err
	}
}
