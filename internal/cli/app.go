// pattern: Functional Core
package cli

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
)

// ErrCheckFailed is returned by a command whose assertion did not hold.
var ErrCheckFailed = errors.New("check failed")

// Exit codes returned by Execute.
const (
	exitOK     = 0
	exitFailed = 1 // a check did not hold
	exitUsage  = 2
)

// Command is one runnable CLI command.
type Command struct {
	Name    string
	Summary string
	Usage   string
	Run     func(args []string) error
}

// Group holds subcommands reached as "logfake <group> <command>".
type Group struct {
	Name     string
	Summary  string
	Commands map[string]*Command
}

// App dispatches arguments to top-level commands and groups. Top-level
// commands are listed in help in the order they were added.
type App struct {
	version  string
	order    []string
	commands map[string]*Command
	groups   map[string]*Group

	Out io.Writer
	Err io.Writer
}

// NewApp creates an App writing to stdout and stderr.
func NewApp(version string) *App {
	return &App{
		version:  version,
		commands: make(map[string]*Command),
		groups:   make(map[string]*Group),
		Out:      os.Stdout,
		Err:      os.Stderr,
	}
}

// Version reports the version the App was built with.
func (a *App) Version() string { return a.version }

// AddCommand registers a top-level command.
func (a *App) AddCommand(cmd *Command) {
	if _, seen := a.commands[cmd.Name]; !seen {
		a.order = append(a.order, cmd.Name)
	}
	a.commands[cmd.Name] = cmd
}

// AddGroup registers an empty group and returns it for population.
func (a *App) AddGroup(name, summary string) *Group {
	g := &Group{Name: name, Summary: summary, Commands: make(map[string]*Command)}
	a.groups[name] = g
	return g
}

// AddCommand registers cmd under the group.
func (g *Group) AddCommand(cmd *Command) {
	g.Commands[cmd.Name] = cmd
}

// Execute runs the command named by args and returns the process exit code.
func (a *App) Execute(args []string) int {
	if len(args) == 0 {
		a.PrintHelp(a.Err)
		return exitUsage
	}

	if cmd, ok := a.commands[args[0]]; ok {
		return a.dispatch(cmd, args[1:])
	}

	g, ok := a.groups[args[0]]
	if !ok {
		a.PrintHelp(a.Err)
		return exitUsage
	}
	rest := args[1:]
	if len(rest) == 0 || rest[0] == "help" || isHelpFlag(rest[0]) {
		g.PrintHelp(a.Err)
		return exitOK
	}
	cmd, ok := g.Commands[rest[0]]
	if !ok {
		g.PrintHelp(a.Err)
		return exitUsage
	}
	return a.dispatch(cmd, rest[1:])
}

// dispatch prints usage when asked for it and otherwise runs cmd.
func (a *App) dispatch(cmd *Command, args []string) int {
	if slices.ContainsFunc(args, isHelpFlag) {
		_, _ = fmt.Fprintln(a.Err, cmd.Usage)
		return exitOK
	}

	err := cmd.Run(args)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, ErrCheckFailed):
		return exitFailed
	default:
		_, _ = fmt.Fprintf(a.Err, "Error: %v\n", err)
		return exitUsage
	}
}

func isHelpFlag(arg string) bool {
	return arg == "--help" || arg == "-h"
}

// PrintHelp writes the top-level help. The root flags are printed after it
// by the caller.
func (a *App) PrintHelp(w io.Writer) {
	_, _ = fmt.Fprintf(w, "Usage: logfake [options] <command>\n\nCommands:\n")
	for _, name := range a.order {
		printEntry(w, name, a.commands[name].Summary)
	}

	if len(a.groups) > 0 {
		_, _ = fmt.Fprintf(w, "\nCommand Groups:\n")
		for _, name := range slices.Sorted(maps.Keys(a.groups)) {
			printEntry(w, name, a.groups[name].Summary)
		}
	}

	_, _ = fmt.Fprintf(w, "\nUse \"logfake <command> --help\" for command details.\n\nOptions:\n")
}

// PrintHelp writes the group's commands in name order.
func (g *Group) PrintHelp(w io.Writer) {
	_, _ = fmt.Fprintf(w, "Usage: logfake %s <command>\n\nCommands:\n", g.Name)
	for _, name := range slices.Sorted(maps.Keys(g.Commands)) {
		printEntry(w, name, g.Commands[name].Summary)
	}
	_, _ = fmt.Fprintf(w, "\nUse \"logfake %s <command> --help\" for command details.\n", g.Name)
}

func printEntry(w io.Writer, name, summary string) {
	_, _ = fmt.Fprintf(w, "  %-10s %s\n", name, summary)
}
