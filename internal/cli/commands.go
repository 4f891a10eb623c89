// pattern: Imperative Shell
package cli

import (
	"fmt"

	"logfake/internal/config"
	"logfake/internal/logging"
)

// Env carries what commands need from the process: loaded config, the
// directory it came from, and where the CLI's own logs go.
type Env struct {
	Config    config.Config
	ConfigDir string
	Logs      logging.LoggerProvider // nil discards logs
}

// DataDir is where the log file and the serve lock live by default.
func (e Env) DataDir() string {
	if e.ConfigDir == "" {
		return config.DefaultDir()
	}
	return e.ConfigDir
}

// LogPath returns the file a command reads when none is given.
func (e Env) LogPath() string {
	return e.Config.ResolveLogPath(e.DataDir())
}

func (e Env) provider() logging.LoggerProvider {
	if e.Logs == nil {
		return nopProvider{}
	}
	return e.Logs
}

func (e Env) logger() *logging.ScopedLogger {
	return e.provider().For("cli")
}

type nopProvider struct{}

func (nopProvider) For(string) *logging.ScopedLogger { return logging.NopLogger() }

// BuildApp creates and configures the CLI application with all commands and groups.
func BuildApp(version string, env Env) *App {
	app := NewApp(version)

	app.AddCommand(&Command{
		Name:    "check",
		Summary: "Assert on the entries of a log file",
		Usage:   checkUsage,
		Run: func(args []string) error {
			return runCheck(args, env, app.Out)
		},
	})

	app.AddCommand(&Command{
		Name:    "dump",
		Summary: "Print the entries of a log file as YAML",
		Usage:   dumpUsage,
		Run: func(args []string) error {
			return runDump(args, env, app.Out)
		},
	})

	app.AddCommand(&Command{
		Name:    "tail",
		Summary: "Follow a log file and print new entries",
		Usage:   tailUsage,
		Run: func(args []string) error {
			return runTail(args, env, app.Out)
		},
	})

	app.AddCommand(&Command{
		Name:    "serve",
		Summary: "Serve a log file over HTTP and websocket",
		Usage:   serveUsage,
		Run: func(args []string) error {
			return runServe(args, env, app.Out)
		},
	})

	app.AddCommand(&Command{
		Name:    "version",
		Summary: "Print version and exit",
		Usage:   "Usage: logfake version",
		Run: func(args []string) error {
			_, err := fmt.Fprintln(app.Out, app.Version())
			return err
		},
	})

	channelGroup := app.AddGroup("channel", "Compute channel identities")
	RegisterChannelCommands(channelGroup, app)

	return app
}
