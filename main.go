// pattern: Imperative Shell
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"logfake/internal/cli"
	"logfake/internal/config"
	"logfake/internal/logging"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Stop parsing flags after the first non-flag arg (the subcommand),
	// so that --help after a subcommand is handled by the subcommand.
	flag.CommandLine.SetInterspersed(false)

	configDir := flag.StringP("config-dir", "c", "", "config directory (default: ~/.config/logfake)")
	quiet := flag.BoolP("quiet", "q", false, "do not write the logfake log file")

	flag.Usage = func() {
		app := cli.BuildApp(version, cli.Env{ConfigDir: *configDir})
		app.PrintHelp(os.Stderr)
		flag.PrintDefaults()
	}

	flag.Parse()

	cfg, err := loadConfig(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}

	env := cli.Env{Config: cfg, ConfigDir: *configDir}

	if !*quiet {
		logManager, err := newLogManager(env)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
		} else {
			defer func() { _ = logManager.Close() }()
			env.Logs = logManager
			logManager.For("cli").Debug("command starting", "args", flag.Args())
		}
	}

	return cli.BuildApp(version, env).Execute(flag.Args())
}

// loadConfig loads the configuration from the specified directory or default location.
func loadConfig(configDir string) (config.Config, error) {
	if configDir != "" {
		return config.LoadFromDir(configDir)
	}
	return config.Load()
}

// newLogManager creates the manager for logfake's own log file.
func newLogManager(env cli.Env) (*logging.Manager, error) {
	file := env.Config.Logging.File
	return logging.NewManager(logging.Config{
		FilePath:       env.LogPath(),
		MaxSizeMB:      file.MaxSizeMB,
		MaxBackups:     file.MaxBackups,
		MaxAgeDays:     file.MaxAgeDays,
		Level:          env.Config.Logging.Level,
		ChannelBufSize: 100,
		DefaultChannel: env.Config.Logging.Default,
		Stacks:         env.Config.Stacks(),
	})
}
