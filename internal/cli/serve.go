// pattern: Imperative Shell
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"

	"logfake/internal/instance"
	"logfake/internal/web"
)

const serveUsage = `Usage: logfake serve [flags] [file]

Serves a JSON API over a log file until interrupted. The file defaults to the
configured log file. One server runs per config directory; "check --remote"
finds it there.

  GET /api/entries?channel=<prefix>   entries in the file
  GET /api/check?channel=&level=...   run a check, same options as "check"
  GET /api/tail?channel=<prefix>      websocket stream of new entries

Flags:
  --bind string   address to bind (default "127.0.0.1")
  --port int      port to listen on, 0 for any free port (default 7070)`

func runServe(args []string, env Env, out io.Writer) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	bind := fs.String("bind", "127.0.0.1", "address to bind")
	port := fs.Int("port", 7070, "port to listen on")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path, err := fileArg(fs.Args(), env)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return Serve(ctx, web.Config{
		Bind:           *bind,
		Port:           *port,
		Path:           path,
		DefaultChannel: env.Config.Logging.Default,
	}, env, out)
}

// Serve runs the web server for cfg until ctx is cancelled, holding the
// serve lock in env's data directory.
func Serve(ctx context.Context, cfg web.Config, env Env, out io.Writer) error {
	lease, err := instance.Acquire(env.DataDir())
	if err != nil {
		return err
	}
	defer lease.Release()
	return serve(ctx, cfg, env, out, lease)
}

func serve(ctx context.Context, cfg web.Config, env Env, out io.Writer, lease *instance.Lease) error {
	server := web.New(cfg, env.provider())

	ln, err := server.Listen()
	if err != nil {
		return err
	}
	if err := lease.Publish(server.Addr()); err != nil {
		_ = ln.Close()
		return fmt.Errorf("failed to publish server address: %w", err)
	}
	_, _ = fmt.Fprintf(out, "serving %s on http://%s\n", cfg.Path, server.Addr())

	serveErr := make(chan error, 1)
	go func() { serveErr <- server.Serve(ln) }()

	followCtx, cancelFollow := context.WithCancel(ctx)
	defer cancelFollow()
	go func() {
		if err := server.Follow(followCtx); err != nil && !errors.Is(err, context.Canceled) {
			env.logger().Warning("log follower stopped", "error", err)
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web server shutdown: %w", err)
	}
	return nil
}
