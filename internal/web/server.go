// pattern: Imperative Shell

package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"logfake/internal/logging"
)

// Server serves a JSON API over one log file: its entries, assertions on
// them, and a websocket stream of new entries.
type Server struct {
	httpServer     *http.Server
	logger         *logging.ScopedLogger
	addr           string
	listener       net.Listener
	path           string
	defaultChannel string
	broker         *entryBroker
}

// Config holds web server configuration.
type Config struct {
	Bind           string
	Port           int
	Path           string // Log file to serve
	DefaultChannel string // Channel checked when a request names none
}

// New creates a web server. logProvider supplies the server's own logger;
// both *logging.Manager and *logfake.Store satisfy it.
func New(cfg Config, logProvider logging.LoggerProvider) *Server {
	addr := fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port)
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger:         logProvider.For("web"),
		addr:           addr,
		path:           cfg.Path,
		defaultChannel: cfg.DefaultChannel,
		broker:         newEntryBroker(),
	}

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/entries", s.handleEntries)
	mux.HandleFunc("GET /api/check", s.handleCheck)
	mux.HandleFunc("GET /api/tail", s.handleTail)

	return s
}

// Handler returns the server's request router.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Follow tails the log file and publishes new entries to websocket
// subscribers until ctx is cancelled.
func (s *Server) Follow(ctx context.Context) error {
	sink := logging.NewChannelSink(256)
	reader, err := logging.NewLogFileReader(s.path, sink)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- reader.Start(ctx, false)
		_ = sink.Close()
	}()

	for entry := range sink.Entries() {
		s.broker.Publish(entry)
	}
	if n := sink.Dropped(); n > 0 {
		s.logger.Warning("follower dropped entries", "count", n)
	}
	return <-done
}

// Listen binds the server to its configured address and returns the listener.
// Call Serve() after Listen() to start accepting connections.
// Port 0 binds an ephemeral port; Addr() reports the bound address.
func (s *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return nil, fmt.Errorf("web server listen: %w", err)
	}
	s.listener = ln
	return ln, nil
}

// Serve accepts connections on the listener. Blocks until the server stops.
// Must call Listen() first.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("web server started", "addr", ln.Addr().String(), "path", s.path)
	return s.httpServer.Serve(ln)
}

// Addr returns the address the server is listening on.
// Only valid after Listen() has been called.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("web server shutting down")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
