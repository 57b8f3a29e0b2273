package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/getmockd/restmock/pkg/config"
	"github.com/getmockd/restmock/pkg/logging"
	"github.com/getmockd/restmock/pkg/metrics"
	"github.com/getmockd/restmock/pkg/route"
)

// Config holds the listener settings of a Server.
type Config struct {
	Host string
	Port int

	// Prefix is joined in front of every route path.
	Prefix string

	// MetricsPath serves the Prometheus metrics when set and metrics are
	// enabled with WithMetrics.
	MetricsPath string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns the settings used when NewServer gets a nil config.
func DefaultConfig() *Config {
	return &Config{
		Host:            "0.0.0.0",
		Port:            3001,
		Prefix:          "/",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

// Addr returns the host:port the server listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Server serves the route table of a registry over HTTP.
//
// The router is rebuilt every time the registry changes and swapped in
// atomically, so in-flight requests finish on the table they started with.
type Server struct {
	cfg      *Config
	registry *route.Registry
	metrics  *metrics.Metrics
	log      *slog.Logger

	router  atomic.Pointer[mux.Router]
	handler http.Handler

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
	running    bool
	startTime  time.Time
}

// ServerOption is a functional option for configuring a Server.
type ServerOption func(*Server)

// WithLogger sets the operational logger for the server.
func WithLogger(log *slog.Logger) ServerOption {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithMetrics records request and resource metrics in m.
func WithMetrics(m *metrics.Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer creates a server for registry. The route table is built right
// away and kept in sync with the registry afterwards.
func NewServer(cfg *Config, registry *route.Registry, opts ...ServerOption) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := &Server{
		cfg:      cfg,
		registry: registry,
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.metrics != nil {
		registry.SetObserver(s.metrics)
	}
	s.handler = requestID(s.logRequests(http.HandlerFunc(s.dispatch)))

	registry.OnChange(s.Rebuild)
	s.Rebuild()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	s.router.Load().ServeHTTP(w, r)
}

// Rebuild builds a router from the current registry and swaps it in.
func (s *Server) Rebuild() {
	entries := s.registry.Entries()
	router, n := s.buildRouter(entries)
	s.router.Store(router)
	s.log.Debug("router rebuilt", "files", len(entries), "routes", n)

	if s.metrics != nil {
		s.metrics.SetRoutes(n)
		rows := make(map[string]int)
		for _, e := range entries {
			if e.Resource != nil {
				rows[e.Path] = e.Resource.Len()
			}
		}
		s.metrics.ResetRows(rows)
	}
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server is already running")
	}

	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr(), err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:      s,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("HTTP server error", "error", err)
		}
	}(s.httpServer)

	s.running = true
	s.startTime = time.Now()
	s.log.Info("server started", "addr", ln.Addr().String(), "prefix", s.cfg.Prefix)
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.running = false
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// Run starts the server, applies watcher events when w is not nil, and
// blocks until ctx is done. The server is stopped before Run returns.
func (s *Server) Run(ctx context.Context, w *config.Watcher) error {
	if err := s.Start(); err != nil {
		return err
	}
	if w != nil {
		if err := s.Watch(ctx, w); err != nil {
			_ = s.Stop()
			return err
		}
	}
	<-ctx.Done()
	return s.Stop()
}

// Addr returns the listener address, or nil when the server is not running.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	return s.listener.Addr()
}

// IsRunning returns whether the server is running.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Uptime returns the time since Start, or zero when stopped.
func (s *Server) Uptime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return 0
	}
	return time.Since(s.startTime)
}

// Registry returns the registry the server serves.
func (s *Server) Registry() *route.Registry {
	return s.registry
}
