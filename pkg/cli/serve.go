package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/getmockd/restmock/pkg/config"
	"github.com/getmockd/restmock/pkg/engine"
	"github.com/getmockd/restmock/pkg/metrics"
	"github.com/getmockd/restmock/pkg/route"
)

// DefaultPath is the resource directory used when --path is not given.
const DefaultPath = "fixtures"

type serveFlags struct {
	port        int
	host        string
	path        string
	prefix      string
	pattern     string
	ignoreWatch bool
	metricsPath string
}

func newServeCmd(a *app) *cobra.Command {
	f := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the mock server (default command)",
		Example: `  # Serve ./fixtures on port 3001
  restmock

  # Serve another directory under /api/v1 without hot reload
  restmock serve --path ./mocks --prefix /api/v1 --ignore-watch

  # Expose Prometheus metrics
  restmock serve --metrics-path /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, a, f)
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&f.port, "port", "p", 3001, "HTTP server port")
	fl.StringVar(&f.host, "host", "0.0.0.0", "HTTP server host")
	fl.StringVar(&f.path, "path", DefaultPath, "Resource file or directory")
	fl.StringVar(&f.prefix, "prefix", "/", "Path prefix of every route")
	fl.StringVar(&f.pattern, "pattern", config.DefaultPattern, "Glob selecting resource files below --path")
	fl.BoolVar(&f.ignoreWatch, "ignore-watch", false, "Do not reload resource files when they change")
	fl.StringVar(&f.metricsPath, "metrics-path", "", "Serve Prometheus metrics on this path (empty = disabled)")
	return cmd
}

func runServe(ctx context.Context, a *app, f *serveFlags) error {
	if f.port < 0 || f.port > 65535 {
		return fmt.Errorf("invalid port %d: must be between 0 and 65535", f.port)
	}

	res, err := loadResources(a, f.path, f.pattern)
	if err != nil {
		return err
	}
	reg := res.registry

	cfg := engine.DefaultConfig()
	cfg.Host = f.host
	cfg.Port = f.port
	cfg.Prefix = f.prefix
	cfg.MetricsPath = f.metricsPath

	opts := []engine.ServerOption{engine.WithLogger(a.log.With("component", "engine"))}
	if f.metricsPath != "" {
		opts = append(opts, engine.WithMetrics(metrics.New()))
	}
	srv := engine.NewServer(cfg, reg, opts...)

	var watcher *config.Watcher
	if !f.ignoreWatch {
		watcher = config.NewWatcher(res.loader, a.log.With("component", "watcher"))
	}

	a.log.Info("restmock ready",
		"addr", cfg.Addr(),
		"path", f.path,
		"files", reg.Len(),
		"rejected_routes", len(reg.Rejected()),
		"watch", !f.ignoreWatch,
	)
	return srv.Run(ctx, watcher)
}

// resources is the result of loading a resource path.
type resources struct {
	loader   *config.DirectoryLoader
	registry *route.Registry

	// loadErr joins the errors of the files that failed to load. Those
	// files are logged and left out of the registry.
	loadErr error
}

// loadResources loads every resource file below path. It fails only when
// path cannot be searched at all.
func loadResources(a *app, path, pattern string) (*resources, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("resource path: %w", err)
	}
	loader := config.NewDirectoryLoader(path)
	if pattern != "" {
		loader.Pattern = pattern
	}
	if _, _, err := loader.Files(); err != nil {
		return nil, err
	}

	reg := route.NewRegistry(a.log.With("component", "registry"))
	return &resources{
		loader:   loader,
		registry: reg,
		loadErr:  reg.LoadAll(loader),
	}, nil
}
