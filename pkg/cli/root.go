package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/restmock/pkg/logging"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// app carries the state shared by every command of one invocation.
type app struct {
	level     string
	logFormat string
	logFile   string

	log     *slog.Logger
	closers []io.Closer
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{log: logging.Nop()}

	root := &cobra.Command{
		Use:   "restmock",
		Short: "restmock serves a mock REST API from resource files",
		Long: `restmock serves a mock REST API from a directory of JSON or YAML resource files.

Each file with a "restful" base path gets list, create, retrieve, replace, patch
and delete routes over its rows, with filtering, search, ordering and pagination
driven by the file. Actions and apis add routes with fixed responses.

Every flag can also be set with a RESTMOCK_<FLAG> environment variable, for
example RESTMOCK_PORT=8080 or RESTMOCK_IGNORE_WATCH=true.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyEnv(cmd.Flags()); err != nil {
				return err
			}
			return a.setupLogging(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.level, "level", "l", "debug", "Log level (debug, info, notice, warn, error)")
	pf.StringVar(&a.logFormat, "log-format", "text", "Log format (text, json)")
	pf.StringVar(&a.logFile, "log-file", "", "Also append JSON logs to this file")

	root.AddCommand(
		newServeCmd(a),
		newValidateCmd(a),
		newRoutesCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setupLogging(stderr io.Writer) error {
	if !logging.ValidLevel(a.level) {
		return fmt.Errorf("invalid log level %q", a.level)
	}
	cfg := logging.Config{
		Level:  logging.ParseLevel(a.level),
		Format: logging.ParseFormat(a.logFormat),
		Output: stderr,
	}
	if a.logFile != "" {
		f, err := os.OpenFile(a.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.closers = append(a.closers, f)
		cfg.Tee = f
	}
	a.log = logging.New(cfg)
	return nil
}

func (a *app) close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
	a.closers = nil
}

// Execute runs the command line and exits with status 1 on failure. Without
// a command, or with flags only, it runs serve.
func Execute() {
	root := NewRootCmd()
	root.SetArgs(defaultToServe(os.Args[1:]))
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func defaultToServe(args []string) []string {
	if len(args) == 0 {
		return []string{"serve"}
	}
	first := args[0]
	if slices.Contains([]string{"-h", "--help", "-v", "--version"}, first) {
		return args
	}
	if strings.HasPrefix(first, "-") {
		return append([]string{"serve"}, args...)
	}
	return args
}
