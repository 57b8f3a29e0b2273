package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/restmock/pkg/cli/internal/output"
)

// errProblems is returned by validate when any file or route was rejected.
var errProblems = errors.New("validation failed")

func newValidateCmd(a *app) *cobra.Command {
	var pattern string
	cmd := &cobra.Command{
		Use:   "validate [path]",
		Short: "Check resource files without starting the server",
		Long: `Load every resource file below path (default "fixtures") and report:
  - files that cannot be decoded or do not match the resource file schema
  - routes rejected because their method and path, or their restful base
    path, are already taken by another file

The exit status is 1 when anything was reported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadResources(a, pathArg(args), pattern)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			problems := 0
			for _, err := range unjoin(res.loadErr) {
				output.Status(out, output.StatusInvalid, "%v", err)
				problems++
			}
			for _, e := range res.registry.Entries() {
				for _, cerr := range e.Rejected {
					output.Status(out, output.StatusConflict, "%s: %v", e.Path, cerr)
					problems++
				}
			}

			if problems > 0 {
				fmt.Fprintf(out, "%d problem(s) found\n", problems)
				return errProblems
			}
			routes := 0
			for _, e := range res.registry.Entries() {
				routes += len(e.Routes)
			}
			output.Status(out, output.StatusOK, "%d file(s), %d route(s)", res.registry.Len(), routes)
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "", "Glob selecting resource files below path")
	return cmd
}

func pathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return DefaultPath
}

// unjoin splits an errors.Join result back into its errors.
func unjoin(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
