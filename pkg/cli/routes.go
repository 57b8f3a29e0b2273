package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/restmock/pkg/cli/internal/output"
	"github.com/getmockd/restmock/pkg/route"
)

// RouteOutput is one row of `routes --json`.
type RouteOutput struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	Kind   string `json:"kind"`
	File   string `json:"file"`
}

func newRoutesCmd(a *app) *cobra.Command {
	var (
		pattern    string
		prefix     string
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "routes [path]",
		Short: "Print the route table built from the resource files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := loadResources(a, pathArg(args), pattern)
			if err != nil {
				return err
			}

			var rows []RouteOutput
			for _, e := range res.registry.Entries() {
				for _, rt := range e.Routes {
					rows = append(rows, RouteOutput{
						Method: rt.Method,
						Path:   route.Mount(prefix, rt.Path),
						Kind:   routeKind(rt),
						File:   e.Path,
					})
				}
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				if rows == nil {
					rows = []RouteOutput{}
				}
				return output.JSON(out, rows)
			}
			if len(rows) == 0 {
				output.Warn(cmd.ErrOrStderr(), "no routes found")
				return nil
			}
			tw := output.Table(out)
			fmt.Fprintln(tw, "METHOD\tPATH\tKIND\tFILE")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Method, r.Path, r.Kind, r.File)
			}
			return tw.Flush()
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&pattern, "pattern", "", "Glob selecting resource files below path")
	fl.StringVar(&prefix, "prefix", "/", "Path prefix of every route")
	fl.BoolVar(&jsonOutput, "json", false, "Output the table as JSON")
	return cmd
}

func routeKind(rt route.Route) string {
	switch {
	case rt.Restful != "" && rt.Detail:
		return "detail"
	case rt.Restful != "":
		return "list"
	case rt.Detail:
		return "action"
	}
	return "response"
}
