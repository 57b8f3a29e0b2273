// Package cli implements the restmock command line.
//
// Commands:
//
//   - serve (default): serve the resource files, reloading them on change
//   - validate: report invalid files and rejected routes, exit 1 on problems
//   - routes: print the route table
//   - version: print build information
package cli
