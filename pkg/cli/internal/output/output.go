// Package output formats command results for the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
)

// Status labels used in validation reports.
const (
	StatusOK       = "ok"
	StatusInvalid  = "invalid"
	StatusConflict = "conflict"
)

// JSON writes v to w as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table returns a tab aligned writer over w. Call Flush when done.
func Table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Status writes one report line, the label padded so messages line up.
func Status(w io.Writer, label, format string, args ...any) {
	fmt.Fprintf(w, "%-10s%s\n", label, fmt.Sprintf(format, args...))
}

// Warn writes a warning to w.
func Warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "Warning: "+format+"\n", args...)
}
