package config

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors for resource file loading.
var (
	ErrFileNotFound    = errors.New("resource file not found")
	ErrEmptyFile       = errors.New("resource file is empty")
	ErrInvalidJSON     = errors.New("invalid JSON syntax")
	ErrInvalidYAML     = errors.New("invalid YAML syntax")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrSchema          = errors.New("resource file does not match the schema")
)

// InvalidError reports a resource file that cannot be used. Err is one of the
// sentinel errors above, so callers can test it with errors.Is.
type InvalidError struct {
	Path     string
	Err      error
	Problems []string
}

func (e *InvalidError) Error() string {
	var b strings.Builder
	if e.Path != "" {
		fmt.Fprintf(&b, "%s: ", e.Path)
	}
	b.WriteString(e.Err.Error())
	if len(e.Problems) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Problems, "; "))
	}
	return b.String()
}

func (e *InvalidError) Unwrap() error {
	return e.Err
}

func invalid(path string, err error, problems ...string) *InvalidError {
	return &InvalidError{Path: path, Err: err, Problems: problems}
}
