package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the syntax of a resource file.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf returns the format implied by a file extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	}
	return "", false
}

// LoadFile reads, validates and decodes a resource file. The format is taken
// from the file extension. Errors describing the file itself are returned as
// *InvalidError.
func LoadFile(path string) (*File, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, invalid(path, ErrUnsupportedFile, "expected .json, .yaml or .yml")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, invalid(path, ErrFileNotFound)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, invalid(path, ErrUnsupportedFile, "not a regular file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	f, err := Parse(data, format)
	if err != nil {
		if ie, ok := err.(*InvalidError); ok {
			ie.Path = path
		}
		return nil, err
	}
	f.Path = path
	return f, nil
}

// Parse decodes a resource file of the given format.
func Parse(data []byte, format Format) (*File, error) {
	switch format {
	case FormatJSON:
		return ParseJSON(data)
	case FormatYAML:
		return ParseYAML(data)
	}
	return nil, invalid("", ErrUnsupportedFile, string(format))
}

// ParseJSON decodes and validates a JSON resource file.
func ParseJSON(data []byte) (*File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, invalid("", ErrEmptyFile)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, invalid("", ErrInvalidJSON, err.Error())
	}
	return decode(doc)
}

// ParseYAML decodes and validates a YAML resource file. The YAML document is
// normalised to JSON values first, so integers become float64 exactly as in
// a JSON file.
func ParseYAML(data []byte) (*File, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, invalid("", ErrEmptyFile)
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, invalid("", ErrInvalidYAML, err.Error())
	}
	if raw == nil {
		return nil, invalid("", ErrEmptyFile)
	}
	normalised, err := json.Marshal(raw)
	if err != nil {
		return nil, invalid("", ErrInvalidYAML, err.Error())
	}
	var doc any
	if err := json.Unmarshal(normalised, &doc); err != nil {
		return nil, invalid("", ErrInvalidYAML, err.Error())
	}
	return decode(doc)
}

// decode checks a generic JSON document against the resource schema and
// converts it to a File with defaults applied.
func decode(doc any) (*File, error) {
	problems, err := checkSchema(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to check schema: %w", err)
	}
	if len(problems) > 0 {
		return nil, invalid("", ErrSchema, problems...)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode resource file: %w", err)
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, invalid("", ErrSchema, err.Error())
	}
	f.applyDefaults()
	return &f, nil
}
