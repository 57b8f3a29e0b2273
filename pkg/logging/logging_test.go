package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		// Lowercase
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"notice", LevelInfo},

		// Uppercase
		{"DEBUG", LevelDebug},
		{"INFO", LevelInfo},
		{"WARN", LevelWarn},
		{"WARNING", LevelWarn},
		{"ERROR", LevelError},

		// Mixed case (the fix: these should all work now)
		{"Debug", LevelDebug},
		{"Info", LevelInfo},
		{"Warn", LevelWarn},
		{"Warning", LevelWarn},
		{"Error", LevelError},
		{"Notice", LevelInfo},
		{"dEbUg", LevelDebug},

		// Empty string defaults to Info
		{"", LevelInfo},

		// Unrecognized defaults to Info
		{"trace", LevelInfo},
		{"fatal", LevelInfo},
		{"unknown", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseLevel(tt.input)
			if result != tt.expected {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"Json", FormatJSON},
		{"text", FormatText},
		{"TEXT", FormatText},
		{"", FormatText},
		{"yaml", FormatText}, // unrecognized defaults to text
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ParseFormat(tt.input)
			if result != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestValidLevel(t *testing.T) {
	for _, s := range []string{"debug", "info", "notice", "warn", "error", "ERROR"} {
		if !ValidLevel(s) {
			t.Errorf("ValidLevel(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"trace", "fatal"} {
		if ValidLevel(s) {
			t.Errorf("ValidLevel(%q) = true, want false", s)
		}
	}
}

func TestNew_Tee(t *testing.T) {
	var out, tee bytes.Buffer
	log := New(Config{Level: LevelInfo, Format: FormatText, Output: &out, Tee: &tee})

	log.Debug("hidden")
	log.Info("route added", "method", "GET")

	if strings.Contains(out.String(), "hidden") || strings.Contains(tee.String(), "hidden") {
		t.Fatalf("debug record written below the configured level")
	}
	if !strings.Contains(out.String(), "msg=\"route added\"") {
		t.Errorf("text output = %q", out.String())
	}
	if !strings.Contains(tee.String(), `"msg":"route added"`) {
		t.Errorf("tee output = %q", tee.String())
	}
}

func TestNew_TeeWithAttrs(t *testing.T) {
	var out, tee bytes.Buffer
	log := New(Config{Level: LevelDebug, Format: FormatJSON, Output: &out, Tee: &tee}).
		With("component", "engine").
		WithGroup("req")

	log.Debug("served", "status", 200)

	for name, got := range map[string]string{"output": out.String(), "tee": tee.String()} {
		if !strings.Contains(got, `"component":"engine"`) || !strings.Contains(got, `"req":{"status":200}`) {
			t.Errorf("%s = %q", name, got)
		}
	}
}
