package errors

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: ExitOK},
		{name: "usage", err: UsageError("missing site root").Build(), expected: ExitUsage},
		{name: "missing directory", err: MissingDirectory("content/ not found").Build(), expected: ExitMissingDirectory},
		{name: "missing file", err: MissingFile("vars.txt not found").Build(), expected: ExitMissingFile},
		{name: "inheritance", err: InheritanceError("cycle").Build(), expected: ExitInheritance},
		{name: "io", err: IOError("write failed").Build(), expected: ExitIO},
		{name: "config", err: ConfigError("bad yaml").Build(), expected: ExitConfig},
		{name: "render", err: RenderError("unknown template").Build(), expected: ExitRender},
		{name: "internal", err: InternalError("bug").Build(), expected: ExitInternal},
		{
			name:     "wrapped classified error",
			err:      fmt.Errorf("load templates: %w", InheritanceError("unknown parent").Build()),
			expected: ExitInheritance,
		},
		{name: "unclassified error", err: fmt.Errorf("plain"), expected: ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	err := MissingFile("vars.txt not found").WithContext("path", "/site/include/vars.txt").Build()

	quiet := NewCLIErrorAdapter(false, slog.Default())
	if got := quiet.FormatError(err); got != "Error: vars.txt not found" {
		t.Errorf("non-verbose format = %q", got)
	}

	verbose := NewCLIErrorAdapter(true, slog.Default())
	got := verbose.FormatError(err)
	if !strings.Contains(got, "[missing_file]") || !strings.Contains(got, "path=/site/include/vars.txt") {
		t.Errorf("verbose format missing category or context: %q", got)
	}

	if got := quiet.FormatError(fmt.Errorf("boom")); got != "Error: boom" {
		t.Errorf("unclassified format = %q", got)
	}
}

func TestCLIErrorAdapter_Report(t *testing.T) {
	var out bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	adapter.out = &out

	code := adapter.Report(InheritanceError("inheritance cycle").WithContext("template", "a").Build())
	if code != ExitInheritance {
		t.Fatalf("Report() = %d, want %d", code, ExitInheritance)
	}
	if !strings.Contains(out.String(), "inheritance cycle") {
		t.Errorf("expected message on output, got %q", out.String())
	}
	if adapter.Report(nil) != ExitOK {
		t.Error("nil error must report ExitOK")
	}
}
