package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestCSVFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	f := NewCSVFormatterWithWriter(&buf, NewDefaultOptions())

	reports := []ExtensionReport{
		{ID: "1", Name: "logger", Kind: "plugin", Version: "1.0.0", Language: "cpp", State: "Running", LoadMillis: 12},
	}

	if err := f.Format(reports); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines: %q", len(lines), out)
	}
	if !strings.Contains(lines[1], "logger") {
		t.Errorf("expected row to contain extension name, got: %s", lines[1])
	}
}
