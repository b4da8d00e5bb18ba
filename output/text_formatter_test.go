package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestTextFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatterWithWriter(&buf, NewDefaultOptions(), nil)

	reports := []ExtensionReport{
		{Name: "logger", Kind: "plugin", Version: "1.0.0", Language: "cpp", State: "Running"},
	}

	if err := f.Format(reports); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "logger") {
		t.Errorf("expected output to contain extension name, got: %s", buf.String())
	}
}

func TestTextFormatter_Format_Empty(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatterWithWriter(&buf, NewDefaultOptions(), nil)

	if err := f.Format(nil); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), "no extensions") {
		t.Errorf("expected empty-state message, got: %s", buf.String())
	}
}

func TestTextFormatter_FormatTree(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatterWithWriter(&buf, NewDefaultOptions(), nil)

	depends := map[string][]string{
		"C": {"B"},
		"B": {"A"},
		"A": {},
	}
	f.FormatTree("C", depends)

	out := buf.String()
	for _, want := range []string{"C", "B", "A"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected tree output to contain %q, got: %s", want, out)
		}
	}
}

func TestTextFormatter_FormatTree_Cycle(t *testing.T) {
	var buf bytes.Buffer
	f := NewTextFormatterWithWriter(&buf, NewDefaultOptions(), nil)

	depends := map[string][]string{
		"A": {"B"},
		"B": {"A"},
	}
	f.FormatTree("A", depends)

	if !strings.Contains(buf.String(), "cycle") {
		t.Errorf("expected cycle marker, got: %s", buf.String())
	}
}
