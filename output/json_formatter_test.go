package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatterWithWriter(&buf, NewDefaultOptions())

	reports := []ExtensionReport{
		{ID: "1", Name: "logger", Kind: "plugin", Version: "1.0.0", Language: "cpp", State: "Running"},
	}

	if err := f.Format(reports); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var got []ExtensionReport
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(got) != 1 || got[0].Name != "logger" {
		t.Errorf("unexpected decoded reports: %+v", got)
	}
}

func TestJSONFormatter_HidesErrorsWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	opts := &OutputOptions{ShowErrors: false}
	f := NewJSONFormatterWithWriter(&buf, opts)

	reports := []ExtensionReport{{Name: "x", Errors: []string{"boom"}}}
	if err := f.Format(reports); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if strings.Contains(buf.String(), "boom") {
		t.Errorf("expected errors to be stripped, got: %s", buf.String())
	}
}
