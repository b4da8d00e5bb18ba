package output

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestSARIFFormatter_Format(t *testing.T) {
	var buf bytes.Buffer
	f := NewSARIFFormatterWithWriter(&buf, NewDefaultOptions())

	diags := []Diagnostic{
		{RuleID: "unresolved-dependency", Message: "B requires A >=2.0.0, found 1.0.0", File: "B.pplugin", Severity: "error"},
	}

	if err := f.Format(diags); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if doc["version"] != "2.1.0" {
		t.Errorf("expected SARIF 2.1.0, got: %v", doc["version"])
	}
}
