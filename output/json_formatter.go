package output

import (
	"encoding/json"
	"io"
	"os"
)

// JSONFormatter formats extension reports as JSON.
type JSONFormatter struct {
	writer  io.Writer
	options *OutputOptions
}

// NewJSONFormatter creates a JSON formatter writing to stdout.
func NewJSONFormatter(opts *OutputOptions) *JSONFormatter {
	if opts == nil {
		opts = NewDefaultOptions()
	}
	return &JSONFormatter{writer: os.Stdout, options: opts}
}

// NewJSONFormatterWithWriter creates a formatter with a custom writer (for testing).
func NewJSONFormatterWithWriter(w io.Writer, opts *OutputOptions) *JSONFormatter {
	if opts == nil {
		opts = NewDefaultOptions()
	}
	return &JSONFormatter{writer: w, options: opts}
}

// Format writes the reports as an indented JSON array.
func (f *JSONFormatter) Format(reports []ExtensionReport) error {
	if !f.options.ShowErrors {
		stripped := make([]ExtensionReport, len(reports))
		for i, r := range reports {
			r.Errors = nil
			stripped[i] = r
		}
		reports = stripped
	}
	enc := json.NewEncoder(f.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}
