package output

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
)

// CSVFormatter formats extension reports as CSV.
type CSVFormatter struct {
	writer  io.Writer
	options *OutputOptions
}

// NewCSVFormatter creates a CSV formatter writing to stdout.
func NewCSVFormatter(opts *OutputOptions) *CSVFormatter {
	if opts == nil {
		opts = NewDefaultOptions()
	}
	return &CSVFormatter{writer: os.Stdout, options: opts}
}

// NewCSVFormatterWithWriter creates a formatter with a custom writer (for testing).
func NewCSVFormatterWithWriter(w io.Writer, opts *OutputOptions) *CSVFormatter {
	if opts == nil {
		opts = NewDefaultOptions()
	}
	return &CSVFormatter{writer: w, options: opts}
}

var csvHeader = []string{"id", "name", "kind", "version", "language", "state", "load_ms", "errors", "warnings"}

// Format writes the reports as CSV, one row per extension.
func (f *CSVFormatter) Format(reports []ExtensionReport) error {
	w := csv.NewWriter(f.writer)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range reports {
		errs := ""
		if f.options.ShowErrors {
			errs = strings.Join(r.Errors, "; ")
		}
		row := []string{
			r.ID, r.Name, r.Kind, r.Version, r.Language, r.State,
			strconv.FormatInt(r.LoadMillis, 10),
			errs,
			strings.Join(r.Warnings, "; "),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
