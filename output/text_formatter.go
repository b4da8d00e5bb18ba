package output

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// TextFormatter formats extension reports as human-readable text.
type TextFormatter struct {
	writer  io.Writer
	options *OutputOptions
	logger  *Logger
}

// NewTextFormatter creates a text formatter writing to stdout.
func NewTextFormatter(opts *OutputOptions, logger *Logger) *TextFormatter {
	if opts == nil {
		opts = NewDefaultOptions()
	}
	return &TextFormatter{writer: os.Stdout, options: opts, logger: logger}
}

// NewTextFormatterWithWriter creates a formatter with a custom writer (for testing).
func NewTextFormatterWithWriter(w io.Writer, opts *OutputOptions, logger *Logger) *TextFormatter {
	if opts == nil {
		opts = NewDefaultOptions()
	}
	return &TextFormatter{writer: w, options: opts, logger: logger}
}

// Format writes one line per extension; with ShowErrors set, each line is
// followed by that extension's errors and warnings.
func (f *TextFormatter) Format(reports []ExtensionReport) error {
	if len(reports) == 0 {
		fmt.Fprintln(f.writer, "no extensions")
		return nil
	}

	for _, r := range reports {
		fmt.Fprintf(f.writer, "%-28s %-8s %-10s %-10s %s\n", r.Name, r.Kind, r.Version, r.State, r.Language)
		if f.options.ShowErrors {
			for _, e := range r.Errors {
				fmt.Fprintf(f.writer, "    error: %s\n", e)
			}
			for _, w := range r.Warnings {
				fmt.Fprintf(f.writer, "    warning: %s\n", w)
			}
		}
	}
	return nil
}

// FormatTree prints a dependency tree rooted at the named extension, each
// line indented by its depth. depends maps an extension name to the names
// it directly depends on.
func (f *TextFormatter) FormatTree(root string, depends map[string][]string) {
	var walk func(name string, depth int, seen map[string]bool)
	walk = func(name string, depth int, seen map[string]bool) {
		fmt.Fprintf(f.writer, "%s%s\n", strings.Repeat("  ", depth), name)
		if seen[name] {
			fmt.Fprintf(f.writer, "%s(cycle)\n", strings.Repeat("  ", depth+1))
			return
		}
		seen[name] = true
		for _, dep := range depends[name] {
			walk(dep, depth+1, seen)
		}
		delete(seen, name)
	}
	walk(root, 0, map[string]bool{})
}
