package output

import (
	"encoding/json"
	"io"
	"os"

	sarif "github.com/owenrumney/go-sarif/v2/sarif"
)

// SARIFFormatter formats manifest/resolver diagnostics as SARIF 2.1.0, for
// `plugify validate`.
type SARIFFormatter struct {
	writer  io.Writer
	options *OutputOptions
}

// NewSARIFFormatter creates a SARIF formatter writing to stdout.
func NewSARIFFormatter(opts *OutputOptions) *SARIFFormatter {
	if opts == nil {
		opts = NewDefaultOptions()
	}
	return &SARIFFormatter{writer: os.Stdout, options: opts}
}

// NewSARIFFormatterWithWriter creates a formatter with custom writer (for testing).
func NewSARIFFormatterWithWriter(w io.Writer, opts *OutputOptions) *SARIFFormatter {
	sf := NewSARIFFormatter(opts)
	sf.writer = w
	return sf
}

// Format writes diagnostics as a single SARIF run produced by "plugify".
func (f *SARIFFormatter) Format(diagnostics []Diagnostic) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}

	run := sarif.NewRunWithInformationURI("plugify", "https://github.com/shivasurya/plugify")

	f.buildRules(diagnostics, run)
	for _, d := range diagnostics {
		f.buildResult(d, run)
	}

	report.AddRun(run)

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func (f *SARIFFormatter) buildRules(diagnostics []Diagnostic, run *sarif.Run) {
	seen := make(map[string]bool)
	for _, d := range diagnostics {
		if seen[d.RuleID] {
			continue
		}
		seen[d.RuleID] = true

		rule := run.AddRule(d.RuleID).
			WithDescription(d.RuleID).
			WithName(d.RuleID).
			WithHelpURI("https://github.com/shivasurya/plugify")
		rule.WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel(d.Severity))
	}
}

func (f *SARIFFormatter) buildResult(d Diagnostic, run *sarif.Run) {
	result := run.CreateResultForRule(d.RuleID).
		WithMessage(sarif.NewTextMessage(d.Message))

	filePath := d.File
	if filePath == "" {
		filePath = "manifest"
	}

	location := sarif.NewLocation().
		WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(filePath)),
		)

	result.AddLocation(location)
}
