package output

// ExtensionReport is the flattened, presentation-facing view of one Extension
// that the CLI's plugins/modules/health/tree commands render. It deliberately
// does not import internal/extension to keep the formatters free of a
// dependency on the runtime's owning container.
type ExtensionReport struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Kind       string   `json:"kind"` // "plugin" or "module"
	Version    string   `json:"version"`
	Language   string   `json:"language"`
	State      string   `json:"state"`
	Errors     []string `json:"errors,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	LoadMillis int64    `json:"load_ms,omitempty"`
	DependsOn  []string `json:"depends_on,omitempty"`
}

// Diagnostic is one resolver/parser finding, shaped for SARIF emission by
// the `validate` command.
type Diagnostic struct {
	RuleID   string // e.g. "unresolved-dependency", "manifest-malformed"
	Message  string
	File     string
	Severity string // "error" | "warning" | "note"
}

// OutputOptions configures the formatters. It intentionally mirrors the
// teacher's OutputOptions shape (color toggle, field selection) adapted to
// extension reports instead of rule detections.
type OutputOptions struct {
	Color      bool
	ShowErrors bool
}

// NewDefaultOptions returns the default formatter options.
func NewDefaultOptions() *OutputOptions {
	return &OutputOptions{Color: false, ShowErrors: true}
}
