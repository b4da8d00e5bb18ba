package output

import "testing"

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name     string
		reports  []ExtensionReport
		hadError bool
		want     ExitCode
	}{
		{"all running, no error", []ExtensionReport{{State: "Running"}}, false, ExitCodeSuccess},
		{"error takes precedence", []ExtensionReport{{State: "Running"}}, true, ExitCodeError},
		{"unresolved degrades", []ExtensionReport{{State: "Running"}, {State: "Unresolved"}}, false, ExitCodeDegraded},
		{"empty reports", nil, false, ExitCodeSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetermineExitCode(tt.reports, tt.hadError)
			if got != tt.want {
				t.Errorf("DetermineExitCode() = %v, want %v", got, tt.want)
			}
		})
	}
}
