package output

import "fmt"

// CheckStatus is the outcome of one diagnostic check.
type CheckStatus int

const (
	StatusOK CheckStatus = iota
	StatusWarning
	StatusFailed
)

func (s CheckStatus) String() string {
	switch s {
	case StatusOK:
		return "✓ ok"
	case StatusWarning:
		return "⚠ warning"
	default:
		return "✗ failed"
	}
}

// DiagnosticInfo is one row of the diagnostics report.
type DiagnosticInfo struct {
	Component   string
	Status      CheckStatus
	Details     string
	Suggestions []string
}

// RenderDiagnostics prints the checks as a table followed by the suggestions
// of every check that did not pass.
func (f *Formatter) RenderDiagnostics(diagnostics []DiagnosticInfo) {
	f.Header("Launcher Diagnostics")

	table := f.Table().Headers("Component", "Status", "Details")
	for _, diag := range diagnostics {
		table.Row(diag.Component, diag.Status.String(), diag.Details)
	}
	table.Print()

	for _, diag := range diagnostics {
		if diag.Status == StatusOK || len(diag.Suggestions) == 0 {
			continue
		}
		fmt.Fprintln(f.writer)
		if diag.Status == StatusFailed {
			f.Error("%s", diag.Component)
		} else {
			f.Warning("%s", diag.Component)
		}
		for _, suggestion := range diag.Suggestions {
			f.List("%s", suggestion)
		}
	}
}
