package invariant

import "fmt"

// Severity classifies the weight of a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

var validSeverities = map[Severity]bool{
	SeverityError:   true,
	SeverityWarning: true,
}

// Validate checks that the severity is a known value.
func (s Severity) Validate() error {
	if !validSeverities[s] {
		return fmt.Errorf("invalid severity %q: must be one of error, warning", s)
	}
	return nil
}

// Finding is one reported outcome of a single check against a single
// document. Findings are produced fresh per validation run.
type Finding struct {
	Severity Severity
	Path     string
	Message  string
}
