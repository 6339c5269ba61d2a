// Package severity provides severity level constants and utilities
// for issues reported while loading models and generating code.
//
// The generator re-exports all four levels:
//   - SeverityInfo: Informational messages about choices made
//   - SeverityWarning: Output that may not behave as the model intends
//   - SeverityError: Model problems that stop a namespace
//   - SeverityCritical: Model features that were skipped
//
// The severity levels are ordered from least to most severe:
// Info < Warning < Error < Critical
package severity

// Severity indicates the severity level of a generation issue.
type Severity int

const (
	// SeverityError indicates a model problem that prevents generation of a
	// namespace.
	SeverityError Severity = iota

	// SeverityWarning indicates output that was produced but may not behave as
	// the model intends, such as unformatted source or an unbindable label.
	SeverityWarning

	// SeverityInfo indicates informational messages about processing choices.
	// These are non-actionable notices that may be useful for debugging.
	SeverityInfo

	// SeverityCritical indicates model features that were skipped entirely.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Rank orders severities from least (Info) to most (Critical) severe. The
// constant values keep their historical order and must not be compared
// directly.
func (s Severity) Rank() int {
	switch s {
	case SeverityInfo:
		return 0
	case SeverityWarning:
		return 1
	case SeverityError:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}
