// Package severity provides severity level constants for issues reported by
// the validator and linter packages.
//
// The levels are declared from most to least severe: Error, Warning, Info,
// Hint.
package severity

// Severity indicates the severity level of an issue found during validation
// or linting.
type Severity int

const (
	// SeverityError indicates a spec violation that makes the document invalid.
	SeverityError Severity = iota

	// SeverityWarning indicates a best-practice violation or recommendation
	// that does not prevent the document from validating.
	SeverityWarning

	// SeverityInfo indicates informational messages about processing choices.
	SeverityInfo

	// SeverityHint indicates a lint finding: a convention-level note produced
	// by the declarative rule engine, never fatal.
	SeverityHint
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}
