// Package issues provides a unified issue type for validation warnings,
// structural violations, and lint findings.
package issues

import (
	"fmt"

	"github.com/oasverify/oasverify/internal/severity"
)

// Issue represents a single non-fatal problem found during validation or
// linting. Fatal problems travel as errors, not as Issues.
type Issue struct {
	// Path is the slash-joined context path to the problematic node
	// (e.g., "paths//pets/get/responses")
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Field is the specific field name that has the issue
	Field string
	// Value is the problematic value (optional)
	Value any
	// Rule is the name of the lint rule that produced this issue.
	// Empty for warnings and structural violations.
	Rule string
	// Kind is the document object kind the issue was found on
	// (e.g., "parameter", "operation"). Empty when not applicable.
	Kind string
}

// String returns a formatted string representation of the issue.
// Uses different symbols based on severity level:
// - "✗" for Error severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
// - "➤" for Hint (lint) severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	case severity.SeverityHint:
		symbol = "➤"
	default:
		symbol = "?"
	}

	result := fmt.Sprintf("%s %s: %s", symbol, i.Path, i.Message)
	if i.Rule != "" {
		result += fmt.Sprintf(" (rule: %s)", i.Rule)
	}
	return result
}
