// Package oaserrors provides structured error types for oasverify.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between the three fatal
// failure kinds the validator reports.
//
// # Error Categories
//
//   - VersionError: the document is not parseable as a supported version
//   - StructuralError: the document violates the format's meta-schema;
//     carries the full aggregated list of structural violations
//   - SemanticError: the document violates a document-specific invariant;
//     the semantic pass is fail-fast, so this is always a single violation
//     carrying the failing context path
//
// # Usage with errors.As
//
//	result, err := validator.ValidateWithOptions(validator.WithFilePath("api.yaml"))
//	if err != nil {
//	    var semErr *oaserrors.SemanticError
//	    if errors.As(err, &semErr) {
//	        fmt.Printf("%s: %s\n", semErr.Path, semErr.Message)
//	    }
//	}
package oaserrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrVersion indicates the document does not carry a supported version marker.
	ErrVersion = errors.New("unsupported document version")

	// ErrStructural indicates the document failed meta-schema conformance.
	ErrStructural = errors.New("structural validation failed")

	// ErrSemantic indicates the document violated a semantic invariant.
	ErrSemantic = errors.New("semantic validation failed")
)

// VersionError indicates the document is not parseable as a supported
// OpenAPI version (missing or malformed top-level version marker).
type VersionError struct {
	// Version is the version marker found in the document, if any
	Version string
	// Message describes why the version was rejected
	Message string
}

func (e *VersionError) Error() string {
	if e.Version == "" {
		return fmt.Sprintf("version error: %s", e.Message)
	}
	return fmt.Sprintf("version error: %s (found %q)", e.Message, e.Version)
}

// Is supports errors.Is(err, ErrVersion).
func (e *VersionError) Is(target error) bool { return target == ErrVersion }

// StructuralViolation is a single violation reported by the schema engine.
type StructuralViolation struct {
	// InstancePath locates the offending node in the document
	InstancePath string
	// KeywordPath locates the violated keyword in the meta-schema
	KeywordPath string
	// Message is the engine's description of the violation
	Message string
}

func (v StructuralViolation) String() string {
	if v.InstancePath == "" {
		return v.Message
	}
	return fmt.Sprintf("%s: %s", v.InstancePath, v.Message)
}

// StructuralError indicates the document violates the format's meta-schema.
// Unlike the fail-fast semantic pass, the structural pass aggregates every
// violation it finds before reporting.
type StructuralError struct {
	// Violations holds all structural violations, in a deterministic order
	Violations []StructuralViolation
	// Cause is the underlying schema-engine error, if any
	Cause error
}

func (e *StructuralError) Error() string {
	if len(e.Violations) == 0 {
		return "structural validation failed"
	}
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.String())
	}
	return fmt.Sprintf("structural validation failed with %d violation(s): %s",
		len(e.Violations), strings.Join(msgs, "; "))
}

// Is supports errors.Is(err, ErrStructural).
func (e *StructuralError) Is(target error) bool { return target == ErrStructural }

// Unwrap returns the underlying schema-engine error.
func (e *StructuralError) Unwrap() error { return e.Cause }

// SemanticError indicates a single violated document-specific invariant.
// The semantic pass aborts on the first violation, so a run produces at
// most one SemanticError.
type SemanticError struct {
	// Path is the slash-joined context path to the failing node
	Path string
	// Message is a human-readable description of the violated invariant
	Message string
}

func (e *SemanticError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Is supports errors.Is(err, ErrSemantic).
func (e *SemanticError) Is(target error) bool { return target == ErrSemantic }
