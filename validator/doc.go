// Package validator provides semantic validation for OpenAPI 3.0 documents.
//
// The validator operates on the generic document tree produced by the parser
// package and checks everything a meta-schema cannot express: cross-reference
// integrity, keyword interaction rules, whole-document uniqueness constraints,
// path templating, and security scope resolution.
//
// # Passes
//
// A validation run consists of up to three phases:
//
//  1. A structural pass: the document is checked against the embedded
//     OpenAPI 3.0 meta-schema by an external schema engine
//     (santhosh-tekuri/jsonschema). All structural violations are aggregated
//     and reported together as a single StructuralError.
//  2. The semantic pass: a single-threaded, depth-first recursive descent
//     over the whole document. This pass is fail-fast: the first violated
//     invariant aborts the run with a SemanticError carrying the context
//     path of the failing node.
//  3. A second structural pass (the semantic pass is bracketed by the
//     structural ones by default; either or both can be disabled).
//
// Alongside the semantic pass, the declarative lint engine from the linter
// package evaluates convention rules against every visited object. Lint
// findings and warnings are non-fatal and accumulate on the Result.
//
// # Concurrency
//
// The compiled meta-schema and an evaluated lint rule set are immutable and
// safely shared across concurrent runs. All per-run state (the context
// stack, uniqueness sets, warnings, findings) is allocated fresh for each
// run and owned exclusively by the run's goroutine.
//
// # Basic Usage
//
//	result, err := validator.ValidateWithOptions(
//	    validator.WithFilePath("openapi.yaml"),
//	)
//	if err != nil {
//	    return err // VersionError, StructuralError, or SemanticError
//	}
//	for _, f := range result.Findings {
//	    fmt.Println(f.String())
//	}
package validator
