// Package oasverify provides semantic validation for OpenAPI 3.0 documents.
//
// oasverify validates parsed OpenAPI 3.0 object graphs beyond what a generic
// schema check can express: cross-reference integrity, keyword interaction
// rules, whole-document uniqueness constraints, path templating, and security
// scope resolution.
//
// # Overview
//
// The library consists of three primary packages:
//
//   - parser: Decode OpenAPI documents from JSON or YAML into a generic tree
//   - validator: The semantic validation engine plus the bracketing structural passes
//   - linter: A declarative, non-fatal lint rule interpreter
//
// # Quick Start
//
// Validate a document from disk:
//
//	result, err := validator.ValidateWithOptions(
//	    validator.WithFilePath("openapi.yaml"),
//	)
//	if err != nil {
//	    var semErr *oaserrors.SemanticError
//	    if errors.As(err, &semErr) {
//	        fmt.Printf("invalid at %s: %s\n", semErr.Path, semErr.Message)
//	    }
//	    return err
//	}
//	fmt.Printf("valid=%v warnings=%d findings=%d\n",
//	    result.Valid, len(result.Warnings), len(result.Findings))
//
// # Error Model
//
// Three fatal error kinds are reported through the oaserrors package:
//
//   - StructuralError: the document fails the external schema-engine pass;
//     all structural violations are aggregated and reported together
//   - SemanticError: the first violated document-specific invariant; the
//     semantic pass is fail-fast and aborts on first violation
//   - VersionError: the document does not carry a supported version marker
//
// Warnings and lint findings are non-fatal channels on the result.
package oasverify
