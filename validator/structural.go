package validator

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/oasverify/oasverify/oaserrors"
)

//go:embed metaschema/openapi-3.0.json
var metaschemaJSON []byte

const metaschemaURL = "https://oasverify.dev/metaschema/openapi-3.0.json"

// The meta-schema is compiled once per process and shared read-only across
// runs; jsonschema.Schema values are safe for concurrent Validate calls.
var (
	compileOnce        sync.Once
	documentSchema     *jsonschema.Schema
	schemaObjectSchema *jsonschema.Schema
	compileErr         error
)

func compiledSchemas() (*jsonschema.Schema, *jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft4
		if err := compiler.AddResource(metaschemaURL, bytes.NewReader(metaschemaJSON)); err != nil {
			compileErr = fmt.Errorf("loading embedded meta-schema: %w", err)
			return
		}
		documentSchema, compileErr = compiler.Compile(metaschemaURL)
		if compileErr != nil {
			return
		}
		schemaObjectSchema, compileErr = compiler.Compile(metaschemaURL + "#/definitions/SchemaOrReference")
	})
	return documentSchema, schemaObjectSchema, compileErr
}

// validateDocumentStructure runs the whole-document structural pass.
func validateDocumentStructure(doc map[string]any) error {
	root, _, err := compiledSchemas()
	if err != nil {
		return err
	}
	return runEngine(root, doc)
}

// validateSchemaObjectStructure checks one schema root for full structural
// conformance after its semantic walk completed.
func validateSchemaObjectStructure(node any) error {
	_, fragment, err := compiledSchemas()
	if err != nil {
		return err
	}
	return runEngine(fragment, node)
}

// runEngine validates one tree against a compiled schema, converting engine
// output into an aggregated StructuralError. The engine collects every
// violation before reporting; nothing here is fail-fast.
func runEngine(schema *jsonschema.Schema, node any) error {
	normalized, err := jsonNormalize(node)
	if err != nil {
		return err
	}
	err = schema.Validate(normalized)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	violations := collectViolations(ve, nil)
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].InstancePath != violations[j].InstancePath {
			return violations[i].InstancePath < violations[j].InstancePath
		}
		if violations[i].KeywordPath != violations[j].KeywordPath {
			return violations[i].KeywordPath < violations[j].KeywordPath
		}
		return violations[i].Message < violations[j].Message
	})
	return &oaserrors.StructuralError{Violations: violations, Cause: err}
}

// collectViolations flattens the engine's cause tree into its leaves, the
// individually actionable violations.
func collectViolations(ve *jsonschema.ValidationError, acc []oaserrors.StructuralViolation) []oaserrors.StructuralViolation {
	if len(ve.Causes) == 0 {
		return append(acc, oaserrors.StructuralViolation{
			InstancePath: ve.InstanceLocation,
			KeywordPath:  ve.KeywordLocation,
			Message:      ve.Message,
		})
	}
	for _, cause := range ve.Causes {
		acc = collectViolations(cause, acc)
	}
	return acc
}

// jsonNormalize re-encodes a decoded tree through JSON so the engine sees
// the value families it expects (float64 numbers in particular; YAML
// decoding produces Go ints).
func jsonNormalize(node any) (any, error) {
	data, err := json.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("encoding document for structural pass: %w", err)
	}
	var normalized any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return nil, fmt.Errorf("decoding document for structural pass: %w", err)
	}
	return normalized, nil
}
