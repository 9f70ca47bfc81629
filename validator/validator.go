package validator

import (
	"errors"
	"time"

	"github.com/oasverify/oasverify/internal/issues"
	"github.com/oasverify/oasverify/linter"
	"github.com/oasverify/oasverify/oaserrors"
	"github.com/oasverify/oasverify/parser"
)

// StructuralMode selects when the whole-document structural pass runs
// relative to the semantic walk. The default brackets the walk on both
// sides.
type StructuralMode int

const (
	// StructuralBoth runs the structural pass before and after the
	// semantic walk.
	StructuralBoth StructuralMode = iota
	// StructuralBefore runs it only ahead of the semantic walk.
	StructuralBefore
	// StructuralAfter runs it only after the semantic walk succeeds.
	StructuralAfter
	// StructuralOff disables the structural engine entirely, including the
	// per-schema-root conformance checks.
	StructuralOff
)

// Validator validates OpenAPI 3.0 documents. The zero value is usable and
// equivalent to New() except for the lint rule set, which New installs.
//
// A Validator is safe for concurrent use: per-run state lives in a Context
// allocated per call, and the configuration fields are read-only during
// validation.
type Validator struct {
	// StructuralPass selects when the schema engine runs.
	StructuralPass StructuralMode
	// Lint enables the declarative rule engine.
	Lint bool
	// Rules is the rule set applied when Lint is set.
	Rules *linter.RuleSet
	// BaseURL overrides the server-derived base for resolving relative
	// external references and URLs.
	BaseURL string
	// LaxURLs skips URL well-formedness checks entirely.
	LaxURLs bool
	// LenientMediaTypes skips media-type syntax checks on content keys.
	LenientMediaTypes bool
	// AllowEquivalentPaths permits path templates that collide after
	// placeholder normalization.
	AllowEquivalentPaths bool
	// Logger receives debug output; nil disables logging.
	Logger parser.Logger
}

// New returns a Validator with the default configuration: bracketing
// structural passes and the embedded lint rule set.
func New() *Validator {
	return &Validator{
		StructuralPass: StructuralBoth,
		Lint:           true,
		Rules:          linter.Default(),
	}
}

// Result reports the outcome of one validation run. On fatal failure the
// accompanying error carries the detail; the Result still exposes whatever
// warnings and findings accumulated before the abort.
type Result struct {
	// Valid reports whether the document passed every fatal check.
	Valid bool
	// Version is the document's version marker.
	Version string
	// Warnings holds the non-fatal notes accumulated during the walk.
	Warnings []issues.Issue
	// Findings holds the lint findings accumulated during the walk.
	Findings []linter.Finding
	// ContextPath is the location of the fatal semantic failure, if any.
	ContextPath string

	// Source metadata, populated when the run started from a file or raw
	// bytes.
	SourcePath   string
	SourceFormat parser.SourceFormat
	LoadTime     time.Duration
	SourceSize   int64
}

// Validate parses and validates the document at path.
func (v *Validator) Validate(path string) (*Result, error) {
	p := parser.New()
	p.Logger = v.Logger
	pr, err := p.Parse(path)
	if err != nil {
		return &Result{SourcePath: path}, err
	}
	return v.ValidateParsed(pr)
}

// ValidateBytes validates a document from raw bytes. sourcePath is used for
// format detection and reporting only.
func (v *Validator) ValidateBytes(data []byte, sourcePath string) (*Result, error) {
	p := parser.New()
	p.Logger = v.Logger
	pr, err := p.ParseBytes(data, sourcePath)
	if err != nil {
		return &Result{SourcePath: sourcePath}, err
	}
	return v.ValidateParsed(pr)
}

// ValidateParsed validates an already parsed document. This is the run
// entry point the other Validate variants funnel into.
func (v *Validator) ValidateParsed(pr *parser.ParseResult) (*Result, error) {
	result := &Result{
		Version:      pr.Version,
		SourcePath:   pr.SourcePath,
		SourceFormat: pr.SourceFormat,
		LoadTime:     pr.LoadTime,
		SourceSize:   pr.SourceSize,
	}
	return result, v.run(pr.Data, result)
}

// ValidateDocument validates a document tree obtained elsewhere. The version
// marker is checked first so a non-3.0 tree fails with a VersionError.
func (v *Validator) ValidateDocument(doc map[string]any) (*Result, error) {
	version, err := parser.DetectVersion(doc)
	if err != nil {
		return &Result{}, err
	}
	result := &Result{Version: version}
	return result, v.run(doc, result)
}

func (v *Validator) run(doc map[string]any, result *Result) error {
	if v.StructuralPass == StructuralBoth || v.StructuralPass == StructuralBefore {
		if err := validateDocumentStructure(doc); err != nil {
			return err
		}
	}

	c := newContext(v, doc)
	err := c.validateDocument()
	if err == nil {
		c.warnUnreferencedRequestBodies()
	}
	result.Warnings = c.warnings
	result.Findings = c.findings
	if err != nil {
		var semErr *oaserrors.SemanticError
		if errors.As(err, &semErr) {
			result.ContextPath = semErr.Path
		}
		return err
	}

	if v.StructuralPass == StructuralBoth || v.StructuralPass == StructuralAfter {
		if err := validateDocumentStructure(doc); err != nil {
			return err
		}
	}

	result.Valid = true
	return nil
}

// warnUnreferencedRequestBodies flags reusable request bodies nothing in the
// document points at. Anonymous in this sense: declared for reuse, never
// named by a reference.
func (c *Context) warnUnreferencedRequestBodies() {
	components, ok := asMap(c.doc["components"])
	if !ok {
		return
	}
	bodies, ok := asMap(components["requestBodies"])
	if !ok {
		return
	}
	for _, name := range sortedKeys(bodies) {
		if c.usedRefs["#/components/requestBodies/"+name] {
			continue
		}
		pop := c.Enter("components", "requestBodies", name)
		c.Warnf("reusable request body %q is never referenced", name)
		pop()
	}
}
