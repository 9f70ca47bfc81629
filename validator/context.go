package validator

import (
	"fmt"
	"strings"

	"github.com/oasverify/oasverify/internal/issues"
	"github.com/oasverify/oasverify/internal/severity"
	"github.com/oasverify/oasverify/linter"
	"github.com/oasverify/oasverify/oaserrors"
	"github.com/oasverify/oasverify/parser"
)

// Context tracks the current location and accumulates global state for one
// validation run. It is allocated fresh per run and owned exclusively by the
// run's goroutine; nothing in it is shared between concurrent runs.
type Context struct {
	v   *Validator
	doc map[string]any

	// stack holds normalized (JSON-Pointer escaped) path segments. It
	// mirrors the call stack: every validator call must leave it at the
	// depth it found it, including on early returns.
	stack []string

	warnings []issues.Issue
	findings []linter.Finding

	// conditions holds the named skip conditions currently active for lint
	// rule evaluation (e.g., "isCallback").
	conditions map[string]bool

	// run-wide uniqueness sets, keyed value -> path first seen
	operationIDs map[string]string
	tagNames     map[string]string
	pathShapes   map[string]string

	// scopeCache memoizes the union of declared OAuth2 scopes per scheme
	scopeCache map[string]map[string]bool

	// usedRefs records every internal reference seen during the walk
	usedRefs map[string]bool
}

func newContext(v *Validator, doc map[string]any) *Context {
	return &Context{
		v:            v,
		doc:          doc,
		conditions:   make(map[string]bool),
		operationIDs: make(map[string]string),
		tagNames:     make(map[string]string),
		pathShapes:   make(map[string]string),
		scopeCache:   make(map[string]map[string]bool),
		usedRefs:     make(map[string]bool),
	}
}

func (c *Context) log() parser.Logger {
	if c.v.Logger != nil {
		return c.v.Logger
	}
	return parser.NopLogger{}
}

// escapeSegment applies JSON-Pointer escaping so that context paths compare
// correctly against pointer strings found in the document.
func escapeSegment(segment string) string {
	segment = strings.ReplaceAll(segment, "~", "~0")
	return strings.ReplaceAll(segment, "/", "~1")
}

// Push appends a normalized segment to the path stack.
func (c *Context) Push(segment string) {
	c.stack = append(c.stack, escapeSegment(segment))
}

// Pop removes the most recently pushed segment.
func (c *Context) Pop() {
	c.stack = c.stack[:len(c.stack)-1]
}

// Enter pushes the given segments and returns a function that pops them all,
// for use with defer so the stack stays balanced on every return path:
//
//	defer c.Enter("components", "schemas", name)()
func (c *Context) Enter(segments ...string) func() {
	for _, segment := range segments {
		c.Push(segment)
	}
	n := len(segments)
	return func() {
		c.stack = c.stack[:len(c.stack)-n]
	}
}

// Depth returns the current stack depth.
func (c *Context) Depth() int { return len(c.stack) }

// Path returns the slash-joined current location for use in messages and
// self-reference checks.
func (c *Context) Path() string {
	return strings.Join(c.stack, "/")
}

// Failf builds the fatal semantic failure for the current location. The
// caller returns it up the descent, aborting the run.
func (c *Context) Failf(format string, args ...any) error {
	return &oaserrors.SemanticError{
		Path:    c.Path(),
		Message: fmt.Sprintf(format, args...),
	}
}

// Warnf appends a non-fatal note at the current location.
func (c *Context) Warnf(format string, args ...any) {
	c.warnings = append(c.warnings, issues.Issue{
		Path:     c.Path(),
		Message:  fmt.Sprintf(format, args...),
		Severity: severity.SeverityWarning,
	})
}

// WarnField appends a non-fatal note about one named field, carrying the
// field name and the offending value alongside the message.
func (c *Context) WarnField(field string, value any, format string, args ...any) {
	c.warnings = append(c.warnings, issues.Issue{
		Path:     c.Path(),
		Message:  fmt.Sprintf(format, args...),
		Severity: severity.SeverityWarning,
		Field:    field,
		Value:    value,
	})
}

// Lint evaluates the configured rule set against one document object of the
// given kind at the current location. Findings accumulate; linting never
// fails a run.
func (c *Context) Lint(kind string, obj map[string]any) {
	if !c.v.Lint || c.v.Rules == nil {
		return
	}
	c.findings = append(c.findings, c.v.Rules.Apply(kind, c.Path(), obj, c.conditions)...)
}

// WithCondition runs fn with the named lint skip condition active, restoring
// the previous value afterwards.
func (c *Context) WithCondition(name string, fn func() error) error {
	prev := c.conditions[name]
	c.conditions[name] = true
	defer func() { c.conditions[name] = prev }()
	return fn()
}

// ClaimOperationID registers an operationId, failing if it was already
// claimed anywhere in this run, including inside callbacks.
func (c *Context) ClaimOperationID(id string) error {
	if first, exists := c.operationIDs[id]; exists {
		return c.Failf("duplicate operationId %q (first seen at %s)", id, first)
	}
	c.operationIDs[id] = c.Path()
	return nil
}

// ClaimTagName registers a top-level tag name, failing on duplicates.
func (c *Context) ClaimTagName(name string) error {
	if first, exists := c.tagNames[name]; exists {
		return c.Failf("duplicate tag name %q (first seen at %s)", name, first)
	}
	c.tagNames[name] = c.Path()
	return nil
}

// ClaimPathShape registers the placeholder-normalized shape of a path
// template, failing when two templates collide (e.g. /pets/{a} and
// /pets/{b}) unless the document opts into equivalent paths.
func (c *Context) ClaimPathShape(template string) error {
	shape := normalizePathShape(template)
	if first, exists := c.pathShapes[shape]; exists {
		if c.allowEquivalentPaths() {
			return nil
		}
		return c.Failf("path %q is equivalent to %q (identical shape after placeholder normalization)", template, first)
	}
	c.pathShapes[shape] = template
	return nil
}

func (c *Context) allowEquivalentPaths() bool {
	if c.v.AllowEquivalentPaths {
		return true
	}
	if opt, ok := c.doc["x-equivalent-paths"].(bool); ok {
		return opt
	}
	return false
}

// ScopesFor lazily computes and memoizes the union of scopes declared across
// all OAuth2 flows of the named security scheme. The second return is false
// when the scheme does not exist or declares no flows.
func (c *Context) ScopesFor(schemeName string) (map[string]bool, bool) {
	if cached, ok := c.scopeCache[schemeName]; ok {
		return cached, cached != nil
	}

	scheme, ok := lookupSecurityScheme(c.doc, schemeName)
	if !ok {
		c.scopeCache[schemeName] = nil
		return nil, false
	}
	flows, ok := asMap(scheme["flows"])
	if !ok {
		c.scopeCache[schemeName] = nil
		return nil, false
	}

	union := make(map[string]bool)
	for _, flowName := range sortedKeys(flows) {
		flow, ok := asMap(flows[flowName])
		if !ok {
			continue
		}
		scopes, ok := asMap(flow["scopes"])
		if !ok {
			continue
		}
		for scope := range scopes {
			union[scope] = true
		}
	}
	c.scopeCache[schemeName] = union
	return union, true
}

// MarkRefUsed records an internal reference target for the post-walk
// unreferenced-component check.
func (c *Context) MarkRefUsed(ref string) {
	c.usedRefs[ref] = true
}

// lookupSecurityScheme returns the named scheme object under
// #/components/securitySchemes, if present.
func lookupSecurityScheme(doc map[string]any, name string) (map[string]any, bool) {
	components, ok := asMap(doc["components"])
	if !ok {
		return nil, false
	}
	schemes, ok := asMap(components["securitySchemes"])
	if !ok {
		return nil, false
	}
	return asMap(schemes[name])
}
