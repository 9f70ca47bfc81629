package validator

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/oasverify/oasverify/internal/stringutil"
)

// refClass distinguishes fragment-only pointers into this document from
// references that name another file or URL.
type refClass int

const (
	refInternal refClass = iota
	refExternal
)

// componentRefRegex captures the kind and name segments of a components
// pointer like #/components/schemas/Pet.
var componentRefRegex = regexp.MustCompile(`^#/components/([^/]+)/([^/]+)$`)

// classifyRef returns refInternal for pointers with no scheme and no
// document path component, refExternal otherwise.
func classifyRef(ref string) refClass {
	if strings.HasPrefix(ref, "#") {
		return refInternal
	}
	return refExternal
}

// validateRef checks one $ref value at the current context location. The
// "$ref" segment is pushed for the duration of the check, so self-reference
// comparison and failure paths both point at the $ref property itself.
func (c *Context) validateRef(ref string) error {
	defer c.Enter("$ref")()

	if ref == "" {
		return c.Failf("$ref must be a non-empty string")
	}
	if strings.HasSuffix(ref, "/") {
		return c.Failf("$ref %q references an empty component name", ref)
	}

	if classifyRef(ref) == refExternal {
		return c.validateExternalRef(ref)
	}

	if match := componentRefRegex.FindStringSubmatch(ref); match != nil {
		if !stringutil.IsValidComponentName(unescapePointerSegment(match[2])) {
			return c.Failf("component name %q in $ref %q may only contain letters, digits, dot, dash, and underscore", match[2], ref)
		}
	}

	// Shallow self-reference: a pointer that, with the $ref suffix applied,
	// lands exactly on the node being validated. Multi-hop cycles are not
	// detected here.
	if ref+"/$ref" == "#/"+c.Path() {
		return c.Failf("$ref %q references its own location", ref)
	}

	if _, ok := resolveInternal(c.doc, ref); !ok {
		return c.Failf("$ref %q does not resolve to a node in the document", ref)
	}

	c.log().Debug("resolved internal reference", "ref", ref)
	c.MarkRefUsed(ref)
	return nil
}

// validateExternalRef checks an external reference for syntactic
// well-formedness, resolving relative references against the configured base
// URL or the document's first server URL.
func (c *Context) validateExternalRef(ref string) error {
	if c.v.LaxURLs {
		c.log().Debug("skipping external reference check", "ref", ref)
		return nil
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return c.Failf("external $ref %q is not a valid URL: %v", ref, err)
	}
	if parsed.IsAbs() {
		return nil
	}
	if base, ok := c.refBase(); ok {
		if _, err := base.Parse(ref); err != nil {
			return c.Failf("external $ref %q does not resolve against base %q: %v", ref, base.String(), err)
		}
	}
	return nil
}

// validateURL checks a URL-valued field under the same contract as external
// references: syntactic well-formedness, with relative values resolved
// against the configured or server-derived base.
func (c *Context) validateURL(raw string) error {
	if c.v.LaxURLs {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return c.Failf("invalid URL %q: %v", raw, err)
	}
	if parsed.IsAbs() {
		return nil
	}
	if base, ok := c.refBase(); ok {
		if _, err := base.Parse(raw); err != nil {
			return c.Failf("URL %q does not resolve against base %q: %v", raw, base.String(), err)
		}
	}
	return nil
}

// refBase returns the URL used to resolve relative external references: the
// configured base URL when set, otherwise the document's first absolute
// server URL.
func (c *Context) refBase() (*url.URL, bool) {
	if c.v.BaseURL != "" {
		if base, err := url.Parse(c.v.BaseURL); err == nil && base.IsAbs() {
			return base, true
		}
	}
	servers, ok := asSlice(c.doc["servers"])
	if !ok || len(servers) == 0 {
		return nil, false
	}
	first, ok := asMap(servers[0])
	if !ok {
		return nil, false
	}
	raw, ok := asString(first["url"])
	if !ok {
		return nil, false
	}
	base, err := url.Parse(raw)
	if err != nil || !base.IsAbs() {
		return nil, false
	}
	return base, true
}

// validateReferenceNode checks the shape of a node carrying $ref: the
// pointer must be a string, and no meaningful sibling properties are allowed
// (extension-prefixed fields excepted). The node is also linted as a
// reference object.
func (c *Context) validateReferenceNode(node map[string]any) error {
	c.Lint("reference", node)

	ref, ok := asString(node["$ref"])
	if !ok {
		defer c.Enter("$ref")()
		return c.Failf("$ref must be a string, got %T", node["$ref"])
	}
	for _, key := range sortedKeys(node) {
		if key == "$ref" || stringutil.IsExtensionKey(key) {
			continue
		}
		return c.Failf("reference object must not have property %q alongside $ref", key)
	}
	return c.validateRef(ref)
}

// isReferenceNode reports whether a tree node carries a $ref property.
func isReferenceNode(node map[string]any) bool {
	_, ok := node["$ref"]
	return ok
}

// resolveInternal navigates the document tree along a fragment pointer like
// #/components/schemas/Pet. It returns the addressed node, or ok=false when
// any segment is absent.
func resolveInternal(doc map[string]any, pointer string) (any, bool) {
	trimmed := strings.TrimPrefix(pointer, "#")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return doc, true
	}

	var node any = doc
	for _, segment := range strings.Split(trimmed, "/") {
		segment = unescapePointerSegment(segment)
		switch current := node.(type) {
		case map[string]any:
			child, ok := current[segment]
			if !ok {
				return nil, false
			}
			node = child
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(current) {
				return nil, false
			}
			node = current[idx]
		default:
			return nil, false
		}
	}
	return node, true
}

func unescapePointerSegment(segment string) string {
	segment = strings.ReplaceAll(segment, "~1", "/")
	return strings.ReplaceAll(segment, "~0", "~")
}
