package validator

import (
	"regexp"

	"github.com/oasverify/oasverify/internal/stringutil"
)

// schemaKeywords is the fixed allow-list for schema objects in this profile.
// Extension-prefixed keys are always allowed; anything else fails.
var schemaKeywords = map[string]bool{
	"title":                true,
	"multipleOf":           true,
	"maximum":              true,
	"exclusiveMaximum":     true,
	"minimum":              true,
	"exclusiveMinimum":     true,
	"maxLength":            true,
	"minLength":            true,
	"pattern":              true,
	"maxItems":             true,
	"minItems":             true,
	"uniqueItems":          true,
	"maxProperties":        true,
	"minProperties":        true,
	"required":             true,
	"enum":                 true,
	"type":                 true,
	"allOf":                true,
	"oneOf":                true,
	"anyOf":                true,
	"not":                  true,
	"items":                true,
	"properties":           true,
	"additionalProperties": true,
	"additionalItems":      true,
	"description":          true,
	"format":               true,
	"default":              true,
	"nullable":             true,
	"discriminator":        true,
	"readOnly":             true,
	"writeOnly":            true,
	"externalDocs":         true,
	"example":              true,
	"xml":                  true,
	"deprecated":           true,
}

var schemaTypes = map[string]bool{
	"integer": true,
	"number":  true,
	"string":  true,
	"boolean": true,
	"object":  true,
	"array":   true,
}

// stringOnlyFormats require type: string.
var stringOnlyFormats = map[string]bool{
	"byte":      true,
	"binary":    true,
	"date":      true,
	"date-time": true,
	"password":  true,
}

// nonNegativeKeywords must hold non-negative numbers.
var nonNegativeKeywords = []string{
	"maxLength", "minLength", "maxItems", "minItems", "maxProperties", "minProperties",
}

// booleanKeywords must hold booleans.
var booleanKeywords = []string{
	"exclusiveMinimum", "exclusiveMaximum", "uniqueItems",
	"nullable", "readOnly", "writeOnly", "deprecated",
}

// validateSchemaRoot walks a top-level schema node, then submits the same
// root to the external schema engine for full structural conformance. The
// two passes are independent: the walk is fail-fast, the engine aggregates.
func (c *Context) validateSchemaRoot(node any) error {
	if err := c.validateSchema(node, nil, ""); err != nil {
		return err
	}
	if c.v.StructuralPass != StructuralOff {
		if err := validateSchemaObjectStructure(node); err != nil {
			return err
		}
	}
	return nil
}

// validateSchema is the recursive visitor over a schema node and all
// reachable sub-schemas. parent and propName identify how the node was
// reached; they inform diagnostics only, never semantics.
func (c *Context) validateSchema(node any, parent map[string]any, propName string) error {
	schema, ok := asMap(node)
	if !ok {
		if propName != "" {
			return c.Failf("schema under %q must be an object, got %T", propName, node)
		}
		return c.Failf("schema must be an object, got %T", node)
	}

	if isReferenceNode(schema) {
		// Reference short-circuit: sibling keywords are ignored and the walk
		// does not descend. The lint engine still sees the node, so the
		// reference-only convention rules apply.
		c.Lint("reference", schema)
		ref, ok := asString(schema["$ref"])
		if !ok {
			defer c.Enter("$ref")()
			return c.Failf("$ref must be a string, got %T", schema["$ref"])
		}
		return c.validateRef(ref)
	}

	c.Lint("schema", schema)

	for _, key := range sortedKeys(schema) {
		if key == "patternProperties" {
			return c.Failf("patternProperties is not allowed in this schema profile")
		}
		if !schemaKeywords[key] && !stringutil.IsExtensionKey(key) {
			return c.Failf("unknown schema keyword %q", key)
		}
	}

	if err := c.checkSchemaScalars(schema); err != nil {
		return err
	}
	if err := c.checkSchemaType(schema); err != nil {
		return err
	}
	if err := c.checkSchemaCombinators(schema); err != nil {
		return err
	}
	if err := c.checkSchemaAnnotations(schema); err != nil {
		return err
	}

	return c.walkSubSchemas(schema)
}

// checkSchemaScalars validates the numeric, boolean, and regex keywords.
func (c *Context) checkSchemaScalars(schema map[string]any) error {
	if v, present := schema["multipleOf"]; present {
		n, ok := asNumber(v)
		if !ok {
			return c.Failf("multipleOf must be a number, got %T", v)
		}
		if n <= 0 {
			return c.Failf("multipleOf must be greater than zero")
		}
	}
	for _, key := range []string{"maximum", "minimum"} {
		if v, present := schema[key]; present {
			if _, ok := asNumber(v); !ok {
				return c.Failf("%s must be a number, got %T", key, v)
			}
		}
	}
	for _, key := range nonNegativeKeywords {
		if v, present := schema[key]; present {
			n, ok := asNumber(v)
			if !ok {
				return c.Failf("%s must be a number, got %T", key, v)
			}
			if n < 0 {
				return c.Failf("%s must not be negative", key)
			}
		}
	}
	for _, key := range booleanKeywords {
		if v, present := schema[key]; present {
			if _, ok := asBool(v); !ok {
				return c.Failf("%s must be a boolean, got %T", key, v)
			}
		}
	}

	readOnly, _ := asBool(schema["readOnly"])
	writeOnly, _ := asBool(schema["writeOnly"])
	if readOnly && writeOnly {
		return c.Failf("readOnly and writeOnly are mutually exclusive")
	}

	if v, present := schema["pattern"]; present {
		pattern, ok := asString(v)
		if !ok {
			return c.Failf("pattern must be a string, got %T", v)
		}
		if _, err := regexp.Compile(pattern); err != nil {
			return c.Failf("pattern %q is not a valid regular expression: %v", pattern, err)
		}
	}

	if v, present := schema["required"]; present {
		required, ok := asSlice(v)
		if !ok {
			return c.Failf("required must be an array, got %T", v)
		}
		if len(required) == 0 {
			return c.Failf("required must be a non-empty array")
		}
		seen := make(map[string]bool, len(required))
		for _, entry := range required {
			name, ok := asString(entry)
			if !ok {
				return c.Failf("required entries must be strings, got %T", entry)
			}
			if seen[name] {
				return c.Failf("required entry %q is duplicated", name)
			}
			seen[name] = true
		}
	}
	return nil
}

// checkSchemaType validates type, items presence, default, and format.
func (c *Context) checkSchemaType(schema map[string]any) error {
	typ := ""
	if v, present := schema["type"]; present {
		s, ok := asString(v)
		if !ok {
			return c.Failf("type must be a string, got %T", v)
		}
		if !schemaTypes[s] {
			return c.Failf("type %q is not one of integer, number, string, boolean, object, array", s)
		}
		typ = s
	}

	if typ == "array" {
		if _, present := schema["items"]; !present {
			return c.Failf("schemas with type: array must have items")
		}
	}
	if v, present := schema["items"]; present {
		if _, ok := asMap(v); !ok {
			if _, isArray := asSlice(v); isArray {
				return c.Failf("items must be a single schema object, tuple form is not supported")
			}
			return c.Failf("items must be a schema object, got %T", v)
		}
	}
	for _, key := range []string{"additionalItems", "additionalProperties"} {
		if v, present := schema[key]; present {
			if _, isBool := asBool(v); isBool {
				continue
			}
			if _, isMap := asMap(v); !isMap {
				return c.Failf("%s must be a boolean or a schema object, got %T", key, v)
			}
		}
	}

	if defaultVal, present := schema["default"]; present {
		// Compatibility checks are type-driven; without a declared type
		// there is nothing to compare against, so type is required here.
		if typ == "" {
			return c.Failf("default requires type to be declared")
		}
		nullable, _ := asBool(schema["nullable"])
		if !(defaultVal == nil && nullable) && !defaultMatchesType(defaultVal, typ) {
			return c.Failf("default value does not match declared type %q", typ)
		}
	}

	if v, present := schema["format"]; present {
		format, ok := asString(v)
		if !ok {
			return c.Failf("format must be a string, got %T", v)
		}
		if typ != "" {
			if err := c.checkFormatAgainstType(format, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkFormatAgainstType cross-checks format with the declared type,
// tolerating the commonly-seen relaxations.
func (c *Context) checkFormatAgainstType(format, typ string) error {
	switch {
	case stringOnlyFormats[format]:
		if typ != "string" {
			return c.Failf("format %q requires type: string, found type: %s", format, typ)
		}
	case format == "int32" || format == "int64":
		if typ != "integer" && typ != "string" && typ != "number" {
			return c.Failf("format %q requires type: integer, found type: %s", format, typ)
		}
	case format == "float" || format == "double":
		if typ != "number" && typ != "string" {
			return c.Failf("format %q requires type: number, found type: %s", format, typ)
		}
	}
	return nil
}

// checkSchemaCombinators validates enum and the schema combination keywords.
func (c *Context) checkSchemaCombinators(schema map[string]any) error {
	for _, key := range []string{"enum", "allOf", "anyOf", "oneOf"} {
		if v, present := schema[key]; present {
			entries, ok := asSlice(v)
			if !ok {
				return c.Failf("%s must be an array, got %T", key, v)
			}
			if len(entries) == 0 {
				return c.Failf("%s must be a non-empty array", key)
			}
		}
	}
	if v, present := schema["not"]; present {
		if _, ok := asMap(v); !ok {
			return c.Failf("not must be a single schema object, got %T", v)
		}
	}
	return nil
}

// checkSchemaAnnotations validates discriminator and externalDocs.
func (c *Context) checkSchemaAnnotations(schema map[string]any) error {
	if v, present := schema["discriminator"]; present {
		disc, ok := asMap(v)
		if !ok {
			return c.Failf("discriminator must be an object, got %T", v)
		}
		if _, ok := asString(disc["propertyName"]); !ok {
			defer c.Enter("discriminator")()
			return c.Failf("discriminator must have a propertyName")
		}
	}
	if v, present := schema["externalDocs"]; present {
		return c.validateExternalDocs(v)
	}
	return nil
}

// walkSubSchemas descends into every reachable sub-schema.
func (c *Context) walkSubSchemas(schema map[string]any) error {
	if v, present := schema["items"]; present {
		if err := c.walkChild("items", v, schema); err != nil {
			return err
		}
	}
	for _, key := range []string{"additionalItems", "additionalProperties"} {
		if v, present := schema[key]; present {
			if _, isBool := asBool(v); isBool {
				continue
			}
			if err := c.walkChild(key, v, schema); err != nil {
				return err
			}
		}
	}
	if v, present := schema["not"]; present {
		if err := c.walkChild("not", v, schema); err != nil {
			return err
		}
	}
	if v, present := schema["properties"]; present {
		properties, ok := asMap(v)
		if !ok {
			return c.Failf("properties must be an object, got %T", v)
		}
		pop := c.Enter("properties")
		for _, name := range sortedKeys(properties) {
			if err := c.walkChild(name, properties[name], schema); err != nil {
				pop()
				return err
			}
		}
		pop()
	}
	for _, key := range []string{"allOf", "anyOf", "oneOf"} {
		v, present := schema[key]
		if !present {
			continue
		}
		entries, _ := asSlice(v)
		pop := c.Enter(key)
		for i, entry := range entries {
			if err := c.walkChild(indexSegment(i), entry, schema); err != nil {
				pop()
				return err
			}
		}
		pop()
	}
	return nil
}

// walkChild validates one sub-schema under the given path segment.
func (c *Context) walkChild(segment string, node any, parent map[string]any) error {
	defer c.Enter(segment)()
	return c.validateSchema(node, parent, segment)
}

func defaultMatchesType(value any, typ string) bool {
	switch typ {
	case "string":
		_, ok := asString(value)
		return ok
	case "boolean":
		_, ok := asBool(value)
		return ok
	case "integer":
		return isInteger(value)
	case "number":
		_, ok := asNumber(value)
		return ok
	case "object":
		_, ok := asMap(value)
		return ok
	case "array":
		_, ok := asSlice(value)
		return ok
	}
	return true
}
