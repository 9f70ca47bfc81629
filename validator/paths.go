package validator

import (
	"strings"

	"github.com/oasverify/oasverify/internal/httputil"
	"github.com/oasverify/oasverify/internal/pathutil"
	"github.com/oasverify/oasverify/internal/stringutil"
)

// paramKey identifies a parameter by location and name, the pair that must
// be unique within any one parameter list and that drives the path-coverage
// merge.
type paramKey struct {
	in   string
	name string
}

// legacyPathItemKeys are v2 keys that occasionally survive a hand-conversion.
var legacyPathItemKeys = []string{"consumes", "produces", "schemes"}

// pathItemFixedKeys are the non-method keys a path item may carry.
var pathItemFixedKeys = map[string]bool{
	"$ref": true, "summary": true, "description": true,
	"servers": true, "parameters": true,
}

// validatePaths walks the paths object in sorted template order.
func (c *Context) validatePaths(v any) error {
	defer c.Enter("paths")()

	paths, ok := asMap(v)
	if !ok {
		return c.Failf("paths must be an object, got %T", v)
	}
	for _, template := range sortedKeys(paths) {
		if stringutil.IsExtensionKey(template) {
			continue
		}
		pop := c.Enter(template)
		if err := c.validatePathEntry(template, paths[template]); err != nil {
			pop()
			return err
		}
		pop()
	}
	return nil
}

func (c *Context) validatePathEntry(template string, v any) error {
	if !strings.HasPrefix(template, "/") {
		return c.Failf("path %q must begin with a slash", template)
	}
	if err := pathutil.ValidateTemplate(template); err != nil {
		return c.Failf("path %q is malformed: %v", template, err)
	}
	if err := c.ClaimPathShape(template); err != nil {
		return err
	}
	return c.validatePathItem(template, v)
}

// validatePathItem checks one path item: fixed keys, path-level parameters,
// and every operation. Operations see the path-level parameter list for the
// override merge.
func (c *Context) validatePathItem(template string, v any) error {
	item, ok := asMap(v)
	if !ok {
		return c.Failf("path item must be an object, got %T", v)
	}
	c.Lint("pathItem", item)

	for _, key := range legacyPathItemKeys {
		if _, present := item[key]; present {
			return c.Failf("key %q belongs to OpenAPI 2.0 and is not allowed on a path item", key)
		}
	}
	for _, key := range sortedKeys(item) {
		if httputil.IsMethod(key) || pathItemFixedKeys[key] || stringutil.IsExtensionKey(key) {
			continue
		}
		return c.Failf("unknown path item key %q", key)
	}

	if raw, present := item["$ref"]; present {
		ref, ok := asString(raw)
		if !ok {
			defer c.Enter("$ref")()
			return c.Failf("$ref must be a string, got %T", raw)
		}
		if err := c.validateRef(ref); err != nil {
			return err
		}
	}
	if raw, present := item["servers"]; present {
		if err := c.validateServers(raw); err != nil {
			return err
		}
	}

	templateParams := make(map[string]bool)
	for _, name := range pathutil.ExtractParams(template) {
		templateParams[name] = true
	}

	var baseParams []paramKey
	if raw, present := item["parameters"]; present {
		var err error
		baseParams, err = c.validateParameterList(raw, templateParams)
		if err != nil {
			return err
		}
	}

	hasOperation := false
	for _, method := range httputil.Methods {
		raw, present := item[method]
		if !present {
			continue
		}
		hasOperation = true
		pop := c.Enter(method)
		if err := c.validateOperation(templateParams, raw, baseParams); err != nil {
			pop()
			return err
		}
		pop()
	}

	if !hasOperation {
		if err := c.checkPathCoverage(templateParams, baseParams); err != nil {
			return err
		}
	}
	return nil
}

// validateParameterList validates one parameters array and returns the
// (in, name) keys of its entries. Reference entries are resolved internally
// to recover their keys; duplicates fail.
func (c *Context) validateParameterList(raw any, templateParams map[string]bool) ([]paramKey, error) {
	defer c.Enter("parameters")()

	entries, ok := asSlice(raw)
	if !ok {
		return nil, c.Failf("parameters must be an array, got %T", raw)
	}

	keys := make([]paramKey, 0, len(entries))
	seen := make(map[paramKey]bool, len(entries))
	for i, entry := range entries {
		pop := c.Enter(indexSegment(i))
		key, err := c.validateParameterEntry(entry, templateParams)
		if err != nil {
			pop()
			return nil, err
		}
		if key != (paramKey{}) {
			if seen[key] {
				err := c.Failf("duplicate parameter (in: %s, name: %s)", key.in, key.name)
				pop()
				return nil, err
			}
			seen[key] = true
			keys = append(keys, key)
		}
		pop()
	}
	return keys, nil
}

// validateParameterEntry handles one list entry, inline or reference. The
// zero paramKey means the key could not be recovered (external reference).
func (c *Context) validateParameterEntry(entry any, templateParams map[string]bool) (paramKey, error) {
	node, ok := asMap(entry)
	if !ok {
		return paramKey{}, c.Failf("parameter must be an object, got %T", entry)
	}
	if isReferenceNode(node) {
		if err := c.validateReferenceNode(node); err != nil {
			return paramKey{}, err
		}
		ref, _ := asString(node["$ref"])
		if classifyRef(ref) != refInternal {
			return paramKey{}, nil
		}
		target, ok := resolveInternal(c.doc, ref)
		if !ok {
			return paramKey{}, nil
		}
		resolved, ok := asMap(target)
		if !ok {
			return paramKey{}, c.Failf("$ref %q does not resolve to a parameter object", ref)
		}
		in, _ := asString(resolved["in"])
		name, _ := asString(resolved["name"])
		return paramKey{in: in, name: name}, nil
	}

	if err := c.validateParameter(node, templateParams); err != nil {
		return paramKey{}, err
	}
	in, _ := asString(node["in"])
	name, _ := asString(node["name"])
	return paramKey{in: in, name: name}, nil
}

// validateOperation checks one operation: responses are mandatory, the
// operationId is run-unique, and the merged parameter list must cover the
// path template's placeholders exactly.
func (c *Context) validateOperation(templateParams map[string]bool, v any, baseParams []paramKey) error {
	op, ok := asMap(v)
	if !ok {
		return c.Failf("operation must be an object, got %T", v)
	}
	c.Lint("operation", op)

	if raw, present := op["operationId"]; present {
		id, ok := asString(raw)
		if !ok {
			return c.Failf("operationId must be a string, got %T", raw)
		}
		if err := c.ClaimOperationID(id); err != nil {
			return err
		}
	}
	if raw, present := op["tags"]; present {
		tags, ok := asSlice(raw)
		if !ok {
			return c.Failf("operation tags must be an array, got %T", raw)
		}
		for _, tag := range tags {
			if _, ok := asString(tag); !ok {
				return c.Failf("operation tags must be strings, got %T", tag)
			}
		}
	}
	if raw, present := op["deprecated"]; present {
		if _, ok := asBool(raw); !ok {
			return c.Failf("deprecated must be a boolean, got %T", raw)
		}
	}
	if raw, present := op["externalDocs"]; present {
		if err := c.validateExternalDocs(raw); err != nil {
			return err
		}
	}
	if raw, present := op["servers"]; present {
		if err := c.validateServers(raw); err != nil {
			return err
		}
	}

	opParams := baseParams
	if raw, present := op["parameters"]; present {
		own, err := c.validateParameterList(raw, templateParams)
		if err != nil {
			return err
		}
		opParams = mergeParams(baseParams, own)
	}
	if err := c.checkPathCoverage(templateParams, opParams); err != nil {
		return err
	}

	if raw, present := op["requestBody"]; present {
		pop := c.Enter("requestBody")
		var err error
		if node, ok := asMap(raw); ok && isReferenceNode(node) {
			err = c.validateReferenceNode(node)
		} else {
			err = c.validateRequestBody(raw)
		}
		pop()
		if err != nil {
			return err
		}
	}

	responses, present := op["responses"]
	if !present {
		return c.Failf("operation must have a responses object")
	}
	if err := c.validateResponses(responses); err != nil {
		return err
	}

	if raw, present := op["callbacks"]; present {
		if err := c.validateCallbacks(raw); err != nil {
			return err
		}
	}
	if raw, present := op["security"]; present {
		if err := c.validateSecurityRequirements(raw); err != nil {
			return err
		}
	}
	return nil
}

// mergeParams applies the operation-overrides-path-item rule: an operation
// entry with the same (in, name) replaces the path-level one.
func mergeParams(base, own []paramKey) []paramKey {
	overridden := make(map[paramKey]bool, len(own))
	for _, key := range own {
		overridden[key] = true
	}
	merged := make([]paramKey, 0, len(base)+len(own))
	for _, key := range base {
		if !overridden[key] {
			merged = append(merged, key)
		}
	}
	return append(merged, own...)
}

// checkPathCoverage verifies the exact bijection between template
// placeholders and declared in-path parameters.
func (c *Context) checkPathCoverage(templateParams map[string]bool, params []paramKey) error {
	declared := make(map[string]bool)
	for _, key := range params {
		if key.in == "path" {
			declared[key.name] = true
		}
	}
	for _, name := range sortedKeysOf(templateParams) {
		if !declared[name] {
			return c.Failf("path parameter {%s} is not declared by any parameter", name)
		}
	}
	for _, name := range sortedKeysOf(declared) {
		if !templateParams[name] {
			return c.Failf("declared path parameter %q does not appear in the path template", name)
		}
	}
	return nil
}

// validateCallbacks walks the named callbacks of an operation. Every path
// item reached from here is validated with the callback condition active, so
// convention rules that only make sense for first-class operations stay
// quiet.
func (c *Context) validateCallbacks(raw any) error {
	defer c.Enter("callbacks")()

	callbacks, ok := asMap(raw)
	if !ok {
		return c.Failf("callbacks must be an object, got %T", raw)
	}
	for _, name := range sortedKeys(callbacks) {
		if stringutil.IsExtensionKey(name) {
			continue
		}
		pop := c.Enter(name)
		var err error
		if node, ok := asMap(callbacks[name]); ok && isReferenceNode(node) {
			err = c.validateReferenceNode(node)
		} else {
			err = c.validateCallback(callbacks[name])
		}
		pop()
		if err != nil {
			return err
		}
	}
	return nil
}

// validateCallback checks one callback object: a map of runtime expressions
// to path items.
func (c *Context) validateCallback(v any) error {
	callback, ok := asMap(v)
	if !ok {
		return c.Failf("callback must be an object, got %T", v)
	}
	return c.WithCondition("isCallback", func() error {
		for _, expression := range sortedKeys(callback) {
			if stringutil.IsExtensionKey(expression) {
				continue
			}
			pop := c.Enter(expression)
			if err := c.validatePathItem(expression, callback[expression]); err != nil {
				pop()
				return err
			}
			pop()
		}
		return nil
	})
}
