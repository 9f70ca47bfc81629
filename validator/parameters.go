package validator

// parameterStyles lists the serialization styles allowed per location.
var parameterStyles = map[string]map[string]bool{
	"query":  {"form": true, "spaceDelimited": true, "pipeDelimited": true, "deepObject": true},
	"header": {"simple": true},
	"path":   {"matrix": true, "label": true, "simple": true},
	"cookie": {"form": true},
}

// validateParameter checks one inline parameter object. templateParams, when
// non-nil, is the placeholder set of the enclosing path template; a nil map
// means the parameter is a reusable component with no template in scope.
func (c *Context) validateParameter(v any, templateParams map[string]bool) error {
	param, ok := asMap(v)
	if !ok {
		return c.Failf("parameter must be an object, got %T", v)
	}
	c.Lint("parameter", param)

	name, ok := asString(param["name"])
	if !ok {
		return c.Failf("parameter must have a name string")
	}
	in, ok := asString(param["in"])
	if !ok {
		return c.Failf("parameter %q must have an in string", name)
	}

	switch in {
	case "query", "header", "path", "cookie":
	case "body", "formData":
		return c.Failf("parameter location %q belongs to OpenAPI 2.0; use requestBody instead", in)
	default:
		return c.Failf("parameter location %q is not one of query, header, path, cookie", in)
	}

	if in == "path" {
		required, ok := asBool(param["required"])
		if !ok || !required {
			return c.Failf("path parameter %q must set required: true", name)
		}
		if templateParams != nil && !templateParams[name] {
			return c.Failf("declared path parameter %q does not appear in the path template", name)
		}
	}

	if raw, present := param["style"]; present {
		style, ok := asString(raw)
		if !ok {
			return c.Failf("style must be a string, got %T", raw)
		}
		if !parameterStyles[in][style] {
			return c.Failf("style %q is not valid for parameters in %q", style, in)
		}
	}

	return c.validateSchemaOrContent(param, "parameter")
}

// validateSchemaOrContent enforces the exactly-one-of schema/content rule
// shared by parameters and headers, then descends into whichever is present.
func (c *Context) validateSchemaOrContent(node map[string]any, what string) error {
	_, hasSchema := node["schema"]
	_, hasContent := node["content"]
	switch {
	case hasSchema && hasContent:
		return c.Failf("%s must not have both schema and content", what)
	case !hasSchema && !hasContent:
		return c.Failf("%s must have either schema or content", what)
	}

	if hasSchema {
		defer c.Enter("schema")()
		return c.validateSchemaRoot(node["schema"])
	}

	content, ok := asMap(node["content"])
	if !ok {
		defer c.Enter("content")()
		return c.Failf("content must be an object, got %T", node["content"])
	}
	if len(content) != 1 {
		defer c.Enter("content")()
		return c.Failf("%s content must have exactly one media type entry, found %d", what, len(content))
	}
	return c.validateContent(node["content"])
}

// headerForbiddenKeys may not appear on header objects: name and in are
// implied by the map key, the rest are v2 leftovers.
var headerForbiddenKeys = []string{"name", "in", "type", "items", "collectionFormat"}

// validateHeader checks a header object, the parameter variant keyed by
// header name.
func (c *Context) validateHeader(v any) error {
	header, ok := asMap(v)
	if !ok {
		return c.Failf("header must be an object, got %T", v)
	}
	c.Lint("header", header)

	for _, key := range headerForbiddenKeys {
		if _, present := header[key]; present {
			return c.Failf("header must not have key %q", key)
		}
	}
	if raw, present := header["style"]; present {
		style, ok := asString(raw)
		if !ok {
			return c.Failf("style must be a string, got %T", raw)
		}
		if style != "simple" {
			return c.Failf("header style must be simple, got %q", style)
		}
	}
	return c.validateSchemaOrContent(header, "header")
}
