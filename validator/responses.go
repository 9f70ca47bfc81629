package validator

import (
	"mime"
	"strings"

	"github.com/oasverify/oasverify/internal/httputil"
	"github.com/oasverify/oasverify/internal/stringutil"
)

// validateResponses checks a responses map: at least one response, and every
// key a valid status code, wildcard range, or "default".
func (c *Context) validateResponses(v any) error {
	defer c.Enter("responses")()

	responses, ok := asMap(v)
	if !ok {
		return c.Failf("responses must be an object, got %T", v)
	}

	count := 0
	for _, code := range sortedKeys(responses) {
		if stringutil.IsExtensionKey(code) {
			continue
		}
		count++
		if !httputil.ValidateStatusCode(code) {
			return c.Failf("responses key %q is not a status code, wildcard range, or \"default\"", code)
		}
		pop := c.Enter(code)
		var err error
		if node, ok := asMap(responses[code]); ok && isReferenceNode(node) {
			err = c.validateReferenceNode(node)
		} else {
			err = c.validateResponse(responses[code])
		}
		pop()
		if err != nil {
			return err
		}
	}
	if count == 0 {
		return c.Failf("responses must declare at least one response")
	}
	return nil
}

// validateResponse checks one response object. The description is the only
// mandatory field.
func (c *Context) validateResponse(v any) error {
	response, ok := asMap(v)
	if !ok {
		return c.Failf("response must be an object, got %T", v)
	}
	c.Lint("response", response)

	if _, ok := asString(response["description"]); !ok {
		return c.Failf("response must have a description string")
	}

	if raw, present := response["headers"]; present {
		if err := c.validateNamedMap(raw, "headers", func(c *Context, v any) error {
			return c.validateHeader(v)
		}); err != nil {
			return err
		}
	}
	if raw, present := response["content"]; present {
		if err := c.validateContent(raw); err != nil {
			return err
		}
	}
	if raw, present := response["links"]; present {
		if err := c.validateNamedMap(raw, "links", func(c *Context, v any) error {
			return c.validateLink(v)
		}); err != nil {
			return err
		}
	}
	return nil
}

// validateNamedMap walks a name-keyed map of reference-or-inline objects
// such as a response's headers or links.
func (c *Context) validateNamedMap(raw any, key string, validate func(*Context, any) error) error {
	defer c.Enter(key)()

	entries, ok := asMap(raw)
	if !ok {
		return c.Failf("%s must be an object, got %T", key, raw)
	}
	for _, name := range sortedKeys(entries) {
		if stringutil.IsExtensionKey(name) {
			continue
		}
		pop := c.Enter(name)
		var err error
		if node, ok := asMap(entries[name]); ok && isReferenceNode(node) {
			err = c.validateReferenceNode(node)
		} else {
			err = validate(c, entries[name])
		}
		pop()
		if err != nil {
			return err
		}
	}
	return nil
}

// validateContent walks a media-type-keyed content map. Keys must parse as
// media types (wildcard forms like */* included) unless the lenient option
// is set.
func (c *Context) validateContent(v any) error {
	defer c.Enter("content")()

	content, ok := asMap(v)
	if !ok {
		return c.Failf("content must be an object, got %T", v)
	}
	for _, mediaType := range sortedKeys(content) {
		if !c.v.LenientMediaTypes {
			if _, _, err := mime.ParseMediaType(mediaType); err != nil {
				return c.Failf("content key %q is not a valid media type: %v", mediaType, err)
			}
			if !strings.Contains(mediaType, "/") {
				return c.Failf("content key %q is not a valid media type: missing subtype", mediaType)
			}
		}
		pop := c.Enter(mediaType)
		if err := c.validateMediaType(content[mediaType]); err != nil {
			pop()
			return err
		}
		pop()
	}
	return nil
}

// validateMediaType checks one media type object: its schema, the
// example/examples exclusivity, and any encoding entries.
func (c *Context) validateMediaType(v any) error {
	mt, ok := asMap(v)
	if !ok {
		return c.Failf("media type must be an object, got %T", v)
	}

	_, hasExample := mt["example"]
	_, hasExamples := mt["examples"]
	if hasExample && hasExamples {
		return c.Failf("media type must not have both example and examples")
	}

	if raw, present := mt["schema"]; present {
		pop := c.Enter("schema")
		err := c.validateSchemaRoot(raw)
		pop()
		if err != nil {
			return err
		}
	}
	if hasExamples {
		if err := c.validateNamedMap(mt["examples"], "examples", func(c *Context, v any) error {
			return c.validateExample(v)
		}); err != nil {
			return err
		}
	}
	if raw, present := mt["encoding"]; present {
		if err := c.validateEncoding(raw); err != nil {
			return err
		}
	}
	return nil
}

// validateEncoding checks the encoding map of a media type object.
func (c *Context) validateEncoding(raw any) error {
	defer c.Enter("encoding")()

	encoding, ok := asMap(raw)
	if !ok {
		return c.Failf("encoding must be an object, got %T", raw)
	}
	for _, name := range sortedKeys(encoding) {
		pop := c.Enter(name)
		entry, ok := asMap(encoding[name])
		if !ok {
			err := c.Failf("encoding entry must be an object, got %T", encoding[name])
			pop()
			return err
		}
		if hdrs, present := entry["headers"]; present {
			if err := c.validateNamedMap(hdrs, "headers", func(c *Context, v any) error {
				return c.validateHeader(v)
			}); err != nil {
				pop()
				return err
			}
		}
		pop()
	}
	return nil
}

// validateRequestBody checks a request body object: content is mandatory.
func (c *Context) validateRequestBody(v any) error {
	body, ok := asMap(v)
	if !ok {
		return c.Failf("request body must be an object, got %T", v)
	}
	c.Lint("requestBody", body)

	if raw, present := body["required"]; present {
		if _, ok := asBool(raw); !ok {
			return c.Failf("required must be a boolean, got %T", raw)
		}
	}
	raw, present := body["content"]
	if !present {
		return c.Failf("request body must have a content object")
	}
	return c.validateContent(raw)
}

// validateLink checks a link object. A link names its target operation by
// exactly one of operationId or operationRef; internal operationRef pointers
// must resolve.
func (c *Context) validateLink(v any) error {
	link, ok := asMap(v)
	if !ok {
		return c.Failf("link must be an object, got %T", v)
	}
	c.Lint("link", link)

	_, hasID := link["operationId"]
	rawRef, hasRef := link["operationRef"]
	if hasID && hasRef {
		return c.Failf("link must not have both operationId and operationRef")
	}
	if !hasID && !hasRef {
		return c.Failf("link must have one of operationId or operationRef")
	}
	if hasRef {
		ref, ok := asString(rawRef)
		if !ok {
			return c.Failf("operationRef must be a string, got %T", rawRef)
		}
		if classifyRef(ref) == refInternal {
			if _, ok := resolveInternal(c.doc, ref); !ok {
				return c.Failf("operationRef %q does not resolve to a node in the document", ref)
			}
		} else if err := c.validateURL(ref); err != nil {
			return err
		}
	}
	if raw, present := link["server"]; present {
		pop := c.Enter("server")
		err := c.validateServer(raw)
		pop()
		if err != nil {
			return err
		}
	}
	return nil
}

// validateExample checks an example object: value and externalValue are
// mutually exclusive, and externalValue must be a well-formed URL.
func (c *Context) validateExample(v any) error {
	example, ok := asMap(v)
	if !ok {
		return c.Failf("example must be an object, got %T", v)
	}

	_, hasValue := example["value"]
	rawExternal, hasExternal := example["externalValue"]
	if hasValue && hasExternal {
		return c.Failf("example must not have both value and externalValue")
	}
	if hasExternal {
		external, ok := asString(rawExternal)
		if !ok {
			return c.Failf("externalValue must be a string, got %T", rawExternal)
		}
		if err := c.validateURL(external); err != nil {
			return err
		}
	}
	return nil
}
