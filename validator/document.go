package validator

import (
	"github.com/oasverify/oasverify/internal/stringutil"
)

// legacyRootKeys are v2 document keys whose presence marks a document that
// was not (or not fully) converted. Any one of them fails the run.
var legacyRootKeys = []string{
	"host", "basePath", "schemes", "definitions", "parameters",
	"responses", "securityDefinitions", "produces", "consumes",
}

// validateDocument is the entry point of the recursive walk. The descent
// order is fixed so repeated runs over the same document report identically.
func (c *Context) validateDocument() error {
	for _, key := range legacyRootKeys {
		if _, present := c.doc[key]; present {
			return c.Failf("key %q belongs to OpenAPI 2.0 and is not allowed at the document root", key)
		}
	}

	c.Lint("openapi", c.doc)

	info, present := c.doc["info"]
	if !present {
		return c.Failf("document must have an info object")
	}
	if err := c.validateInfo(info); err != nil {
		return err
	}

	if v, present := c.doc["servers"]; present {
		if err := c.validateServers(v); err != nil {
			return err
		}
	}
	if v, present := c.doc["tags"]; present {
		if err := c.validateTags(v); err != nil {
			return err
		}
	}
	if v, present := c.doc["externalDocs"]; present {
		if err := c.validateExternalDocs(v); err != nil {
			return err
		}
	}
	if v, present := c.doc["security"]; present {
		if err := c.validateSecurityRequirements(v); err != nil {
			return err
		}
	}

	paths, present := c.doc["paths"]
	if !present {
		return c.Failf("document must have a paths object")
	}
	if err := c.validatePaths(paths); err != nil {
		return err
	}

	if v, present := c.doc["components"]; present {
		if err := c.validateComponents(v); err != nil {
			return err
		}
	}
	return nil
}

// validateInfo checks the required title and version and warns about
// malformed contact and license details. Contact and license problems never
// fail a run; real-world documents get these wrong constantly.
func (c *Context) validateInfo(v any) error {
	defer c.Enter("info")()

	info, ok := asMap(v)
	if !ok {
		return c.Failf("info must be an object, got %T", v)
	}
	c.Lint("info", info)

	if _, ok := asString(info["title"]); !ok {
		return c.Failf("info must have a title string")
	}
	if _, ok := asString(info["version"]); !ok {
		return c.Failf("info must have a version string")
	}

	if tos, ok := asString(info["termsOfService"]); ok {
		if err := c.validateURL(tos); err != nil {
			c.WarnField("termsOfService", tos, "termsOfService is not a valid URL: %q", tos)
		}
	}
	if contact, ok := asMap(info["contact"]); ok {
		pop := c.Enter("contact")
		if email, ok := asString(contact["email"]); ok && !stringutil.IsValidEmail(email) {
			c.WarnField("email", email, "contact email %q is not a valid email address", email)
		}
		if rawURL, ok := asString(contact["url"]); ok {
			if err := c.validateURL(rawURL); err != nil {
				c.WarnField("url", rawURL, "contact url is not a valid URL: %q", rawURL)
			}
		}
		pop()
	}
	if license, ok := asMap(info["license"]); ok {
		pop := c.Enter("license")
		if _, ok := asString(license["name"]); !ok {
			c.Warnf("license should have a name")
		}
		if rawURL, ok := asString(license["url"]); ok {
			if err := c.validateURL(rawURL); err != nil {
				c.WarnField("url", rawURL, "license url is not a valid URL: %q", rawURL)
			}
		}
		pop()
	}
	return nil
}

// validateTags checks the top-level tag declarations for shape and
// run-unique names.
func (c *Context) validateTags(v any) error {
	defer c.Enter("tags")()

	tags, ok := asSlice(v)
	if !ok {
		return c.Failf("tags must be an array, got %T", v)
	}
	for i, entry := range tags {
		pop := c.Enter(indexSegment(i))
		tag, ok := asMap(entry)
		if !ok {
			pop()
			return c.Failf("tag must be an object, got %T", entry)
		}
		c.Lint("tag", tag)
		name, ok := asString(tag["name"])
		if !ok {
			pop()
			return c.Failf("tag must have a name string")
		}
		if err := c.ClaimTagName(name); err != nil {
			pop()
			return err
		}
		if docs, present := tag["externalDocs"]; present {
			if err := c.validateExternalDocs(docs); err != nil {
				pop()
				return err
			}
		}
		pop()
	}
	return nil
}

// validateExternalDocs checks an externalDocs object wherever it appears.
func (c *Context) validateExternalDocs(v any) error {
	defer c.Enter("externalDocs")()

	docs, ok := asMap(v)
	if !ok {
		return c.Failf("externalDocs must be an object, got %T", v)
	}
	rawURL, ok := asString(docs["url"])
	if !ok {
		return c.Failf("externalDocs must have a url")
	}
	return c.validateURL(rawURL)
}

// componentSection names a components sub-map and the validator applied to
// each of its entries.
type componentSection struct {
	name     string
	validate func(*Context, any) error
}

// componentSections lists every recognized components sub-map in descent
// order. All sections but securitySchemes admit reference objects in place
// of inline definitions.
var componentSections = []componentSection{
	{"schemas", func(c *Context, v any) error { return c.validateSchemaRoot(v) }},
	{"responses", refOr(func(c *Context, v any) error { return c.validateResponse(v) })},
	{"parameters", refOr(func(c *Context, v any) error { return c.validateParameter(v, nil) })},
	{"examples", refOr(func(c *Context, v any) error { return c.validateExample(v) })},
	{"requestBodies", refOr(func(c *Context, v any) error { return c.validateRequestBody(v) })},
	{"headers", refOr(func(c *Context, v any) error { return c.validateHeader(v) })},
	{"securitySchemes", func(c *Context, v any) error { return c.validateSecurityScheme(v) }},
	{"links", refOr(func(c *Context, v any) error { return c.validateLink(v) })},
	{"callbacks", refOr(func(c *Context, v any) error { return c.validateCallback(v) })},
}

// refOr wraps an entry validator so that reference objects take the strict
// reference-shape path instead.
func refOr(fn func(*Context, any) error) func(*Context, any) error {
	return func(c *Context, v any) error {
		if m, ok := asMap(v); ok && isReferenceNode(m) {
			return c.validateReferenceNode(m)
		}
		return fn(c, v)
	}
}

// validateComponents walks every section of the components object, checking
// entry names against the component-name charset before descending.
func (c *Context) validateComponents(v any) error {
	defer c.Enter("components")()

	components, ok := asMap(v)
	if !ok {
		return c.Failf("components must be an object, got %T", v)
	}

	known := make(map[string]componentSection, len(componentSections))
	for _, section := range componentSections {
		known[section.name] = section
	}
	for _, key := range sortedKeys(components) {
		if stringutil.IsExtensionKey(key) {
			continue
		}
		if _, ok := known[key]; !ok {
			return c.Failf("unknown components section %q", key)
		}
	}

	for _, section := range componentSections {
		raw, present := components[section.name]
		if !present {
			continue
		}
		entries, ok := asMap(raw)
		if !ok {
			defer c.Enter(section.name)()
			return c.Failf("components.%s must be an object, got %T", section.name, raw)
		}
		pop := c.Enter(section.name)
		for _, name := range sortedKeys(entries) {
			entryPop := c.Enter(name)
			if !stringutil.IsValidComponentName(name) {
				err := c.Failf("component name %q may only contain letters, digits, dot, dash, and underscore", name)
				entryPop()
				pop()
				return err
			}
			if err := section.validate(c, entries[name]); err != nil {
				entryPop()
				pop()
				return err
			}
			entryPop()
		}
		pop()
	}
	return nil
}
