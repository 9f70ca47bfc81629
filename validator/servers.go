package validator

import (
	"github.com/oasverify/oasverify/internal/pathutil"
)

// validateServers checks a servers array wherever it appears (document root,
// path item, or operation).
func (c *Context) validateServers(v any) error {
	defer c.Enter("servers")()

	servers, ok := asSlice(v)
	if !ok {
		return c.Failf("servers must be an array, got %T", v)
	}
	for i, entry := range servers {
		pop := c.Enter(indexSegment(i))
		if err := c.validateServer(entry); err != nil {
			pop()
			return err
		}
		pop()
	}
	return nil
}

// validateServer checks one server object: the url is required, and its
// {placeholder} set must match the variables map exactly in both directions.
func (c *Context) validateServer(v any) error {
	server, ok := asMap(v)
	if !ok {
		return c.Failf("server must be an object, got %T", v)
	}
	c.Lint("server", server)

	rawURL, ok := asString(server["url"])
	if !ok {
		return c.Failf("server must have a url string")
	}

	placeholders := make(map[string]bool)
	for _, name := range pathutil.PathParamRegex.FindAllStringSubmatch(rawURL, -1) {
		placeholders[name[1]] = true
	}

	variables := map[string]any{}
	if raw, present := server["variables"]; present {
		variables, ok = asMap(raw)
		if !ok {
			defer c.Enter("variables")()
			return c.Failf("server variables must be an object, got %T", raw)
		}
	}

	for _, name := range sortedKeysOf(placeholders) {
		if _, declared := variables[name]; !declared {
			return c.Failf("server url placeholder {%s} has no matching variable declaration", name)
		}
	}

	pop := c.Enter("variables")
	for _, name := range sortedKeys(variables) {
		if !placeholders[name] {
			err := c.Failf("server variable %q does not appear in url %q", name, rawURL)
			pop()
			return err
		}
		varPop := c.Enter(name)
		if err := c.validateServerVariable(variables[name]); err != nil {
			varPop()
			pop()
			return err
		}
		varPop()
	}
	pop()
	return nil
}

// validateServerVariable checks one server variable: default is required,
// and a declared enum must be a non-empty array of strings.
func (c *Context) validateServerVariable(v any) error {
	variable, ok := asMap(v)
	if !ok {
		return c.Failf("server variable must be an object, got %T", v)
	}
	if _, ok := asString(variable["default"]); !ok {
		return c.Failf("server variable must have a default string")
	}
	if raw, present := variable["enum"]; present {
		enum, ok := asSlice(raw)
		if !ok {
			return c.Failf("server variable enum must be an array, got %T", raw)
		}
		if len(enum) == 0 {
			return c.Failf("server variable enum must not be empty")
		}
		for _, entry := range enum {
			if _, ok := asString(entry); !ok {
				return c.Failf("server variable enum values must be strings, got %T", entry)
			}
		}
	}
	return nil
}
