package validator

import (
	"github.com/oasverify/oasverify/internal/stringutil"
)

// securitySchemeKeys lists the type-specific keys allowed per scheme type.
// type and description are always allowed; a key from another type's column
// is a failure, not an ignorable extra.
var securitySchemeKeys = map[string]map[string]bool{
	"apiKey":        {"name": true, "in": true},
	"http":          {"scheme": true, "bearerFormat": true},
	"oauth2":        {"flows": true},
	"openIdConnect": {"openIdConnectUrl": true},
}

// flowRequirements maps each OAuth2 flow kind to its required URL fields.
// Every flow additionally requires a scopes map.
var flowRequirements = map[string][]string{
	"implicit":          {"authorizationUrl"},
	"password":          {"tokenUrl"},
	"clientCredentials": {"tokenUrl"},
	"authorizationCode": {"authorizationUrl", "tokenUrl"},
}

// validateSecurityScheme checks one security scheme definition.
func (c *Context) validateSecurityScheme(v any) error {
	scheme, ok := asMap(v)
	if !ok {
		return c.Failf("security scheme must be an object, got %T", v)
	}
	c.Lint("securityScheme", scheme)

	typ, ok := asString(scheme["type"])
	if !ok {
		return c.Failf("security scheme must have a type string")
	}
	allowed, known := securitySchemeKeys[typ]
	if !known {
		if typ == "basic" {
			return c.Failf("security scheme type \"basic\" belongs to OpenAPI 2.0; use type: http with scheme: basic")
		}
		return c.Failf("security scheme type %q is not one of apiKey, http, oauth2, openIdConnect", typ)
	}

	for _, key := range sortedKeys(scheme) {
		if key == "type" || key == "description" || stringutil.IsExtensionKey(key) {
			continue
		}
		if !allowed[key] {
			return c.Failf("key %q is not allowed on a security scheme of type %q", key, typ)
		}
	}

	switch typ {
	case "apiKey":
		return c.validateAPIKeyScheme(scheme)
	case "http":
		if _, ok := asString(scheme["scheme"]); !ok {
			return c.Failf("http security scheme must have a scheme string")
		}
	case "oauth2":
		return c.validateOAuthFlows(scheme["flows"])
	case "openIdConnect":
		rawURL, ok := asString(scheme["openIdConnectUrl"])
		if !ok {
			return c.Failf("openIdConnect security scheme must have an openIdConnectUrl string")
		}
		return c.validateURL(rawURL)
	}
	return nil
}

func (c *Context) validateAPIKeyScheme(scheme map[string]any) error {
	if _, ok := asString(scheme["name"]); !ok {
		return c.Failf("apiKey security scheme must have a name string")
	}
	in, ok := asString(scheme["in"])
	if !ok {
		return c.Failf("apiKey security scheme must have an in string")
	}
	switch in {
	case "query", "header", "cookie":
		return nil
	}
	return c.Failf("apiKey location %q is not one of query, header, cookie", in)
}

// validateOAuthFlows checks the flows object of an oauth2 scheme: at least
// one known flow, each with its required URLs and a scopes map.
func (c *Context) validateOAuthFlows(v any) error {
	defer c.Enter("flows")()

	flows, ok := asMap(v)
	if !ok {
		return c.Failf("oauth2 security scheme must have a flows object, got %T", v)
	}

	count := 0
	for _, kind := range sortedKeys(flows) {
		if stringutil.IsExtensionKey(kind) {
			continue
		}
		required, known := flowRequirements[kind]
		if !known {
			return c.Failf("unknown OAuth2 flow %q", kind)
		}
		count++
		pop := c.Enter(kind)
		if err := c.validateOAuthFlow(flows[kind], required); err != nil {
			pop()
			return err
		}
		pop()
	}
	if count == 0 {
		return c.Failf("flows must declare at least one flow")
	}
	return nil
}

func (c *Context) validateOAuthFlow(v any, requiredURLs []string) error {
	flow, ok := asMap(v)
	if !ok {
		return c.Failf("flow must be an object, got %T", v)
	}
	for _, field := range requiredURLs {
		rawURL, ok := asString(flow[field])
		if !ok {
			return c.Failf("flow must have a %s string", field)
		}
		if err := c.validateURL(rawURL); err != nil {
			return err
		}
	}
	if rawURL, ok := asString(flow["refreshUrl"]); ok {
		if err := c.validateURL(rawURL); err != nil {
			return err
		}
	}
	scopes, ok := asMap(flow["scopes"])
	if !ok {
		return c.Failf("flow must have a scopes object")
	}
	for _, scope := range sortedKeys(scopes) {
		if _, ok := asString(scopes[scope]); !ok {
			return c.Failf("scope %q must map to a description string", scope)
		}
	}
	return nil
}

// validateSecurityRequirements checks a security array at the document root
// or on an operation. Every named scheme must be declared, and scope lists
// are only meaningful for oauth2 and openIdConnect schemes; oauth2 scopes
// must additionally be drawn from the scheme's declared flows.
func (c *Context) validateSecurityRequirements(v any) error {
	defer c.Enter("security")()

	requirements, ok := asSlice(v)
	if !ok {
		return c.Failf("security must be an array, got %T", v)
	}
	for i, entry := range requirements {
		pop := c.Enter(indexSegment(i))
		if err := c.validateSecurityRequirement(entry); err != nil {
			pop()
			return err
		}
		pop()
	}
	return nil
}

func (c *Context) validateSecurityRequirement(entry any) error {
	requirement, ok := asMap(entry)
	if !ok {
		return c.Failf("security requirement must be an object, got %T", entry)
	}
	for _, name := range sortedKeys(requirement) {
		scheme, declared := lookupSecurityScheme(c.doc, name)
		if !declared {
			return c.Failf("security requirement names undeclared scheme %q", name)
		}
		scopes, ok := asSlice(requirement[name])
		if !ok {
			return c.Failf("security requirement %q must map to an array of scopes", name)
		}

		typ, _ := asString(scheme["type"])
		switch typ {
		case "oauth2":
			declared, _ := c.ScopesFor(name)
			for _, rawScope := range scopes {
				scope, ok := asString(rawScope)
				if !ok {
					return c.Failf("scopes for %q must be strings, got %T", name, rawScope)
				}
				if !declared[scope] {
					return c.Failf("scope %q is not declared by any flow of security scheme %q", scope, name)
				}
			}
		case "openIdConnect":
			for _, rawScope := range scopes {
				if _, ok := asString(rawScope); !ok {
					return c.Failf("scopes for %q must be strings, got %T", name, rawScope)
				}
			}
		default:
			if len(scopes) != 0 {
				return c.Failf("security scheme %q of type %q must use an empty scope list", name, typ)
			}
		}
	}
	return nil
}
