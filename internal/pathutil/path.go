// Package pathutil provides helpers for OpenAPI path templates: placeholder
// extraction, callback-expression detection, and shape normalization used to
// detect equivalent path collisions.
package pathutil

import (
	"regexp"
	"strings"
)

// PathParamRegex matches path template parameters like {paramName}.
// It captures the parameter name inside the braces.
var PathParamRegex = regexp.MustCompile(`\{([^}]+)\}`)

// ExtractParams extracts parameter names from a path template.
// e.g., "/pets/{petId}/owners/{ownerId}" -> {"petId", "ownerId"}
// Callback runtime expressions (names starting with '$') are excluded.
func ExtractParams(template string) []string {
	matches := PathParamRegex.FindAllStringSubmatch(template, -1)
	params := make([]string, 0, len(matches))
	for _, match := range matches {
		if IsCallbackExpression(match[1]) {
			continue
		}
		params = append(params, match[1])
	}
	return params
}

// IsCallbackExpression reports whether a placeholder name is a callback
// runtime expression such as "$request.body#/url" rather than a declared
// path parameter.
func IsCallbackExpression(name string) bool {
	return strings.HasPrefix(name, "$")
}

// NormalizeShape replaces every placeholder in a path template with a
// positional marker so that two templates differing only in parameter names
// normalize to the same shape: "/pets/{a}" and "/pets/{b}" both become
// "/pets/{}".
func NormalizeShape(template string) string {
	return PathParamRegex.ReplaceAllString(template, "{}")
}

// ValidateTemplate checks that a path template is well-formed: balanced,
// non-nested braces, no empty or duplicate parameter names, no reserved
// characters, no consecutive slashes.
func ValidateTemplate(template string) error {
	if strings.Contains(template, "{}") {
		return errEmptyParam
	}
	if strings.Contains(template, "//") {
		return errConsecutiveSlashes
	}
	if strings.Contains(template, "?") {
		return errReservedQuery
	}

	openCount := 0
	for _, ch := range template {
		switch ch {
		case '{':
			openCount++
			if openCount > 1 {
				return errNestedBraces
			}
		case '}':
			openCount--
			if openCount < 0 {
				return errUnopenedBrace
			}
		}
	}
	if openCount != 0 {
		return errUnclosedBrace
	}

	seen := make(map[string]bool)
	for _, match := range PathParamRegex.FindAllStringSubmatch(template, -1) {
		name := match[1]
		if strings.TrimSpace(name) == "" {
			return errEmptyParam
		}
		if seen[name] {
			return errDuplicateParam
		}
		seen[name] = true
	}
	return nil
}

type templateError string

func (e templateError) Error() string { return string(e) }

const (
	errEmptyParam         = templateError("empty parameter name in path template")
	errConsecutiveSlashes = templateError("path contains consecutive slashes")
	errReservedQuery      = templateError("path contains reserved character '?'")
	errNestedBraces       = templateError("nested braces are not allowed")
	errUnopenedBrace      = templateError("unexpected closing brace")
	errUnclosedBrace      = templateError("unclosed brace in path template")
	errDuplicateParam     = templateError("duplicate parameter name in path template")
)
