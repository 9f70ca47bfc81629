// Package stringutil provides small string validation helpers shared by the
// validator and linter packages.
package stringutil

import "regexp"

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// componentNameRegex is the restrictive identifier pattern required of names
// under #/components/<kind>/<name>: alphanumerics, dot, dash, underscore.
var componentNameRegex = regexp.MustCompile(`^[a-zA-Z0-9.\-_]+$`)

// IsValidEmail checks if s is a valid email address.
func IsValidEmail(s string) bool {
	return emailRegex.MatchString(s)
}

// IsValidComponentName checks if s is a legal component name.
func IsValidComponentName(s string) bool {
	return componentNameRegex.MatchString(s)
}

// IsExtensionKey reports whether key is a specification extension ("x-"
// prefixed). Extension keys are always allowed alongside any fixed key set.
func IsExtensionKey(key string) bool {
	return len(key) > 2 && key[0] == 'x' && key[1] == '-'
}
