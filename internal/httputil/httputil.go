// Package httputil provides HTTP-related validation utilities and constants.
package httputil

import (
	"strconv"
	"strings"
)

// HTTP method names as they appear as path item keys.
const (
	MethodGet     = "get"
	MethodPut     = "put"
	MethodPost    = "post"
	MethodDelete  = "delete"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodPatch   = "patch"
	MethodTrace   = "trace"
)

// Methods lists every operation key a path item may carry, in document order.
var Methods = []string{
	MethodGet, MethodPut, MethodPost, MethodDelete,
	MethodOptions, MethodHead, MethodPatch, MethodTrace,
}

// IsMethod reports whether key names an HTTP operation on a path item.
func IsMethod(key string) bool {
	switch key {
	case MethodGet, MethodPut, MethodPost, MethodDelete,
		MethodOptions, MethodHead, MethodPatch, MethodTrace:
		return true
	}
	return false
}

// ValidateStatusCode checks if a status code string is a valid responses key.
// Valid values are:
//   - "default" for the default response
//   - Wildcard patterns: 1XX, 2XX, 3XX, 4XX, 5XX
//   - Numeric codes: 100-599
func ValidateStatusCode(code string) bool {
	if code == "default" {
		return true
	}
	if len(code) != 3 {
		return false
	}

	// Wildcard patterns (e.g., "2XX", "4XX")
	if strings.HasSuffix(code, "XX") {
		return code[0] >= '1' && code[0] <= '5'
	}

	n, err := strconv.Atoi(code)
	return err == nil && n >= 100 && n <= 599
}
