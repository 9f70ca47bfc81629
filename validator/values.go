package validator

import (
	"maps"
	"slices"
	"strconv"

	"github.com/oasverify/oasverify/internal/pathutil"
)

// Accessors for the generic document tree. YAML decoding produces int/bool/
// string/float64 scalars while JSON decoding produces float64 for every
// number, so the numeric helpers accept both families.

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asBool(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// isInteger reports whether v is a whole number: a Go integer, or a float
// with no fractional part (JSON decodes every number as float64).
func isInteger(v any) bool {
	switch n := v.(type) {
	case int, int64, uint64:
		return true
	case float64:
		return n == float64(int64(n))
	case float32:
		return float64(n) == float64(int64(n))
	}
	return false
}

// sortedKeys returns the map's keys in sorted order. Every walk over a tree
// map iterates in sorted key order so that repeated runs over the same
// document yield identically ordered warnings and findings.
func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}

// sortedKeysOf is sortedKeys for maps with non-any values.
func sortedKeysOf[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}

func normalizePathShape(template string) string {
	return pathutil.NormalizeShape(template)
}

// indexSegment renders a slice index as a context path segment.
func indexSegment(i int) string {
	return strconv.Itoa(i)
}
