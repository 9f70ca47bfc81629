package linter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/oasverify/oasverify/internal/stringutil"
)

// check is the closed set of rule primitives. Each variant evaluates one
// object and reports whether the convention holds, plus a short detail used
// when the rule has no description of its own.
type check interface {
	eval(obj map[string]any) (ok bool, detail string)
}

// compileCheck converts one raw rule record into its check variant,
// enforcing that exactly one primitive is present.
func compileCheck(raw rawRule) (check, error) {
	var compiled []check

	if raw.Truthy != nil {
		props, err := asStringList(raw.Truthy)
		if err != nil {
			return nil, fmt.Errorf("truthy: %w", err)
		}
		compiled = append(compiled, truthyCheck{props: props})
	}
	if raw.Pattern != nil {
		if raw.Pattern.Property == "" {
			return nil, fmt.Errorf("pattern: property is required")
		}
		re, err := regexp.Compile(raw.Pattern.Value)
		if err != nil {
			return nil, fmt.Errorf("pattern: invalid regex %q: %w", raw.Pattern.Value, err)
		}
		compiled = append(compiled, patternCheck{
			property: raw.Pattern.Property,
			omit:     raw.Pattern.Omit,
			split:    raw.Pattern.Split,
			re:       re,
		})
	}
	if len(raw.Or) > 0 {
		compiled = append(compiled, orCheck{props: raw.Or})
	}
	if len(raw.Xor) > 0 {
		compiled = append(compiled, xorCheck{props: raw.Xor})
	}
	if raw.NotEndWith != nil {
		compiled = append(compiled, notEndWithCheck{
			property: raw.NotEndWith.Property,
			value:    raw.NotEndWith.Value,
			omit:     raw.NotEndWith.Omit,
		})
	}
	if raw.NotContain != nil {
		compiled = append(compiled, notContainCheck{
			property: raw.NotContain.Property,
			value:    raw.NotContain.Value,
		})
	}
	if raw.If != nil {
		if raw.If.Property == "" {
			return nil, fmt.Errorf("if: property is required")
		}
		then, err := compileCheck(raw.If.Then)
		if err != nil {
			return nil, fmt.Errorf("if.then: %w", err)
		}
		compiled = append(compiled, ifCheck{property: raw.If.Property, then: then})
	}
	if raw.Properties != nil {
		compiled = append(compiled, propertiesCheck{count: *raw.Properties})
	}

	switch len(compiled) {
	case 0:
		return nil, fmt.Errorf("no check primitive specified")
	case 1:
		return compiled[0], nil
	default:
		return nil, fmt.Errorf("more than one check primitive specified")
	}
}

func asStringList(v any) ([]string, error) {
	switch val := v.(type) {
	case string:
		return []string{val}, nil
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected string or string list, got %T", v)
	}
}

// isTruthy mirrors the rule language's notion of a meaningful value:
// absent, nil, false, empty strings, empty collections, and numeric zero
// all fail a truthy check.
func isTruthy(v any, present bool) bool {
	if !present || v == nil {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != ""
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	case int:
		return val != 0
	case int64:
		return val != 0
	case uint64:
		return val != 0
	case float64:
		return val != 0
	}
	return true
}

type truthyCheck struct {
	props []string
}

func (c truthyCheck) eval(obj map[string]any) (bool, string) {
	for _, prop := range c.props {
		v, present := obj[prop]
		if !isTruthy(v, present) {
			return false, fmt.Sprintf("%s is missing or empty", prop)
		}
	}
	return true, ""
}

type patternCheck struct {
	property string
	omit     string
	split    string
	re       *regexp.Regexp
}

func (c patternCheck) eval(obj map[string]any) (bool, string) {
	raw, present := obj[c.property]
	if !present {
		return true, ""
	}
	value, ok := raw.(string)
	if !ok {
		return true, ""
	}
	if c.omit != "" {
		value = strings.TrimPrefix(value, c.omit)
	}
	segments := []string{value}
	if c.split != "" {
		segments = strings.Split(value, c.split)
	}
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		if !c.re.MatchString(segment) {
			return false, fmt.Sprintf("%s segment %q does not match %q", c.property, segment, c.re.String())
		}
	}
	return true, ""
}

type orCheck struct {
	props []string
}

func (c orCheck) eval(obj map[string]any) (bool, string) {
	for _, prop := range c.props {
		if _, present := obj[prop]; present {
			return true, ""
		}
	}
	return false, fmt.Sprintf("none of [%s] is present", strings.Join(c.props, ", "))
}

type xorCheck struct {
	props []string
}

func (c xorCheck) eval(obj map[string]any) (bool, string) {
	count := 0
	for _, prop := range c.props {
		if _, present := obj[prop]; present {
			count++
		}
	}
	if count != 1 {
		return false, fmt.Sprintf("exactly one of [%s] must be present, found %d", strings.Join(c.props, ", "), count)
	}
	return true, ""
}

type notEndWithCheck struct {
	property string
	value    string
	omit     string
}

func (c notEndWithCheck) eval(obj map[string]any) (bool, string) {
	raw, present := obj[c.property]
	if !present {
		return true, ""
	}
	value, ok := raw.(string)
	if !ok {
		return true, ""
	}
	// omit names an exact value exempt from the check
	if c.omit != "" && value == c.omit {
		return true, ""
	}
	if strings.HasSuffix(value, c.value) {
		return false, fmt.Sprintf("%s must not end with %q", c.property, c.value)
	}
	return true, ""
}

type notContainCheck struct {
	property string
	value    string
}

func (c notContainCheck) eval(obj map[string]any) (bool, string) {
	raw, present := obj[c.property]
	if !present {
		return true, ""
	}
	value, ok := raw.(string)
	if !ok {
		return true, ""
	}
	if strings.Contains(value, c.value) {
		return false, fmt.Sprintf("%s must not contain %q", c.property, c.value)
	}
	return true, ""
}

type ifCheck struct {
	property string
	then     check
}

func (c ifCheck) eval(obj map[string]any) (bool, string) {
	if _, present := obj[c.property]; !present {
		return true, ""
	}
	return c.then.eval(obj)
}

type propertiesCheck struct {
	count int
}

func (c propertiesCheck) eval(obj map[string]any) (bool, string) {
	n := 0
	for key := range obj {
		if stringutil.IsExtensionKey(key) {
			continue
		}
		n++
	}
	if n != c.count {
		return false, fmt.Sprintf("expected exactly %d propert%s, found %d", c.count, pluralY(c.count), n)
	}
	return true, ""
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}
