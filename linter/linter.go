// Package linter implements a declarative, non-fatal lint rule interpreter
// for OpenAPI documents.
//
// Rules are data, not code: a rule set is a YAML list of rule records, each
// naming the object kind it targets (or "*" for any kind), an optional named
// skip condition, and exactly one check primitive (truthy, pattern, or, xor,
// notEndWith, notContain, if/then, properties). The engine evaluates rules
// against a generic key-value view of any document object; a failed check
// produces a finding, never an error, and evaluation never aborts a
// validation run.
package linter

import (
	"fmt"

	"go.yaml.in/yaml/v4"

	"github.com/oasverify/oasverify/internal/issues"
	"github.com/oasverify/oasverify/internal/severity"
)

// Finding is a single non-fatal lint result.
type Finding = issues.Issue

// Rule is one compiled lint rule.
type Rule struct {
	// Name uniquely identifies the rule within its set
	Name string
	// Object is the document object kind the rule targets, or "*" for any
	Object string
	// Description documents the convention the rule enforces
	Description string
	// Disabled excludes the rule from evaluation without removing it
	Disabled bool
	// Skip names a condition under which the rule does not apply
	// (e.g., "isCallback" while inside a callback-expanded operation)
	Skip string

	check check
}

// RuleSet is a compiled collection of rules ready for evaluation.
type RuleSet struct {
	rules []*Rule
}

// Rules returns the compiled rules in declaration order.
func (rs *RuleSet) Rules() []*Rule { return rs.rules }

// Len returns the number of rules, including disabled ones.
func (rs *RuleSet) Len() int { return len(rs.rules) }

// ruleFile is the on-disk shape of a rule set.
type ruleFile struct {
	Rules []rawRule `yaml:"rules"`
}

// rawRule is the on-disk shape of one rule record. Exactly one of the check
// primitive fields must be set.
type rawRule struct {
	Name        string      `yaml:"name"`
	Object      string      `yaml:"object"`
	Description string      `yaml:"description"`
	Disabled    bool        `yaml:"disabled"`
	Skip        string      `yaml:"skip"`
	Truthy      any         `yaml:"truthy"`
	Pattern     *rawPattern `yaml:"pattern"`
	Or          []string    `yaml:"or"`
	Xor         []string    `yaml:"xor"`
	NotEndWith  *rawSuffix  `yaml:"notEndWith"`
	NotContain  *rawLiteral `yaml:"notContain"`
	If          *rawIf      `yaml:"if"`
	Properties  *int        `yaml:"properties"`
}

type rawPattern struct {
	Property string `yaml:"property"`
	Omit     string `yaml:"omit"`
	Split    string `yaml:"split"`
	Value    string `yaml:"value"`
}

type rawSuffix struct {
	Property string `yaml:"property"`
	Value    string `yaml:"value"`
	Omit     string `yaml:"omit"`
}

type rawLiteral struct {
	Property string `yaml:"property"`
	Value    string `yaml:"value"`
}

type rawIf struct {
	Property string  `yaml:"property"`
	Then     rawRule `yaml:"then"`
}

// ParseRules compiles a YAML rule set. Rules with unknown or ambiguous check
// primitives are rejected at parse time, not at evaluation time.
func ParseRules(data []byte) (*RuleSet, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("linter: invalid rule set: %w", err)
	}

	rs := &RuleSet{rules: make([]*Rule, 0, len(file.Rules))}
	seen := make(map[string]bool, len(file.Rules))
	for i, raw := range file.Rules {
		if raw.Name == "" {
			return nil, fmt.Errorf("linter: rule %d has no name", i)
		}
		if seen[raw.Name] {
			return nil, fmt.Errorf("linter: duplicate rule name %q", raw.Name)
		}
		seen[raw.Name] = true

		chk, err := compileCheck(raw)
		if err != nil {
			return nil, fmt.Errorf("linter: rule %q: %w", raw.Name, err)
		}

		object := raw.Object
		if object == "" {
			object = "*"
		}
		rs.rules = append(rs.rules, &Rule{
			Name:        raw.Name,
			Object:      object,
			Description: raw.Description,
			Disabled:    raw.Disabled,
			Skip:        raw.Skip,
			check:       chk,
		})
	}
	return rs, nil
}

// Apply evaluates every applicable rule against one document object and
// returns the findings, in rule declaration order. kind is the object kind
// ("operation", "parameter", ...), path locates the object for reporting,
// and conditions holds the currently active named skip conditions.
func (rs *RuleSet) Apply(kind, path string, obj map[string]any, conditions map[string]bool) []Finding {
	var findings []Finding
	for _, rule := range rs.rules {
		if rule.Disabled {
			continue
		}
		if rule.Object != "*" && rule.Object != kind {
			continue
		}
		if rule.Skip != "" && conditions[rule.Skip] {
			continue
		}
		if ok, detail := rule.check.eval(obj); !ok {
			msg := rule.Description
			if msg == "" {
				msg = detail
			} else if detail != "" {
				msg = fmt.Sprintf("%s (%s)", msg, detail)
			}
			findings = append(findings, Finding{
				Path:     path,
				Message:  msg,
				Severity: severity.SeverityHint,
				Rule:     rule.Name,
				Kind:     kind,
			})
		}
	}
	return findings
}
