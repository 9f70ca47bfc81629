package linter

import (
	_ "embed"
	"fmt"
	"sync"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

var (
	defaultOnce sync.Once
	defaultSet  *RuleSet
)

// Default returns the built-in rule set, compiled once and shared read-only
// across runs.
func Default() *RuleSet {
	defaultOnce.Do(func() {
		rs, err := ParseRules(defaultRulesYAML)
		if err != nil {
			// The embedded rule set is part of the build; failing to parse
			// it is a programming error, not an input error.
			panic(fmt.Sprintf("linter: embedded rule set is invalid: %v", err))
		}
		defaultSet = rs
	})
	return defaultSet
}
