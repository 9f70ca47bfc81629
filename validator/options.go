package validator

import (
	"github.com/oasverify/oasverify/internal/options"
	"github.com/oasverify/oasverify/linter"
	"github.com/oasverify/oasverify/parser"
)

// config collects the settings for one ValidateWithOptions call.
type config struct {
	filePath string
	document map[string]any

	v *Validator
}

// Option configures a single validation run.
type Option func(*config)

// WithFilePath sets the document source to a file on disk. Exactly one of
// WithFilePath and WithDocument must be given.
func WithFilePath(path string) Option {
	return func(c *config) { c.filePath = path }
}

// WithDocument sets the document source to an already decoded tree.
func WithDocument(doc map[string]any) Option {
	return func(c *config) { c.document = doc }
}

// WithStructuralPass selects when the schema engine runs.
func WithStructuralPass(mode StructuralMode) Option {
	return func(c *config) { c.v.StructuralPass = mode }
}

// WithLint toggles the declarative rule engine.
func WithLint(enabled bool) Option {
	return func(c *config) { c.v.Lint = enabled }
}

// WithLintRules replaces the default rule set.
func WithLintRules(rules *linter.RuleSet) Option {
	return func(c *config) { c.v.Rules = rules }
}

// WithBaseURL sets the base for resolving relative external references,
// overriding the document's first server URL.
func WithBaseURL(base string) Option {
	return func(c *config) { c.v.BaseURL = base }
}

// WithLaxURLs skips URL well-formedness checks.
func WithLaxURLs(lax bool) Option {
	return func(c *config) { c.v.LaxURLs = lax }
}

// WithLenientMediaTypes skips media-type syntax checks on content keys.
func WithLenientMediaTypes(lenient bool) Option {
	return func(c *config) { c.v.LenientMediaTypes = lenient }
}

// WithAllowEquivalentPaths permits path templates that collide after
// placeholder normalization.
func WithAllowEquivalentPaths(allow bool) Option {
	return func(c *config) { c.v.AllowEquivalentPaths = allow }
}

// WithLogger sets the structured logger for the run.
func WithLogger(logger parser.Logger) Option {
	return func(c *config) { c.v.Logger = logger }
}

// applyOptions builds and checks the run configuration.
func applyOptions(opts []Option) (*config, error) {
	c := &config{v: New()}
	for _, opt := range opts {
		opt(c)
	}
	err := options.ValidateSingleInputSource(
		"one of WithFilePath or WithDocument is required",
		"WithFilePath and WithDocument are mutually exclusive",
		c.filePath != "", c.document != nil,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ValidateWithOptions runs one validation configured entirely through
// functional options.
func ValidateWithOptions(opts ...Option) (*Result, error) {
	c, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	if c.filePath != "" {
		return c.v.Validate(c.filePath)
	}
	return c.v.ValidateDocument(c.document)
}
