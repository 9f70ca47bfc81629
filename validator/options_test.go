package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oasverify/oasverify/linter"
)

func TestApplyOptionsDefaults(t *testing.T) {
	c, err := applyOptions([]Option{WithDocument(map[string]any{"openapi": "3.0.0"})})
	require.NoError(t, err)

	assert.Equal(t, StructuralBoth, c.v.StructuralPass)
	assert.True(t, c.v.Lint)
	assert.NotNil(t, c.v.Rules)
	assert.False(t, c.v.LaxURLs)
}

func TestApplyOptionsOverrides(t *testing.T) {
	rules, err := linter.ParseRules([]byte("rules: []"))
	require.NoError(t, err)

	c, err := applyOptions([]Option{
		WithDocument(map[string]any{"openapi": "3.0.0"}),
		WithStructuralPass(StructuralAfter),
		WithLint(false),
		WithLintRules(rules),
		WithBaseURL("https://example.com/specs/"),
		WithLaxURLs(true),
		WithLenientMediaTypes(true),
		WithAllowEquivalentPaths(true),
	})
	require.NoError(t, err)

	assert.Equal(t, StructuralAfter, c.v.StructuralPass)
	assert.False(t, c.v.Lint)
	assert.Same(t, rules, c.v.Rules)
	assert.Equal(t, "https://example.com/specs/", c.v.BaseURL)
	assert.True(t, c.v.LaxURLs)
	assert.True(t, c.v.LenientMediaTypes)
	assert.True(t, c.v.AllowEquivalentPaths)
}

func TestExactlyOneInputSource(t *testing.T) {
	_, err := ValidateWithOptions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")

	_, err = ValidateWithOptions(
		WithFilePath("api.yaml"),
		WithDocument(map[string]any{"openapi": "3.0.0"}),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}
