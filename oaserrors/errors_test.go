package oaserrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemanticErrorIs(t *testing.T) {
	err := &SemanticError{Path: "paths//pets/get", Message: "responses is required"}

	assert.True(t, errors.Is(err, ErrSemantic))
	assert.False(t, errors.Is(err, ErrStructural))
	assert.False(t, errors.Is(err, ErrVersion))
}

func TestSemanticErrorAs(t *testing.T) {
	var err error = fmt.Errorf("validate: %w", &SemanticError{Path: "info", Message: "title is required"})

	var semErr *SemanticError
	require.True(t, errors.As(err, &semErr))
	assert.Equal(t, "info", semErr.Path)
	assert.Contains(t, semErr.Error(), "title is required")
}

func TestStructuralErrorAggregates(t *testing.T) {
	err := &StructuralError{
		Violations: []StructuralViolation{
			{InstancePath: "/info", Message: "missing property 'title'"},
			{InstancePath: "/paths", Message: "expected object, got array"},
		},
	}

	assert.True(t, errors.Is(err, ErrStructural))
	assert.Contains(t, err.Error(), "2 violation(s)")
	assert.Contains(t, err.Error(), "/info: missing property 'title'")
	assert.Contains(t, err.Error(), "/paths: expected object, got array")
}

func TestStructuralErrorUnwrap(t *testing.T) {
	cause := errors.New("compile failure")
	err := &StructuralError{Cause: cause}

	assert.True(t, errors.Is(err, cause))
}

func TestVersionError(t *testing.T) {
	err := &VersionError{Version: "2.0", Message: "only OpenAPI 3.0.x is supported"}

	assert.True(t, errors.Is(err, ErrVersion))
	assert.Contains(t, err.Error(), "2.0")

	noVersion := &VersionError{Message: "missing openapi field"}
	assert.NotContains(t, noVersion.Error(), "found")
}
