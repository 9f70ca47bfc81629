package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractParams(t *testing.T) {
	assert.Equal(t, []string{"petId", "ownerId"}, ExtractParams("/pets/{petId}/owners/{ownerId}"))
	assert.Empty(t, ExtractParams("/pets"))
	// callback runtime expressions are not path parameters
	assert.Empty(t, ExtractParams("{$request.body#/callbackUrl}"))
	assert.Equal(t, []string{"id"}, ExtractParams("/hooks/{id}/{$request.body#/url}"))
}

func TestNormalizeShape(t *testing.T) {
	assert.Equal(t, "/pets/{}", NormalizeShape("/pets/{a}"))
	assert.Equal(t, NormalizeShape("/pets/{a}"), NormalizeShape("/pets/{b}"))
	assert.NotEqual(t, NormalizeShape("/pets/{a}"), NormalizeShape("/pets/{a}/toys"))
}

func TestValidateTemplate(t *testing.T) {
	valid := []string{"/", "/pets", "/pets/{petId}", "/a/{b}/c/{d}"}
	for _, template := range valid {
		assert.NoError(t, ValidateTemplate(template), template)
	}

	invalid := []string{
		"/pets/{}",
		"/pets/{{a}}",
		"/pets/{a",
		"/pets/a}",
		"/pets//all",
		"/pets?limit=1",
		"/pets/{a}/{a}",
	}
	for _, template := range invalid {
		assert.Error(t, ValidateTemplate(template), template)
	}
}
