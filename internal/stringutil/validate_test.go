package stringutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidComponentName(t *testing.T) {
	valid := []string{"Pet", "pet_store", "pet-store", "v1.Pet", "A", "123"}
	for _, name := range valid {
		assert.True(t, IsValidComponentName(name), name)
	}

	invalid := []string{"", "pet store", "pet/store", "pet{store}", "päts", "a%b"}
	for _, name := range invalid {
		assert.False(t, IsValidComponentName(name), name)
	}
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("support@example.com"))
	assert.True(t, IsValidEmail("a.b+c@sub.example.org"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("@example.com"))
	assert.False(t, IsValidEmail("user@"))
}

func TestIsExtensionKey(t *testing.T) {
	assert.True(t, IsExtensionKey("x-internal"))
	assert.False(t, IsExtensionKey("x-"))
	assert.False(t, IsExtensionKey("ext-internal"))
	assert.False(t, IsExtensionKey("X-internal"))
}
