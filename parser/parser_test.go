package parser

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oasverify/oasverify/oaserrors"
)

func TestParseYAML(t *testing.T) {
	p := New()
	result, err := p.Parse(filepath.Join("..", "testdata", "petstore.yaml"))
	require.NoError(t, err)

	assert.Equal(t, SourceFormatYAML, result.SourceFormat)
	assert.Equal(t, "3.0.3", result.Version)
	assert.Contains(t, result.Data, "paths")
	assert.Greater(t, result.SourceSize, int64(0))
}

func TestParseBytesJSON(t *testing.T) {
	src := []byte(`{"openapi": "3.0.2", "info": {"title": "t", "version": "1"}, "paths": {}}`)

	p := New()
	result, err := p.ParseBytes(src, "api.json")
	require.NoError(t, err)

	assert.Equal(t, SourceFormatJSON, result.SourceFormat)
	assert.Equal(t, "3.0.2", result.Version)
}

func TestParseBytesSniffsFormat(t *testing.T) {
	p := New()

	result, err := p.ParseBytes([]byte(`{"openapi": "3.0.0"}`), "")
	require.NoError(t, err)
	assert.Equal(t, SourceFormatJSON, result.SourceFormat)

	result, err = p.ParseBytes([]byte("openapi: 3.0.0\n"), "")
	require.NoError(t, err)
	assert.Equal(t, SourceFormatYAML, result.SourceFormat)
}

func TestParseInvalidYAML(t *testing.T) {
	p := New()
	_, err := p.ParseBytes([]byte(":\n  - ]["), "broken.yaml")
	assert.Error(t, err)
}

func TestDetectVersion(t *testing.T) {
	tests := []struct {
		name    string
		tree    map[string]any
		version string
		wantErr bool
	}{
		{name: "3.0.0", tree: map[string]any{"openapi": "3.0.0"}, version: "3.0.0"},
		{name: "3.0.4", tree: map[string]any{"openapi": "3.0.4"}, version: "3.0.4"},
		{name: "release candidate", tree: map[string]any{"openapi": "3.0.0-rc2"}, version: "3.0.0-rc2"},
		{name: "3.1 unsupported", tree: map[string]any{"openapi": "3.1.0"}, wantErr: true},
		{name: "swagger 2.0", tree: map[string]any{"swagger": "2.0"}, wantErr: true},
		{name: "missing marker", tree: map[string]any{"info": map[string]any{}}, wantErr: true},
		{name: "non-string marker", tree: map[string]any{"openapi": 3.0}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			version, err := DetectVersion(tc.tree)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, oaserrors.ErrVersion))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.version, version)
		})
	}
}

func TestParseEmptyDocument(t *testing.T) {
	p := New()
	_, err := p.ParseBytes([]byte(""), "empty.yaml")
	assert.True(t, errors.Is(err, oaserrors.ErrVersion))
}

func TestParseNormalizesNonStringKeys(t *testing.T) {
	src := []byte(`
openapi: "3.0.0"
info:
  title: t
  version: "1"
paths:
  /ping:
    get:
      responses:
        200:
          description: ok
`)

	p := New()
	result, err := p.ParseBytes(src, "api.yaml")
	require.NoError(t, err)

	paths := result.Data["paths"].(map[string]any)
	item := paths["/ping"].(map[string]any)
	op := item["get"].(map[string]any)
	responses, ok := op["responses"].(map[string]any)
	require.True(t, ok, "responses must decode as a string-keyed map")
	assert.Contains(t, responses, "200")
}
