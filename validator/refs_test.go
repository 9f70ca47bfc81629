package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oasverify/oasverify/oaserrors"
	"github.com/oasverify/oasverify/parser"
)

func refDoc(schemas map[string]any) map[string]any {
	return map[string]any{
		"openapi": "3.0.0",
		"info":    map[string]any{"title": "t", "version": "1"},
		"paths":   map[string]any{},
		"components": map[string]any{
			"schemas": schemas,
		},
	}
}

func TestRefMustResolve(t *testing.T) {
	_, err := ValidateWithOptions(WithDocument(refDoc(map[string]any{
		"S": map[string]any{"$ref": "#/components/schemas/Missing"},
	})))
	require.Error(t, err)

	var semErr *oaserrors.SemanticError
	require.ErrorAs(t, err, &semErr)
	assert.Equal(t, "components/schemas/S/$ref", semErr.Path)
	assert.Contains(t, semErr.Message, "does not resolve")
}

func TestRefEmptyAndTrailingSlash(t *testing.T) {
	_, err := ValidateWithOptions(WithDocument(refDoc(map[string]any{
		"S": map[string]any{"$ref": ""},
	})))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-empty")

	_, err = ValidateWithOptions(WithDocument(refDoc(map[string]any{
		"S": map[string]any{"$ref": "#/components/schemas/"},
	})))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty component name")
}

func TestRefComponentNameCharset(t *testing.T) {
	_, err := ValidateWithOptions(WithDocument(refDoc(map[string]any{
		"S": map[string]any{"$ref": "#/components/schemas/bad%name"},
	})))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "may only contain")
}

func TestRefShallowSelfLoop(t *testing.T) {
	_, err := ValidateWithOptions(WithDocument(refDoc(map[string]any{
		"Loop": map[string]any{"$ref": "#/components/schemas/Loop"},
	})))
	require.Error(t, err)

	var semErr *oaserrors.SemanticError
	require.ErrorAs(t, err, &semErr)
	assert.Equal(t, "components/schemas/Loop/$ref", semErr.Path)
	assert.Contains(t, semErr.Message, "own location")
}

func TestRefMultiHopCycleIsNotDetected(t *testing.T) {
	// only the direct self-loop is rejected; longer cycles pass
	result, err := ValidateWithOptions(WithDocument(refDoc(map[string]any{
		"A": map[string]any{"$ref": "#/components/schemas/B"},
		"B": map[string]any{"$ref": "#/components/schemas/A"},
	})))
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestExternalRefs(t *testing.T) {
	t.Run("relative reference without base", func(t *testing.T) {
		result, err := ValidateWithOptions(WithDocument(refDoc(map[string]any{
			"S": map[string]any{"$ref": "common.yaml#/components/schemas/Shared"},
		})))
		require.NoError(t, err)
		assert.True(t, result.Valid)
	})

	t.Run("malformed URL", func(t *testing.T) {
		_, err := ValidateWithOptions(WithDocument(refDoc(map[string]any{
			"S": map[string]any{"$ref": "ht tp://example.com/x.yaml#/X"},
		})))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a valid URL")
	})

	t.Run("malformed URL with lax option", func(t *testing.T) {
		result, err := ValidateWithOptions(
			WithDocument(refDoc(map[string]any{
				"S": map[string]any{"$ref": "ht tp://example.com/x.yaml#/X"},
			})),
			WithLaxURLs(true),
		)
		require.NoError(t, err)
		assert.True(t, result.Valid)
	})
}

func TestReferenceNodeSiblingsOutsideSchemas(t *testing.T) {
	doc := parseDoc(t, `
openapi: "3.0.0"
info: {title: t, version: "1"}
paths:
  /pets:
    get:
      parameters:
        - $ref: "#/components/parameters/Limit"
          description: extra
      responses: {"200": {description: ok}}
components:
  parameters:
    Limit: {name: limit, in: query, schema: {type: integer}}
`)
	_, err := ValidateWithOptions(WithDocument(doc))
	require.Error(t, err)

	var semErr *oaserrors.SemanticError
	require.ErrorAs(t, err, &semErr)
	assert.Contains(t, semErr.Message, "alongside $ref")
}

func TestResolveInternal(t *testing.T) {
	doc := map[string]any{
		"components": map[string]any{
			"schemas": map[string]any{
				"a/b": map[string]any{"type": "string"},
			},
		},
		"servers": []any{
			map[string]any{"url": "https://example.com"},
		},
	}

	node, ok := resolveInternal(doc, "#/components/schemas/a~1b")
	require.True(t, ok)
	assert.Equal(t, map[string]any{"type": "string"}, node)

	node, ok = resolveInternal(doc, "#/servers/0/url")
	require.True(t, ok)
	assert.Equal(t, "https://example.com", node)

	_, ok = resolveInternal(doc, "#/servers/1")
	assert.False(t, ok)

	_, ok = resolveInternal(doc, "#/components/nothing")
	assert.False(t, ok)

	node, ok = resolveInternal(doc, "#")
	require.True(t, ok)
	assert.Equal(t, doc, node)
}

type recordingLogger struct {
	msgs []string
}

func (l *recordingLogger) Debug(msg string, _ ...any) { l.msgs = append(l.msgs, msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.msgs = append(l.msgs, msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.msgs = append(l.msgs, msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.msgs = append(l.msgs, msg) }
func (l *recordingLogger) With(_ ...any) parser.Logger { return l }

func TestRefResolutionIsLogged(t *testing.T) {
	logger := &recordingLogger{}
	result, err := ValidateWithOptions(
		WithDocument(refDoc(map[string]any{
			"Pet": map[string]any{"type": "string"},
			"S":   map[string]any{"$ref": "#/components/schemas/Pet"},
		})),
		WithLogger(logger),
	)
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Contains(t, logger.msgs, "resolved internal reference")
}
