package validator

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oasverify/oasverify/oaserrors"
	"github.com/oasverify/oasverify/parser"
)

const minimalDoc = `
openapi: "3.0.0"
info:
  title: Minimal
  version: "1.0"
paths:
  /ping:
    get:
      responses:
        "200":
          description: pong
`

func parseDoc(t *testing.T, src string) map[string]any {
	t.Helper()
	pr, err := parser.New().ParseBytes([]byte(src), "test.yaml")
	require.NoError(t, err)
	return pr.Data
}

func expectSemanticFail(t *testing.T, src, pathContains, msgContains string) {
	t.Helper()
	result, err := ValidateWithOptions(WithDocument(parseDoc(t, src)))
	require.Error(t, err)
	assert.False(t, result.Valid)

	var semErr *oaserrors.SemanticError
	require.ErrorAs(t, err, &semErr)
	assert.True(t, errors.Is(err, oaserrors.ErrSemantic))
	if pathContains != "" {
		assert.Contains(t, semErr.Path, pathContains)
		assert.Equal(t, semErr.Path, result.ContextPath)
	}
	if msgContains != "" {
		assert.Contains(t, semErr.Message, msgContains)
	}
}

func TestValidateMinimalDocument(t *testing.T) {
	result, err := ValidateWithOptions(WithDocument(parseDoc(t, minimalDoc)))
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, "3.0.0", result.Version)
	assert.Empty(t, result.Warnings)
	assert.NotEmpty(t, result.Findings, "the convention rules should flag the missing descriptions")
}

func TestValidatePetstoreFixture(t *testing.T) {
	v := New()
	result, err := v.Validate(filepath.Join("..", "testdata", "petstore.yaml"))
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, "3.0.3", result.Version)
	assert.Equal(t, parser.SourceFormatYAML, result.SourceFormat)
	assert.Empty(t, result.Warnings)
	assert.Empty(t, result.Findings)
}

func TestRepeatedRunsAreDeterministic(t *testing.T) {
	doc := parseDoc(t, minimalDoc)

	first, err := ValidateWithOptions(WithDocument(doc))
	require.NoError(t, err)
	second, err := ValidateWithOptions(WithDocument(doc))
	require.NoError(t, err)

	assert.Equal(t, first.Findings, second.Findings)
	assert.Equal(t, first.Warnings, second.Warnings)
}

func TestVersionMarkerRejected(t *testing.T) {
	_, err := ValidateWithOptions(WithDocument(map[string]any{"swagger": "2.0"}))
	assert.True(t, errors.Is(err, oaserrors.ErrVersion))

	_, err = ValidateWithOptions(WithDocument(map[string]any{"openapi": "3.1.0"}))
	assert.True(t, errors.Is(err, oaserrors.ErrVersion))
}

func TestLegacyRootKeysRejected(t *testing.T) {
	expectSemanticFail(t, `
openapi: "3.0.0"
info: {title: t, version: "1"}
paths: {}
definitions: {}
`, "", "OpenAPI 2.0")
}

func TestDuplicateOperationID(t *testing.T) {
	expectSemanticFail(t, `
openapi: "3.0.0"
info: {title: t, version: "1"}
paths:
  /a:
    get:
      operationId: dupe
      responses: {"200": {description: ok}}
  /b:
    get:
      operationId: dupe
      responses: {"200": {description: ok}}
`, "paths/~1b/get", "duplicate operationId")
}

func TestDuplicateOperationIDInsideCallback(t *testing.T) {
	expectSemanticFail(t, `
openapi: "3.0.0"
info: {title: t, version: "1"}
paths:
  /a:
    post:
      operationId: dupe
      responses: {"200": {description: ok}}
      callbacks:
        onEvent:
          "{$request.body#/url}":
            post:
              operationId: dupe
              responses: {"200": {description: ok}}
`, "callbacks/onEvent", "duplicate operationId")
}

func TestDuplicateTagName(t *testing.T) {
	expectSemanticFail(t, `
openapi: "3.0.0"
info: {title: t, version: "1"}
tags:
  - name: pets
  - name: pets
paths: {}
`, "tags/1", "duplicate tag name")
}

func TestEquivalentPathShapes(t *testing.T) {
	src := `
openapi: "3.0.0"
info: {title: t, version: "1"}
paths:
  /pets/{a}:
    get:
      parameters:
        - {name: a, in: path, required: true, schema: {type: string}}
      responses: {"200": {description: ok}}
  /pets/{b}:
    get:
      parameters:
        - {name: b, in: path, required: true, schema: {type: string}}
      responses: {"200": {description: ok}}
`
	expectSemanticFail(t, src, "paths", "equivalent")

	result, err := ValidateWithOptions(WithDocument(parseDoc(t, src)), WithAllowEquivalentPaths(true))
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestEquivalentPathsDocumentExtension(t *testing.T) {
	src := `
openapi: "3.0.0"
x-equivalent-paths: true
info: {title: t, version: "1"}
paths:
  /pets/{a}:
    get:
      parameters:
        - {name: a, in: path, required: true, schema: {type: string}}
      responses: {"200": {description: ok}}
  /pets/{b}:
    get:
      parameters:
        - {name: b, in: path, required: true, schema: {type: string}}
      responses: {"200": {description: ok}}
`
	result, err := ValidateWithOptions(WithDocument(parseDoc(t, src)))
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestPathParameterCoverage(t *testing.T) {
	t.Run("undeclared placeholder", func(t *testing.T) {
		expectSemanticFail(t, `
openapi: "3.0.0"
info: {title: t, version: "1"}
paths:
  /pets/{petId}:
    get:
      responses: {"200": {description: ok}}
`, "paths/~1pets~1{petId}/get", "path parameter {petId} is not declared")
	})

	t.Run("declared but not in template", func(t *testing.T) {
		expectSemanticFail(t, `
openapi: "3.0.0"
info: {title: t, version: "1"}
paths:
  /pets:
    get:
      parameters:
        - {name: petId, in: path, required: true, schema: {type: string}}
      responses: {"200": {description: ok}}
`, "parameters/0", "does not appear in the path template")
	})

	t.Run("path-level declaration covers all operations", func(t *testing.T) {
		result, err := ValidateWithOptions(WithDocument(parseDoc(t, `
openapi: "3.0.0"
info: {title: t, version: "1"}
paths:
  /pets/{petId}:
    parameters:
      - {name: petId, in: path, required: true, schema: {type: string}}
    get:
      responses: {"200": {description: ok}}
    delete:
      responses: {"204": {description: gone}}
`)))
		require.NoError(t, err)
		assert.True(t, result.Valid)
	})
}

func TestPathTemplateMalformed(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing leading slash", "pets"},
		{"query string", "/pets?x=1"},
		{"empty placeholder", "/pets/{}"},
		{"unclosed brace", "/pets/{petId"},
		{"consecutive slashes", "/pets//all"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			expectSemanticFail(t, `
openapi: "3.0.0"
info: {title: t, version: "1"}
paths:
  "`+tc.path+`":
    get:
      responses: {"200": {description: ok}}
`, "paths", "")
		})
	}
}

func TestDuplicateParameters(t *testing.T) {
	expectSemanticFail(t, `
openapi: "3.0.0"
info: {title: t, version: "1"}
paths:
  /pets:
    get:
      parameters:
        - {name: limit, in: query, schema: {type: integer}}
        - {name: limit, in: query, schema: {type: integer}}
      responses: {"200": {description: ok}}
`, "parameters", "duplicate parameter")
}

func TestOperationRequiresResponses(t *testing.T) {
	expectSemanticFail(t, `
openapi: "3.0.0"
info: {title: t, version: "1"}
paths:
  /pets:
    get:
      operationId: listPets
`, "paths/~1pets/get", "responses")
}

func TestResponsesStatusCodeKeys(t *testing.T) {
	expectSemanticFail(t, `
openapi: "3.0.0"
info: {title: t, version: "1"}
paths:
  /pets:
    get:
      responses:
        "999":
          description: nope
`, "responses", "status code")

	result, err := ValidateWithOptions(WithDocument(parseDoc(t, `
openapi: "3.0.0"
info: {title: t, version: "1"}
paths:
  /pets:
    get:
      responses:
        "2XX": {description: success}
        default: {description: fallback}
`)))
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestSecurityRequirements(t *testing.T) {
	t.Run("undeclared scheme", func(t *testing.T) {
		expectSemanticFail(t, `
openapi: "3.0.0"
info: {title: t, version: "1"}
security:
  - missing: []
paths: {}
`, "security/0", "undeclared scheme")
	})

	t.Run("scope not declared by any flow", func(t *testing.T) {
		expectSemanticFail(t, `
openapi: "3.0.0"
info: {title: t, version: "1"}
security:
  - oauth: ["admin"]
paths: {}
components:
  securitySchemes:
    oauth:
      type: oauth2
      flows:
        implicit:
          authorizationUrl: https://auth.example.com/authorize
          scopes:
            read: Read access
`, "security/0", "not declared by any flow")
	})

	t.Run("non-oauth scheme must use empty scopes", func(t *testing.T) {
		expectSemanticFail(t, `
openapi: "3.0.0"
info: {title: t, version: "1"}
security:
  - apiKeyAuth: ["read"]
paths: {}
components:
  securitySchemes:
    apiKeyAuth: {type: apiKey, name: X-Key, in: header}
`, "security/0", "empty scope list")
	})

	t.Run("basic type rejected", func(t *testing.T) {
		expectSemanticFail(t, `
openapi: "3.0.0"
info: {title: t, version: "1"}
paths: {}
components:
  securitySchemes:
    old: {type: basic}
`, "components/securitySchemes/old", "OpenAPI 2.0")
	})

	t.Run("foreign field for scheme type", func(t *testing.T) {
		expectSemanticFail(t, `
openapi: "3.0.0"
info: {title: t, version: "1"}
paths: {}
components:
  securitySchemes:
    key:
      type: apiKey
      name: X-Key
      in: header
      flows: {}
`, "components/securitySchemes/key", "not allowed")
	})
}

func TestServerVariables(t *testing.T) {
	t.Run("placeholder without variable", func(t *testing.T) {
		expectSemanticFail(t, `
openapi: "3.0.0"
info: {title: t, version: "1"}
servers:
  - url: https://{region}.example.com
paths: {}
`, "servers/0", "no matching variable")
	})

	t.Run("variable without placeholder", func(t *testing.T) {
		expectSemanticFail(t, `
openapi: "3.0.0"
info: {title: t, version: "1"}
servers:
  - url: https://api.example.com
    variables:
      region: {default: us}
paths: {}
`, "servers/0", "does not appear in url")
	})

	t.Run("bijection holds", func(t *testing.T) {
		result, err := ValidateWithOptions(WithDocument(parseDoc(t, `
openapi: "3.0.0"
info: {title: t, version: "1"}
servers:
  - url: https://{region}.example.com
    variables:
      region:
        default: us
        enum: [us, eu]
paths: {}
`)))
		require.NoError(t, err)
		assert.True(t, result.Valid)
	})
}

func TestInfoDetailWarnings(t *testing.T) {
	result, err := ValidateWithOptions(WithDocument(parseDoc(t, `
openapi: "3.0.0"
info:
  title: t
  version: "1"
  contact:
    email: not-an-email
paths: {}
`)))
	require.NoError(t, err)
	assert.True(t, result.Valid)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0].Message, "email")
	assert.Equal(t, "email", result.Warnings[0].Field)
	assert.Equal(t, "not-an-email", result.Warnings[0].Value)
}

func TestLinkMustNameTargetOperation(t *testing.T) {
	const linkDoc = `
openapi: "3.0.0"
info: {title: t, version: "1"}
paths: {}
components:
  links:
    L:
      %s
`
	t.Run("neither", func(t *testing.T) {
		expectSemanticFail(t, fmt.Sprintf(linkDoc, "description: no target"),
			"components/links/L", "one of operationId or operationRef")
	})
	t.Run("both", func(t *testing.T) {
		expectSemanticFail(t, fmt.Sprintf(linkDoc, "operationId: getPet\n      operationRef: \"#/paths\""),
			"components/links/L", "not have both")
	})
	t.Run("one", func(t *testing.T) {
		result, err := ValidateWithOptions(WithDocument(parseDoc(t,
			fmt.Sprintf(linkDoc, "operationId: getPet"))))
		require.NoError(t, err)
		assert.True(t, result.Valid)
	})
}

func TestUnreferencedRequestBodyWarning(t *testing.T) {
	result, err := ValidateWithOptions(WithDocument(parseDoc(t, `
openapi: "3.0.0"
info: {title: t, version: "1"}
paths: {}
components:
  requestBodies:
    Unused:
      content:
        application/json:
          schema: {type: string}
`)))
	require.NoError(t, err)
	assert.True(t, result.Valid)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Message, "never referenced")
	assert.Equal(t, "components/requestBodies/Unused", result.Warnings[0].Path)
}

func TestMediaTypeKeys(t *testing.T) {
	src := `
openapi: "3.0.0"
info: {title: t, version: "1"}
paths:
  /pets:
    get:
      responses:
        "200":
          description: ok
          content:
            "not a media type":
              schema: {type: string}
`
	expectSemanticFail(t, src, "content", "media type")

	result, err := ValidateWithOptions(WithDocument(parseDoc(t, src)), WithLenientMediaTypes(true))
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestLintToggle(t *testing.T) {
	result, err := ValidateWithOptions(WithDocument(parseDoc(t, minimalDoc)), WithLint(false))
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Findings)
}

func TestValidatorIsReusable(t *testing.T) {
	v := New()
	for range 3 {
		result, err := v.ValidateDocument(parseDoc(t, minimalDoc))
		require.NoError(t, err)
		assert.True(t, result.Valid)
	}
}
