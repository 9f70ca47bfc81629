// Package parser decodes OpenAPI documents from JSON or YAML text into a
// generic in-memory tree (map[string]any) and detects the document version.
//
// The parser intentionally does not build a typed document model: the
// validator package operates on the raw tree so that keyword allow-lists and
// sibling-key rules can see exactly what the author wrote.
package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/oasverify/oasverify/oaserrors"
)

// SourceFormat represents the format of the source document.
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// supportedVersionRegex matches the version markers this module validates.
var supportedVersionRegex = regexp.MustCompile(`^3\.0\.\d+(-.+)?$`)

// ParseResult contains the decoded document tree and metadata.
//
// Callers should treat the Data tree as read-only after parsing; the
// validator never mutates it and assumes nobody else does either.
type ParseResult struct {
	// SourcePath is the document's input source path that it was read from
	SourcePath string
	// SourceFormat is the format of the source document (JSON or YAML)
	SourceFormat SourceFormat
	// Version is the detected version marker (e.g., "3.0.3")
	Version string
	// Data is the decoded document object graph
	Data map[string]any
	// LoadTime is the time taken to load and decode the source
	LoadTime time.Duration
	// SourceSize is the size of the source data in bytes
	SourceSize int64
}

// Parser handles document parsing.
type Parser struct {
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default).
	Logger Logger
}

// New creates a new Parser instance with default settings.
func New() *Parser {
	return &Parser{}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

// Parse reads and decodes the document at path.
func (p *Parser) Parse(path string) (*ParseResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read %s: %w", path, err)
	}
	return p.ParseBytes(data, path)
}

// ParseBytes decodes a document from raw bytes. sourcePath is used for
// format detection and error messages only; it may be empty.
func (p *Parser) ParseBytes(data []byte, sourcePath string) (*ParseResult, error) {
	start := time.Now()
	format := detectFormat(data, sourcePath)

	var tree map[string]any
	switch format {
	case SourceFormatJSON:
		if err := json.Unmarshal(data, &tree); err != nil {
			return nil, fmt.Errorf("parser: invalid JSON: %w", err)
		}
	default:
		// YAML is a superset of JSON, so unknown formats go through yaml
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parser: invalid YAML: %w", err)
		}
		normalized, ok := normalizeNode(raw).(map[string]any)
		if !ok && raw != nil {
			return nil, &oaserrors.VersionError{Message: "document root must be a mapping"}
		}
		tree = normalized
	}
	if tree == nil {
		return nil, &oaserrors.VersionError{Message: "document is empty"}
	}

	version, err := DetectVersion(tree)
	if err != nil {
		return nil, err
	}

	p.log().Debug("parsed document", "path", sourcePath, "format", string(format), "version", version)

	return &ParseResult{
		SourcePath:   sourcePath,
		SourceFormat: format,
		Version:      version,
		Data:         tree,
		LoadTime:     time.Since(start),
		SourceSize:   int64(len(data)),
	}, nil
}

// DetectVersion extracts and checks the top-level version marker of an
// already decoded document tree. It returns a *oaserrors.VersionError when
// the marker is missing, not a string, or not a supported 3.0.x version.
func DetectVersion(tree map[string]any) (string, error) {
	raw, ok := tree["openapi"]
	if !ok {
		if _, isSwagger := tree["swagger"]; isSwagger {
			return "", &oaserrors.VersionError{Message: "swagger 2.0 documents are not supported, expected openapi 3.0.x"}
		}
		return "", &oaserrors.VersionError{Message: "missing openapi version field"}
	}
	version, ok := raw.(string)
	if !ok {
		return "", &oaserrors.VersionError{Message: fmt.Sprintf("openapi version must be a string, got %T", raw)}
	}
	if !supportedVersionRegex.MatchString(version) {
		return "", &oaserrors.VersionError{Version: version, Message: "unsupported openapi version, expected 3.0.x"}
	}
	return version, nil
}

// normalizeNode rewrites a freshly decoded YAML tree so that every mapping
// is a map[string]any. YAML permits non-string mapping keys (a bare 200
// under responses decodes as an int), which the rest of the module, and JSON
// re-encoding for the structural pass, cannot represent.
func normalizeNode(node any) any {
	switch current := node.(type) {
	case map[string]any:
		for key, value := range current {
			current[key] = normalizeNode(value)
		}
		return current
	case map[any]any:
		normalized := make(map[string]any, len(current))
		for key, value := range current {
			normalized[keyString(key)] = normalizeNode(value)
		}
		return normalized
	case []any:
		for i, value := range current {
			current[i] = normalizeNode(value)
		}
		return current
	}
	return node
}

func keyString(key any) string {
	if s, ok := key.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", key)
}

// detectFormat determines the source format from the file extension, falling
// back to sniffing the first meaningful byte.
func detectFormat(data []byte, sourcePath string) SourceFormat {
	switch strings.ToLower(filepath.Ext(sourcePath)) {
	case ".json":
		return SourceFormatJSON
	case ".yaml", ".yml":
		return SourceFormatYAML
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return SourceFormatJSON
	}
	if len(trimmed) > 0 {
		return SourceFormatYAML
	}
	return SourceFormatUnknown
}
