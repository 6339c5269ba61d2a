package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/erraggy/smithygen/internal/document"
	"github.com/erraggy/smithygen/shapeerrors"
)

// Parser loads Smithy JSON AST (or equivalent YAML) documents.
type Parser struct {
	// CheckReferences verifies that every reference resolves after loading.
	// Leave it off when the model imports shapes that are merged later.
	CheckReferences bool
	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default).
	Logger Logger
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{}
}

func (p *Parser) log() Logger {
	return OrNop(p.Logger)
}

// SourceFormat represents the format of the source model file
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
)

// ParseResult holds a loaded model and its metadata.
//
// The Model is read-only; callers should not mutate shapes reachable from it.
type ParseResult struct {
	// SourcePath is the file the model was read from, or a synthetic name
	// such as "ParseBytes.json" when it came from memory.
	SourcePath string
	// SourceFormat is the detected format of the source.
	SourceFormat SourceFormat
	// Version is the document's Smithy version.
	Version string
	// Model is the loaded shape graph.
	Model *Model
	// Dependencies lists namespaces imported with use directives.
	// Versions start as nil placeholders.
	Dependencies DependencyTable
	// LoadTime is the time spent reading the source.
	LoadTime time.Duration
	// SourceSize is the size of the source in bytes.
	SourceSize int64
}

// Parse reads and loads a model file.
func (p *Parser) Parse(path string) (*ParseResult, error) {
	start := time.Now()
	data, err := os.ReadFile(path)
	loadTime := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read file: %w", err)
	}

	res, err := p.parse(data, path)
	if err != nil {
		return nil, err
	}
	res.LoadTime = loadTime
	return res, nil
}

// ParseReader loads a model from r.
func (p *Parser) ParseReader(r io.Reader) (*ParseResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("parser: failed to read input: %w", err)
	}
	res, err := p.parse(data, "")
	if err != nil {
		return nil, err
	}
	res.SourcePath = "ParseReader." + string(res.SourceFormat)
	return res, nil
}

// ParseBytes loads a model from memory.
func (p *Parser) ParseBytes(data []byte) (*ParseResult, error) {
	res, err := p.parse(data, "")
	if err != nil {
		return nil, err
	}
	res.SourcePath = "ParseBytes." + string(res.SourceFormat)
	return res, nil
}

func (p *Parser) parse(data []byte, path string) (*ParseResult, error) {
	root, err := document.Decode(data)
	if err != nil {
		return nil, &shapeerrors.ParseError{Path: path, Message: "invalid document", Cause: err}
	}

	l := &loader{source: path}
	model, err := l.load(root)
	if err != nil {
		return nil, err
	}

	if p.CheckReferences {
		if err := model.Check(); err != nil {
			return nil, err
		}
	}

	p.log().Debug("loaded model",
		"source", path,
		"shapes", model.Len(),
		"namespaces", len(model.Namespaces()))

	return &ParseResult{
		SourcePath:   path,
		SourceFormat: detectFormat(path, data),
		Version:      model.Version,
		Model:        model,
		Dependencies: make(DependencyTable),
		SourceSize:   int64(len(data)),
	}, nil
}

// detectFormat uses the file extension, falling back to the first
// non-space byte of the content.
func detectFormat(path string, data []byte) SourceFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SourceFormatJSON
	case ".yaml", ".yml":
		return SourceFormatYAML
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}
