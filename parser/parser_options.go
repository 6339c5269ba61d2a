package parser

import (
	"fmt"
	"io"
	"os"

	"github.com/erraggy/smithygen/internal/options"
)

// Option is a function that configures a parse operation
type Option func(*parseConfig) error

type parseConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	reader   io.Reader
	bytes    []byte

	checkReferences bool
	logger          Logger

	// IDL source text holding use directives
	sourceText *string
	sourceFile *string

	sourceName *string
}

// ParseWithOptions loads a model using functional options.
//
// Example:
//
//	result, err := parser.ParseWithOptions(
//	    parser.WithFilePath("build/model.json"),
//	    parser.WithSourceFile("model/weather.smithy"),
//	)
func ParseWithOptions(opts ...Option) (*ParseResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("parser: invalid options: %w", err)
	}

	p := &Parser{
		CheckReferences: cfg.checkReferences,
		Logger:          cfg.logger,
	}

	var result *ParseResult
	switch {
	case cfg.filePath != nil:
		result, err = p.Parse(*cfg.filePath)
	case cfg.reader != nil:
		result, err = p.ParseReader(cfg.reader)
	default:
		result, err = p.ParseBytes(cfg.bytes)
	}
	if err != nil {
		return nil, err
	}

	if cfg.sourceFile != nil {
		data, err := os.ReadFile(*cfg.sourceFile)
		if err != nil {
			return nil, fmt.Errorf("parser: failed to read source file: %w", err)
		}
		text := string(data)
		cfg.sourceText = &text
	}
	if cfg.sourceText != nil {
		result.Dependencies = NewDependencyTable(ParseUses(*cfg.sourceText), result.Model.Namespaces()...)
	}

	if cfg.sourceName != nil {
		result.SourcePath = *cfg.sourceName
	}
	return result, nil
}

func applyOptions(opts ...Option) (*parseConfig, error) {
	cfg := &parseConfig{}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.SingleSource("parser",
		[]string{"WithFilePath", "WithReader", "WithBytes"},
		cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil,
	); err != nil {
		return nil, err
	}
	if cfg.sourceText != nil && cfg.sourceFile != nil {
		return nil, fmt.Errorf("parser: use WithSourceText or WithSourceFile, not both")
	}
	return cfg, nil
}

// WithFilePath specifies a model file as the input source
func WithFilePath(path string) Option {
	return func(cfg *parseConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader specifies an io.Reader as the input source
func WithReader(r io.Reader) Option {
	return func(cfg *parseConfig) error {
		if r == nil {
			return fmt.Errorf("parser: reader cannot be nil")
		}
		cfg.reader = r
		return nil
	}
}

// WithBytes specifies a byte slice as the input source
func WithBytes(data []byte) Option {
	return func(cfg *parseConfig) error {
		if data == nil {
			return fmt.Errorf("parser: bytes cannot be nil")
		}
		cfg.bytes = data
		return nil
	}
}

// WithCheckReferences verifies every reference after loading.
// Default: false
func WithCheckReferences(enabled bool) Option {
	return func(cfg *parseConfig) error {
		cfg.checkReferences = enabled
		return nil
	}
}

// WithLogger sets a structured logger for debug output during parsing.
func WithLogger(l Logger) Option {
	return func(cfg *parseConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithSourceText supplies IDL source text whose use directives populate
// ParseResult.Dependencies.
func WithSourceText(text string) Option {
	return func(cfg *parseConfig) error {
		cfg.sourceText = &text
		return nil
	}
}

// WithSourceFile reads IDL source text from path; see WithSourceText.
func WithSourceFile(path string) Option {
	return func(cfg *parseConfig) error {
		cfg.sourceFile = &path
		return nil
	}
}

// WithSourceName overrides ParseResult.SourcePath.
func WithSourceName(name string) Option {
	return func(cfg *parseConfig) error {
		cfg.sourceName = &name
		return nil
	}
}
