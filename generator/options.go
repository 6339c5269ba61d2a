package generator

import (
	"fmt"
	"maps"

	"github.com/Masterminds/semver/v3"

	"github.com/erraggy/smithygen/internal/options"
	"github.com/erraggy/smithygen/mockdata"
	"github.com/erraggy/smithygen/parser"
)

// Option is a function that configures a generate operation
type Option func(*generateConfig) error

// generateConfig holds configuration for a generate operation
type generateConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	bytes    []byte
	parsed   *parser.ParseResult
	model    *parser.Model

	sourceText *string

	modulePath       string
	packageOverrides map[string]string
	servicePolicy    ServicePolicy
	mockSeed         uint64
	mockListSize     int
	concurrency      int
	dependencies     []Dependency
	namespaces       []string
	strictMode       bool
	includeInfo      bool
	logger           parser.Logger
}

// GenerateWithOptions generates code from a Smithy model using functional options.
// This provides a flexible, extensible API that combines input source selection
// and configuration in a single function call.
//
// Example:
//
//	result, err := generator.GenerateWithOptions(
//	    generator.WithFilePath("weather.json"),
//	    generator.WithModulePath("example.com/weather"),
//	    generator.WithServicePolicy(generator.PolicySingle),
//	)
func GenerateWithOptions(opts ...Option) (*GenerateResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("generator: invalid options: %w", err)
	}

	g := &Generator{
		ModulePath:       cfg.modulePath,
		PackageOverrides: cfg.packageOverrides,
		ServicePolicy:    cfg.servicePolicy,
		MockSeed:         cfg.mockSeed,
		MockListSize:     cfg.mockListSize,
		Concurrency:      cfg.concurrency,
		Dependencies:     cfg.dependencies,
		Namespaces:       cfg.namespaces,
		StrictMode:       cfg.strictMode,
		IncludeInfo:      cfg.includeInfo,
		Logger:           cfg.logger,
	}

	// Route to appropriate generation method based on input source
	switch {
	case cfg.parsed != nil:
		return g.GenerateParsed(*cfg.parsed)
	case cfg.model != nil:
		return g.GenerateParsed(parser.ParseResult{
			SourcePath: "model",
			Version:    cfg.model.Version,
			Model:      cfg.model,
		})
	}

	parseOpts := []parser.Option{parser.WithLogger(cfg.logger)}
	if cfg.filePath != nil {
		parseOpts = append(parseOpts, parser.WithFilePath(*cfg.filePath))
	} else {
		parseOpts = append(parseOpts, parser.WithBytes(cfg.bytes))
	}
	if cfg.sourceText != nil {
		parseOpts = append(parseOpts, parser.WithSourceText(*cfg.sourceText))
	}
	parseResult, err := parser.ParseWithOptions(parseOpts...)
	if err != nil {
		return nil, fmt.Errorf("generator: failed to load model: %w", err)
	}
	return g.GenerateParsed(*parseResult)
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*generateConfig, error) {
	cfg := &generateConfig{
		// Set defaults
		modulePath:    DefaultModulePath,
		servicePolicy: PolicyMultiple,
		mockSeed:      mockdata.DefaultSeed,
		mockListSize:  mockdata.DefaultListSize,
		includeInfo:   true,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.SingleSource("generator",
		[]string{"WithFilePath", "WithBytes", "WithParsed", "WithModel"},
		cfg.filePath != nil, cfg.bytes != nil, cfg.parsed != nil, cfg.model != nil,
	); err != nil {
		return nil, err
	}
	if cfg.sourceText != nil && (cfg.parsed != nil || cfg.model != nil) {
		return nil, fmt.Errorf("generator: WithSourceText requires WithFilePath or WithBytes")
	}

	return cfg, nil
}

// WithFilePath specifies a model file as the input source
func WithFilePath(path string) Option {
	return func(cfg *generateConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithBytes specifies model bytes (JSON or YAML) as the input source
func WithBytes(data []byte) Option {
	return func(cfg *generateConfig) error {
		if data == nil {
			return fmt.Errorf("generator: bytes cannot be nil")
		}
		cfg.bytes = data
		return nil
	}
}

// WithParsed specifies a parsed ParseResult as the input source
func WithParsed(result parser.ParseResult) Option {
	return func(cfg *generateConfig) error {
		cfg.parsed = &result
		return nil
	}
}

// WithModel specifies an already-built model as the input source
func WithModel(model *parser.Model) Option {
	return func(cfg *generateConfig) error {
		if model == nil {
			return fmt.Errorf("generator: model cannot be nil")
		}
		cfg.model = model
		return nil
	}
}

// WithSourceText supplies the IDL source text the model was built from so
// its use directives populate the dependency table.
func WithSourceText(text string) Option {
	return func(cfg *generateConfig) error {
		cfg.sourceText = &text
		return nil
	}
}

// WithModulePath sets the import path prefix of generated packages
// Default: "generated"
func WithModulePath(modulePath string) Option {
	return func(cfg *generateConfig) error {
		if modulePath == "" {
			return fmt.Errorf("generator: module path cannot be empty")
		}
		cfg.modulePath = modulePath
		return nil
	}
}

// WithPackageOverride makes references to namespace import importPath
// instead of a package generated under the module path.
func WithPackageOverride(namespace, importPath string) Option {
	return func(cfg *generateConfig) error {
		if namespace == "" || importPath == "" {
			return fmt.Errorf("generator: package override needs a namespace and an import path")
		}
		if cfg.packageOverrides == nil {
			cfg.packageOverrides = make(map[string]string)
		}
		cfg.packageOverrides[namespace] = importPath
		return nil
	}
}

// WithPackageOverrides adds several namespace to import path overrides
func WithPackageOverrides(overrides map[string]string) Option {
	return func(cfg *generateConfig) error {
		if cfg.packageOverrides == nil {
			cfg.packageOverrides = make(map[string]string, len(overrides))
		}
		maps.Copy(cfg.packageOverrides, overrides)
		return nil
	}
}

// WithServicePolicy selects how namespaces with several services are handled
// Default: PolicyMultiple
func WithServicePolicy(policy ServicePolicy) Option {
	return func(cfg *generateConfig) error {
		p, err := ParseServicePolicy(string(policy))
		if err != nil {
			return err
		}
		cfg.servicePolicy = p
		return nil
	}
}

// WithMockSeed sets the seed for synthesized mock data
// Default: 1
func WithMockSeed(seed uint64) Option {
	return func(cfg *generateConfig) error {
		cfg.mockSeed = seed
		return nil
	}
}

// WithMockListSize sets the number of elements synthesized for lists
// Default: 5
func WithMockListSize(n int) Option {
	return func(cfg *generateConfig) error {
		if n < 0 {
			return fmt.Errorf("generator: mock list size cannot be negative")
		}
		cfg.mockListSize = n
		return nil
	}
}

// WithConcurrency bounds how many namespaces are emitted at once
// Default: 0 (GOMAXPROCS)
func WithConcurrency(n int) Option {
	return func(cfg *generateConfig) error {
		if n < 0 {
			return fmt.Errorf("generator: concurrency cannot be negative")
		}
		cfg.concurrency = n
		return nil
	}
}

// WithDependency merges an already-resolved dependency model before generation
func WithDependency(model *parser.Model, version *semver.Version) Option {
	return func(cfg *generateConfig) error {
		if model == nil {
			return fmt.Errorf("generator: dependency model cannot be nil")
		}
		cfg.dependencies = append(cfg.dependencies, Dependency{Model: model, Version: version})
		return nil
	}
}

// WithNamespaces restricts generation to the listed namespaces
func WithNamespaces(namespaces ...string) Option {
	return func(cfg *generateConfig) error {
		cfg.namespaces = append(cfg.namespaces, namespaces...)
		return nil
	}
}

// WithStrictMode enables or disables strict mode (fail on any issues)
// Default: false
func WithStrictMode(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.strictMode = enabled
		return nil
	}
}

// WithIncludeInfo enables or disables informational messages
// Default: true
func WithIncludeInfo(enabled bool) Option {
	return func(cfg *generateConfig) error {
		cfg.includeInfo = enabled
		return nil
	}
}

// WithLogger sets the structured logger for debug output
func WithLogger(l parser.Logger) Option {
	return func(cfg *generateConfig) error {
		cfg.logger = l
		return nil
	}
}
