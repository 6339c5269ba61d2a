package generator

import (
	"errors"
	"fmt"
	"path"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/errgroup"

	"github.com/erraggy/smithygen/internal/issues"
	"github.com/erraggy/smithygen/internal/naming"
	"github.com/erraggy/smithygen/internal/severity"
	"github.com/erraggy/smithygen/mockdata"
	"github.com/erraggy/smithygen/parser"
	"github.com/erraggy/smithygen/shapeerrors"
)

// Severity indicates the severity level of a generation issue
type Severity = severity.Severity

const (
	// SeverityInfo indicates informational messages about generation choices
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates output that may not behave as the model intends
	SeverityWarning = severity.SeverityWarning
	// SeverityError indicates a namespace that could not be generated
	SeverityError = severity.SeverityError
	// SeverityCritical indicates model features that were skipped
	SeverityCritical = severity.SeverityCritical
)

// GenerateIssue represents a single generation issue or limitation
type GenerateIssue = issues.Issue

// DefaultModulePath prefixes the import path of generated packages when no
// module path is configured.
const DefaultModulePath = "generated"

// ServicePolicy decides what happens when a namespace declares more than one
// service.
type ServicePolicy string

const (
	// PolicyMultiple emits every service of a namespace.
	PolicyMultiple ServicePolicy = "multiple"
	// PolicySingle fails the namespace with a ServiceCountError when it
	// declares more than one service.
	PolicySingle ServicePolicy = "single"
)

// ParseServicePolicy converts a configuration value to a ServicePolicy.
// The empty string selects PolicyMultiple.
func ParseServicePolicy(s string) (ServicePolicy, error) {
	switch ServicePolicy(strings.ToLower(s)) {
	case "", PolicyMultiple:
		return PolicyMultiple, nil
	case PolicySingle:
		return PolicySingle, nil
	}
	return "", &shapeerrors.ConfigError{Option: "policy", Value: s, Message: "must be multiple or single"}
}

// GeneratedFile represents a single generated file
type GeneratedFile struct {
	// Name is the file name (e.g., "types.go", "service.go")
	Name string
	// Content is the generated Go source code
	Content []byte
}

// GeneratedPackage is the Go package emitted for one namespace.
type GeneratedPackage struct {
	// Namespace is the model namespace the package was generated from
	Namespace string
	// Name is the Go package name
	Name string
	// ImportPath is the path other generated packages import it by
	ImportPath string
	// Dir is the package directory relative to the output directory
	Dir string
	// Files contains the generated files in emission order
	Files []GeneratedFile
	// Services lists the generated service interface names
	Services []string
	// Types is the number of data shapes declared
	Types int
	// Operations is the number of interface methods declared
	Operations int
}

// GetFile returns the generated file with the given name, or nil if not found
func (p *GeneratedPackage) GetFile(name string) *GeneratedFile {
	for i := range p.Files {
		if p.Files[i].Name == name {
			return &p.Files[i]
		}
	}
	return nil
}

// GenerateResult contains the results of generating code from a model
type GenerateResult struct {
	// Packages contains one entry per successfully generated namespace,
	// sorted by namespace
	Packages []GeneratedPackage
	// SourcePath is the model the result was generated from
	SourcePath string
	// SourceVersion is the Smithy version of the source document
	SourceVersion string
	// SourceFormat is the format of the source file (JSON or YAML)
	SourceFormat parser.SourceFormat
	// ModulePath prefixes the import paths of generated packages
	ModulePath string
	// Dependencies maps imported namespaces to their resolved versions
	Dependencies parser.DependencyTable
	// Issues contains all generation issues in namespace order
	Issues []GenerateIssue
	// InfoCount is the total number of info messages
	InfoCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// CriticalCount is the total number of critical issues
	CriticalCount int
	// Success is true if every namespace was generated without critical issues
	Success bool
	// LoadTime is the time taken to load the source data
	LoadTime time.Duration
	// GenerateTime is the time taken to generate code
	GenerateTime time.Duration
	// SourceSize is the size of the source data in bytes
	SourceSize int64
	// GeneratedTypes is the count of types generated
	GeneratedTypes int
	// GeneratedOperations is the count of operations generated
	GeneratedOperations int
}

// HasCriticalIssues returns true if there are any critical issues
func (r *GenerateResult) HasCriticalIssues() bool {
	return r.CriticalCount > 0
}

// HasWarnings returns true if there are any warnings
func (r *GenerateResult) HasWarnings() bool {
	return r.WarningCount > 0
}

// Package returns the package generated for namespace, or nil.
func (r *GenerateResult) Package(namespace string) *GeneratedPackage {
	for i := range r.Packages {
		if r.Packages[i].Namespace == namespace {
			return &r.Packages[i]
		}
	}
	return nil
}

// Dependency is an already-resolved model whose shapes the generated
// namespaces import.
type Dependency struct {
	Model *parser.Model
	// Version is the package version of the dependency; nil when unknown.
	Version *semver.Version
}

// Generator handles code generation from Smithy models
type Generator struct {
	// ModulePath prefixes the import path of generated packages.
	// Default: DefaultModulePath
	ModulePath string

	// PackageOverrides maps a namespace to the import path of an existing
	// package, typically a published dependency.
	PackageOverrides map[string]string

	// ServicePolicy selects how namespaces with several services are handled.
	// Default: PolicyMultiple
	ServicePolicy ServicePolicy

	// MockSeed seeds mock data synthesis.
	// Default: mockdata.DefaultSeed
	MockSeed uint64

	// MockListSize is the number of elements synthesized for lists.
	// Default: mockdata.DefaultListSize
	MockListSize int

	// Concurrency bounds how many namespaces are emitted at once.
	// 0 uses GOMAXPROCS.
	Concurrency int

	// Dependencies are merged into the model before generation.
	// Only the namespaces of the source model are emitted.
	Dependencies []Dependency

	// Namespaces restricts generation to the listed namespaces.
	// Empty generates every namespace of the source model.
	Namespaces []string

	// StrictMode causes generation to fail on any issues (even warnings)
	StrictMode bool

	// IncludeInfo determines whether to include informational messages
	IncludeInfo bool

	// Logger is the structured logger for debug output.
	// If nil, logging is disabled (default).
	Logger parser.Logger
}

// New creates a new Generator instance with default settings
func New() *Generator {
	return &Generator{
		ModulePath:    DefaultModulePath,
		ServicePolicy: PolicyMultiple,
		MockSeed:      mockdata.DefaultSeed,
		MockListSize:  mockdata.DefaultListSize,
		IncludeInfo:   true,
	}
}

func (g *Generator) log() parser.Logger {
	return parser.OrNop(g.Logger)
}

func (g *Generator) modulePath() string {
	if g.ModulePath == "" {
		return DefaultModulePath
	}
	return g.ModulePath
}

// Generate loads a model file and generates code from it.
func (g *Generator) Generate(modelPath string) (*GenerateResult, error) {
	p := parser.New()
	p.Logger = g.Logger
	parseResult, err := p.Parse(modelPath)
	if err != nil {
		return nil, fmt.Errorf("generator: failed to load model: %w", err)
	}
	return g.GenerateParsed(*parseResult)
}

// GenerateParsed generates one package per namespace of an already-loaded
// model. Namespaces are emitted concurrently; a namespace that fails yields
// no files and its error is joined into the returned error, which is
// accompanied by the result for the namespaces that succeeded.
func (g *Generator) GenerateParsed(parseResult parser.ParseResult) (*GenerateResult, error) {
	startTime := time.Now()

	if parseResult.Model == nil {
		return nil, fmt.Errorf("generator: parse result has no model")
	}

	result := &GenerateResult{
		SourcePath:    parseResult.SourcePath,
		SourceVersion: parseResult.Version,
		SourceFormat:  parseResult.SourceFormat,
		ModulePath:    g.modulePath(),
		LoadTime:      parseResult.LoadTime,
		SourceSize:    parseResult.SourceSize,
	}

	model := parseResult.Model
	deps := parseResult.Dependencies
	if deps == nil {
		deps = make(parser.DependencyTable)
	}
	if len(g.Dependencies) > 0 {
		depModels := make([]*parser.Model, 0, len(g.Dependencies))
		for _, dep := range g.Dependencies {
			depModels = append(depModels, dep.Model)
			for _, ns := range dep.Model.Namespaces() {
				deps = deps.With(ns, dep.Version)
			}
		}
		merged, err := model.Merge(depModels...)
		if err != nil {
			return nil, fmt.Errorf("generator: failed to merge dependencies: %w", err)
		}
		model = merged
	}
	result.Dependencies = deps

	namespaces := g.selectNamespaces(parseResult.Model.Namespaces())
	dangling := danglingByNamespace(model.Check())
	plans := g.planPackages(model.Namespaces())

	type outcome struct {
		pkg    *GeneratedPackage
		issues []GenerateIssue
		err    error
	}
	outcomes := make([]outcome, len(namespaces))

	limit := g.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	var eg errgroup.Group
	eg.SetLimit(limit)
	for i, ns := range namespaces {
		eg.Go(func() error {
			if errs := dangling[ns]; len(errs) > 0 {
				outcomes[i].err = errors.Join(errs...)
				return nil
			}
			e := newEmitter(g, model, plans, plans[ns], deps)
			e.sourcePath = parseResult.SourcePath
			pkg, err := e.emit()
			outcomes[i] = outcome{pkg: pkg, issues: e.issues, err: err}
			return nil
		})
	}
	_ = eg.Wait()

	var errs []error
	for i, out := range outcomes {
		ns := namespaces[i]
		result.Issues = append(result.Issues, out.issues...)
		if out.err != nil {
			g.log().Debug("namespace failed", "namespace", ns, "error", out.err)
			result.Issues = append(result.Issues, GenerateIssue{
				Path:     ns,
				Message:  out.err.Error(),
				Severity: SeverityCritical,
			})
			errs = append(errs, fmt.Errorf("generator: namespace %s: %w", ns, out.err))
			continue
		}
		result.Packages = append(result.Packages, *out.pkg)
		result.GeneratedTypes += out.pkg.Types
		result.GeneratedOperations += out.pkg.Operations
		g.log().Debug("generated namespace",
			"namespace", ns, "package", out.pkg.ImportPath, "files", len(out.pkg.Files))
	}

	result.GenerateTime = time.Since(startTime)
	g.updateCounts(result)
	result.Success = result.CriticalCount == 0

	if !g.IncludeInfo {
		filtered := make([]GenerateIssue, 0, len(result.Issues))
		for _, issue := range result.Issues {
			if issue.Severity != SeverityInfo {
				filtered = append(filtered, issue)
			}
		}
		result.Issues = filtered
		result.InfoCount = 0
	}

	if err := errors.Join(errs...); err != nil {
		return result, err
	}

	// In strict mode, fail on any issues
	if g.StrictMode && (result.CriticalCount > 0 || result.WarningCount > 0) {
		return result, fmt.Errorf("generator: generation failed in strict mode: %d critical issue(s), %d warning(s)",
			result.CriticalCount, result.WarningCount)
	}

	return result, nil
}

// selectNamespaces drops the prelude and, when Namespaces is set, anything
// not listed.
func (g *Generator) selectNamespaces(all []string) []string {
	out := make([]string, 0, len(all))
	for _, ns := range all {
		if ns == parser.PreludeNamespace {
			continue
		}
		if len(g.Namespaces) > 0 && !slices.Contains(g.Namespaces, ns) {
			continue
		}
		out = append(out, ns)
	}
	return out
}

// danglingByNamespace attributes each dangling reference reported by
// Model.Check to the namespace of the shape holding it.
func danglingByNamespace(err error) map[string][]error {
	if err == nil {
		return nil
	}
	var list []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		list = joined.Unwrap()
	} else {
		list = []error{err}
	}
	out := make(map[string][]error)
	for _, e := range list {
		ns := ""
		var refErr *shapeerrors.ReferenceError
		if errors.As(e, &refErr) {
			ns = parser.ShapeID(refErr.From).Namespace()
		}
		out[ns] = append(out[ns], e)
	}
	return out
}

// packagePlan says where the package of one namespace lives.
type packagePlan struct {
	namespace  string
	name       string
	alias      string
	importPath string
	dir        string
}

// planPackages assigns every namespace of the merged model a package name,
// import path and a qualifier unique across the model.
func (g *Generator) planPackages(namespaces []string) map[string]packagePlan {
	plans := make(map[string]packagePlan, len(namespaces))
	taken := make(map[string]bool, len(namespaces))
	for _, ns := range namespaces {
		p := packagePlan{
			namespace: ns,
			name:      naming.PackageName(ns),
			dir:       strings.ToLower(strings.ReplaceAll(ns, ".", "/")),
		}
		if override, ok := g.PackageOverrides[ns]; ok {
			p.importPath = override
			p.name = naming.PackageName(overridePackageName(override))
		} else {
			p.importPath = path.Join(g.modulePath(), p.dir)
		}
		p.alias = p.name
		if taken[p.alias] {
			p.alias = naming.PackageName(strings.ReplaceAll(ns, ".", ""))
		}
		taken[p.alias] = true
		plans[ns] = p
	}
	return plans
}

// overridePackageName guesses the package name of an import path, skipping
// a trailing major version element.
func overridePackageName(importPath string) string {
	dir, base := path.Split(importPath)
	if len(base) > 1 && base[0] == 'v' && strings.Trim(base[1:], "0123456789") == "" && dir != "" {
		return path.Base(strings.TrimSuffix(dir, "/"))
	}
	return base
}

// updateCounts updates the issue counts in the result
func (g *Generator) updateCounts(result *GenerateResult) {
	result.InfoCount = 0
	result.WarningCount = 0
	result.CriticalCount = 0

	for _, issue := range result.Issues {
		switch issue.Severity {
		case SeverityInfo:
			result.InfoCount++
		case SeverityWarning:
			result.WarningCount++
		case SeverityCritical:
			result.CriticalCount++
		}
	}
}
