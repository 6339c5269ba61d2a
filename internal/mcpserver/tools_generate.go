package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/smithygen/generator"
)

type generateInput struct {
	Model      modelInput `json:"model"                 jsonschema:"The Smithy model to generate code from"`
	OutputDir  string     `json:"output_dir"            jsonschema:"Directory to write generated packages to"`
	ModulePath string     `json:"module_path,omitempty" jsonschema:"Import path prefix of generated packages (default: generated)"`
	Namespaces []string   `json:"namespaces,omitempty"  jsonschema:"Only generate these namespaces"`
	Policy     string     `json:"policy,omitempty"      jsonschema:"Service policy: multiple (default) or single"`
	Seed       *uint64    `json:"seed,omitempty"        jsonschema:"Seed for the mock data in generated mocks and tests"`
	Strict     bool       `json:"strict,omitempty"      jsonschema:"Fail when generation reports any warning"`
}

type generatedFileInfo struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

type generatedPackageInfo struct {
	Namespace  string              `json:"namespace"`
	Name       string              `json:"name"`
	ImportPath string              `json:"import_path"`
	Dir        string              `json:"dir"`
	Services   []string            `json:"services,omitempty"`
	Files      []generatedFileInfo `json:"files"`
}

type generateIssue struct {
	Path     string `json:"path"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Location string `json:"location,omitempty"`
}

type generateOutput struct {
	Success             bool                   `json:"success"`
	OutputDir           string                 `json:"output_dir"`
	ModulePath          string                 `json:"module_path"`
	Packages            []generatedPackageInfo `json:"packages"`
	GeneratedTypes      int                    `json:"generated_types"`
	GeneratedOperations int                    `json:"generated_operations"`
	WarningCount        int                    `json:"warning_count"`
	CriticalCount       int                    `json:"critical_count"`
	Issues              []generateIssue        `json:"issues,omitempty"`
}

func handleGenerate(_ context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	if input.OutputDir == "" {
		return errResult(fmt.Errorf("output_dir is required")), generateOutput{}, nil
	}

	parseResult, err := input.Model.resolve()
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	policy := cfg.ServicePolicy
	if input.Policy != "" {
		policy = generator.ServicePolicy(input.Policy)
	}
	seed := cfg.MockSeed
	if input.Seed != nil {
		seed = *input.Seed
	}
	opts := []generator.Option{
		generator.WithParsed(*parseResult),
		generator.WithServicePolicy(policy),
		generator.WithMockSeed(seed),
		generator.WithMockListSize(cfg.MockListSize),
		generator.WithStrictMode(input.Strict || cfg.Strict),
		generator.WithIncludeInfo(false),
	}
	if input.ModulePath != "" {
		opts = append(opts, generator.WithModulePath(input.ModulePath))
	}
	if len(input.Namespaces) > 0 {
		opts = append(opts, generator.WithNamespaces(input.Namespaces...))
	}

	result, err := generator.GenerateWithOptions(opts...)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	if err := result.WriteFiles(input.OutputDir); err != nil {
		return errResult(fmt.Errorf("failed to write generated files: %w", err)), generateOutput{}, nil
	}

	output := generateOutput{
		Success:             result.Success,
		OutputDir:           input.OutputDir,
		ModulePath:          result.ModulePath,
		GeneratedTypes:      result.GeneratedTypes,
		GeneratedOperations: result.GeneratedOperations,
		WarningCount:        result.WarningCount,
		CriticalCount:       result.CriticalCount,
	}

	output.Packages = makeSlice[generatedPackageInfo](len(result.Packages))
	for _, pkg := range result.Packages {
		info := generatedPackageInfo{
			Namespace:  pkg.Namespace,
			Name:       pkg.Name,
			ImportPath: pkg.ImportPath,
			Dir:        pkg.Dir,
			Services:   pkg.Services,
			Files:      makeSlice[generatedFileInfo](len(pkg.Files)),
		}
		for _, f := range pkg.Files {
			info.Files = append(info.Files, generatedFileInfo{Name: f.Name, Size: len(f.Content)})
		}
		output.Packages = append(output.Packages, info)
	}

	output.Issues = makeSlice[generateIssue](len(result.Issues))
	for _, issue := range result.Issues {
		output.Issues = append(output.Issues, generateIssue{
			Path:     issue.Path,
			Severity: issue.Severity.String(),
			Message:  issue.Message,
			Location: issue.Location(),
		})
	}

	return nil, output, nil
}
