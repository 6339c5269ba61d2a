package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/smithygen/internal/testutil"
)

func TestGenerateTool_Weather(t *testing.T) {
	dir := t.TempDir()

	input := generateInput{
		Model:     modelInput{Content: testutil.WeatherModel},
		OutputDir: dir,
	}
	result, output, err := handleGenerate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, result)

	assert.True(t, output.Success)
	assert.Equal(t, dir, output.OutputDir)
	assert.Equal(t, "generated", output.ModulePath)
	assert.Equal(t, 2, output.GeneratedTypes)
	assert.Equal(t, 1, output.GeneratedOperations)
	require.Len(t, output.Packages, 1)

	pkg := output.Packages[0]
	assert.Equal(t, "example.weather", pkg.Namespace)
	assert.Equal(t, "weather", pkg.Name)
	assert.Equal(t, "generated/example/weather", pkg.ImportPath)
	assert.Equal(t, []string{"Weather"}, pkg.Services)
	require.NotEmpty(t, pkg.Files)

	for _, f := range pkg.Files {
		info, statErr := os.Stat(filepath.Join(dir, filepath.FromSlash(pkg.Dir), f.Name))
		require.NoError(t, statErr)
		assert.Equal(t, int64(f.Size), info.Size(), f.Name)
	}
}

func TestGenerateTool_ModulePathAndNamespaces(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, "catalog.json", testutil.CatalogModel)

	input := generateInput{
		Model:      modelInput{File: path},
		OutputDir:  dir,
		ModulePath: "github.com/acme/api",
		Namespaces: []string{"example.catalog"},
	}
	_, output, err := handleGenerate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)

	require.Len(t, output.Packages, 1)
	assert.Equal(t, "github.com/acme/api/example/catalog", output.Packages[0].ImportPath)

	data, readErr := os.ReadFile(filepath.Join(dir, "example", "catalog", "types.go"))
	require.NoError(t, readErr)
	assert.Contains(t, string(data), "package catalog")
}

func TestGenerateTool_SinglePolicy(t *testing.T) {
	input := generateInput{
		Model:     modelInput{Content: testutil.TwoServicesModel},
		OutputDir: t.TempDir(),
		Policy:    "single",
	}
	result, output, err := handleGenerate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].(*mcp.TextContent).Text, "ambiguous service count")
	assert.Empty(t, output.Packages)
}

func TestGenerateTool_MissingOutputDir(t *testing.T) {
	input := generateInput{Model: modelInput{Content: testutil.WeatherModel}}
	result, output, err := handleGenerate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Empty(t, output.OutputDir)
}

func TestGenerateTool_InvalidModel(t *testing.T) {
	input := generateInput{
		Model:     modelInput{Content: testutil.UnionModel},
		OutputDir: t.TempDir(),
	}
	result, output, err := handleGenerate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].(*mcp.TextContent).Text, "unsupported shape kind")
	assert.Empty(t, output.OutputDir)
}

func TestGenerateTool_NoInputProvided(t *testing.T) {
	input := generateInput{OutputDir: t.TempDir()}
	result, _, err := handleGenerate(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
