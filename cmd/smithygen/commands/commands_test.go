package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/smithygen/internal/testutil"
	"github.com/erraggy/smithygen/pipeline"
)

// execute runs the command tree with args and returns stdout and the error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "smithygen vdev\n", out)
}

func TestGenerate(t *testing.T) {
	model := testutil.WriteFile(t, "weather.json", testutil.WeatherModel)
	dir := t.TempDir()

	out, err := execute(t, "generate", model, "-o", dir, "--module", "github.com/acme/api")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 1 package(s), 2 type(s), 1 operation(s)")
	assert.Contains(t, out, "github.com/acme/api/example/weather")
	assert.FileExists(t, filepath.Join(dir, "example", "weather", "types.go"))
	assert.FileExists(t, filepath.Join(dir, "example", "weather", "service.go"))
}

func TestGenerateNamespaceFilter(t *testing.T) {
	model := testutil.WriteFile(t, "catalog.json", testutil.CatalogModel)
	dir := t.TempDir()

	out, err := execute(t, "generate", model, "-o", dir, "--namespace", "example.other")
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 0 package(s)")
	assert.NoDirExists(t, filepath.Join(dir, "example", "catalog"))
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name  string
		model string
		args  []string
		want  string
	}{
		{
			name:  "single policy",
			model: testutil.TwoServicesModel,
			args:  []string{"--policy", "single"},
			want:  "ambiguous service count",
		},
		{
			name:  "unsupported shape",
			model: testutil.UnionModel,
			want:  "unsupported shape kind",
		},
		{
			name:  "invalid policy",
			model: testutil.WeatherModel,
			args:  []string{"--policy", "several"},
			want:  "configuration error for policy",
		},
		{
			name:  "negative list size",
			model: testutil.WeatherModel,
			args:  []string{"--list-size", "-1"},
			want:  "mock.list_size",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := testutil.WriteFile(t, "model.json", tt.model)
			args := append([]string{"generate", model, "-o", t.TempDir()}, tt.args...)
			_, err := execute(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGenerateSourceNeedsBuildCommand(t *testing.T) {
	source := testutil.WriteFile(t, "weather.smithy", "namespace example.weather\n")
	_, err := execute(t, "generate", source, "-o", t.TempDir())
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestPublishThenGenerateDependent(t *testing.T) {
	registry := t.TempDir()
	catalog := testutil.WriteFile(t, "catalog.json", testutil.CatalogModel)

	out, err := execute(t, "publish", catalog, "--registry", registry)
	require.NoError(t, err)
	assert.Equal(t, "Published example.catalog 1.0.0 to local\n", out)
	assert.FileExists(t, filepath.Join(registry, "local", "example.catalog", "1.0.0", pipeline.ModelFile))

	out, err = execute(t, "publish", catalog, "--registry", registry)
	require.NoError(t, err)
	assert.Contains(t, out, "example.catalog 1.0.1")

	source := testutil.WriteFile(t, "orders.smithy", testutil.OrdersSource)
	orders := testutil.WriteFile(t, "orders.json", testutil.OrdersModel)
	dir := t.TempDir()
	out, err = execute(t, "generate", orders, "--source", source, "--registry", registry, "-o", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "generated/example/orders")
	assert.FileExists(t, filepath.Join(dir, "example", "orders", "types.go"))
}

func TestPublishUnresolvedDependency(t *testing.T) {
	source := testutil.WriteFile(t, "orders.smithy", testutil.OrdersSource)
	orders := testutil.WriteFile(t, "orders.json", testutil.OrdersModel)

	out, err := execute(t, "publish", orders, "--source", source, "--registry", t.TempDir())
	require.Error(t, err)
	assert.Empty(t, out)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestInspect(t *testing.T) {
	model := testutil.WriteFile(t, "catalog.json", testutil.CatalogModel)

	out, err := execute(t, "inspect", model)
	require.NoError(t, err)
	assert.Contains(t, out, "Smithy version: 2.0")
	assert.Contains(t, out, "Service example.catalog#Catalog (version 2024-06-01)")
	assert.Contains(t, out, "/products/{productId}")
	assert.Regexp(t, `POST +/products +201 +example\.catalog#CreateProduct`, out)
	assert.Regexp(t, `- +- +- +example\.catalog#Ping`, out)

	out, err = execute(t, "inspect", "--format", "json", model)
	require.NoError(t, err)
	var summary modelSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, []string{"example.catalog"}, summary.Namespaces)
	require.Len(t, summary.Services, 1)
	assert.Len(t, summary.Services[0].Operations, 4)

	out, err = execute(t, "inspect", "-f", "yaml", model)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "2.0", doc["version"])
}

func TestInspectErrors(t *testing.T) {
	_, err := execute(t, "inspect", "--format", "xml", testutil.WriteFile(t, "m.json", testutil.WeatherModel))
	assert.ErrorContains(t, err, "invalid format 'xml'")

	_, err = execute(t, "inspect", testutil.WriteFile(t, "m.json", testutil.DanglingModel))
	assert.ErrorContains(t, err, "example.broken#Missing")

	_, err = execute(t, "inspect")
	assert.Error(t, err)
}

func TestMock(t *testing.T) {
	model := testutil.WriteFile(t, "cycles.json", testutil.CyclesModel)

	first, err := execute(t, "mock", model, "example.cycles#Tree", "--seed", "7", "--list-size", "2")
	require.NoError(t, err)
	second, err := execute(t, "mock", model, "example.cycles#Tree", "--seed", "7", "--list-size", "2")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var value map[string]any
	require.NoError(t, json.Unmarshal([]byte(first), &value))
	assert.Contains(t, value, "name")

	out, err := execute(t, "mock", "--format", "yaml", model, "smithy.api#Integer")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestMockErrors(t *testing.T) {
	model := testutil.WriteFile(t, "weather.json", testutil.WeatherModel)

	_, err := execute(t, "mock", model, "Forecast")
	require.Error(t, err)
	assert.Contains(t, errors.GetAllHints(err), "shape ids look like namespace#Name")

	_, err = execute(t, "mock", model, "example.weather#Missing")
	assert.Error(t, err)
}

func TestServeRejectsBadService(t *testing.T) {
	two := testutil.WriteFile(t, "two.json", testutil.TwoServicesModel)

	_, err := execute(t, "serve", two)
	assert.ErrorContains(t, err, "ambiguous service count")

	_, err = execute(t, "serve", two, "--service", "example.multi#Gamma")
	assert.Error(t, err)

	_, err = execute(t, "serve", two, "--addr", "nowhere")
	assert.ErrorContains(t, err, "server.addr")
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	err := errors.WithHint(errors.New("boom"), "try again")
	PrintError(&buf, err)
	assert.Equal(t, "Error: boom\nHint: try again\n", buf.String())
}

func TestPipelineInput(t *testing.T) {
	assert.Equal(t, pipeline.Input{Source: "a/weather.smithy"}, pipelineInput("a/weather.smithy", "ignored.smithy"))
	assert.Equal(t, pipeline.Input{Model: "model.json", Source: "w.smithy"}, pipelineInput("model.json", "w.smithy"))
}

func TestOutputStructured(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, OutputStructured(&buf, map[string]int{"a": 1}, FormatJSON))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())

	assert.Error(t, OutputStructured(&buf, nil, FormatText))
	assert.Error(t, ValidateOutputFormat("xml"))
	assert.NoError(t, ValidateOutputFormat(FormatYAML))
}
