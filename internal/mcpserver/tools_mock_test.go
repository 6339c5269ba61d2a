package mcpserver

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/smithygen/internal/testutil"
)

func TestMockTool_Structure(t *testing.T) {
	seed := uint64(9)
	listSize := 2
	input := mockInput{
		Model:    modelInput{Content: testutil.CyclesModel},
		Shape:    "example.cycles#Tree",
		Seed:     &seed,
		ListSize: &listSize,
	}
	result, output, err := handleMock(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, "example.cycles#Tree", output.Shape)
	assert.Equal(t, uint64(9), output.Seed)
	obj, ok := output.Value.(map[string]any)
	require.True(t, ok, "expected an object, got %T", output.Value)
	assert.Contains(t, obj, "name")

	_, again, err := handleMock(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.Equal(t, output.Value, again.Value)
}

func TestMockTool_Prelude(t *testing.T) {
	input := mockInput{
		Model: modelInput{Content: testutil.WeatherModel},
		Shape: "smithy.api#Integer",
	}
	result, output, err := handleMock(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.Nil(t, result)
	assert.IsType(t, float64(0), output.Value)
	assert.Equal(t, cfg.MockSeed, output.Seed)
}

func TestMockTool_Errors(t *testing.T) {
	for name, shape := range map[string]string{
		"malformed id": "Forecast",
		"unknown id":   "example.weather#Missing",
	} {
		t.Run(name, func(t *testing.T) {
			input := mockInput{Model: modelInput{Content: testutil.WeatherModel}, Shape: shape}
			result, _, err := handleMock(context.Background(), &mcp.CallToolRequest{}, input)
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.IsError)
		})
	}
}

func TestCheckTool(t *testing.T) {
	tests := []struct {
		name     string
		instance any
		valid    bool
		want     string
	}{
		{
			name:     "valid",
			instance: map[string]any{"product": map[string]any{"id": "p1", "name": "Dune"}},
			valid:    true,
		},
		{
			name:     "missing nested member",
			instance: map[string]any{"product": map[string]any{"id": "p1"}},
			want:     "Product.name",
		},
		{
			name:     "missing member",
			instance: map[string]any{},
			want:     "product",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := checkInput{
				Model:    modelInput{Content: testutil.CatalogModel},
				Shape:    "example.catalog#CreateProductInput",
				Instance: tt.instance,
			}
			result, output, err := handleCheck(context.Background(), &mcp.CallToolRequest{}, input)
			require.NoError(t, err)
			require.Nil(t, result)
			assert.Equal(t, tt.valid, output.Valid)
			assert.Contains(t, output.Error, tt.want)
		})
	}
}

func TestCheckTool_RequiresStructure(t *testing.T) {
	input := checkInput{
		Model:    modelInput{Content: testutil.CatalogModel},
		Shape:    "example.catalog#TagList",
		Instance: []any{"a"},
	}
	result, _, err := handleCheck(context.Background(), &mcp.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].(*mcp.TextContent).Text, "requires a structure")
}
