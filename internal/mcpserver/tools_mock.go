package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/smithygen/mockdata"
	"github.com/erraggy/smithygen/parser"
	"github.com/erraggy/smithygen/scaffold"
)

type mockInput struct {
	Model    modelInput `json:"model"               jsonschema:"The Smithy model defining the shape"`
	Shape    string     `json:"shape"               jsonschema:"Absolute shape id to synthesize, e.g. example.weather#GetForecastOutput"`
	Seed     *uint64    `json:"seed,omitempty"      jsonschema:"Seed for the pseudo-random values"`
	ListSize *int       `json:"list_size,omitempty" jsonschema:"Number of elements synthesized for lists"`
}

type mockOutput struct {
	Shape string `json:"shape"`
	Seed  uint64 `json:"seed"`
	Value any    `json:"value"`
}

func handleMock(_ context.Context, _ *mcp.CallToolRequest, input mockInput) (*mcp.CallToolResult, mockOutput, error) {
	id, err := parser.ParseShapeID(input.Shape)
	if err != nil {
		return errResult(err), mockOutput{}, nil
	}
	parseResult, err := input.Model.resolve()
	if err != nil {
		return errResult(err), mockOutput{}, nil
	}

	seed := cfg.MockSeed
	if input.Seed != nil {
		seed = *input.Seed
	}
	listSize := cfg.MockListSize
	if input.ListSize != nil {
		listSize = *input.ListSize
	}

	gen := mockdata.New(parseResult.Model, mockdata.WithSeed(seed), mockdata.WithListSize(listSize))
	v, err := gen.Synthesize(id)
	if err != nil {
		return errResult(err), mockOutput{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return errResult(err), mockOutput{}, nil
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return errResult(err), mockOutput{}, nil
	}
	return nil, mockOutput{Shape: id.String(), Seed: seed, Value: value}, nil
}

type checkInput struct {
	Model    modelInput `json:"model"    jsonschema:"The Smithy model defining the structure"`
	Shape    string     `json:"shape"    jsonschema:"Absolute id of the structure to check against"`
	Instance any        `json:"instance" jsonschema:"The JSON instance to check"`
}

type checkOutput struct {
	Shape string `json:"shape"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func handleCheck(_ context.Context, _ *mcp.CallToolRequest, input checkInput) (*mcp.CallToolResult, checkOutput, error) {
	id, err := parser.ParseShapeID(input.Shape)
	if err != nil {
		return errResult(err), checkOutput{}, nil
	}
	parseResult, err := input.Model.resolve()
	if err != nil {
		return errResult(err), checkOutput{}, nil
	}
	if _, err := parser.ResolveAs[*parser.Structure](parseResult.Model, id); err != nil {
		return errResult(fmt.Errorf("check requires a structure: %w", err)), checkOutput{}, nil
	}

	output := checkOutput{Shape: id.String(), Valid: true}
	if err := scaffold.CheckInstance(parseResult.Model, id, input.Instance); err != nil {
		output.Valid = false
		output.Error = sanitizeError(err)
	}
	return nil, output, nil
}
