package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/smithygen/generator"
	"github.com/erraggy/smithygen/parser"
)

type inspectInput struct {
	Model     modelInput `json:"model"               jsonschema:"The Smithy model to inspect"`
	Namespace string     `json:"namespace,omitempty" jsonschema:"Only list shapes of this namespace"`
	Kind      string     `json:"kind,omitempty"      jsonschema:"Only list shapes of this kind (structure, list, map, enum, simple type, operation, resource, service)"`
	Name      string     `json:"name,omitempty"      jsonschema:"Only list shapes whose name matches (supports * and ? globs)"`
	GroupBy   string     `json:"group_by,omitempty"  jsonschema:"Group listed shapes and return counts: kind or namespace"`
	Offset    int        `json:"offset,omitempty"    jsonschema:"Skip the first N shapes"`
	Limit     int        `json:"limit,omitempty"     jsonschema:"Maximum number of shapes to return"`
}

type shapeSummary struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Namespace string `json:"namespace"`
	Line      int    `json:"line,omitempty"`
	Doc       string `json:"doc,omitempty"`
}

type operationSummary struct {
	ID     string `json:"id"`
	Input  string `json:"input,omitempty"`
	Output string `json:"output,omitempty"`
	Method string `json:"method,omitempty"`
	URI    string `json:"uri,omitempty"`
	Code   int    `json:"code,omitempty"`
}

type serviceSummary struct {
	ID         string             `json:"id"`
	Version    string             `json:"version,omitempty"`
	Operations []operationSummary `json:"operations"`
}

type inspectOutput struct {
	Version    string           `json:"version"`
	ShapeCount int              `json:"shape_count"`
	Namespaces []string         `json:"namespaces"`
	Services   []serviceSummary `json:"services,omitempty"`
	Matched    int              `json:"matched"`
	Returned   int              `json:"returned"`
	Shapes     []shapeSummary   `json:"shapes,omitempty"`
	Groups     []groupCount     `json:"groups,omitempty"`
}

func handleInspect(_ context.Context, _ *mcp.CallToolRequest, input inspectInput) (*mcp.CallToolResult, inspectOutput, error) {
	if err := validateGroupBy(input.GroupBy, []string{"kind", "namespace"}); err != nil {
		return errResult(err), inspectOutput{}, nil
	}
	if err := validateGlobPattern(input.Name); err != nil {
		return errResult(err), inspectOutput{}, nil
	}

	parseResult, err := input.Model.resolve()
	if err != nil {
		return errResult(err), inspectOutput{}, nil
	}
	model := parseResult.Model

	output := inspectOutput{
		Version:    parseResult.Version,
		ShapeCount: model.Len(),
		Namespaces: model.Namespaces(),
	}

	services := model.Services()
	if input.Namespace != "" {
		services = parser.InNamespace(services, input.Namespace)
	}
	output.Services = makeSlice[serviceSummary](len(services))
	for _, svc := range services {
		summary, err := summarizeService(model, svc)
		if err != nil {
			return errResult(err), inspectOutput{}, nil
		}
		output.Services = append(output.Services, summary)
	}

	var matched []shapeSummary
	for _, s := range model.Shapes() {
		id := s.ID()
		if input.Namespace != "" && id.Namespace() != input.Namespace {
			continue
		}
		if input.Kind != "" && !strings.EqualFold(s.Kind().String(), input.Kind) {
			continue
		}
		if !matchGlobName(id.Name(), input.Name) {
			continue
		}
		matched = append(matched, shapeSummary{
			ID:        id.String(),
			Kind:      s.Kind().String(),
			Namespace: id.Namespace(),
			Line:      s.Line(),
			Doc:       s.Traits().Documentation(),
		})
	}
	output.Matched = len(matched)

	if input.GroupBy != "" {
		output.Groups = countBy(matched, func(s shapeSummary) string {
			if strings.EqualFold(input.GroupBy, "kind") {
				return s.Kind
			}
			return s.Namespace
		})
		return nil, output, nil
	}

	output.Shapes = paginate(matched, input.Offset, input.Limit)
	output.Returned = len(output.Shapes)
	return nil, output, nil
}

func summarizeService(model *parser.Model, svc *parser.Service) (serviceSummary, error) {
	ops, err := model.ServiceOperations(svc)
	if err != nil {
		return serviceSummary{}, fmt.Errorf("service %s: %w", svc.ID(), err)
	}
	summary := serviceSummary{
		ID:         svc.ID().String(),
		Version:    svc.Version,
		Operations: makeSlice[operationSummary](len(ops)),
	}
	for _, op := range ops {
		o := operationSummary{
			ID:     op.ID().String(),
			Input:  op.Input.String(),
			Output: op.Output.String(),
		}
		binding, ok, err := op.Traits().HTTP()
		if err != nil {
			return serviceSummary{}, err
		}
		if ok {
			method, err := generator.NormalizeHTTPMethod(op.ID(), binding.Method)
			if err != nil {
				return serviceSummary{}, err
			}
			o.Method, o.URI, o.Code = method, binding.URI, binding.Code
		}
		summary.Operations = append(summary.Operations, o)
	}
	return summary, nil
}
