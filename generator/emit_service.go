package generator

import (
	"fmt"
	"strings"

	"github.com/erraggy/smithygen/internal/naming"
	"github.com/erraggy/smithygen/mockdata"
	"github.com/erraggy/smithygen/parser"
	"github.com/erraggy/smithygen/typemap"
)

// signature returns the Go input and output types of op.
func (e *emitter) signature(op *parser.Operation) (in, out string, err error) {
	if in, err = e.mapper.IOType(op.Input); err != nil {
		return "", "", err
	}
	if out, err = e.mapper.IOType(op.Output); err != nil {
		return "", "", err
	}
	return in, out, nil
}

// operationErrors returns the Go types of the errors op may return: its own
// followed by the service-wide ones, each once.
func (e *emitter) operationErrors(si serviceInfo, op *parser.Operation) ([]string, error) {
	var out []string
	seen := make(map[parser.ShapeID]bool)
	for _, id := range append(append([]parser.ShapeID{}, op.Errors...), si.svc.Errors...) {
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := parser.ResolveAs[*parser.Structure](e.model, id); err != nil {
			return nil, err
		}
		out = append(out, "*"+e.mapper.Qualify(id))
	}
	return out, nil
}

// serviceBody declares one interface per service.
func (e *emitter) serviceBody() (string, bool, error) {
	if len(e.services) == 0 {
		return "", false, nil
	}
	e.mapper.UseImport("context")

	var b strings.Builder
	for _, si := range e.services {
		if si.svc.Version != "" {
			fmt.Fprintf(&b, "// %sVersion is the API version of %s.\n", si.name, si.name)
			fmt.Fprintf(&b, "const %sVersion = %q\n\n", si.name, si.svc.Version)
		}

		b.WriteString(shapeDoc(si.svc, si.name, ""))
		fmt.Fprintf(&b, "type %s interface {\n", si.name)
		for i, op := range si.ops {
			in, out, err := e.signature(op)
			if err != nil {
				return "", false, err
			}
			errs, err := e.operationErrors(si, op)
			if err != nil {
				return "", false, err
			}
			method := typemap.DeclName(op.ID())

			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(shapeDoc(op, method, "\t"))
			if len(errs) > 0 {
				fmt.Fprintf(&b, "\t//\n\t// Errors: %s.\n", strings.Join(errs, ", "))
			}
			fmt.Fprintf(&b, "\t%s(ctx context.Context, input *%s) (*%s, error)\n", method, in, out)
		}
		b.WriteString("}\n\n")
		e.pkg.Operations += len(si.ops)
	}
	return b.String(), true, nil
}

// mockName is the generated mock implementation of a service interface.
func mockName(iface string) string {
	return "Mock" + iface
}

// mockBody implements every service with synthesized responses.
func (e *emitter) mockBody() (string, bool, error) {
	if len(e.services) == 0 {
		return "", false, nil
	}
	e.mapper.UseImport("context")

	var b strings.Builder
	for _, si := range e.services {
		mock := mockName(si.name)
		fmt.Fprintf(&b, "// %s implements %s with synthesized responses.\n", mock, si.name)
		fmt.Fprintf(&b, "type %s struct{}\n\n", mock)
		fmt.Fprintf(&b, "var _ %s = (*%s)(nil)\n\n", si.name, mock)
		fmt.Fprintf(&b, "// New%s returns a %s.\n", mock, mock)
		fmt.Fprintf(&b, "func New%s() *%s {\nreturn &%s{}\n}\n", mock, mock, mock)

		for _, op := range si.ops {
			in, out, err := e.signature(op)
			if err != nil {
				return "", false, err
			}
			expr, err := e.mockOutput(op)
			if err != nil {
				return "", false, err
			}
			method := typemap.DeclName(op.ID())
			fmt.Fprintf(&b, "\n// %s returns a synthesized %s.\n", method, out)
			fmt.Fprintf(&b, "func (m *%s) %s(ctx context.Context, input *%s) (*%s, error) {\n", mock, method, in, out)
			fmt.Fprintf(&b, "return %s, nil\n}\n", expr)
		}
		b.WriteString("\n")
	}

	helper, err := executeTemplate("mock_helpers.tmpl", mockdata.PtrHelper)
	if err != nil {
		return "", false, err
	}
	b.WriteString(helper)
	return b.String(), true, nil
}

func (e *emitter) mockOutput(op *parser.Operation) (string, error) {
	if typemap.IsUnit(op.Output) {
		return "&" + typemap.UnitType + "{}", nil
	}
	v, err := e.mocks.Structure(op.Output)
	if err != nil {
		return "", err
	}
	return mockdata.GoFieldExpr(e.mapper, v)
}

// paramName returns a handler parameter name for a member that cannot
// collide with the handler's own identifiers.
func paramName(member string) string {
	name := naming.ParamName(member)
	switch name {
	case "w", "r", "h", "input", "output", "err", "raw", "status",
		"string", "bool", "int", "error", "any", "time":
		return name + "Param"
	}
	return name
}
