package scaffold

import (
	"fmt"
	"strings"

	"github.com/erraggy/smithygen/mockdata"
	"github.com/erraggy/smithygen/parser"
	"github.com/erraggy/smithygen/typemap"
)

// Service describes one generated service interface whose operations get
// test stubs.
type Service struct {
	// Interface is the generated interface name.
	Interface string
	// Default is the Go expression constructing the implementation the
	// stubs run against unless the hook is reassigned.
	Default string
	// Operations are the interface methods in declaration order.
	Operations []*parser.Operation
}

// HookName returns the name of the package variable the stubs obtain the
// service from. Reassign it in another _test.go file of the package to run
// the stubs against a real implementation.
func HookName(iface string) string {
	return "new" + iface + "UnderTest"
}

// TestStubs returns Go test source with one test per operation of services.
func TestStubs(m *typemap.Mapper, mocks *mockdata.Generator, services []Service) (string, error) {
	m.UseImport("context")
	m.UseImport("testing")

	var b strings.Builder
	for _, svc := range services {
		hook := HookName(svc.Interface)
		fmt.Fprintf(&b, "// %s returns the %s exercised by the tests below.\n", hook, svc.Interface)
		fmt.Fprintf(&b, "var %s = func() %s { return %s }\n", hook, svc.Interface, svc.Default)

		for _, op := range svc.Operations {
			input, err := inputExpr(m, mocks, op.Input)
			if err != nil {
				return "", err
			}
			method := typemap.DeclName(op.ID())
			fmt.Fprintf(&b, "\nfunc Test%s_%s(t *testing.T) {\n", svc.Interface, method)
			fmt.Fprintf(&b, "svc := %s()\n", hook)
			fmt.Fprintf(&b, "input := %s\n", input)
			b.WriteString("if err := input.Validate(); err != nil {\nt.Fatalf(\"synthesized input is invalid: %v\", err)\n}\n")
			fmt.Fprintf(&b, "output, err := svc.%s(context.Background(), input)\n", method)
			fmt.Fprintf(&b, "if err != nil {\nt.Fatalf(\"%s: %%v\", err)\n}\n", method)
			b.WriteString("if err := output.Validate(); err != nil {\nt.Fatalf(\"output is invalid: %v\", err)\n}\n")
			b.WriteString("}\n")
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

func inputExpr(m *typemap.Mapper, mocks *mockdata.Generator, id parser.ShapeID) (string, error) {
	if typemap.IsUnit(id) {
		return "&" + typemap.UnitType + "{}", nil
	}
	v, err := mocks.Structure(id)
	if err != nil {
		return "", err
	}
	return mockdata.GoFieldExpr(m, v)
}
