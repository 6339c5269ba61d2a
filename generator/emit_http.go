package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/erraggy/smithygen/parser"
	"github.com/erraggy/smithygen/shapeerrors"
	"github.com/erraggy/smithygen/typemap"
)

// httpMethods are the verbs an http trait may bind.
var httpMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "PATCH": true, "DELETE": true,
}

// NormalizeHTTPMethod upper-cases method and checks it is one of GET, POST,
// PUT, PATCH or DELETE.
func NormalizeHTTPMethod(op parser.ShapeID, method string) (string, error) {
	m := strings.ToUpper(strings.TrimSpace(method))
	if !httpMethods[m] {
		return "", &shapeerrors.HTTPMethodError{ShapeID: op.String(), Method: method}
	}
	return m, nil
}

// RoutePattern converts an http trait URI to a net/http ServeMux pattern:
// the query part is dropped and greedy labels {name+} become {name...}.
func RoutePattern(method string, b *parser.HTTPBinding) string {
	return method + " " + strings.ReplaceAll(b.Path(), "+}", "...}")
}

// httpOperation is an operation bound to a route.
type httpOperation struct {
	op      *parser.Operation
	method  string
	binding *parser.HTTPBinding
	params  []httpParam
}

// httpParam is an input member bound from the request URL.
type httpParam struct {
	name     string
	field    string
	goType   string
	label    string
	query    string
	required bool
}

func (p httpParam) isLabel() bool { return p.label != "" }

// httpOperations returns the HTTP-bound operations of si in declaration
// order. An invalid method fails the namespace.
func (e *emitter) httpOperations(si serviceInfo) ([]httpOperation, error) {
	var out []httpOperation
	for _, op := range si.ops {
		binding, ok, err := op.Traits().HTTP()
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		method, err := NormalizeHTTPMethod(op.ID(), binding.Method)
		if err != nil {
			return nil, err
		}
		params, err := e.httpParams(op, binding)
		if err != nil {
			return nil, err
		}
		out = append(out, httpOperation{op: op, method: method, binding: binding, params: params})
	}
	return out, nil
}

// httpParams picks the label and query members of op's input in
// declaration order. Members that cannot be parsed from a string stay in
// the body.
func (e *emitter) httpParams(op *parser.Operation, binding *parser.HTTPBinding) ([]httpParam, error) {
	labels := make(map[string]bool)
	for _, l := range binding.Labels() {
		labels[l] = true
	}
	if typemap.IsUnit(op.Input) {
		for _, l := range binding.Labels() {
			e.addShapeIssue(op, fmt.Sprintf("URI label {%s} has no input member", l), SeverityWarning)
		}
		return nil, nil
	}
	in, err := parser.ResolveAs[*parser.Structure](e.model, op.Input)
	if err != nil {
		return nil, err
	}

	var params []httpParam
	bound := make(map[string]bool)
	for _, mem := range in.Members {
		isLabel := mem.Traits.HTTPLabel()
		query, isQuery := mem.Traits.HTTPQuery()
		if !isLabel && !isQuery {
			continue
		}
		if isLabel && !labels[mem.Name] {
			e.addShapeIssue(in, fmt.Sprintf("member %s is an httpLabel but the URI has no {%s}", mem.Name, mem.Name), SeverityWarning)
			continue
		}
		ref, err := e.mapper.ClassifyMember(mem)
		if err != nil {
			return nil, err
		}
		if !bindable(ref) {
			e.addShapeIssue(in, fmt.Sprintf("member %s (%s) cannot be bound from the URL; it is read from the body", mem.Name, ref.Category), SeverityWarning)
			continue
		}
		p := httpParam{
			name:     paramName(mem.Name),
			field:    typemap.FieldName(in, mem),
			goType:   e.mapper.RefType(ref),
			required: mem.Traits.Required(),
		}
		if isLabel {
			p.label = mem.Name
			bound[mem.Name] = true
		} else {
			p.query = query
		}
		params = append(params, p)
	}
	for _, l := range binding.Labels() {
		if !bound[l] {
			e.addShapeIssue(op, fmt.Sprintf("URI label {%s} is not bound to an input member", l), SeverityWarning)
		}
	}
	return params, nil
}

// bindable reports whether values of ref can be parsed from a URL string.
func bindable(ref typemap.Ref) bool {
	switch ref.Category {
	case typemap.Enum:
		return true
	case typemap.Primitive, typemap.Simple:
		return ref.Primitive != parser.SimpleBlob
	}
	return false
}

// httpBody declares a handler per service with HTTP-bound operations.
func (e *emitter) httpBody() (string, bool, error) {
	bound := make([][]httpOperation, len(e.services))
	routed := false
	for i, si := range e.services {
		ops, err := e.httpOperations(si)
		if err != nil {
			return "", false, err
		}
		bound[i] = ops
		routed = routed || len(ops) > 0
	}
	if !routed {
		return "", false, nil
	}
	for _, imp := range []string{"encoding/json", "errors", "fmt", "io", "net/http", "reflect", "strconv", "time"} {
		e.mapper.UseImport(imp)
	}

	var b strings.Builder
	for i, si := range e.services {
		if len(bound[i]) == 0 {
			continue
		}
		if err := e.writeHandler(&b, si, bound[i]); err != nil {
			return "", false, err
		}
	}
	helpers, err := executeTemplate("http_helpers.tmpl", nil)
	if err != nil {
		return "", false, err
	}
	b.WriteString(helpers)
	return b.String(), true, nil
}

func handlerName(iface string) string {
	return iface + "HTTPHandler"
}

func (e *emitter) writeHandler(b *strings.Builder, si serviceInfo, ops []httpOperation) error {
	handler := handlerName(si.name)
	fmt.Fprintf(b, "// %s serves %s over HTTP. Label and query members are bound from the\n", handler, si.name)
	b.WriteString("// request URL; all other input members are decoded from the JSON body.\n")
	fmt.Fprintf(b, "type %s struct {\nService %s\n}\n\n", handler, si.name)
	fmt.Fprintf(b, "// New%s returns a handler serving svc.\n", handler)
	fmt.Fprintf(b, "func New%s(svc %s) *%s {\nreturn &%s{Service: svc}\n}\n\n", handler, si.name, handler, handler)

	fmt.Fprintf(b, "// RegisterRoutes registers every HTTP-bound operation of %s on mux.\n", si.name)
	fmt.Fprintf(b, "func (h *%s) RegisterRoutes(mux *http.ServeMux) {\n", handler)
	seen := make(map[string]bool)
	for _, ho := range ops {
		pattern := RoutePattern(ho.method, ho.binding)
		if seen[pattern] {
			e.addShapeIssue(ho.op, fmt.Sprintf("route %q is already registered; operation not routed", pattern), SeverityWarning)
			continue
		}
		seen[pattern] = true
		fmt.Fprintf(b, "mux.HandleFunc(%q, h.route%s)\n", pattern, typemap.DeclName(ho.op.ID()))
	}
	b.WriteString("}\n")

	for _, ho := range ops {
		if err := e.writeRoute(b, handler, ho); err != nil {
			return err
		}
	}
	b.WriteString("\n")
	return nil
}

const badRequest = "{\nwriteHTTPError(w, http.StatusBadRequest, err)\nreturn\n}\n"

// writeRoute writes the unexported route that extracts URL parameters and
// the exported method that takes them explicitly.
func (e *emitter) writeRoute(b *strings.Builder, handler string, ho httpOperation) error {
	method := typemap.DeclName(ho.op.ID())
	in, _, err := e.signature(ho.op)
	if err != nil {
		return err
	}

	fmt.Fprintf(b, "\nfunc (h *%s) route%s(w http.ResponseWriter, r *http.Request) {\n", handler, method)
	args := []string{"w", "r"}
	for _, p := range ho.params {
		if p.isLabel() {
			fmt.Fprintf(b, "var %s %s\n", p.name, p.goType)
			fmt.Fprintf(b, "if err := bindHTTPParam(r.PathValue(%q), &%s); err != nil %s", p.label, p.name, badRequest)
		} else {
			fmt.Fprintf(b, "var %s *%s\n", p.name, p.goType)
			fmt.Fprintf(b, "if raw := r.URL.Query().Get(%q); raw != \"\" {\n", p.query)
			fmt.Fprintf(b, "%s = new(%s)\n", p.name, p.goType)
			fmt.Fprintf(b, "if err := bindHTTPParam(raw, %s); err != nil %s}\n", p.name, badRequest)
		}
		args = append(args, p.name)
	}
	fmt.Fprintf(b, "h.%s(%s)\n}\n", method, strings.Join(args, ", "))

	sig := []string{"w http.ResponseWriter", "r *http.Request"}
	for _, p := range ho.params {
		if p.isLabel() {
			sig = append(sig, p.name+" "+p.goType)
		} else {
			sig = append(sig, p.name+" *"+p.goType)
		}
	}
	fmt.Fprintf(b, "\n// %s handles %s %s.\n", method, ho.method, ho.binding.URI)
	fmt.Fprintf(b, "func (h *%s) %s(%s) {\n", handler, method, strings.Join(sig, ", "))
	fmt.Fprintf(b, "input := &%s{}\n", in)
	if !typemap.IsUnit(ho.op.Input) {
		b.WriteString("if err := decodeHTTPBody(r, input); err != nil " + badRequest)
		for _, p := range ho.params {
			if p.isLabel() {
				fmt.Fprintf(b, "input.%s = &%s\n", p.field, p.name)
			} else {
				fmt.Fprintf(b, "input.%s = %s\n", p.field, p.name)
			}
		}
		b.WriteString("if err := input.Validate(); err != nil " + badRequest)
	}
	fmt.Fprintf(b, "output, err := h.Service.%s(r.Context(), input)\n", method)
	b.WriteString("if err != nil {\nwriteHTTPError(w, httpErrorStatus(err), err)\nreturn\n}\n")
	fmt.Fprintf(b, "writeHTTPJSON(w, %s, output)\n}\n", strconv.Itoa(ho.binding.Code))
	return nil
}
