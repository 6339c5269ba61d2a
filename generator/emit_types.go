package generator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/erraggy/smithygen/internal/naming"
	"github.com/erraggy/smithygen/mockdata"
	"github.com/erraggy/smithygen/parser"
	"github.com/erraggy/smithygen/shapeerrors"
	"github.com/erraggy/smithygen/typemap"
)

const unitDecl = `// Unit is the input or output of operations that declare none.
type Unit struct{}

// Validate always succeeds; a Unit has no members.
func (*Unit) Validate() error { return nil }
`

// typesBody declares every data shape of the namespace in load order.
func (e *emitter) typesBody() (string, bool, error) {
	var b strings.Builder
	b.WriteString(unitDecl)

	for _, s := range e.dataShapes {
		b.WriteString("\n")
		var err error
		switch s := s.(type) {
		case *parser.SimpleType:
			err = e.writeSimpleType(&b, s)
		case *parser.Enum:
			e.writeEnum(&b, s)
		case *parser.List:
			err = e.writeList(&b, s)
		case *parser.Map:
			err = e.writeMap(&b, s)
		case *parser.Structure:
			err = e.writeStructure(&b, s)
		}
		if err != nil {
			return "", false, err
		}
		e.pkg.Types++
	}
	return b.String(), true, nil
}

func (e *emitter) writeSimpleType(b *strings.Builder, s *parser.SimpleType) error {
	goType, ok := typemap.GoPrimitive(s.Primitive)
	if !ok {
		return &shapeerrors.TypeMappingError{ShapeID: string(s.Primitive), From: s.ID().String()}
	}
	if s.Primitive == parser.SimpleTimestamp {
		e.mapper.UseImport("time")
	}

	name := typemap.DeclName(s.ID())
	b.WriteString(shapeDoc(s, name, ""))
	fmt.Fprintf(b, "type %s %s\n", name, goType)

	pattern, ok := s.Traits().Pattern()
	if !ok {
		return nil
	}
	if s.Primitive != parser.SimpleString && s.Primitive != parser.SimpleDocument {
		e.addShapeIssue(s, "pattern trait ignored on a non-string type", SeverityInfo)
		return nil
	}

	fmt.Fprintf(b, "\n// %sPattern is the pattern %s values must match.\n", name, name)
	fmt.Fprintf(b, "const %sPattern = %s\n", name, goStringLiteral(pattern))
	if _, err := regexp.Compile(pattern); err != nil {
		e.addShapeIssue(s, fmt.Sprintf("pattern is not valid RE2, no Valid method emitted: %v", err), SeverityWarning)
		return nil
	}
	e.mapper.UseImport("regexp")
	re := naming.ToCamelCase(name) + "Pattern"
	fmt.Fprintf(b, "\nvar %s = regexp.MustCompile(%sPattern)\n", re, name)
	fmt.Fprintf(b, "\n// Valid reports whether v matches %sPattern.\n", name)
	fmt.Fprintf(b, "func (v %s) Valid() bool {\nreturn %s.MatchString(string(v))\n}\n", name, re)
	return nil
}

// goStringLiteral prefers a raw string so patterns stay readable.
func goStringLiteral(s string) string {
	if strings.Contains(s, "`") {
		return strconv.Quote(s)
	}
	return "`" + s + "`"
}

func (e *emitter) writeEnum(b *strings.Builder, s *parser.Enum) {
	name := typemap.DeclName(s.ID())
	base := "string"
	if s.IntEnum {
		base = "int"
	}
	b.WriteString(shapeDoc(s, name, ""))
	fmt.Fprintf(b, "type %s %s\n", name, base)

	consts := make([]string, len(s.Members))
	if len(s.Members) > 0 {
		b.WriteString("\nconst (\n")
		for i, m := range s.Members {
			consts[i] = typemap.EnumConstName(s.ID(), m.Name)
			if doc := m.Traits.Documentation(); doc != "" {
				b.WriteString(naming.DocComment(doc, consts[i], "\t"))
			}
			value := strconv.Quote(m.Value)
			if s.IntEnum {
				value = strconv.FormatInt(m.IntValue, 10)
			}
			fmt.Fprintf(b, "\t%s %s = %s\n", consts[i], name, value)
		}
		b.WriteString(")\n")
	}

	fmt.Fprintf(b, "\n// %sValues returns the members of %s in declaration order.\n", name, name)
	fmt.Fprintf(b, "func %sValues() []%s {\nreturn []%s{%s}\n}\n", name, name, name, strings.Join(consts, ", "))
}

func (e *emitter) writeList(b *strings.Builder, s *parser.List) error {
	ref, err := e.mapper.ClassifyMember(s.Member)
	if err != nil {
		return err
	}
	name := typemap.DeclName(s.ID())
	b.WriteString(shapeDoc(s, name, ""))
	fmt.Fprintf(b, "type %s []%s\n", name, e.mapper.RefType(ref))
	return nil
}

func (e *emitter) writeMap(b *strings.Builder, s *parser.Map) error {
	key, err := e.mapper.ClassifyMember(s.Key)
	if err != nil {
		return err
	}
	val, err := e.mapper.ClassifyMember(s.Value)
	if err != nil {
		return err
	}
	name := typemap.DeclName(s.ID())
	b.WriteString(shapeDoc(s, name, ""))
	fmt.Fprintf(b, "type %s map[%s]%s\n", name, e.mapper.RefType(key), e.mapper.RefType(val))
	return nil
}

func (e *emitter) writeStructure(b *strings.Builder, s *parser.Structure) error {
	name := typemap.DeclName(s.ID())
	b.WriteString(shapeDoc(s, name, ""))
	fmt.Fprintf(b, "type %s struct {\n", name)

	var message *parser.Member
	for _, mem := range s.Members {
		goType, ref, err := e.mapper.FieldType(mem)
		if err != nil {
			return err
		}
		field := typemap.FieldName(s, mem)
		if doc := mem.Traits.Documentation(); doc != "" {
			b.WriteString(naming.DocComment(doc, field, "\t"))
		}
		fmt.Fprintf(b, "\t%s %s `%s`\n", field, goType, fieldTag(mem))

		if mem.Traits.Streaming() {
			e.addShapeIssue(s, fmt.Sprintf("streaming member %s is generated as a plain %s", mem.Name, goType), SeverityInfo)
		}
		if strings.EqualFold(mem.Name, "message") && isStringRef(ref) {
			message = mem
		}
	}
	b.WriteString("}\n")

	if s.IsError() {
		writeErrorMethods(b, s, name, message)
	}
	return nil
}

// fieldTag returns the struct tag of a member: its serialized name, with
// omitempty unless the member is required.
func fieldTag(mem *parser.Member) string {
	jsonName := mockdata.JSONName(mem)
	if mem.Traits.Required() {
		return fmt.Sprintf(`json:"%s" validate:"required"`, jsonName)
	}
	return fmt.Sprintf(`json:"%s,omitempty"`, jsonName)
}

func isStringRef(ref typemap.Ref) bool {
	return (ref.Category == typemap.Primitive || ref.Category == typemap.Simple) &&
		ref.Primitive == parser.SimpleString
}

// writeErrorMethods makes an error structure implement error and report
// its fault and HTTP status.
func writeErrorMethods(b *strings.Builder, s *parser.Structure, name string, message *parser.Member) {
	fault, _ := s.Traits().ErrorFault()
	status, ok := s.Traits().HTTPStatus()
	if !ok {
		status = 500
		if fault == "client" {
			status = 400
		}
	}

	fmt.Fprintf(b, "\n// Error implements error.\nfunc (e *%s) Error() string {\n", name)
	if message != nil {
		field := typemap.FieldName(s, message)
		fmt.Fprintf(b, "if e != nil && e.%s != nil {\nreturn %q + string(*e.%s)\n}\n", field, name+": ", field)
	}
	fmt.Fprintf(b, "return %q\n}\n", name)

	fmt.Fprintf(b, "\n// ErrorFault reports whether the client or the server caused the error.\n")
	fmt.Fprintf(b, "func (*%s) ErrorFault() string {\nreturn %q\n}\n", name, fault)

	fmt.Fprintf(b, "\n// HTTPStatus returns the status code the error is served with.\n")
	fmt.Fprintf(b, "func (*%s) HTTPStatus() int {\nreturn %d\n}\n", name, status)
}
