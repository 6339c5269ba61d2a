package scaffold

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/erraggy/smithygen/parser"
	"github.com/erraggy/smithygen/typemap"
)

const requiredErrorDecl = `// RequiredFieldError reports a required member that is absent.
type RequiredFieldError struct {
	// Type is the enclosing structure.
	Type string
	// Field is the missing member; empty when the structure itself is nil.
	Field string
}

func (e *RequiredFieldError) Error() string {
	if e.Field == "" {
		return "required value missing: " + e.Type
	}
	return "required field missing: " + e.Type + "." + e.Field
}
`

// Validators returns Go source declaring typemap.RequiredErrorType and a Validate
// method for each of structs. Structures are expected to be declared in the
// mapper's namespace.
func Validators(m *typemap.Mapper, structs []*parser.Structure) (string, error) {
	var b strings.Builder
	b.WriteString(requiredErrorDecl)
	for _, s := range structs {
		if err := writeValidator(&b, m, s); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func writeValidator(b *strings.Builder, m *typemap.Mapper, s *parser.Structure) error {
	name := typemap.DeclName(s.ID())
	typeLit := strconv.Quote(name)

	fmt.Fprintf(b, "\n// Validate reports the first required member of %s that is absent.\n", name)
	fmt.Fprintf(b, "func (v *%s) Validate() error {\n", name)
	fmt.Fprintf(b, "if v == nil {\nreturn &%s{Type: %s}\n}\n", typemap.RequiredErrorType, typeLit)

	for _, mem := range s.Members {
		ref, err := m.ClassifyMember(mem)
		if err != nil {
			return err
		}
		field := "v." + typemap.FieldName(s, mem)
		required := mem.Traits.Required()
		if required {
			fmt.Fprintf(b, "if %s == nil {\nreturn &%s{Type: %s, Field: %s}\n}\n",
				field, typemap.RequiredErrorType, typeLit, strconv.Quote(mem.Name))
		}

		switch ref.Category {
		case typemap.Structure:
			if required {
				writeCall(b, field)
			} else {
				fmt.Fprintf(b, "if %s != nil {\n", field)
				writeCall(b, field)
				b.WriteString("}\n")
			}
		case typemap.List:
			elem, err := m.ClassifyMember(ref.List().Member)
			if err != nil {
				return err
			}
			if elem.Category == typemap.Structure {
				fmt.Fprintf(b, "for i := range %s {\n", field)
				writeCall(b, field+"[i]")
				b.WriteString("}\n")
			}
		case typemap.Map:
			val, err := m.ClassifyMember(ref.Shape.(*parser.Map).Value)
			if err != nil {
				return err
			}
			if val.Category == typemap.Structure {
				fmt.Fprintf(b, "for _, elem := range %s {\n", field)
				writeCall(b, "elem")
				b.WriteString("}\n")
			}
		}
	}
	b.WriteString("return nil\n}\n")
	return nil
}

func writeCall(b *strings.Builder, expr string) {
	fmt.Fprintf(b, "if err := %s.Validate(); err != nil {\nreturn err\n}\n", expr)
}
