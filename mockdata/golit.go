package mockdata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/erraggy/smithygen/parser"
	"github.com/erraggy/smithygen/typemap"
)

// PtrHelper is the generic helper emitted next to rendered literals:
//
//	func mockPtr[T any](v T) *T { return &v }
const PtrHelper = "mockPtr"

// GoExpr renders v as a Go expression of the value's own type, qualifying
// names from other namespaces through m.
func GoExpr(m *typemap.Mapper, v *Value) (string, error) {
	var b strings.Builder
	if err := writeExpr(&b, m, v); err != nil {
		return "", err
	}
	return b.String(), nil
}

// GoFieldExpr renders v as the value of a struct field: structures are
// addressed, nilable types are used as is and everything else goes
// through PtrHelper.
func GoFieldExpr(m *typemap.Mapper, v *Value) (string, error) {
	expr, err := GoExpr(m, v)
	if err != nil {
		return "", err
	}
	switch {
	case v.Kind == KindStruct:
		return "&" + expr, nil
	case v.Kind == KindList, v.Kind == KindMap, v.Kind == KindBlob:
		return expr, nil
	default:
		return PtrHelper + "(" + expr + ")", nil
	}
}

func writeExpr(b *strings.Builder, m *typemap.Mapper, v *Value) error {
	switch v.Kind {
	case KindStruct:
		st, err := parser.ResolveAs[*parser.Structure](m.Model(), v.Shape)
		if err != nil {
			return err
		}
		b.WriteString(m.Qualify(v.Shape))
		b.WriteString("{\n")
		for _, f := range v.Fields {
			expr, err := GoFieldExpr(m, f.Value)
			if err != nil {
				return err
			}
			b.WriteString(typemap.FieldName(st, f.Member))
			b.WriteString(": ")
			b.WriteString(expr)
			b.WriteString(",\n")
		}
		b.WriteString("}")
	case KindList:
		b.WriteString(m.Qualify(v.Shape))
		b.WriteString("{\n")
		for _, item := range v.Items {
			if err := writeExpr(b, m, item); err != nil {
				return err
			}
			b.WriteString(",\n")
		}
		b.WriteString("}")
	case KindMap:
		b.WriteString(m.Qualify(v.Shape))
		b.WriteString("{\n")
		for _, e := range v.Entries {
			if err := writeExpr(b, m, e.Key); err != nil {
				return err
			}
			b.WriteString(": ")
			if err := writeExpr(b, m, e.Value); err != nil {
				return err
			}
			b.WriteString(",\n")
		}
		b.WriteString("}")
	case KindEnum:
		b.WriteString(m.QualifyIdent(v.Shape, typemap.EnumConstName(v.Shape, v.EnumMember)))
	default:
		lit, err := scalarLiteral(m, v)
		if err != nil {
			return err
		}
		if v.Shape.IsPrelude() {
			b.WriteString(lit)
			return nil
		}
		b.WriteString(m.Qualify(v.Shape))
		b.WriteString("(")
		b.WriteString(lit)
		b.WriteString(")")
	}
	return nil
}

func scalarLiteral(m *typemap.Mapper, v *Value) (string, error) {
	switch v.Kind {
	case KindString:
		return strconv.Quote(v.Str), nil
	case KindInt:
		n := strconv.FormatInt(v.Int, 10)
		if v.Primitive == parser.SimpleInteger {
			return n, nil
		}
		goType, _ := typemap.GoPrimitive(v.Primitive)
		return goType + "(" + n + ")", nil
	case KindFloat:
		goType, _ := typemap.GoPrimitive(v.Primitive)
		return goType + "(" + strconv.FormatFloat(v.Float, 'f', -1, 64) + ")", nil
	case KindBool:
		return strconv.FormatBool(v.Bool), nil
	case KindTimestamp:
		m.UseImport("time")
		return "time.Now()", nil
	case KindBlob:
		return "[]byte(" + strconv.Quote(v.Str) + ")", nil
	}
	return "", fmt.Errorf("mockdata: cannot render %v value of %s", v.Kind, v.Shape)
}
