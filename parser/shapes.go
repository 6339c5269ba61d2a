package parser

import (
	"fmt"
	"strings"
)

// PreludeNamespace is the reserved namespace of Smithy's built-in shapes.
const PreludeNamespace = "smithy.api"

// ShapeID is an absolute shape identifier of the form namespace#name,
// optionally followed by $member.
type ShapeID string

// ParseShapeID validates s and returns it as a ShapeID.
func ParseShapeID(s string) (ShapeID, error) {
	ns, rest, ok := strings.Cut(s, "#")
	if !ok {
		return "", fmt.Errorf("shape id %q is missing '#'", s)
	}
	if ns == "" || rest == "" {
		return "", fmt.Errorf("shape id %q needs both a namespace and a name", s)
	}
	if strings.Contains(rest, "#") {
		return "", fmt.Errorf("shape id %q contains more than one '#'", s)
	}
	name, member, hasMember := strings.Cut(rest, "$")
	if name == "" || (hasMember && member == "") {
		return "", fmt.Errorf("shape id %q has an empty name", s)
	}
	for _, part := range strings.Split(ns, ".") {
		if !isIdentifier(part) {
			return "", fmt.Errorf("shape id %q has an invalid namespace", s)
		}
	}
	if !isIdentifier(name) || (hasMember && !isIdentifier(member)) {
		return "", fmt.Errorf("shape id %q has an invalid name", s)
	}
	return ShapeID(s), nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Namespace returns the part before '#'.
func (id ShapeID) Namespace() string {
	ns, _, _ := strings.Cut(string(id), "#")
	return ns
}

// Name returns the shape name, without namespace or member.
func (id ShapeID) Name() string {
	_, rest, _ := strings.Cut(string(id), "#")
	name, _, _ := strings.Cut(rest, "$")
	return name
}

// Member returns the member name, or "" for a shape id.
func (id ShapeID) Member() string {
	_, member, _ := strings.Cut(string(id), "$")
	return member
}

// WithMember returns the member id for name inside this shape.
func (id ShapeID) WithMember(name string) ShapeID {
	return ShapeID(string(id) + "$" + name)
}

// IsPrelude reports whether id names a built-in shape.
func (id ShapeID) IsPrelude() bool {
	return id.Namespace() == PreludeNamespace
}

// String implements fmt.Stringer.
func (id ShapeID) String() string {
	return string(id)
}

// ShapeKind is the category a shape belongs to.
type ShapeKind int

const (
	KindSimpleType ShapeKind = iota
	KindEnum
	KindList
	KindMap
	KindStructure
	KindOperation
	KindResource
	KindService
)

func (k ShapeKind) String() string {
	switch k {
	case KindSimpleType:
		return "simple type"
	case KindEnum:
		return "enum"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindStructure:
		return "structure"
	case KindOperation:
		return "operation"
	case KindResource:
		return "resource"
	case KindService:
		return "service"
	default:
		return "unknown"
	}
}

// SimpleKind is the primitive kind underlying a simple type or prelude shape.
type SimpleKind string

const (
	SimpleString     SimpleKind = "string"
	SimpleInteger    SimpleKind = "integer"
	SimpleLong       SimpleKind = "long"
	SimpleShort      SimpleKind = "short"
	SimpleByte       SimpleKind = "byte"
	SimpleFloat      SimpleKind = "float"
	SimpleDouble     SimpleKind = "double"
	SimpleBoolean    SimpleKind = "boolean"
	SimpleTimestamp  SimpleKind = "timestamp"
	SimpleDocument   SimpleKind = "document"
	SimpleBlob       SimpleKind = "blob"
	SimpleBigInteger SimpleKind = "bigInteger"
	SimpleBigDecimal SimpleKind = "bigDecimal"
)

var simpleKinds = map[string]SimpleKind{
	"string":     SimpleString,
	"integer":    SimpleInteger,
	"long":       SimpleLong,
	"short":      SimpleShort,
	"byte":       SimpleByte,
	"float":      SimpleFloat,
	"double":     SimpleDouble,
	"boolean":    SimpleBoolean,
	"timestamp":  SimpleTimestamp,
	"document":   SimpleDocument,
	"blob":       SimpleBlob,
	"bigInteger": SimpleBigInteger,
	"bigDecimal": SimpleBigDecimal,
}

// preludeKinds maps prelude shape names to their primitive kind.
var preludeKinds = map[string]SimpleKind{
	"String":           SimpleString,
	"Integer":          SimpleInteger,
	"PrimitiveInteger": SimpleInteger,
	"Long":             SimpleLong,
	"PrimitiveLong":    SimpleLong,
	"Short":            SimpleShort,
	"PrimitiveShort":   SimpleShort,
	"Byte":             SimpleByte,
	"PrimitiveByte":    SimpleByte,
	"Float":            SimpleFloat,
	"PrimitiveFloat":   SimpleFloat,
	"Double":           SimpleDouble,
	"PrimitiveDouble":  SimpleDouble,
	"Boolean":          SimpleBoolean,
	"PrimitiveBoolean": SimpleBoolean,
	"Timestamp":        SimpleTimestamp,
	"Document":         SimpleDocument,
	"Blob":             SimpleBlob,
	"BigInteger":       SimpleBigInteger,
	"BigDecimal":       SimpleBigDecimal,
}

// UnitID is the prelude shape for "no input" or "no output".
const UnitID ShapeID = PreludeNamespace + "#Unit"

// Shape is implemented by every shape in a Model.
// Shapes are read-only once loaded.
type Shape interface {
	ID() ShapeID
	Kind() ShapeKind
	Traits() TraitSet
	// Line is the source line of the definition (0 if unknown).
	Line() int
}

type shapeBase struct {
	id     ShapeID
	traits TraitSet
	line   int
}

// ID returns the shape id.
func (b *shapeBase) ID() ShapeID { return b.id }

// Traits returns the traits applied to the shape.
func (b *shapeBase) Traits() TraitSet { return b.traits }

// Line returns the source line of the definition.
func (b *shapeBase) Line() int { return b.line }

// SimpleType is a named primitive, e.g. a string with a pattern.
type SimpleType struct {
	shapeBase
	Primitive SimpleKind
}

// Kind implements Shape.
func (*SimpleType) Kind() ShapeKind { return KindSimpleType }

// EnumMember is one named value of an Enum.
type EnumMember struct {
	Name string
	// Value is the enumValue trait for string enums, or the member name.
	Value string
	// IntValue is the enumValue trait for intEnum shapes.
	IntValue int64
	Traits   TraitSet
}

// Enum is an ordered set of named values.
type Enum struct {
	shapeBase
	// IntEnum is true for intEnum shapes.
	IntEnum bool
	Members []EnumMember
}

// Kind implements Shape.
func (*Enum) Kind() ShapeKind { return KindEnum }

// DeclarationVariant distinguishes the two member declaration forms.
type DeclarationVariant int

const (
	// DeclPrimitive targets a prelude shape.
	DeclPrimitive DeclarationVariant = iota
	// DeclReference targets a shape defined in a model.
	DeclReference
)

// MemberDeclaration is what a member points at: a prelude primitive or a
// reference to another shape.
type MemberDeclaration struct {
	Variant DeclarationVariant
	Target  ShapeID
	// Primitive is the kind of a DeclPrimitive target. It is empty when the
	// prelude name has no known kind.
	Primitive SimpleKind
}

// Declare builds the declaration for a target id.
func Declare(target ShapeID) MemberDeclaration {
	if target.IsPrelude() {
		return MemberDeclaration{Variant: DeclPrimitive, Target: target, Primitive: preludeKinds[target.Name()]}
	}
	return MemberDeclaration{Variant: DeclReference, Target: target}
}

// IsPrimitive reports whether the declaration targets a prelude shape.
func (d MemberDeclaration) IsPrimitive() bool {
	return d.Variant == DeclPrimitive
}

// Member is a named slot of a structure, list or map.
type Member struct {
	Name      string
	Container ShapeID
	Decl      MemberDeclaration
	Traits    TraitSet
	Line      int
}

// ID returns container$name.
func (m *Member) ID() ShapeID {
	return m.Container.WithMember(m.Name)
}

// Target returns the shape id the member refers to.
func (m *Member) Target() ShapeID {
	return m.Decl.Target
}

// List is an ordered collection of its member's target.
type List struct {
	shapeBase
	Member *Member
}

// Kind implements Shape.
func (*List) Kind() ShapeKind { return KindList }

// Target returns the element shape id.
func (l *List) Target() ShapeID { return l.Member.Target() }

// Map associates keys with values.
type Map struct {
	shapeBase
	Key   *Member
	Value *Member
}

// Kind implements Shape.
func (*Map) Kind() ShapeKind { return KindMap }

// Structure is a record of named members in declaration order.
type Structure struct {
	shapeBase
	Members []*Member
}

// Kind implements Shape.
func (*Structure) Kind() ShapeKind { return KindStructure }

// Member returns the member called name.
func (s *Structure) Member(name string) (*Member, bool) {
	for _, m := range s.Members {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// IsError reports whether the structure carries the error trait.
func (s *Structure) IsError() bool {
	return s.traits.Has(TraitError)
}

// Operation is a callable unit. Input and Output are empty when absent.
type Operation struct {
	shapeBase
	Input  ShapeID
	Output ShapeID
	Errors []ShapeID
}

// Kind implements Shape.
func (*Operation) Kind() ShapeKind { return KindOperation }

// Identifier is one named identifier of a resource.
type Identifier struct {
	Name   string
	Target ShapeID
}

// Resource groups lifecycle operations around identifiers.
type Resource struct {
	shapeBase
	Identifiers          []Identifier
	Create               ShapeID
	Put                  ShapeID
	Read                 ShapeID
	Update               ShapeID
	Delete               ShapeID
	List                 ShapeID
	Operations           []ShapeID
	CollectionOperations []ShapeID
	Resources            []ShapeID
}

// Kind implements Shape.
func (*Resource) Kind() ShapeKind { return KindResource }

// BoundOperations returns every operation bound directly to the resource,
// lifecycle operations first.
func (r *Resource) BoundOperations() []ShapeID {
	var ids []ShapeID
	for _, id := range []ShapeID{r.Create, r.Put, r.Read, r.Update, r.Delete, r.List} {
		if id != "" {
			ids = append(ids, id)
		}
	}
	ids = append(ids, r.Operations...)
	return append(ids, r.CollectionOperations...)
}

// Service is one API surface.
type Service struct {
	shapeBase
	Version    string
	Operations []ShapeID
	Resources  []ShapeID
	Errors     []ShapeID
}

// Kind implements Shape.
func (*Service) Kind() ShapeKind { return KindService }
