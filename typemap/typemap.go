// Package typemap resolves shape references to Go types.
//
// Resolution of a target follows a fixed precedence: prelude primitives map
// through a fixed table, then simple types, structures, lists, enums and maps
// resolve to their generated names. Anything else is an unresolved reference.
// A Mapper is bound to the namespace being emitted and records the imports
// that qualified references to other namespaces need.
package typemap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/erraggy/smithygen/internal/naming"
	"github.com/erraggy/smithygen/parser"
	"github.com/erraggy/smithygen/shapeerrors"
)

// Category says which precedence branch a target resolved through.
type Category int

const (
	Primitive Category = iota
	Simple
	Structure
	List
	Enum
	Map
)

func (c Category) String() string {
	switch c {
	case Primitive:
		return "primitive"
	case Simple:
		return "simple type"
	case Structure:
		return "structure"
	case List:
		return "list"
	case Enum:
		return "enum"
	case Map:
		return "map"
	default:
		return "unknown"
	}
}

// primitiveTypes maps primitive kinds to Go types. Kinds missing here have
// no mapping.
var primitiveTypes = map[parser.SimpleKind]string{
	parser.SimpleString:    "string",
	parser.SimpleInteger:   "int",
	parser.SimpleLong:      "int64",
	parser.SimpleShort:     "int16",
	parser.SimpleByte:      "int8",
	parser.SimpleFloat:     "float32",
	parser.SimpleDouble:    "float64",
	parser.SimpleBoolean:   "bool",
	parser.SimpleTimestamp: "time.Time",
	parser.SimpleDocument:  "string",
	parser.SimpleBlob:      "[]byte",
}

// GoPrimitive returns the Go type for a primitive kind.
func GoPrimitive(kind parser.SimpleKind) (string, bool) {
	t, ok := primitiveTypes[kind]
	return t, ok
}

// Ref is a classified target.
type Ref struct {
	Category Category
	Target   parser.ShapeID
	// Primitive is the kind of a Primitive target or the underlying kind
	// of a Simple target.
	Primitive parser.SimpleKind
	// Shape is the resolved shape; nil for primitives.
	Shape parser.Shape
}

// Nilable reports whether the Go type already has a nil zero value, so a
// struct field of this type needs no pointer to express absence.
func (r Ref) Nilable() bool {
	switch r.Category {
	case List, Map:
		return true
	case Primitive, Simple:
		return r.Primitive == parser.SimpleBlob
	default:
		return false
	}
}

// Structure returns the resolved structure for a Structure ref.
func (r Ref) Structure() *parser.Structure {
	s, _ := r.Shape.(*parser.Structure)
	return s
}

// List returns the resolved list for a List ref.
func (r Ref) List() *parser.List {
	l, _ := r.Shape.(*parser.List)
	return l
}

// Import is one import line of an emitted file.
type Import struct {
	Name string
	Path string
}

// PackageFunc returns the Go package name and import path for a namespace.
type PackageFunc func(namespace string) (name, importPath string)

// Mapper resolves targets for the namespace being emitted.
// A Mapper is not safe for concurrent use; create one per namespace.
type Mapper struct {
	model     *parser.Model
	namespace string
	packages  PackageFunc
	imports   map[string]string
}

// New returns a Mapper emitting into namespace.
func New(model *parser.Model, namespace string, packages PackageFunc) *Mapper {
	if packages == nil {
		packages = func(ns string) (string, string) {
			name := naming.PackageName(ns)
			return name, name
		}
	}
	return &Mapper{
		model:     model,
		namespace: namespace,
		packages:  packages,
		imports:   make(map[string]string),
	}
}

// Model returns the graph the mapper resolves against.
func (m *Mapper) Model() *parser.Model { return m.model }

// Namespace returns the namespace being emitted.
func (m *Mapper) Namespace() string { return m.namespace }

// Classify resolves target through the precedence table.
func (m *Mapper) Classify(target parser.ShapeID) (Ref, error) {
	if target.IsPrelude() {
		kind := parser.Declare(target).Primitive
		if _, ok := primitiveTypes[kind]; !ok {
			return Ref{}, &shapeerrors.TypeMappingError{ShapeID: target.String()}
		}
		return Ref{Category: Primitive, Target: target, Primitive: kind}, nil
	}

	shape, err := m.model.Resolve(target)
	if err != nil {
		return Ref{}, err
	}
	switch s := shape.(type) {
	case *parser.SimpleType:
		if _, ok := primitiveTypes[s.Primitive]; !ok {
			return Ref{}, &shapeerrors.TypeMappingError{ShapeID: string(s.Primitive), From: target.String()}
		}
		return Ref{Category: Simple, Target: target, Primitive: s.Primitive, Shape: s}, nil
	case *parser.Structure:
		return Ref{Category: Structure, Target: target, Shape: s}, nil
	case *parser.List:
		return Ref{Category: List, Target: target, Shape: s}, nil
	case *parser.Enum:
		return Ref{Category: Enum, Target: target, Shape: s}, nil
	case *parser.Map:
		return Ref{Category: Map, Target: target, Shape: s}, nil
	default:
		return Ref{}, &shapeerrors.ReferenceError{
			ShapeID: target.String(),
			Message: fmt.Sprintf("%s is not a data shape", shape.Kind()),
		}
	}
}

// ClassifyMember classifies a member's target, naming the member in errors.
func (m *Mapper) ClassifyMember(mem *parser.Member) (Ref, error) {
	ref, err := m.Classify(mem.Target())
	if err != nil {
		switch e := err.(type) {
		case *shapeerrors.ReferenceError:
			if e.From == "" {
				e.From = mem.ID().String()
			}
		case *shapeerrors.TypeMappingError:
			if e.From == "" {
				e.From = mem.ID().String()
			}
		}
		return Ref{}, err
	}
	return ref, nil
}

// TypeName returns the Go type expression referring to target from the
// mapper's namespace.
func (m *Mapper) TypeName(target parser.ShapeID) (string, error) {
	ref, err := m.Classify(target)
	if err != nil {
		return "", err
	}
	return m.RefType(ref), nil
}

// RefType returns the Go type expression for a classified ref.
func (m *Mapper) RefType(ref Ref) string {
	if ref.Category == Primitive {
		t := primitiveTypes[ref.Primitive]
		if ref.Primitive == parser.SimpleTimestamp {
			m.imports["time"] = "time"
		}
		return t
	}
	return m.Qualify(ref.Target)
}

// Qualify returns the declared name of id, prefixed with its package name
// when id lives in another namespace.
func (m *Mapper) Qualify(id parser.ShapeID) string {
	name := DeclName(id)
	if id.Namespace() == m.namespace {
		return name
	}
	pkg, path := m.packages(id.Namespace())
	m.imports[path] = pkg
	return pkg + "." + name
}

// FieldType returns the Go type of a struct field for mem: a pointer for
// scalar, enum and structure targets, the bare type for nilable ones.
func (m *Mapper) FieldType(mem *parser.Member) (string, Ref, error) {
	ref, err := m.ClassifyMember(mem)
	if err != nil {
		return "", Ref{}, err
	}
	t := m.RefType(ref)
	if !ref.Nilable() {
		t = "*" + t
	}
	return t, ref, nil
}

// Imports returns the imports recorded so far, sorted by path.
func (m *Mapper) Imports() []Import {
	out := make([]Import, 0, len(m.imports))
	for path, name := range m.imports {
		out = append(out, Import{Name: name, Path: path})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Reset forgets recorded imports, so one mapper can serve several files.
func (m *Mapper) Reset() {
	m.imports = make(map[string]string)
}

// EnumConstName returns the unqualified Go constant declared for an enum member.
func EnumConstName(enumID parser.ShapeID, member string) string {
	return DeclName(enumID) + naming.ConstName(member)
}

// QualifyIdent returns ident, prefixed with the package of id's namespace
// when that namespace is not the mapper's.
func (m *Mapper) QualifyIdent(id parser.ShapeID, ident string) string {
	if id.Namespace() == m.namespace {
		return ident
	}
	pkg, path := m.packages(id.Namespace())
	m.imports[path] = pkg
	return pkg + "." + ident
}

// UseImport records an import needed by emitted code.
func (m *Mapper) UseImport(path string) {
	name := path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		name = path[i+1:]
	}
	m.imports[path] = name
}

// IsUnit reports whether an operation input or output id means "none".
func IsUnit(id parser.ShapeID) bool {
	return id == "" || id == parser.UnitID
}

// IOType returns the Go type of an operation input or output: UnitType when
// absent, otherwise the (possibly qualified) structure name.
func (m *Mapper) IOType(id parser.ShapeID) (string, error) {
	if IsUnit(id) {
		return UnitType, nil
	}
	if _, err := parser.ResolveAs[*parser.Structure](m.model, id); err != nil {
		return "", err
	}
	return m.Qualify(id), nil
}
