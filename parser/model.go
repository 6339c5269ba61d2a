package parser

import (
	"errors"
	"fmt"
	"sort"

	"github.com/erraggy/smithygen/shapeerrors"
)

// Model is a loaded shape graph.
//
// Every lookup goes through the complete shape map, so shapes may be declared
// in any order. A Model is read-only once built; Merge returns a new Model.
type Model struct {
	// Version is the document's Smithy version string.
	Version string

	shapes map[ShapeID]Shape
	order  []ShapeID
}

func newModel(version string) *Model {
	return &Model{Version: version, shapes: make(map[ShapeID]Shape)}
}

func (m *Model) add(s Shape) error {
	if _, exists := m.shapes[s.ID()]; exists {
		return &shapeerrors.DuplicateShapeError{ShapeID: s.ID().String()}
	}
	m.shapes[s.ID()] = s
	m.order = append(m.order, s.ID())
	return nil
}

// Len returns the number of shapes.
func (m *Model) Len() int {
	return len(m.order)
}

// Shapes returns every shape in load order.
func (m *Model) Shapes() []Shape {
	out := make([]Shape, len(m.order))
	for i, id := range m.order {
		out[i] = m.shapes[id]
	}
	return out
}

// Lookup returns the shape with the given id.
func (m *Model) Lookup(id ShapeID) (Shape, bool) {
	s, ok := m.shapes[id]
	return s, ok
}

// Resolve returns the shape with the given id, or a ReferenceError.
func (m *Model) Resolve(id ShapeID) (Shape, error) {
	s, ok := m.shapes[id]
	if !ok {
		return nil, &shapeerrors.ReferenceError{ShapeID: id.String()}
	}
	return s, nil
}

// ResolveAs resolves id and asserts the shape's concrete type.
func ResolveAs[T Shape](m *Model, id ShapeID) (T, error) {
	var zero T
	s, err := m.Resolve(id)
	if err != nil {
		return zero, err
	}
	typed, ok := s.(T)
	if !ok {
		return zero, &shapeerrors.ReferenceError{
			ShapeID: id.String(),
			Message: fmt.Sprintf("shape is a %s", s.Kind()),
		}
	}
	return typed, nil
}

func shapesOf[T Shape](m *Model) []T {
	var out []T
	for _, id := range m.order {
		if s, ok := m.shapes[id].(T); ok {
			out = append(out, s)
		}
	}
	return out
}

// Services returns the service shapes in load order.
func (m *Model) Services() []*Service { return shapesOf[*Service](m) }

// Operations returns the operation shapes in load order.
func (m *Model) Operations() []*Operation { return shapesOf[*Operation](m) }

// Structures returns the structure shapes in load order.
func (m *Model) Structures() []*Structure { return shapesOf[*Structure](m) }

// Lists returns the list shapes in load order.
func (m *Model) Lists() []*List { return shapesOf[*List](m) }

// Maps returns the map shapes in load order.
func (m *Model) Maps() []*Map { return shapesOf[*Map](m) }

// Enums returns the enum shapes in load order.
func (m *Model) Enums() []*Enum { return shapesOf[*Enum](m) }

// SimpleTypes returns the simple type shapes in load order.
func (m *Model) SimpleTypes() []*SimpleType { return shapesOf[*SimpleType](m) }

// Resources returns the resource shapes in load order.
func (m *Model) Resources() []*Resource { return shapesOf[*Resource](m) }

// InNamespace filters shapes to those defined in namespace ns.
func InNamespace[T Shape](shapes []T, ns string) []T {
	var out []T
	for _, s := range shapes {
		if s.ID().Namespace() == ns {
			out = append(out, s)
		}
	}
	return out
}

// Namespaces returns the sorted namespaces that define at least one shape.
func (m *Model) Namespaces() []string {
	seen := make(map[string]bool)
	for _, id := range m.order {
		seen[id.Namespace()] = true
	}
	out := make([]string, 0, len(seen))
	for ns := range seen {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Merge returns a new Model containing the shapes of m followed by the shapes
// of each dependency. A shape id defined twice is a DuplicateShapeError.
func (m *Model) Merge(deps ...*Model) (*Model, error) {
	merged := newModel(m.Version)
	for _, src := range append([]*Model{m}, deps...) {
		for _, id := range src.order {
			if err := merged.add(src.shapes[id]); err != nil {
				return nil, err
			}
		}
	}
	return merged, nil
}

// Only returns a new Model holding the shapes of the listed namespaces.
func (m *Model) Only(namespaces ...string) *Model {
	keep := make(map[string]bool, len(namespaces))
	for _, ns := range namespaces {
		keep[ns] = true
	}
	out := newModel(m.Version)
	for _, id := range m.order {
		if keep[id.Namespace()] {
			out.shapes[id] = m.shapes[id]
			out.order = append(out.order, id)
		}
	}
	return out
}

// ServiceOperations returns the operations of a service followed by the
// operations bound through its resources, each once, in declaration order.
func (m *Model) ServiceOperations(svc *Service) ([]*Operation, error) {
	var ops []*Operation
	seenOps := make(map[ShapeID]bool)
	seenResources := make(map[ShapeID]bool)

	addOps := func(ids []ShapeID) error {
		for _, id := range ids {
			if seenOps[id] {
				continue
			}
			seenOps[id] = true
			op, err := ResolveAs[*Operation](m, id)
			if err != nil {
				return err
			}
			ops = append(ops, op)
		}
		return nil
	}

	var walk func(ids []ShapeID) error
	walk = func(ids []ShapeID) error {
		for _, id := range ids {
			if seenResources[id] {
				continue
			}
			seenResources[id] = true
			res, err := ResolveAs[*Resource](m, id)
			if err != nil {
				return err
			}
			if err := addOps(res.BoundOperations()); err != nil {
				return err
			}
			if err := walk(res.Resources); err != nil {
				return err
			}
		}
		return nil
	}

	if err := addOps(svc.Operations); err != nil {
		return nil, err
	}
	if err := walk(svc.Resources); err != nil {
		return nil, err
	}
	return ops, nil
}

// Check verifies that every reference in the graph resolves.
// Prelude targets are always considered resolved. All dangling references
// are reported, joined in load order.
func (m *Model) Check() error {
	var errs []error
	ref := func(from ShapeID, id ShapeID) {
		if id == "" || id.IsPrelude() {
			return
		}
		if _, ok := m.shapes[id]; !ok {
			errs = append(errs, &shapeerrors.ReferenceError{ShapeID: id.String(), From: from.String()})
		}
	}
	refs := func(from ShapeID, ids []ShapeID) {
		for _, id := range ids {
			ref(from, id)
		}
	}
	member := func(mem *Member) {
		if mem != nil {
			ref(mem.ID(), mem.Target())
		}
	}

	for _, id := range m.order {
		switch s := m.shapes[id].(type) {
		case *Structure:
			for _, mem := range s.Members {
				member(mem)
			}
		case *List:
			member(s.Member)
		case *Map:
			member(s.Key)
			member(s.Value)
		case *Operation:
			ref(id, s.Input)
			ref(id, s.Output)
			refs(id, s.Errors)
		case *Resource:
			for _, ident := range s.Identifiers {
				ref(id.WithMember(ident.Name), ident.Target)
			}
			refs(id, s.BoundOperations())
			refs(id, s.Resources)
		case *Service:
			refs(id, s.Operations)
			refs(id, s.Resources)
			refs(id, s.Errors)
		}
	}
	return errors.Join(errs...)
}
