package parser

import (
	"fmt"
	"strconv"

	"github.com/erraggy/smithygen/internal/document"
	"github.com/erraggy/smithygen/shapeerrors"
)

// loader turns a decoded document into a Model.
type loader struct {
	source string
	model  *Model
}

func (l *loader) parseErr(v *document.Value, format string, args ...any) error {
	err := &shapeerrors.ParseError{Path: l.source, Message: fmt.Sprintf(format, args...)}
	if v != nil {
		err.Line, err.Column = v.Line, v.Column
	}
	return err
}

func (l *loader) load(root *document.Value) (*Model, error) {
	if root.Kind != document.Object {
		return nil, l.parseErr(root, "document must be an object, got %s", root.Kind)
	}

	version, _ := root.Get("smithy").Str()
	if version == "" {
		version, _ = root.Get("version").Str()
	}
	l.model = newModel(version)

	shapes := root.Get("shapes")
	if shapes.IsNull() {
		return l.model, nil
	}
	if shapes.Kind != document.Object {
		return nil, l.parseErr(shapes, "shapes must be an object, got %s", shapes.Kind)
	}

	for _, f := range shapes.Fields {
		id, err := ParseShapeID(f.Key)
		if err != nil {
			return nil, &shapeerrors.ParseError{Path: l.source, Line: f.Line, Column: f.Column, Cause: err}
		}
		if id.Member() != "" {
			return nil, l.parseErr(f.Value, "shape id %s must not name a member", id)
		}
		shape, err := l.shape(id, f.Value)
		if err != nil {
			return nil, err
		}
		if err := l.model.add(shape); err != nil {
			return nil, err
		}
	}
	return l.model, nil
}

func (l *loader) shape(id ShapeID, v *document.Value) (Shape, error) {
	if v.Kind != document.Object {
		return nil, l.parseErr(v, "shape %s must be an object", id)
	}
	kind, ok := v.Get("type").Str()
	if !ok {
		return nil, l.parseErr(v, "shape %s has no type", id)
	}
	traits, err := l.traits(v.Get("traits"))
	if err != nil {
		return nil, err
	}
	base := shapeBase{id: id, traits: traits, line: v.Line}

	if prim, ok := simpleKinds[kind]; ok {
		return &SimpleType{shapeBase: base, Primitive: prim}, nil
	}

	switch kind {
	case "enum", "intEnum":
		return l.enum(base, kind == "intEnum", v)
	case "list", "set":
		mem, err := l.member(id, "member", v.Get("member"))
		if err != nil {
			return nil, err
		}
		return &List{shapeBase: base, Member: mem}, nil
	case "map":
		key, err := l.member(id, "key", v.Get("key"))
		if err != nil {
			return nil, err
		}
		value, err := l.member(id, "value", v.Get("value"))
		if err != nil {
			return nil, err
		}
		return &Map{shapeBase: base, Key: key, Value: value}, nil
	case "structure":
		members, err := l.members(id, v.Get("members"))
		if err != nil {
			return nil, err
		}
		return &Structure{shapeBase: base, Members: members}, nil
	case "operation":
		op := &Operation{shapeBase: base}
		if op.Input, err = l.target(v.Get("input")); err != nil {
			return nil, err
		}
		if op.Output, err = l.target(v.Get("output")); err != nil {
			return nil, err
		}
		if op.Errors, err = l.targets(v.Get("errors")); err != nil {
			return nil, err
		}
		return op, nil
	case "resource":
		return l.resource(base, v)
	case "service":
		svc := &Service{shapeBase: base}
		svc.Version, _ = v.Get("version").Str()
		if svc.Operations, err = l.targets(v.Get("operations")); err != nil {
			return nil, err
		}
		if svc.Resources, err = l.targets(v.Get("resources")); err != nil {
			return nil, err
		}
		if svc.Errors, err = l.targets(v.Get("errors")); err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, &shapeerrors.ShapeKindError{ShapeID: id.String(), Kind: kind, Line: v.Line}
	}
}

func (l *loader) traits(v *document.Value) (TraitSet, error) {
	if v.IsNull() {
		return nil, nil
	}
	if v.Kind != document.Object {
		return nil, l.parseErr(v, "traits must be an object, got %s", v.Kind)
	}
	traits := make(TraitSet, 0, len(v.Fields))
	for _, f := range v.Fields {
		id, err := ParseShapeID(f.Key)
		if err != nil {
			return nil, &shapeerrors.ParseError{Path: l.source, Line: f.Line, Column: f.Column, Cause: err}
		}
		traits = append(traits, Trait{ID: id, Value: f.Value.JSON()})
	}
	return traits, nil
}

// target reads a {"target": "ns#Name"} reference. A missing reference yields "".
func (l *loader) target(v *document.Value) (ShapeID, error) {
	if v.IsNull() {
		return "", nil
	}
	raw, ok := v.Get("target").Str()
	if !ok {
		return "", l.parseErr(v, "reference must have a string target")
	}
	id, err := ParseShapeID(raw)
	if err != nil {
		return "", &shapeerrors.ParseError{Path: l.source, Line: v.Line, Column: v.Column, Cause: err}
	}
	return id, nil
}

func (l *loader) targets(v *document.Value) ([]ShapeID, error) {
	if v.IsNull() {
		return nil, nil
	}
	if v.Kind != document.Array {
		return nil, l.parseErr(v, "expected an array of references, got %s", v.Kind)
	}
	ids := make([]ShapeID, 0, len(v.Items))
	for _, item := range v.Items {
		id, err := l.target(item)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (l *loader) member(container ShapeID, name string, v *document.Value) (*Member, error) {
	if v.IsNull() {
		return nil, l.parseErr(v, "%s is missing member %q", container, name)
	}
	target, err := l.target(v)
	if err != nil {
		return nil, err
	}
	traits, err := l.traits(v.Get("traits"))
	if err != nil {
		return nil, err
	}
	return &Member{
		Name:      name,
		Container: container,
		Decl:      Declare(target),
		Traits:    traits,
		Line:      v.Line,
	}, nil
}

func (l *loader) members(container ShapeID, v *document.Value) ([]*Member, error) {
	if v.IsNull() {
		return nil, nil
	}
	if v.Kind != document.Object {
		return nil, l.parseErr(v, "members of %s must be an object", container)
	}
	members := make([]*Member, 0, len(v.Fields))
	for _, f := range v.Fields {
		if !isIdentifier(f.Key) {
			return nil, l.parseErr(f.Value, "invalid member name %q in %s", f.Key, container)
		}
		mem, err := l.member(container, f.Key, f.Value)
		if err != nil {
			return nil, err
		}
		members = append(members, mem)
	}
	return members, nil
}

func (l *loader) enum(base shapeBase, intEnum bool, v *document.Value) (*Enum, error) {
	e := &Enum{shapeBase: base, IntEnum: intEnum}
	mv := v.Get("members")
	if mv.IsNull() {
		return e, nil
	}
	if mv.Kind != document.Object {
		return nil, l.parseErr(mv, "members of %s must be an object", base.id)
	}
	for i, f := range mv.Fields {
		traits, err := l.traits(f.Value.Get("traits"))
		if err != nil {
			return nil, err
		}
		em := EnumMember{Name: f.Key, Value: f.Key, IntValue: int64(i), Traits: traits}
		if t, ok := traits.Get(TraitEnumValue); ok {
			raw := string(t.Value)
			if intEnum {
				n, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					return nil, l.parseErr(f.Value, "enumValue of %s$%s must be an integer", base.id, f.Key)
				}
				em.IntValue = n
			} else if s, ok := traits.stringTrait(TraitEnumValue); ok {
				em.Value = s
			}
		}
		e.Members = append(e.Members, em)
	}
	return e, nil
}

func (l *loader) resource(base shapeBase, v *document.Value) (*Resource, error) {
	r := &Resource{shapeBase: base}

	if idents := v.Get("identifiers"); !idents.IsNull() {
		if idents.Kind != document.Object {
			return nil, l.parseErr(idents, "identifiers of %s must be an object", base.id)
		}
		for _, f := range idents.Fields {
			target, err := l.target(f.Value)
			if err != nil {
				return nil, err
			}
			r.Identifiers = append(r.Identifiers, Identifier{Name: f.Key, Target: target})
		}
	}

	singles := []struct {
		key string
		dst *ShapeID
	}{
		{"create", &r.Create}, {"put", &r.Put}, {"read", &r.Read},
		{"update", &r.Update}, {"delete", &r.Delete}, {"list", &r.List},
	}
	for _, s := range singles {
		id, err := l.target(v.Get(s.key))
		if err != nil {
			return nil, err
		}
		*s.dst = id
	}

	var err error
	if r.Operations, err = l.targets(v.Get("operations")); err != nil {
		return nil, err
	}
	if r.CollectionOperations, err = l.targets(v.Get("collectionOperations")); err != nil {
		return nil, err
	}
	if r.Resources, err = l.targets(v.Get("resources")); err != nil {
		return nil, err
	}
	return r, nil
}
