package scaffold

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/erraggy/smithygen/mockdata"
	"github.com/erraggy/smithygen/parser"
	"github.com/erraggy/smithygen/shapeerrors"
	"github.com/erraggy/smithygen/typemap"
)

// CheckInstance checks instance, a value decoded from JSON into any, against
// the structure id using the rules of the generated validators. Members are
// looked up by their serialized name. The first absent required member is
// returned as a *shapeerrors.RequiredFieldError whose Path locates it.
func CheckInstance(model *parser.Model, id parser.ShapeID, instance any) error {
	s, err := parser.ResolveAs[*parser.Structure](model, id)
	if err != nil {
		return err
	}
	c := &checker{mapper: typemap.New(model, id.Namespace(), nil)}
	return c.structure(s, instance, "$")
}

type checker struct {
	mapper *typemap.Mapper
}

// presentTag marks a key that must be in the object with a non-null value.
// The validator rejects absent keys and nulls before the tag function runs,
// so a JSON false, 0 or "" still counts as present.
const presentTag = "present"

var presence = newPresenceValidator()

func newPresenceValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation(presentTag, func(fl validator.FieldLevel) bool {
		return fl.Field().IsValid()
	}); err != nil {
		panic(err)
	}
	return v
}

// requiredRules maps the serialized name of every required member of s to
// presentTag.
func requiredRules(s *parser.Structure) map[string]any {
	rules := make(map[string]any)
	for _, mem := range s.Members {
		if mem.Traits.Required() {
			rules[mockdata.JSONName(mem)] = presentTag
		}
	}
	return rules
}

func (c *checker) structure(s *parser.Structure, instance any, path string) error {
	obj, ok := instance.(map[string]any)
	if !ok {
		if instance == nil {
			return &shapeerrors.RequiredFieldError{Type: typemap.DeclName(s.ID()), Path: path}
		}
		return fmt.Errorf("scaffold: %s: expected an object for %s, got %T", path, s.ID(), instance)
	}

	missing := presence.ValidateMap(obj, requiredRules(s))
	for _, mem := range s.Members {
		key := mockdata.JSONName(mem)
		if _, bad := missing[key]; bad {
			return &shapeerrors.RequiredFieldError{Type: typemap.DeclName(s.ID()), Field: mem.Name, Path: path}
		}
		val := obj[key]
		if val == nil {
			continue
		}

		ref, err := c.mapper.ClassifyMember(mem)
		if err != nil {
			return err
		}
		if err := c.nested(ref, val, path+"."+key); err != nil {
			return err
		}
	}
	return nil
}

// nested descends into structures and into the elements of lists and
// values of maps of structures. Everything else is left unchecked.
func (c *checker) nested(ref typemap.Ref, val any, path string) error {
	switch ref.Category {
	case typemap.Structure:
		return c.structure(ref.Structure(), val, path)

	case typemap.List:
		elem, err := c.mapper.ClassifyMember(ref.List().Member)
		if err != nil {
			return err
		}
		items, ok := val.([]any)
		if elem.Category != typemap.Structure || !ok {
			return nil
		}
		for i, item := range items {
			if err := c.structure(elem.Structure(), item, path+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}

	case typemap.Map:
		valRef, err := c.mapper.ClassifyMember(ref.Shape.(*parser.Map).Value)
		if err != nil {
			return err
		}
		entries, ok := val.(map[string]any)
		if valRef.Category != typemap.Structure || !ok {
			return nil
		}
		for _, k := range slices.Sorted(maps.Keys(entries)) {
			if err := c.structure(valRef.Structure(), entries[k], path+"["+strconv.Quote(k)+"]"); err != nil {
				return err
			}
		}
	}
	return nil
}
