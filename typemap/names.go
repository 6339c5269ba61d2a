package typemap

import (
	"slices"

	"github.com/erraggy/smithygen/internal/naming"
	"github.com/erraggy/smithygen/parser"
)

const (
	// UnitType is the generated type standing in for an absent operation
	// input or output.
	UnitType = "Unit"

	// RequiredErrorType is the error type declared next to the validators.
	RequiredErrorType = "RequiredFieldError"
)

// declSuffix is appended to a shape name that would redeclare one of the
// package-level types every generated package carries.
const declSuffix = "Shape"

// fieldSuffix is appended to a member name that would collide with a method
// generated on its structure.
const fieldSuffix = "Field"

// DeclName returns the unqualified Go name declared for a shape. Shapes named
// after UnitType or RequiredErrorType get declSuffix.
func DeclName(id parser.ShapeID) string {
	name := naming.TypeName(id.Name())
	if name == UnitType || name == RequiredErrorType {
		name += declSuffix
	}
	return name
}

// StructMethods returns the methods generated on the Go type of s: Validate
// on every structure, plus the error methods on error structures.
func StructMethods(s *parser.Structure) []string {
	if s.IsError() {
		return []string{"Validate", "Error", "ErrorFault", "HTTPStatus"}
	}
	return []string{"Validate"}
}

// FieldName returns the Go field declared for mem in s. A name taken by one
// of StructMethods gets fieldSuffix, extended with underscores until it is
// unique among the fields of s. The serialized name is unaffected.
func FieldName(s *parser.Structure, mem *parser.Member) string {
	name := naming.FieldName(mem.Name)
	if !slices.Contains(StructMethods(s), name) {
		return name
	}
	name += fieldSuffix
	for fieldTaken(s, mem, name) {
		name += "_"
	}
	return name
}

// fieldTaken reports whether another member of s is declared as name.
func fieldTaken(s *parser.Structure, mem *parser.Member, name string) bool {
	for _, other := range s.Members {
		if other.Name != mem.Name && naming.FieldName(other.Name) == name {
			return true
		}
	}
	return false
}
