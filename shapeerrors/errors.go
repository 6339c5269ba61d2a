// Package shapeerrors provides structured error types for smithygen.
//
// Every error carries the offending shape id and a failure kind, and each
// typed error matches its sentinel through errors.Is so callers can branch on
// the kind without type assertions.
//
// # Error Categories
//
//   - ParseError: malformed documents and shape ids
//   - ShapeKindError: a "type" discriminator the loader does not support
//   - ReferenceError: a shape id that does not resolve in the graph
//   - TypeMappingError: a prelude shape with no Go mapping
//   - HTTPMethodError: an unrecognized verb in an http trait
//   - ServiceCountError: more than one service where exactly one is required
//   - DuplicateShapeError: two graphs defining the same shape id
//   - NameCollisionError: two generated declarations sharing a Go name
//   - RequiredFieldError: an instance missing a required member
//   - ConfigError: invalid configuration or input options
//
// # Usage with errors.Is
//
//	model, err := parser.ParseWithOptions(parser.WithFilePath("weather.json"))
//	if errors.Is(err, shapeerrors.ErrUnsupportedShapeKind) {
//	    var kindErr *shapeerrors.ShapeKindError
//	    if errors.As(err, &kindErr) {
//	        log.Printf("%s uses %q", kindErr.ShapeID, kindErr.Kind)
//	    }
//	}
package shapeerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrParse indicates a document could not be decoded.
	ErrParse = errors.New("parse error")

	// ErrUnsupportedShapeKind indicates an unrecognized shape type.
	ErrUnsupportedShapeKind = errors.New("unsupported shape kind")

	// ErrUnresolvedReference indicates a shape id missing from the graph.
	ErrUnresolvedReference = errors.New("unresolved shape reference")

	// ErrTypeMappingNotFound indicates a prelude shape without a Go type.
	ErrTypeMappingNotFound = errors.New("type mapping not found")

	// ErrInvalidHTTPMethod indicates an http trait with an unknown method.
	ErrInvalidHTTPMethod = errors.New("invalid http method")

	// ErrAmbiguousServiceCount indicates a namespace with too many services.
	ErrAmbiguousServiceCount = errors.New("ambiguous service count")

	// ErrDuplicateShape indicates the same shape id defined twice.
	ErrDuplicateShape = errors.New("duplicate shape")

	// ErrNameCollision indicates two declarations mapping to one Go name.
	ErrNameCollision = errors.New("name collision")

	// ErrRequiredField indicates an instance is missing a required member.
	ErrRequiredField = errors.New("required field missing")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ParseError represents a failure to decode a model document.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ShapeKindError reports a shape whose "type" the loader cannot construct.
type ShapeKindError struct {
	// ShapeID is the shape carrying the unsupported kind
	ShapeID string
	// Kind is the unsupported "type" value
	Kind string
	// Line is the line of the shape definition (0 if unknown)
	Line int
}

// Error returns a human-readable error message.
func (e *ShapeKindError) Error() string {
	msg := "unsupported shape kind"
	if e.Kind != "" {
		msg += fmt.Sprintf(" %q", e.Kind)
	}
	if e.ShapeID != "" {
		msg += " for " + e.ShapeID
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ShapeKindError) Is(target error) bool {
	return target == ErrUnsupportedShapeKind
}

// ReferenceError represents a shape id that could not be resolved.
type ReferenceError struct {
	// ShapeID is the id that failed to resolve
	ShapeID string
	// From is the shape (or member) holding the reference, if known
	From string
	// Message provides additional context about the failure
	Message string
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "unresolved shape reference"
	if e.ShapeID != "" {
		msg += ": " + e.ShapeID
	}
	if e.From != "" {
		msg += " (from " + e.From + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrUnresolvedReference
}

// TypeMappingError reports a prelude shape with no Go type.
type TypeMappingError struct {
	// ShapeID is the prelude shape id (or simple type kind)
	ShapeID string
	// From is the member referencing it, if known
	From string
}

// Error returns a human-readable error message.
func (e *TypeMappingError) Error() string {
	msg := "type mapping not found"
	if e.ShapeID != "" {
		msg += " for " + e.ShapeID
	}
	if e.From != "" {
		msg += " (from " + e.From + ")"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *TypeMappingError) Is(target error) bool {
	return target == ErrTypeMappingNotFound
}

// HTTPMethodError reports an http trait whose method is not a known verb.
type HTTPMethodError struct {
	// ShapeID is the operation carrying the http trait
	ShapeID string
	// Method is the rejected method string
	Method string
}

// Error returns a human-readable error message.
func (e *HTTPMethodError) Error() string {
	msg := "invalid http method"
	if e.Method != "" {
		msg += fmt.Sprintf(" %q", e.Method)
	}
	if e.ShapeID != "" {
		msg += " on " + e.ShapeID
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *HTTPMethodError) Is(target error) bool {
	return target == ErrInvalidHTTPMethod
}

// ServiceCountError reports a namespace declaring more services than allowed.
type ServiceCountError struct {
	// Namespace is the offending namespace
	Namespace string
	// Services lists the service shape ids found
	Services []string
}

// Error returns a human-readable error message.
func (e *ServiceCountError) Error() string {
	msg := fmt.Sprintf("ambiguous service count: namespace %s declares %d services", e.Namespace, len(e.Services))
	if len(e.Services) > 0 {
		msg += fmt.Sprintf(" %v", e.Services)
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ServiceCountError) Is(target error) bool {
	return target == ErrAmbiguousServiceCount
}

// DuplicateShapeError reports a shape id defined by two graphs.
type DuplicateShapeError struct {
	// ShapeID is the conflicting id
	ShapeID string
}

// Error returns a human-readable error message.
func (e *DuplicateShapeError) Error() string {
	return "duplicate shape: " + e.ShapeID
}

// Is reports whether target matches this error type.
func (e *DuplicateShapeError) Is(target error) bool {
	return target == ErrDuplicateShape
}

// NameCollisionError reports two shapes of a namespace whose generated Go
// declarations share a name.
type NameCollisionError struct {
	// Namespace is the namespace being generated
	Namespace string
	// Name is the Go identifier declared twice
	Name string
	// First and Second describe the two declarations
	First, Second string
}

// Error returns a human-readable error message.
func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("name collision: %s in namespace %s is declared for both %s and %s", e.Name, e.Namespace, e.First, e.Second)
}

// Is reports whether target matches this error type.
func (e *NameCollisionError) Is(target error) bool {
	return target == ErrNameCollision
}

// RequiredFieldError reports an instance missing a required member.
type RequiredFieldError struct {
	// Type is the enclosing structure name
	Type string
	// Field is the missing member name
	Field string
	// Path locates the instance inside a larger value (optional)
	Path string
}

// Error returns a human-readable error message.
func (e *RequiredFieldError) Error() string {
	msg := "required field missing: " + e.Type + "." + e.Field
	if e.Path != "" {
		msg += " at " + e.Path
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *RequiredFieldError) Is(target error) bool {
	return target == ErrRequiredField
}

// ConfigError represents an invalid configuration or option.
type ConfigError struct {
	// Option is the name of the configuration option
	Option string
	// Value is the invalid value provided
	Value any
	// Message explains why the configuration is invalid
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
