// Package naming converts Smithy identifiers into Go identifiers.
//
// Shape names, member names and namespaces are turned into exported type
// names, field names, parameter names and package names. Go keywords are
// escaped with a trailing underscore. Documentation traits are rendered as
// Go doc comments.
//
// As an internal package, these functions are not part of the public API
// and may change without notice.
package naming
