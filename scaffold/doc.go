// Package scaffold emits structural validators and operation test stubs for
// generated packages, and checks decoded instances against the same rules at
// run time.
//
// Every generated structure gets a Validate method. It fails when a member
// carrying the required trait is absent, recurses into nested structures when
// they are present and into every element of a list (or value of a map) of
// structures. The failure names the enclosing type and the member:
//
//	func (v *GetForecastInput) Validate() error {
//		if v == nil {
//			return &RequiredFieldError{Type: "GetForecastInput"}
//		}
//		if v.City == nil {
//			return &RequiredFieldError{Type: "GetForecastInput", Field: "city"}
//		}
//		return nil
//	}
//
// Test stubs build a synthesized input for each operation, validate it, call
// the operation on the service returned by an overridable constructor hook and
// validate the output.
//
// CheckInstance applies the validator rules to a value decoded from JSON, so
// callers that never compile the generated code (the mock server) reject the
// same instances the generated validators would.
package scaffold
