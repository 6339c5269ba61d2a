// Package generator turns Smithy JSON AST models into Go packages.
//
// Every namespace of the source model that declares shapes becomes one Go
// package. Namespaces are generated concurrently and independently: a
// failure in one namespace discards that package only and is reported in
// the joined error returned alongside the result.
//
// # Quick Start
//
// Generate with functional options:
//
//	result, err := generator.GenerateWithOptions(
//		generator.WithFilePath("weather.json"),
//		generator.WithModulePath("example.com/api"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := result.WriteFiles("./gen"); err != nil {
//		log.Fatal(err)
//	}
//
// Or configure a reusable Generator:
//
//	g := generator.New()
//	g.ServicePolicy = generator.PolicySingle
//	g.MockSeed = 42
//	result, err := g.Generate("weather.json")
//
// # Type Mapping
//
// Member targets resolve in this order: prelude primitive, simple type,
// structure, list, enum, map. Primitives map as follows:
//   - String, Document → string
//   - Integer → int, Long → int64, Short → int16, Byte → int8
//   - Float → float32, Double → float64
//   - Boolean → bool, Timestamp → time.Time, Blob → []byte
//
// BigInteger and BigDecimal have no mapping and fail the namespace.
// Structure fields are pointers unless their type is a slice or map.
//
// # Generated Files
//
// Each package contains:
//   - doc.go: package documentation and model dependencies
//   - types.go: simple types, enums, lists, maps and structures
//   - service.go: one interface per service
//   - http.go: net/http handlers for operations with an http trait
//   - mock.go: interface implementations returning synthesized data
//   - validators.go: Validate methods enforcing required members
//   - service_test.go: one test per operation, run against the mock
//
// Files with nothing to declare are omitted.
//
// See the exported GenerateResult and GenerateIssue types for complete details.
package generator
