// Package smithygen generates Go service packages from Smithy JSON AST models.
//
// A model document is loaded into a closed shape graph, every shape reference is
// resolved against the complete graph, and one Go package is emitted per namespace:
// data-transfer types, a service interface, HTTP bindings, a synthetic mock
// implementation, structural validators, and operation test stubs.
//
// # Packages
//
//   - parser: load Smithy JSON/YAML documents into a Model and resolve references
//   - typemap: map shape references to Go type names
//   - mockdata: synthesize cycle-safe sample instances of structures
//   - scaffold: emit validators and test stubs, and check decoded instances
//   - generator: emit Go packages per namespace
//   - pkgversion: resolve package versions against a registry
//   - pipeline: build, generate and publish in one pass
//   - mockserver: serve a model's HTTP operations with synthesized responses
//
// # Quick Start
//
//	import "github.com/erraggy/smithygen/generator"
//
//	result, err := generator.GenerateWithOptions(
//		generator.WithFilePath("weather.json"),
//		generator.WithModulePath("example.com/weather"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := result.WriteFiles("./gen"); err != nil {
//		log.Fatal(err)
//	}
//
// The smithygen command wraps the same functionality:
//
//	smithygen generate weather.json -o ./gen
//	smithygen serve weather.json --addr :8080
//	smithygen mcp
package smithygen
