// Package parser loads Smithy JSON AST documents into a shape graph.
//
// The loader decodes a document once into a typed intermediate form and
// constructs one Shape per entry of "shapes": simple types, enums, lists,
// maps, structures, operations, resources and services. Any other "type"
// fails with shapeerrors.ErrUnsupportedShapeKind. Traits are kept as raw JSON
// keyed by trait id, with accessors for the traits the generator interprets.
//
// A Model is the resolver: it exposes typed views (Services, Structures,
// Lists, ...) and Resolve, which looks an id up in the complete shape map and
// fails with shapeerrors.ErrUnresolvedReference when it is absent. Check
// reports every dangling reference at once.
//
// # Example
//
//	result, err := parser.ParseWithOptions(
//	    parser.WithFilePath("build/model.json"),
//	    parser.WithSourceFile("model/orders.smithy"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, svc := range result.Model.Services() {
//	    fmt.Println(svc.ID(), svc.Version)
//	}
//	fmt.Println(result.Dependencies.Unresolved())
//
// # Use directives
//
// The JSON AST does not record which namespaces a model imports. ParseUses
// reads "use ns#Name" lines from IDL source text and the resulting
// DependencyTable lists each imported namespace with a nil version until a
// package resolver fills it in.
package parser
