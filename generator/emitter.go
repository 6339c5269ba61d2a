package generator

import (
	"fmt"
	"path"
	"strings"

	"github.com/erraggy/smithygen/internal/naming"
	"github.com/erraggy/smithygen/mockdata"
	"github.com/erraggy/smithygen/parser"
	"github.com/erraggy/smithygen/shapeerrors"
	"github.com/erraggy/smithygen/typemap"
)

// emitter generates the package of one namespace. It owns its Mapper, so
// emitters for different namespaces run concurrently over the same model.
type emitter struct {
	g      *Generator
	model  *parser.Model
	plan   packagePlan
	deps   parser.DependencyTable
	mapper *typemap.Mapper
	mocks  *mockdata.Generator

	// sourcePath locates shape issues.
	sourcePath string

	pkg    *GeneratedPackage
	issues []GenerateIssue

	services   []serviceInfo
	dataShapes []parser.Shape
	structs    []*parser.Structure
}

// serviceInfo is a service with its operations resolved, resource-bound
// operations included.
type serviceInfo struct {
	svc  *parser.Service
	name string
	ops  []*parser.Operation
}

func newEmitter(g *Generator, model *parser.Model, plans map[string]packagePlan, plan packagePlan, deps parser.DependencyTable) *emitter {
	packages := func(ns string) (string, string) {
		if p, ok := plans[ns]; ok {
			return p.alias, p.importPath
		}
		name := naming.PackageName(ns)
		return name, path.Join(g.modulePath(), strings.ReplaceAll(ns, ".", "/"))
	}
	return &emitter{
		g:      g,
		model:  model,
		plan:   plan,
		deps:   deps,
		mapper: typemap.New(model, plan.namespace, packages),
		mocks:  mockdata.New(model, mockdata.WithSeed(g.MockSeed), mockdata.WithListSize(g.MockListSize)),
	}
}

// emit generates every file of the package. Any error discards the whole
// package.
func (e *emitter) emit() (*GeneratedPackage, error) {
	ns := e.plan.namespace
	e.pkg = &GeneratedPackage{
		Namespace:  ns,
		Name:       e.plan.name,
		ImportPath: e.plan.importPath,
		Dir:        e.plan.dir,
	}

	services := parser.InNamespace(e.model.Services(), ns)
	if e.g.ServicePolicy == PolicySingle && len(services) > 1 {
		ids := make([]string, len(services))
		for i, svc := range services {
			ids[i] = svc.ID().String()
		}
		return nil, &shapeerrors.ServiceCountError{Namespace: ns, Services: ids}
	}
	for _, svc := range services {
		ops, err := e.model.ServiceOperations(svc)
		if err != nil {
			return nil, err
		}
		e.services = append(e.services, serviceInfo{svc: svc, name: typemap.DeclName(svc.ID()), ops: ops})
		e.pkg.Services = append(e.pkg.Services, typemap.DeclName(svc.ID()))
	}

	for _, s := range e.model.Shapes() {
		if s.ID().Namespace() != ns {
			continue
		}
		switch s.Kind() {
		case parser.KindSimpleType, parser.KindEnum, parser.KindList, parser.KindMap, parser.KindStructure:
			e.dataShapes = append(e.dataShapes, s)
		}
		if st, ok := s.(*parser.Structure); ok {
			e.structs = append(e.structs, st)
		}
	}

	if err := e.checkDeclNames(); err != nil {
		return nil, err
	}

	docBody, err := e.docFile()
	if err != nil {
		return nil, err
	}
	e.addFormatted("doc.go", []byte(docBody))

	steps := []struct {
		name  string
		build func() (string, bool, error)
	}{
		{"types.go", e.typesBody},
		{"service.go", e.serviceBody},
		{"http.go", e.httpBody},
		{"mock.go", e.mockBody},
		{"validators.go", e.validatorsBody},
		{"service_test.go", e.testBody},
	}
	for _, step := range steps {
		e.mapper.Reset()
		body, ok, err := step.build()
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		content, err := assemble(e.plan.name, e.mapper.Imports(), body, len(e.dataShapes))
		if err != nil {
			e.addIssue(step.name, fmt.Sprintf("failed to format generated code: %v", err), SeverityWarning)
		}
		e.pkg.Files = append(e.pkg.Files, GeneratedFile{Name: step.name, Content: content})
	}

	e.addIssue("", fmt.Sprintf("generated %d type(s) and %d service(s)", e.pkg.Types, len(e.services)), SeverityInfo)
	return e.pkg, nil
}

// checkDeclNames fails when two package-level declarations of the
// namespace map to the same Go identifier.
func (e *emitter) checkDeclNames() error {
	owners := map[string]string{
		typemap.UnitType:          "the generated Unit type",
		typemap.RequiredErrorType: "the generated validator error",
	}
	declare := func(name, owner string) error {
		if prev, ok := owners[name]; ok {
			return &shapeerrors.NameCollisionError{Namespace: e.plan.namespace, Name: name, First: prev, Second: owner}
		}
		owners[name] = owner
		return nil
	}

	for _, s := range e.dataShapes {
		id := s.ID().String()
		name := typemap.DeclName(s.ID())
		if err := declare(name, id); err != nil {
			return err
		}
		switch s := s.(type) {
		case *parser.Enum:
			if err := declare(name+"Values", id); err != nil {
				return err
			}
			for _, m := range s.Members {
				if err := declare(typemap.EnumConstName(s.ID(), m.Name), s.ID().WithMember(m.Name).String()); err != nil {
					return err
				}
			}
		case *parser.SimpleType:
			if _, ok := s.Traits().Pattern(); ok {
				if err := declare(name+"Pattern", id); err != nil {
					return err
				}
			}
		}
	}
	for _, si := range e.services {
		owner := "service " + si.svc.ID().String()
		mock := mockName(si.name)
		names := []string{si.name, mock, "New" + mock}
		if si.svc.Version != "" {
			names = append(names, si.name+"Version")
		}
		if hasHTTPOperation(si) {
			handler := handlerName(si.name)
			names = append(names, handler, "New"+handler)
		}
		for _, name := range names {
			if err := declare(name, owner); err != nil {
				return err
			}
		}
	}
	return nil
}

func hasHTTPOperation(si serviceInfo) bool {
	for _, op := range si.ops {
		if _, ok, _ := op.Traits().HTTP(); ok {
			return true
		}
	}
	return false
}

// addFormatted formats a complete file and appends it to the package.
func (e *emitter) addFormatted(name string, src []byte) {
	content, err := formatAndFixImports(name, src)
	if err != nil {
		e.addIssue(name, fmt.Sprintf("failed to format generated code: %v", err), SeverityWarning)
		content = src
	}
	e.pkg.Files = append(e.pkg.Files, GeneratedFile{Name: name, Content: content})
}

// addIssue adds a generation issue located in the package directory.
func (e *emitter) addIssue(file, message string, severity Severity) {
	p := e.plan.namespace
	if file != "" {
		p += "/" + file
	}
	e.issues = append(e.issues, GenerateIssue{Path: p, Message: message, Severity: severity})
}

// addShapeIssue adds an issue about a shape, located at its definition.
func (e *emitter) addShapeIssue(s parser.Shape, message string, severity Severity) {
	e.issues = append(e.issues, GenerateIssue{
		Path:     s.ID().String(),
		Message:  message,
		Severity: severity,
		Line:     s.Line(),
		File:     e.sourcePath,
	})
}

// shapeDoc returns the doc comment of a declaration generated for s.
func shapeDoc(s parser.Shape, name, indent string) string {
	if doc := s.Traits().Documentation(); doc != "" {
		return naming.DocComment(doc, name, indent)
	}
	return fmt.Sprintf("%s// %s is generated from %s.\n", indent, name, s.ID())
}

type docService struct {
	Name    string
	Doc     string
	Version string
}

type docDependency struct {
	Namespace string
	Version   string
}

type docData struct {
	Header       string
	Package      string
	Namespace    string
	Services     []docService
	Dependencies []docDependency
}

func (e *emitter) docFile() (string, error) {
	data := docData{
		Header:    generatedHeader(),
		Package:   e.plan.name,
		Namespace: e.plan.namespace,
	}
	for _, si := range e.services {
		data.Services = append(data.Services, docService{
			Name:    si.name,
			Doc:     si.svc.Traits().Documentation(),
			Version: si.svc.Version,
		})
	}
	for _, ns := range e.deps.Namespaces() {
		if ns == e.plan.namespace {
			continue
		}
		version := "(unresolved)"
		if v := e.deps[ns]; v != nil {
			version = v.String()
		}
		data.Dependencies = append(data.Dependencies, docDependency{Namespace: ns, Version: version})
	}
	return executeTemplate("doc.go.tmpl", data)
}
