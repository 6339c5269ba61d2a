package generator

import (
	"bytes"
	"fmt"
	"path"
	"strconv"

	"golang.org/x/tools/imports"

	"github.com/erraggy/smithygen"
	"github.com/erraggy/smithygen/typemap"
)

// formatAndFixImports formats Go source code and fixes its imports the way
// goimports does: unused imports are dropped and missing standard library
// imports are added.
func formatAndFixImports(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, nil)
}

// generatedHeader is the first line of every generated file.
func generatedHeader() string {
	return "// Code generated by smithygen " + smithygen.Version() + ". DO NOT EDIT.\n"
}

// writeImports writes an import block for imps. Packages whose name differs
// from the last element of their path get an explicit name.
func writeImports(buf *bytes.Buffer, imps []typemap.Import) {
	if len(imps) == 0 {
		return
	}
	buf.WriteString("import (\n")
	for _, imp := range imps {
		buf.WriteString("\t")
		if imp.Name != path.Base(imp.Path) {
			buf.WriteString(imp.Name)
			buf.WriteString(" ")
		}
		buf.WriteString(strconv.Quote(imp.Path))
		buf.WriteString("\n")
	}
	buf.WriteString(")\n\n")
}

// assemble builds a complete file from a body and the imports the body
// needs, then formats it. When formatting fails the unformatted source is
// returned together with the error.
func assemble(pkg string, imps []typemap.Import, body string, shapeCount int) ([]byte, error) {
	buf := getBuffer(shapeCount)
	defer putBuffer(buf, shapeCount)

	buf.WriteString(generatedHeader())
	buf.WriteString("\n")
	fmt.Fprintf(buf, "package %s\n\n", pkg)
	writeImports(buf, imps)
	buf.WriteString(body)

	src := bytes.Clone(buf.Bytes())
	formatted, err := formatAndFixImports("generated.go", src)
	if err != nil {
		return src, err
	}
	return formatted, nil
}
