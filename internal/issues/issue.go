// Package issues defines the problems reported while generating a namespace.
package issues

import (
	"fmt"
	"strconv"

	"github.com/erraggy/smithygen/internal/severity"
)

// Issue is one problem found while generating. Issues about a shape carry
// the line of its definition; issues about a whole namespace do not.
type Issue struct {
	// Path is the shape id, member path or namespace the issue is about,
	// e.g. "example.weather#GetForecast".
	Path     string
	Message  string
	Severity severity.Severity
	// Line is the 1-based line of the shape definition, 0 if unknown.
	Line int
	// File is the model the shape was read from; empty for in-memory models.
	File string
}

// String renders the issue as "severity: location: path: message".
func (i Issue) String() string {
	if i.Line == 0 {
		return fmt.Sprintf("%s: %s: %s", i.Severity, i.Path, i.Message)
	}
	return fmt.Sprintf("%s: %s: %s: %s", i.Severity, i.Location(), i.Path, i.Message)
}

// Location returns "file:line", just the line number when the file is
// unknown, or "" when the issue has no line.
func (i Issue) Location() string {
	switch {
	case i.Line == 0:
		return ""
	case i.File == "":
		return strconv.Itoa(i.Line)
	}
	return i.File + ":" + strconv.Itoa(i.Line)
}
