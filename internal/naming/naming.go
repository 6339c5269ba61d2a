package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// maxDescriptionLength is the maximum length of a single-line description
// before it is truncated.
const maxDescriptionLength = 200

// goReservedWords contains Go keywords that cannot be used as identifiers.
// Predeclared identifiers such as "error" are left alone; they can be shadowed.
var goReservedWords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

// EscapeReserved appends an underscore to Go keywords.
// The check is case-insensitive so "Type" and "Range" are escaped as well.
func EscapeReserved(name string) string {
	if goReservedWords[strings.ToLower(name)] {
		return name + "_"
	}
	return name
}

// words splits s on every rune that is not a letter or digit.
func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ToPascalCase converts a string to PascalCase.
// Non-alphanumeric runes separate words; the remainder of each word keeps its case.
// Example: "user_profile" -> "UserProfile"
// Example: "tempF" -> "TempF"
func ToPascalCase(s string) string {
	caser := cases.Title(language.Und, cases.NoLower)
	var b strings.Builder
	for _, w := range words(s) {
		b.WriteString(caser.String(w))
	}
	return b.String()
}

// ToCamelCase converts a string to camelCase.
// Example: "UserProfile" -> "userProfile"
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if pascal == "" {
		return ""
	}
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// TypeName converts a shape name to an exported Go type name.
// Names starting with a digit are prefixed with "T"; keywords are escaped.
func TypeName(s string) string {
	name := ToPascalCase(s)
	if name == "" {
		return "Type"
	}
	if !unicode.IsLetter([]rune(name)[0]) {
		name = "T" + name
	}
	return EscapeReserved(name)
}

// FieldName converts a member name to an exported Go struct field name.
func FieldName(s string) string {
	return TypeName(s)
}

// ParamName converts a member name to an unexported Go parameter name.
func ParamName(s string) string {
	name := ToCamelCase(s)
	if name == "" {
		return "param"
	}
	if !unicode.IsLetter([]rune(name)[0]) {
		name = "p" + name
	}
	return EscapeReserved(name)
}

// PackageName derives a Go package name from a Smithy namespace.
// The last dot-separated segment is lowercased and stripped of anything
// that is not a letter or digit.
// Example: "example.weather" -> "weather"
func PackageName(namespace string) string {
	segment := namespace
	if i := strings.LastIndex(namespace, "."); i >= 0 {
		segment = namespace[i+1:]
	}
	var b strings.Builder
	for _, r := range strings.ToLower(segment) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" || !unicode.IsLetter([]rune(name)[0]) {
		name = "pkg" + name
	}
	if goReservedWords[name] {
		name += "pkg"
	}
	return name
}

// CleanDescription collapses a description to one line and truncates it.
func CleanDescription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) > maxDescriptionLength {
		s = string(runes[:maxDescriptionLength-3]) + "..."
	}
	return s
}

// DocComment formats text as a Go doc comment whose first line starts with name.
// Each line is prefixed with indent. An empty text yields an empty string.
func DocComment(text, name, indent string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	var buf strings.Builder
	lines := strings.Split(text, "\n")

	buf.WriteString(indent)
	buf.WriteString("// ")
	buf.WriteString(name)
	if first := strings.TrimSpace(lines[0]); first != "" {
		buf.WriteString(" ")
		buf.WriteString(first)
	}
	buf.WriteString("\n")

	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		buf.WriteString(indent)
		if line == "" {
			buf.WriteString("//\n")
			continue
		}
		buf.WriteString("// ")
		buf.WriteString(line)
		buf.WriteString("\n")
	}

	return buf.String()
}

// ConstName converts an enum member name to PascalCase. Names without any
// lowercase letter are lowercased first, so "IN_STOCK" becomes "InStock".
func ConstName(s string) string {
	if strings.ToUpper(s) == s {
		s = strings.ToLower(s)
	}
	return ToPascalCase(s)
}
