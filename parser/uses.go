package parser

import (
	"bufio"
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var useDirective = regexp.MustCompile(`^use\s+([A-Za-z_][A-Za-z0-9_.]*)#([A-Za-z_][A-Za-z0-9_]*)$`)

// Use is one "use ns#Name" line of IDL source text.
type Use struct {
	ShapeID ShapeID
	Line    int
}

// ParseUses extracts use directives from IDL source text.
func ParseUses(source string) []Use {
	var uses []Use
	sc := bufio.NewScanner(strings.NewReader(source))
	line := 0
	for sc.Scan() {
		line++
		m := useDirective.FindStringSubmatch(strings.TrimSpace(sc.Text()))
		if m == nil {
			continue
		}
		uses = append(uses, Use{ShapeID: ShapeID(m[1] + "#" + m[2]), Line: line})
	}
	return uses
}

// DependencyTable maps an imported namespace to its package version.
// A nil version is an unresolved placeholder.
type DependencyTable map[string]*semver.Version

// NewDependencyTable builds a table of unresolved placeholders for the
// namespaces named by uses, skipping the model's own namespace.
func NewDependencyTable(uses []Use, own ...string) DependencyTable {
	skip := make(map[string]bool, len(own))
	for _, ns := range own {
		skip[ns] = true
	}
	table := make(DependencyTable)
	for _, u := range uses {
		ns := u.ShapeID.Namespace()
		if ns == PreludeNamespace || skip[ns] {
			continue
		}
		table[ns] = nil
	}
	return table
}

// Namespaces returns the dependency namespaces in sorted order.
func (t DependencyTable) Namespaces() []string {
	out := make([]string, 0, len(t))
	for ns := range t {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Unresolved returns the namespaces still lacking a version, sorted.
func (t DependencyTable) Unresolved() []string {
	var out []string
	for _, ns := range t.Namespaces() {
		if t[ns] == nil {
			out = append(out, ns)
		}
	}
	return out
}

// With returns a copy of t with ns set to v.
func (t DependencyTable) With(ns string, v *semver.Version) DependencyTable {
	out := make(DependencyTable, len(t)+1)
	for k, val := range t {
		out[k] = val
	}
	out[ns] = v
	return out
}
