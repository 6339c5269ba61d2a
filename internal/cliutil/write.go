// Package cliutil provides output helpers for the smithygen commands.
package cliutil

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// Table aligns rows of cells into columns.
type Table struct {
	tw     *tabwriter.Writer
	indent string
}

// NewTable returns a table writing to w with every row prefixed by indent.
func NewTable(w io.Writer, indent string) *Table {
	return &Table{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0), indent: indent}
}

// Row appends a row. Empty cells are rendered as "-".
func (t *Table) Row(cells ...string) {
	for i, c := range cells {
		if c == "" {
			cells[i] = "-"
		}
	}
	Writef(t.tw, "%s%s\n", t.indent, strings.Join(cells, "\t"))
}

// Flush writes the aligned rows.
func (t *Table) Flush() {
	if err := t.tw.Flush(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}
