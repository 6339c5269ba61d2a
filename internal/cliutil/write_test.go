package cliutil

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWritef(t *testing.T) {
	var buf bytes.Buffer
	Writef(&buf, "%s: %d shape(s)", "example.weather", 4)
	assert.Equal(t, "example.weather: 4 shape(s)", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestWritefWriteError(t *testing.T) {
	assert.NotPanics(t, func() { Writef(failingWriter{}, "lost") })
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	tbl := NewTable(&buf, "  ")
	tbl.Row("GET", "/products/{productId}", "GetProduct")
	tbl.Row("POST", "/products", "CreateProduct")
	tbl.Row("", "", "Ping")
	tbl.Flush()

	want := "" +
		"  GET   /products/{productId}  GetProduct\n" +
		"  POST  /products              CreateProduct\n" +
		"  -     -                      Ping\n"
	assert.Equal(t, want, buf.String())
}
