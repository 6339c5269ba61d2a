package generator

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBufferPool_TieredSizes(t *testing.T) {
	small := getBuffer(5)
	assert.GreaterOrEqual(t, small.Cap(), smallBufferSize)
	putBuffer(small, 5)

	medium := getBuffer(25)
	assert.GreaterOrEqual(t, medium.Cap(), mediumBufferSize)
	putBuffer(medium, 25)

	large := getBuffer(100)
	assert.GreaterOrEqual(t, large.Cap(), largeBufferSize)
	putBuffer(large, 100)
}

func TestBufferPool_Reset(t *testing.T) {
	buf := getBuffer(1)
	buf.WriteString("leftover")
	putBuffer(buf, 1)
	assert.Zero(t, getBuffer(1).Len())

	putBuffer(nil, 1)
	putBuffer(bytes.NewBuffer(make([]byte, 0, maxPooledBuffer+1)), 1)
}

func BenchmarkBuffer_WithPool(b *testing.B) {
	for b.Loop() {
		buf := getBuffer(25)
		buf.WriteString("package main\n\nfunc main() {}\n")
		putBuffer(buf, 25)
	}
}

func BenchmarkBuffer_WithoutPool(b *testing.B) {
	for b.Loop() {
		buf := bytes.NewBuffer(make([]byte, 0, mediumBufferSize))
		buf.WriteString("package main\n\nfunc main() {}\n")
	}
}
