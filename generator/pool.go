package generator

import (
	"bytes"
	"sync"
)

// Tiered buffer sizes, chosen by the number of shapes a file declares.
const (
	smallBufferSize  = 8 * 1024  // 8KB for <20 shapes
	mediumBufferSize = 32 * 1024 // 32KB for 20-100 shapes
	largeBufferSize  = 64 * 1024 // 64KB for 100+ shapes

	maxPooledBuffer = 1 << 20
)

var bufferPools = [...]*sync.Pool{
	{New: func() any { return bytes.NewBuffer(make([]byte, 0, smallBufferSize)) }},
	{New: func() any { return bytes.NewBuffer(make([]byte, 0, mediumBufferSize)) }},
	{New: func() any { return bytes.NewBuffer(make([]byte, 0, largeBufferSize)) }},
}

func poolFor(shapeCount int) *sync.Pool {
	switch {
	case shapeCount < 20:
		return bufferPools[0]
	case shapeCount < 100:
		return bufferPools[1]
	default:
		return bufferPools[2]
	}
}

// getBuffer returns an empty buffer sized for shapeCount declarations.
func getBuffer(shapeCount int) *bytes.Buffer {
	buf := poolFor(shapeCount).Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// putBuffer returns a buffer to the pool it was taken from.
func putBuffer(buf *bytes.Buffer, shapeCount int) {
	if buf == nil {
		return
	}
	// Don't pool oversized buffers
	if buf.Cap() > maxPooledBuffer {
		return
	}
	poolFor(shapeCount).Put(buf)
}
