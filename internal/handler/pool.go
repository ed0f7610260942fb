package handler

import (
	"bytes"
	"sync"
)

const (
	initialBufferSize   = 512
	maxPooledBufferSize = 64 << 10
)

// bufferPool holds scratch buffers for JSON responses
var bufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, initialBufferSize))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

// putBuffer returns buf to the pool. Buffers grown past maxPooledBufferSize
// by a large response are dropped instead of being kept alive.
func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBufferSize {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}
