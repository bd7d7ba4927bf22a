package ebml

import "sync"

// bufferPool reuses in-memory streams for Marshal. A 4KB default avoids
// re-allocations for common object sizes.
var bufferPool = sync.Pool{
	New: func() any {
		return NewBuffer(make([]byte, 0, 4096))
	},
}

func getBuffer() *Buffer {
	b := bufferPool.Get().(*Buffer)
	b.Reset()
	return b
}

func putBuffer(b *Buffer) {
	// Large one-off buffers are left to the GC.
	if cap(b.B) > 1<<20 {
		return
	}
	bufferPool.Put(b)
}
