package textenc

import "sync"

const CHUNK_SIZE = 32 * 1024

// chunkPool reuses transfer buffers for the collection phase of the
// decode pipeline and for the text-unit reader. This reduces GC
// pressure by avoiding a fresh buffer per stream. 32KB matches the
// default copy size used by io.Copy.
var chunkPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, CHUNK_SIZE)
		return &b
	},
}
