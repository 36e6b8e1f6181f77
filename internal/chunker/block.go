package chunker

// Chunk is one emitted unit from a Splitter: a view over the
// splitter's internal buffer, valid only until the next call to
// Next. Level is the fan-out level computed from the scanner's extra
// bits, or 0 for a forced split.
//
// Callers that need to retain a chunk past the next Next call must
// copy Data first (see Chunk.Bytes).
type Chunk struct {
	Data  []byte
	Level int
}

// Bytes returns a copy of the chunk's data, safe to retain past the
// next call to Next.
func (c Chunk) Bytes() []byte {
	out := make([]byte, len(c.Data))
	copy(out, c.Data)
	return out
}

// Block is a content-addressed unit of storage: a chunk's bytes
// together with the identity (hash) assigned to it by the caller.
// Hash identity is outside the chunking engine's scope (see
// internal/api/v2/blocks.go, which computes it); Block exists so the
// storage layer has a stable type to move chunked data around as.
type Block struct {
	Hash string
	Data []byte
	Size int64
}
