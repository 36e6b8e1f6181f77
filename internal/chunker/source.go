package chunker

import "io"

// Source is an openable byte source: either a reader-only fallback,
// or (via FDSource) a source backed by a real file descriptor that
// additionally supports page-cache advisory.
//
// This is the "tagged variant" DESIGN NOTES calls for: rather than a
// sum type, a Source is anything that can Read, and it may optionally
// implement FDSource. The splitter checks for FDSource with a type
// assertion at source-open time instead of inheriting from a common
// base.
type Source interface {
	io.Reader
}

// FDSource is implemented by sources that expose an underlying file
// descriptor for size/residency queries. Fd returns false when no
// descriptor is available (e.g. the source wraps a network stream or
// an in-memory buffer), in which case the splitter falls back to
// plain Read calls and disables the page-cache advisor for this
// source.
type FDSource interface {
	Source
	Fd() (fd int, ok bool)
}

// Sources yields the sequence of byte sources a Splitter consumes.
// Next returns io.EOF once the sequence is exhausted; implementations
// need not support concurrent or repeated iteration.
type Sources interface {
	Next() (Source, error)
}

// ProgressFunc is invoked as a source is opened (delta == 0) and
// after each fill pass that gained bytes from it (delta == bytes
// gained in that pass).
type ProgressFunc func(fileIndex uint64, delta int)

// SliceSources adapts a fixed slice of byte slices into a Sources
// sequence. Useful for tests and for small in-memory inputs; it does
// not implement FDSource, so page-cache advisory never activates for
// it.
type SliceSources struct {
	items []Source
	pos   int
}

// NewSliceSources wraps data as a Sources sequence, one source per
// byte slice, in order.
func NewSliceSources(data ...[]byte) *SliceSources {
	items := make([]Source, len(data))
	for i, d := range data {
		items[i] = &byteSource{data: d}
	}
	return &SliceSources{items: items}
}

// NewReaderSources adapts a fixed slice of io.Reader into a Sources
// sequence, in order.
func NewReaderSources(readers ...io.Reader) *SliceSources {
	items := make([]Source, len(readers))
	for i, r := range readers {
		items[i] = r
	}
	return &SliceSources{items: items}
}

func (s *SliceSources) Next() (Source, error) {
	if s.pos >= len(s.items) {
		return nil, io.EOF
	}
	src := s.items[s.pos]
	s.pos++
	return src, nil
}

// byteSource is a Source over an in-memory byte slice.
type byteSource struct {
	data []byte
	pos  int
}

func (b *byteSource) Read(p []byte) (int, error) {
	if b.pos >= len(b.data) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += n
	return n, nil
}
