package chunker

import "testing"

func TestFindLegacyNoMatchOnShortBuffer(t *testing.T) {
	buf := make([]byte, 8)
	if ofs, eb := findLegacy(13, buf); ofs != 0 || eb != 0 {
		t.Fatalf("findLegacy on zeroed short buffer = (%d, %d), want (0, 0)", ofs, eb)
	}
}

func TestFindLegacyFindsABoundary(t *testing.T) {
	buf := make([]byte, 256*1024)
	for i := range buf {
		buf[i] = byte((uint32(i) * 2654435761) >> 24)
	}

	ofs, _ := findLegacy(13, buf)
	if ofs == 0 {
		t.Fatalf("findLegacy found no boundary in a quarter-megabyte pseudo-random buffer at bits=13")
	}
	if ofs < 1 || ofs > len(buf) {
		t.Fatalf("findLegacy offset %d out of range [1, %d]", ofs, len(buf))
	}
}

func TestFindFastCDCShortBufferReturnsWholeLength(t *testing.T) {
	buf := make([]byte, 10)
	ofs, eb := findFastCDC(13, buf)
	if ofs != len(buf) || eb != 0 {
		t.Fatalf("findFastCDC on short buffer = (%d, %d), want (%d, 0)", ofs, eb, len(buf))
	}
}

func TestDeriveMaskJPrefixesTmaskC(t *testing.T) {
	// deriveMaskJ(nbits) must mask tmaskJ down to exactly the bit
	// position where tmaskC accumulates nbits set bits.
	for _, nbits := range []uint{13, 16, 21} {
		mj := deriveMaskJ(nbits)
		if mj&^tmaskJ != 0 {
			t.Errorf("deriveMaskJ(%d) = %#x is not a subset of tmaskJ", nbits, mj)
		}
	}
}

// oracleFastCDCOffsets computes the expected FastCDC split offsets for
// a single in-memory buffer directly from findFastCDC, independent of
// Splitter's windowed buffer management (fill/compactOrRealloc). Since
// the whole buffer is always available here, every decide-step sees
// the complete remaining input, which is the condition Splitter's own
// decide-step approximates one window at a time; this lets the test
// check that windowing never changes where a boundary falls.
func oracleFastCDCOffsets(data []byte, bits uint) []int {
	maxBlob := 1 << (bits + 2)
	var offsets []int
	pos := 0
	for pos < len(data) {
		window := data[pos:]
		maxlen := len(window)
		if maxlen > maxBlob {
			maxlen = maxBlob
		}
		ofs, _ := findFastCDC(bits, window[:maxlen])
		switch {
		case ofs != 0:
			// content-defined split
		case len(window) >= maxBlob:
			ofs = maxBlob
		default:
			ofs = len(window) // forced by end of buffer
		}
		pos += ofs
		offsets = append(offsets, pos)
	}
	return offsets
}

// TestFastCDCCompatibilityVector checks that a deterministic
// pseudo-random stream chunked in FastCDC mode through the windowed
// Splitter reproduces the boundary offsets an unwindowed scan of
// findFastCDC would produce over the same buffer, and that the result
// is stable across repeated runs.
func TestFastCDCCompatibilityVector(t *testing.T) {
	const size = 10 * 1024 * 1024
	const bits = 13
	data := make([]byte, size)
	for i := range data {
		data[i] = byte((i * 2654435761) % 256)
	}

	want := oracleFastCDCOffsets(data, bits)

	sp, err := New(NewSliceSources(data), bits, Config{KeepBoundaries: true, FanBits: 4, Mode: ModeFastCDC})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var reconstructed []byte
	var offsets []int
	pos := 0
	for {
		chunk, err := sp.Next()
		if err != nil {
			break
		}
		reconstructed = append(reconstructed, chunk.Data...)
		pos += len(chunk.Data)
		offsets = append(offsets, pos)
	}

	if len(reconstructed) != size {
		t.Fatalf("reconstructed %d bytes, want %d", len(reconstructed), size)
	}
	for i := range reconstructed {
		if reconstructed[i] != data[i] {
			t.Fatalf("reconstructed byte %d = %#x, want %#x", i, reconstructed[i], data[i])
		}
	}

	if len(offsets) != len(want) {
		t.Fatalf("chunk count = %d, want %d (oracle)", len(offsets), len(want))
	}
	for i := range want {
		if offsets[i] != want[i] {
			t.Fatalf("offset %d = %d, want %d (oracle)", i, offsets[i], want[i])
		}
	}

	const minSize = 1 << (bits - 2)
	for i, ofs := range offsets {
		start := 0
		if i > 0 {
			start = offsets[i-1]
		}
		length := ofs - start
		if i == len(offsets)-1 {
			continue // a final, EOF-forced chunk may be shorter
		}
		if length < minSize {
			t.Errorf("chunk %d has length %d, below the FastCDC minimum %d", i, length, minSize)
		}
	}

	sp2, err := New(NewSliceSources(data), bits, Config{KeepBoundaries: true, FanBits: 4, Mode: ModeFastCDC})
	if err != nil {
		t.Fatalf("New (second run): %v", err)
	}
	var offsets2 []int
	pos = 0
	for {
		chunk, err := sp2.Next()
		if err != nil {
			break
		}
		pos += len(chunk.Data)
		offsets2 = append(offsets2, pos)
	}
	if len(offsets) != len(offsets2) {
		t.Fatalf("chunk count differs across runs: %d vs %d", len(offsets), len(offsets2))
	}
	for i := range offsets {
		if offsets[i] != offsets2[i] {
			t.Fatalf("offset %d differs across runs: %d vs %d", i, offsets[i], offsets2[i])
		}
	}
}
