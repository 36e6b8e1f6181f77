package chunker

import "testing"

func TestRecordSplitterRejectsFastCDCMode(t *testing.T) {
	_, err := NewRecordSplitter(13, ModeFastCDC)
	if err == nil {
		t.Fatal("NewRecordSplitter with ModeFastCDC succeeded, want InvalidArgument")
	}
}

func TestRecordSplitterRejectsOutOfRangeBits(t *testing.T) {
	_, err := NewRecordSplitter(MinBits-1, ModeLegacy)
	if err == nil {
		t.Fatal("NewRecordSplitter with bits below MinBits succeeded, want InvalidArgument")
	}
}

func TestRecordSplitterForcedCapNeverExceeded(t *testing.T) {
	const bits = 13
	rs, err := NewRecordSplitter(bits, ModeLegacy)
	if err != nil {
		t.Fatalf("NewRecordSplitter: %v", err)
	}

	// Uniform records are unlikely to trigger a content-defined split
	// (same degenerate behavior as the stream splitter's invariant
	// test), so repeatedly feeding them should eventually force a cap
	// split, and at every return split_size must be <= max_split_size.
	record := make([]byte, 64)
	for i := range record {
		record[i] = 0xFF
	}

	var sawForced bool
	for i := 0; i < 10000; i++ {
		split, _, hasBits, err := rs.Feed(record)
		if err != nil {
			t.Fatalf("Feed at iteration %d: %v", i, err)
		}
		if rs.splitSize > rs.maxSplitSize {
			t.Fatalf("split_size %d exceeds max_split_size %d at iteration %d", rs.splitSize, rs.maxSplitSize, i)
		}
		if split && !hasBits {
			sawForced = true
			break
		}
	}
	if !sawForced {
		t.Fatal("never observed a forced cap split over 10000 feeds of uniform records")
	}
}

func TestRecordSplitterResetsOnHit(t *testing.T) {
	const bits = 13
	rs, err := NewRecordSplitter(bits, ModeLegacy)
	if err != nil {
		t.Fatalf("NewRecordSplitter: %v", err)
	}

	record := make([]byte, 4096)
	for i := range record {
		record[i] = byte((uint32(i) * 2654435761) >> 24)
	}

	var split bool
	var hasBits bool
	for i := 0; i < 1000 && !split; i++ {
		split, _, hasBits, err = rs.Feed(record)
		if err != nil {
			t.Fatalf("Feed at iteration %d: %v", i, err)
		}
	}
	if !split {
		t.Skip("no split observed within 1000 feeds of pseudo-random records; scanner parameters make this vector too sparse")
	}
	if hasBits && rs.splitSize != uint64(len(record)) {
		t.Errorf("split_size after a content-defined hit = %d, want %d (reset, then this record's length)", rs.splitSize, len(record))
	}
}
