package chunker

import (
	"math/bits"
	"sync"

	"golang.org/x/sys/unix"
)

// Module-wide tunables, derived once from the host OS. They are
// read-only after init; see tunables() for the guarded initializer.
const (
	// minAdviseChunk is the floor for AdviseChunk regardless of the
	// reported page size (8 MiB).
	minAdviseChunk = 8 * 1024 * 1024

	// maxFMincoreChunk caps FMincoreChunkSize so a single mincore pass
	// never maps more than this many bytes at once (64 MiB).
	maxFMincoreChunk = 64 * 1024 * 1024
)

// Tunables holds the constants computed once at process start from
// the host operating system: page size, buffer size, mincore mapping
// granularity, and the resulting ceiling on the bits parameter.
type Tunables struct {
	PageSize          int
	FMincoreChunkSize int
	AdviseChunk       int
	MaxBits           uint
}

var (
	tunablesOnce  sync.Once
	tunablesValue Tunables
)

// tunables returns the process-wide Tunables, computing them on first
// use. The derivation order mirrors the reference implementation:
// page size, then fmincore_chunk_size, then advise_chunk, then
// max_bits.
func tunables() Tunables {
	tunablesOnce.Do(func() {
		pageSize := unix.Getpagesize()
		if pageSize <= 0 {
			pageSize = 4096
		}

		fmincore := (maxFMincoreChunk / pageSize) * pageSize
		if fmincore <= 0 {
			fmincore = pageSize
		}

		advise := pageSize
		if advise < minAdviseChunk {
			advise = minAdviseChunk
		}

		maxBits := uint(bits.Len(uint(advise))) - 1 - 2

		tunablesValue = Tunables{
			PageSize:          pageSize,
			FMincoreChunkSize: fmincore,
			AdviseChunk:       advise,
			MaxBits:           maxBits,
		}
	})
	return tunablesValue
}

// PageSize returns the host's page size in bytes.
func PageSize() int { return tunables().PageSize }

// FMincoreChunkSize returns the largest multiple of PageSize not
// exceeding 64 MiB, used to bound a single mincore mapping pass.
func FMincoreChunkSize() int { return tunables().FMincoreChunkSize }

// AdviseChunk returns the fixed size of the splitter's internal
// buffer: max(8 MiB, PageSize).
func AdviseChunk() int { return tunables().AdviseChunk }

// MaxBits returns the largest valid value for the Splitter's bits
// parameter: floor(log2(AdviseChunk)) - 2.
func MaxBits() uint { return tunables().MaxBits }

// MinBits is the smallest valid value for the Splitter's bits
// parameter, fixed by the external interface contract.
const MinBits = 13
