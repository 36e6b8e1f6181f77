package chunker

import (
	"math/bits"
	"sync"
)

// AdaptiveConfig holds configuration for adaptive chunk sizing
type AdaptiveConfig struct {
	// Chunk size bounds
	AbsoluteMin int64 // Minimum chunk size (default: 2 MB)
	AbsoluteMax int64 // Maximum chunk size (default: 256 MB)
	InitialSize int64 // Starting chunk size (default: 16 MB)

	// Target upload time per chunk
	TargetSeconds float64 // Target ~8 seconds per chunk upload
}

// DefaultAdaptiveConfig returns sensible defaults
func DefaultAdaptiveConfig() AdaptiveConfig {
	return AdaptiveConfig{
		AbsoluteMin:   2 * 1024 * 1024,   // 2 MB
		AbsoluteMax:   256 * 1024 * 1024, // 256 MB
		InitialSize:   16 * 1024 * 1024,  // 16 MB
		TargetSeconds: 8.0,               // 8 seconds per chunk
	}
}

// AdaptiveChunker adjusts chunk sizes based on connection speed. It is
// fed an observed transfer speed (bytes/sec measured from an actual
// upload) and recommends a Splitter bit width sized to keep each
// chunk's upload time near TargetSeconds.
type AdaptiveChunker struct {
	cfg       AdaptiveConfig
	mu        sync.RWMutex
	chunkSize int64   // Current chunk size
	speed     float64 // Current measured speed (bytes/sec)
}

// NewAdaptiveChunker creates a new adaptive chunker
func NewAdaptiveChunker(cfg AdaptiveConfig) *AdaptiveChunker {
	return &AdaptiveChunker{
		cfg:       cfg,
		chunkSize: cfg.InitialSize,
	}
}

// SetSpeed updates the measured speed and adjusts chunk size
func (c *AdaptiveChunker) SetSpeed(bytesPerSecond float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.speed = bytesPerSecond

	// Calculate optimal chunk size for target seconds
	optimalSize := int64(bytesPerSecond * c.cfg.TargetSeconds)

	// Clamp to bounds
	if optimalSize < c.cfg.AbsoluteMin {
		optimalSize = c.cfg.AbsoluteMin
	}
	if optimalSize > c.cfg.AbsoluteMax {
		optimalSize = c.cfg.AbsoluteMax
	}

	c.chunkSize = optimalSize
}

// GetChunkSize returns the current optimal chunk size
func (c *AdaptiveChunker) GetChunkSize() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.chunkSize
}

// GetChunkSizes returns min, avg, max for FastCDC based on current speed
// FastCDC works best with min = avg/4 and max = avg*4
func (c *AdaptiveChunker) GetChunkSizes() (min, avg, max int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	avg = c.chunkSize
	min = avg / 4
	max = avg * 4

	// Ensure min is at least 64 bytes (FastCDC requirement)
	if min < 64 {
		min = 64
	}

	// Ensure max doesn't exceed absolute max
	if max > c.cfg.AbsoluteMax {
		max = c.cfg.AbsoluteMax
	}

	return min, avg, max
}

// RecommendedBits maps the chunker's current target chunk size to a
// Splitter bit width, clamped to the valid [MinBits, MaxBits()] range.
// An average chunk size of 2^n bytes corresponds to a splitter target
// of n bits, since a content-defined boundary is found wherever the
// low n bits of the rolling digest all match, which happens with
// probability 2^-n per byte position.
func (c *AdaptiveChunker) RecommendedBits() uint {
	_, avg, _ := c.GetChunkSizes()
	if avg < 1 {
		avg = 1
	}

	b := uint(bits.Len(uint(avg))) - 1
	if b < MinBits {
		b = MinBits
	}
	if max := MaxBits(); b > max {
		b = max
	}
	return b
}
