package chunker

import (
	"fmt"
	"io"
)

// Mode selects the boundary-scanning algorithm a Splitter uses.
type Mode int

const (
	ModeLegacy Mode = iota
	ModeFastCDC
)

// ParseMode converts a config/CLI string into a Mode. An empty string
// means ModeLegacy, matching the reference implementation's default.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "legacy":
		return ModeLegacy, nil
	case "fastcdc":
		return ModeFastCDC, nil
	default:
		return 0, newErr("ParseMode", KindInvalidArgument, fmt.Errorf("invalid mode %q", s))
	}
}

// Config carries the construction-time knobs for a Splitter beyond
// the sources and the target bit width, grounded on the reference
// implementation's keyword arguments to HashSplitter.__init__.
type Config struct {
	// Progress, if set, is called once when a source is opened
	// (delta == 0) and again after each fill pass that read from it (delta ==
	// bytes read this pass).
	Progress ProgressFunc

	// KeepBoundaries forces a split at the end of every source, even
	// if no content-defined boundary was found there. When false,
	// bytes from consecutive sources may be coalesced into a single
	// chunk that straddles the source boundary.
	KeepBoundaries bool

	// FanBits controls how scanner "extra bits" are folded into a
	// chunk's fan-out Level: Level = extrabits / FanBits. Must be
	// nonzero.
	FanBits uint

	// Mode selects the boundary scanner.
	Mode Mode
}

// DefaultConfig returns the reference implementation's defaults:
// legacy mode, source boundaries preserved, fanbits of 4.
func DefaultConfig() Config {
	return Config{KeepBoundaries: true, FanBits: 4, Mode: ModeLegacy}
}

// Splitter turns a sequence of byte sources into a sequence of
// content-defined chunks (C5). It is not safe for concurrent use.
type Splitter struct {
	sources Sources
	bits    uint
	maxBlob int
	fanbits uint
	mode    Mode
	keepBoundaries bool
	progress       ProgressFunc

	buf   []byte
	bufsz int
	start int
	end   int

	fileIndex uint64
	fileSeen  bool
	cur       Source
	eof       bool
	advisor   *pageAdvisor

	done bool
}

// New constructs a Splitter reading from sources, splitting at target
// bit width bits, configured per cfg.
func New(sources Sources, bits uint, cfg Config) (*Splitter, error) {
	if bits < MinBits || bits > MaxBits() {
		return nil, newErr("New", KindInvalidArgument,
			fmt.Errorf("bits must be in [%d, %d], not %d", MinBits, MaxBits(), bits))
	}
	if cfg.FanBits == 0 {
		return nil, newErr("New", KindInvalidArgument, fmt.Errorf("fanbits must be non-zero"))
	}
	if cfg.Mode != ModeLegacy && cfg.Mode != ModeFastCDC {
		return nil, newErr("New", KindInvalidArgument, fmt.Errorf("invalid mode"))
	}

	s := &Splitter{
		sources:        sources,
		bits:           bits,
		maxBlob:        1 << (bits + 2),
		fanbits:        cfg.FanBits,
		mode:           cfg.Mode,
		keepBoundaries: cfg.KeepBoundaries,
		progress:       cfg.Progress,
		bufsz:          AdviseChunk(),
	}
	s.buf = make([]byte, s.bufsz)

	if err := s.openNext(); err != nil {
		return nil, err
	}
	return s, nil
}

// openNext advances to the next source in sequence, resetting the
// per-source EOF flag and page-cache advisor. It is a no-op (leaving
// s.cur nil) once the source sequence is exhausted.
func (s *Splitter) openNext() error {
	if s.advisor != nil {
		if err := s.advisor.finish(); err != nil {
			return err
		}
		s.advisor.close()
		s.advisor = nil
	}

	if s.fileSeen {
		next := s.fileIndex + 1
		if next < s.fileIndex {
			return newErr("openNext", KindOverflow, fmt.Errorf("file count overflowed"))
		}
		s.fileIndex = next
	}
	s.fileSeen = true

	src, err := s.sources.Next()
	if err != nil {
		if err == io.EOF {
			s.cur = nil
			return nil
		}
		return newErr("openNext", KindIOError, err)
	}

	s.cur = src
	s.eof = false

	if s.progress != nil {
		s.progress(s.fileIndex, 0)
	}

	if fdSrc, ok := src.(FDSource); ok {
		if fd, ok := fdSrc.Fd(); ok {
			advisor, err := newPageAdvisor(fd)
			if err != nil {
				return err
			}
			s.advisor = advisor
		}
	}

	return nil
}

// Next returns the next content-defined chunk. It returns io.EOF once
// every source has been fully consumed and no partial data remains.
//
// The returned Chunk is a view into the Splitter's internal buffer and
// is only valid until the following call to Next; callers that need to
// retain it must call Chunk.Bytes.
func (s *Splitter) Next() (Chunk, error) {
	if s.done {
		return Chunk{}, io.EOF
	}

	for {
		if s.end < s.bufsz && s.cur != nil {
			if s.eof && (!s.keepBoundaries || s.start == s.end) {
				if err := s.openNext(); err != nil {
					return Chunk{}, err
				}
			}
			if s.cur != nil {
				if err := s.fill(); err != nil {
					return Chunk{}, err
				}
			}
		}

		if s.start == s.end && s.cur == nil {
			s.done = true
			return Chunk{}, io.EOF
		}

		window := s.buf[s.start:s.end]
		maxlen := len(window)
		if maxlen > s.maxBlob {
			maxlen = s.maxBlob
		}
		scan := window[:maxlen]

		var ofs int
		var extrabits uint
		switch s.mode {
		case ModeLegacy:
			ofs, extrabits = findLegacy(s.bits, scan)
		case ModeFastCDC:
			ofs, extrabits = findFastCDC(s.bits, scan)
		}

		var level int
		switch {
		case ofs != 0:
			level = int(extrabits / s.fanbits)
		case s.end-s.start >= s.maxBlob:
			ofs = s.maxBlob
			level = 0
		case s.start != s.end && s.eof && (s.keepBoundaries || s.cur == nil):
			ofs = s.end - s.start
			level = 0
		default:
			s.compactOrRealloc()
			continue
		}

		chunk := Chunk{Data: s.buf[s.start : s.start+ofs], Level: level}
		s.start += ofs
		return chunk, nil
	}
}
