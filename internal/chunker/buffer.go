package chunker

import "io"

// compactOrRealloc moves the unread tail buf[start:end] down to offset
// zero in a fresh bufsz-sized buffer, grounded on HashSplitter_realloc:
// the old buffer is abandoned rather than shifted in place, since the
// Splitter hands out views into it (Chunk.Data) that must stay valid
// until the caller's next call to Next.
func (s *Splitter) compactOrRealloc() {
	fresh := make([]byte, s.bufsz)
	n := copy(fresh, s.buf[s.start:s.end])
	s.buf = fresh
	s.end = n
	s.start = 0
}

// fill tops up the buffer from the current source, stopping either
// when the buffer is full or the source reports EOF. It mirrors
// HashSplitter_read: Source being just an io.Reader collapses the
// original's fd-read and generic-object-read loops into one path,
// since the fd is only needed for page-cache advisory, not for the
// read itself.
func (s *Splitter) fill() error {
	if s.cur == nil || s.end >= s.bufsz {
		return nil
	}

	startRead := s.end
	for s.end < s.bufsz {
		n, err := s.cur.Read(s.buf[s.end:s.bufsz])
		if n < 0 || s.end+n > s.bufsz {
			return newErr("splitter.fill", KindInvalidRead, nil)
		}
		if n > 0 {
			s.end += n
			if s.advisor != nil {
				if aerr := s.advisor.recordRead(n); aerr != nil {
					return aerr
				}
			}
		}
		if err != nil {
			if err != io.EOF {
				return newErr("splitter.fill", KindIOError, err)
			}
			s.eof = true
			break
		}
		if n == 0 {
			// well-behaved io.Reader: a nil error with n==0 means
			// "try again", but guard against a source that never
			// makes progress and never reports EOF or an error.
			s.eof = true
			break
		}
	}

	if delta := s.end - startRead; delta > 0 && s.progress != nil {
		s.progress(s.fileIndex, delta)
	}
	return nil
}
