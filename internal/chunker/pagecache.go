package chunker

import (
	"errors"

	"golang.org/x/sys/unix"
)

// pageAdvisor implements the page-cache advisor (C6). For a seekable
// source backed by a real file descriptor, it records which pages
// were already resident before the splitter started reading, then
// periodically advises the OS to drop the pages the splitter itself
// pulled in and has already consumed. Pages that were resident before
// the read began are left alone — they belong to some other reader of
// the same file.
//
// A pageAdvisor that fails to set up (pipe-like descriptor) is simply
// disabled; disabled is not an error condition.
type pageAdvisor struct {
	fd       int
	pageSize int
	mincore  []byte // one byte per page; bit 0 set => was resident at open time
	read     uint64 // bytes consumed from the current source
	uncached uint64 // bytes already advised away
	disabled bool
}

const mincoreInCore = 0x1

// newPageAdvisor builds a page advisor for fd. It returns a disabled
// advisor with a nil error for pipe-like descriptors (EINVAL/ENODEV on
// mmap), since that is normal for piped input, not a failure. A failed
// fstat is not in that category and is always fatal.
func newPageAdvisor(fd int) (*pageAdvisor, error) {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return nil, newErr("pagecache.fstat", KindIOError, err)
	}

	pageSize := PageSize()
	size := st.Size
	if size <= 0 {
		return &pageAdvisor{fd: fd, pageSize: pageSize, disabled: true}, nil
	}

	pages := (size + int64(pageSize) - 1) / int64(pageSize)
	mincore := make([]byte, pages)

	chunk := int64(FMincoreChunkSize())
	for pos := int64(0); pos < size; pos += chunk {
		length := chunk
		if pos+length > size {
			length = size - pos
		}

		addr, err := unix.Mmap(fd, pos, int(length), unix.PROT_NONE, unix.MAP_PRIVATE)
		if err != nil {
			if errors.Is(err, unix.EINVAL) || errors.Is(err, unix.ENODEV) {
				return &pageAdvisor{disabled: true}, nil
			}
			return nil, newErr("pagecache.mmap", KindIOError, err)
		}

		vec := make([]byte, (len(addr)+pageSize-1)/pageSize)
		mcErr := unix.Mincore(addr, vec)
		if uerr := unix.Munmap(addr); uerr != nil && mcErr == nil {
			mcErr = uerr
		}
		if mcErr != nil {
			if errors.Is(mcErr, unix.ENOSYS) {
				return &pageAdvisor{disabled: true}, nil
			}
			return nil, newErr("pagecache.mincore", KindIOError, mcErr)
		}

		startPage := pos / int64(pageSize)
		copy(mincore[startPage:], vec)
	}

	return &pageAdvisor{fd: fd, pageSize: pageSize, mincore: mincore}, nil
}

// recordRead tracks bytes consumed from the current source and
// triggers an advisory pass once enough unadvised bytes have
// accumulated.
func (a *pageAdvisor) recordRead(n int) error {
	if a == nil || a.disabled || n <= 0 {
		return nil
	}
	a.read += uint64(n)
	if a.read-a.uncached >= uint64(AdviseChunk()) {
		return a.advise(false)
	}
	return nil
}

// finish advises away any remaining unadvised bytes when a source is
// fully consumed.
func (a *pageAdvisor) finish() error {
	if a == nil || a.disabled {
		return nil
	}
	return a.advise(true)
}

// advise groups the unadvised byte range into runs of pages that were
// NOT resident before the splitter started reading, and issues a
// don't-need hint over each run.
func (a *pageAdvisor) advise(last bool) error {
	length := a.read - a.uncached
	if !last {
		length = length / uint64(AdviseChunk()) * uint64(AdviseChunk())
	}
	if length == 0 {
		return nil
	}

	pages := length / uint64(a.pageSize)
	pageStart := a.uncached / uint64(a.pageSize)

	start := int64(a.uncached)
	var runLen int64

	for i := uint64(0); i < pages; i++ {
		idx := pageStart + i
		if int(idx) < len(a.mincore) && a.mincore[idx]&mincoreInCore != 0 {
			if runLen > 0 {
				if err := a.dontNeed(start, runLen); err != nil {
					return err
				}
			}
			start += runLen + int64(a.pageSize)
			runLen = 0
		} else {
			runLen += int64(a.pageSize)
		}
	}
	if runLen > 0 {
		if err := a.dontNeed(start, runLen); err != nil {
			return err
		}
	}

	a.uncached = uint64(start + runLen)
	return nil
}

// dontNeed issues the OS "don't need" hint, mapping the resulting
// errno onto the chunking engine's error kinds per the advisory
// error contract: EBADF is a hard I/O error, EINVAL is a bad
// argument, ESPIPE is silently ignored, anything else is a generic
// I/O failure.
func (a *pageAdvisor) dontNeed(offset, length int64) error {
	err := unix.Fadvise(a.fd, offset, length, unix.FADV_DONTNEED)
	switch {
	case err == nil, errors.Is(err, unix.ESPIPE):
		return nil
	case errors.Is(err, unix.EBADF):
		return newErr("pagecache.advise", KindIOError, err)
	case errors.Is(err, unix.EINVAL):
		return newErr("pagecache.advise", KindInvalidArgument, err)
	default:
		return newErr("pagecache.advise", KindIOError, err)
	}
}

// close drops the advisor's per-source state; called when a source is
// exhausted and the splitter moves on to the next one.
func (a *pageAdvisor) close() {
	if a == nil {
		return
	}
	a.mincore = nil
}
