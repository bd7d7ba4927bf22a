package ebml

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// source is the buffered input of a Reader. It tracks the logical stream position
// and seeks within its buffer where possible. Streams without an io.Seeker can only
// move forward; bytes are then read and discarded.
type source struct {
	*bufio.Reader
	r      io.Reader
	seeker io.Seeker
	base   int64 // underlying offset of logical position 0
	pos    int64
}

// readChunk caps the up-front allocation of readFull.
const readChunk = 64 << 10

func newSource(r io.Reader, size int) (*source, error) {
	s := &source{Reader: bufio.NewReaderSize(r, size), r: r}
	if seeker, ok := r.(io.Seeker); ok {
		base, err := seeker.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, err
		}
		s.seeker, s.base = seeker, base
	}
	return s, nil
}

// Read reads data into p, updating the stream position.
func (s *source) Read(p []byte) (n int, err error) {
	n, err = s.Reader.Read(p)
	s.pos += int64(n)
	return n, err
}

// ReadByte reads a single byte, updating the stream position.
func (s *source) ReadByte() (byte, error) {
	c, err := s.Reader.ReadByte()
	if err == nil {
		s.pos++
	}
	return c, err
}

// Discard skips the next n buffered or unbuffered bytes, updating the stream position.
func (s *source) Discard(n int) (int, error) {
	d, err := s.Reader.Discard(n)
	s.pos += int64(d)
	return d, err
}

// readFull reads exactly n bytes. A stream ending early is io.ErrUnexpectedEOF.
// The result grows as data arrives, so a bogus size costs no more than the
// stream actually holds.
func (s *source) readFull(n int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(min(n, readChunk))
	if _, err := io.CopyN(&buf, s, int64(n)); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf.Bytes(), nil
}

// atEOF reports whether no further byte can be read.
func (s *source) atEOF() bool {
	_, err := s.Reader.Peek(1)
	return err != nil
}

// skip moves forward n bytes.
func (s *source) skip(n int64) error {
	if n == 0 {
		return nil
	}
	if n < 0 {
		return fmt.Errorf("%w: skip of %d bytes", ErrUnsupportedNegativeSeek, n)
	}
	_, err := s.Seek(n, io.SeekCurrent)
	return err
}

// Seek moves the logical position. Targets inside the buffer are reached by
// discarding; others re-seek the underlying stream and reset the buffer.
func (s *source) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = s.pos + offset
	case io.SeekEnd:
		if s.seeker == nil {
			return s.pos, ErrInvalidWhence
		}
		end, err := s.seeker.Seek(0, io.SeekEnd)
		if err != nil {
			return s.pos, err
		}
		// restore the underlying offset the buffer will refill from
		if _, err := s.seeker.Seek(s.base+s.pos+int64(s.Reader.Buffered()), io.SeekStart); err != nil {
			return s.pos, err
		}
		target = end - s.base + offset
	default:
		return s.pos, fmt.Errorf("%w: value %d is not supported", ErrInvalidWhence, whence)
	}
	if target < 0 {
		return s.pos, fmt.Errorf("%w: %d", ErrInvalidSeek, target)
	}

	if s.pos <= target && target <= s.pos+int64(s.Reader.Buffered()) {
		_, err := s.Discard(int(target - s.pos))
		return s.pos, err
	}

	if s.seeker != nil {
		if _, err := s.seeker.Seek(s.base+target, io.SeekStart); err != nil {
			return s.pos, err
		}
		s.Reader.Reset(s.r)
		s.pos = target
		return s.pos, nil
	}

	if target < s.pos {
		return s.pos, fmt.Errorf("%w: cannot seek from %d back to %d", ErrUnsupportedNegativeSeek, s.pos, target)
	}
	_, err := s.Discard(int(target - s.pos))
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return s.pos, err
}
