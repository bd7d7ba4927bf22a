package ebml

import (
	"bufio"
	"fmt"
	"io"
)

// sink is the buffered output of a Writer. It tracks the logical stream position
// and latches the first error; every later write is a no-op returning it.
type sink struct {
	w    *bufio.Writer
	ws   io.WriteSeeker
	base int64 // underlying offset of logical position 0
	pos  int64
	err  error
}

func newSink(ws io.WriteSeeker, size int) (*sink, error) {
	base, err := ws.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	return &sink{w: bufio.NewWriterSize(ws, size), ws: ws, base: base}, nil
}

// setError records the first non-nil error.
func (s *sink) setError(err error) {
	if s.err == nil && err != nil {
		s.err = err
	}
}

// Write implements the io.Writer interface.
func (s *sink) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.w.Write(p)
	if n < 0 || n > len(p) {
		err = ErrInvalidWrite
		n = 0
	}
	s.pos += int64(n)
	s.setError(err)
	return n, s.err
}

// WriteString implements the io.StringWriter interface.
func (s *sink) WriteString(str string) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.w.WriteString(str)
	s.pos += int64(n)
	s.setError(err)
	return n, s.err
}

// copyN copies exactly n bytes from r.
func (s *sink) copyN(r io.Reader, n int64) error {
	if s.err != nil {
		return s.err
	}
	written, err := io.CopyN(s.w, r, n)
	s.pos += written
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	s.setError(err)
	return s.err
}

// Flush writes any buffered data to the underlying stream.
func (s *sink) Flush() error {
	if s.err != nil {
		return s.err
	}
	s.setError(s.w.Flush())
	return s.err
}

// patch overwrites already written bytes at offset and returns to the current end.
func (s *sink) patch(offset int64, p []byte) error {
	if offset < 0 || offset+int64(len(p)) > s.pos {
		s.setError(fmt.Errorf("%w: patch of %d bytes at %d beyond %d", ErrInvalidSeek, len(p), offset, s.pos))
		return s.err
	}
	if err := s.Flush(); err != nil {
		return err
	}
	if _, err := s.ws.Seek(s.base+offset, io.SeekStart); err != nil {
		s.setError(err)
		return s.err
	}
	if _, err := s.ws.Write(p); err != nil {
		s.setError(err)
		return s.err
	}
	_, err := s.ws.Seek(s.base+s.pos, io.SeekStart)
	s.setError(err)
	return s.err
}
