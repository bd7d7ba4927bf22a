package ebml

import "io"

// Buffer is an in-memory io.ReadWriteSeeker. Reads and writes share one position;
// writes overwrite in place and grow the slice as needed, zero-filling any gap left
// by a seek past the end. It is the destination for Marshal and a convenient
// seekable stream for tests.
type Buffer struct {
	B []byte // contents
	N int    // current position
}

// NewBuffer creates a Buffer positioned at the start of b.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{B: b}
}

// Read implements the [io.Reader] interface.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.N >= len(b.B) {
		return 0, io.EOF
	}
	n := copy(p, b.B[b.N:])
	b.N += n
	return n, nil
}

// ReadByte implements the [io.ByteReader] interface.
func (b *Buffer) ReadByte() (byte, error) {
	if b.N >= len(b.B) {
		return 0, io.EOF
	}
	c := b.B[b.N]
	b.N++
	return c, nil
}

// Write implements the [io.Writer] interface.
func (b *Buffer) Write(p []byte) (int, error) {
	b.grow(len(p))
	n := copy(b.B[b.N:], p)
	b.N += n
	return n, nil
}

// WriteString implements the [io.StringWriter] interface.
func (b *Buffer) WriteString(s string) (int, error) {
	b.grow(len(s))
	n := copy(b.B[b.N:], s)
	b.N += n
	return n, nil
}

// WriteByte implements the [io.ByteWriter] interface.
func (b *Buffer) WriteByte(c byte) error {
	b.grow(1)
	b.B[b.N] = c
	b.N++
	return nil
}

// grow makes room for n bytes at the current position.
func (b *Buffer) grow(n int) {
	end := b.N + n
	if end <= len(b.B) {
		return
	}
	if end <= cap(b.B) {
		tail := b.B[len(b.B):end]
		clear(tail)
		b.B = b.B[:end]
		return
	}
	nb := make([]byte, end, max(end, 2*cap(b.B)))
	copy(nb, b.B)
	b.B = nb
}

// WriteTo implements the [io.WriterTo] interface.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	if b.N >= len(b.B) {
		return 0, nil
	}
	n, err := w.Write(b.B[b.N:])
	if n < 0 || n > len(b.B)-b.N {
		return 0, ErrInvalidWrite
	}
	b.N += n
	return int64(n), err
}

// Seek implements the [io.Seeker] interface.
func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(b.N) + offset
	case io.SeekEnd:
		abs = int64(len(b.B)) + offset
	default:
		return 0, ErrInvalidWhence
	}

	if abs < 0 {
		return 0, ErrInvalidSeek
	}

	b.N = int(abs)
	return abs, nil
}

// Bytes returns the whole contents regardless of the position.
func (b *Buffer) Bytes() []byte { return b.B }

// Len returns the length of the contents.
func (b *Buffer) Len() int { return len(b.B) }

// Reset empties the buffer, keeping its capacity.
func (b *Buffer) Reset() {
	b.B = b.B[:0]
	b.N = 0
}
