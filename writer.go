package ebml

import (
	"fmt"
	"io"
	"math"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Writer encodes elements onto a seekable stream. The header is written by
// NewWriter; its widths then bound every later id and size.
//
// Every public method takes the instance lock, so one Writer may be shared by
// several goroutines. Formatters and container bodies receive an ElementWriter
// that is already inside the lock and may recurse freely.
type Writer struct {
	mu sync.Mutex
	w  unlockedWriter
}

// unlockedWriter holds the encoder state. It is the ElementWriter handed to
// formatters and container bodies.
type unlockedWriter struct {
	out      *sink
	header   Header
	maxID    int
	maxSize  int
	starts   []int64 // offset after the id of every open container
	registry *Registry
	format   string
	log      *zap.Logger
	closed   bool
}

var (
	_ ElementWriter = (*Writer)(nil)
	_ ElementWriter = (*unlockedWriter)(nil)
)

// NewWriter validates header, writes it to ws and returns a Writer whose width
// limits are the header's. ws must support seeking back to patch container sizes.
func NewWriter(ws io.WriteSeeker, header Header, opts ...Option) (*Writer, error) {
	if ws == nil {
		return nil, ErrNilIO
	}
	if err := header.Validate(); err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	out, err := newSink(ws, o.bufferSize)
	if err != nil {
		return nil, err
	}

	w := &Writer{w: unlockedWriter{
		out:      out,
		header:   header,
		maxID:    maxWidth,
		maxSize:  maxWidth,
		registry: o.registry,
		format:   o.format,
		log:      o.logger,
	}}
	if err := writeHeader(&w.w, header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	w.w.maxID = int(header.MaxIDWidth)
	w.w.maxSize = int(header.MaxSizeWidth)
	return w, nil
}

// Header returns the header the writer was created with.
func (w *Writer) Header() Header { return w.w.header }

// WriteUint writes v in the fewest big-endian bytes; zero has an empty payload.
// Values above math.MaxUint32 are ErrIntegerRange.
func (w *Writer) WriteUint(id ID, v uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.WriteUint(id, v)
}

// WriteSint writes v in the fewest two's complement bytes; zero has an empty
// payload. Values outside the int32 range are ErrIntegerRange.
func (w *Writer) WriteSint(id ID, v int64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.WriteSint(id, v)
}

// WriteFloat writes v as 4 big-endian bytes, or an empty payload for zero.
func (w *Writer) WriteFloat(id ID, v float32) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.WriteFloat(id, v)
}

// WriteDouble writes v as 8 big-endian bytes, or an empty payload for zero.
func (w *Writer) WriteDouble(id ID, v float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.WriteDouble(id, v)
}

// WriteASCII writes the bytes of s unchecked.
func (w *Writer) WriteASCII(id ID, s string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.WriteASCII(id, s)
}

// WriteUTF8 writes s after checking it is valid UTF-8.
func (w *Writer) WriteUTF8(id ID, s string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.WriteUTF8(id, s)
}

// WriteBinary writes p as an opaque payload.
func (w *Writer) WriteBinary(id ID, p []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.WriteBinary(id, p)
}

// WriteBinaryFrom writes a binary element whose payload is the next size bytes of r.
func (w *Writer) WriteBinaryFrom(id ID, r io.Reader, size uint32) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.WriteBinaryFrom(id, r, size)
}

// StartContainer writes id and a placeholder size that StopContainer patches.
// It fails with ErrSizeWidth unless the header allows 4-byte sizes.
func (w *Writer) StartContainer(id ID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.StartContainer(id)
}

// StopContainer closes the innermost open container by patching its size.
func (w *Writer) StopContainer() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.StopContainer()
}

// WriteContainer writes a container around body and closes it even when body fails.
func (w *Writer) WriteContainer(id ID, body func(ElementWriter) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.WriteContainer(id, body)
}

// WriteObject writes obj as an object envelope using the registered formatter
// for its type. Objects without one are skipped with a warning.
func (w *Writer) WriteObject(id ID, obj Object) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.WriteObject(id, obj)
}

// Tell returns the number of bytes written since the start of the stream.
func (w *Writer) Tell() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Tell()
}

// Flush writes any buffered data to the underlying stream.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.out.Flush()
}

// Close closes every container still open, flushes, and makes the writer unusable.
// The underlying stream is not closed.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.close()
}

func (w *unlockedWriter) check() error {
	if w.closed {
		return ErrClosed
	}
	return w.out.err
}

// writeHead writes an element's id and size.
func (w *unlockedWriter) writeHead(id ID, size uint32) error {
	if err := w.check(); err != nil {
		return err
	}
	var buf [2 * maxWidth]byte
	n, err := encodeID(buf[:], id, w.maxID)
	if err != nil {
		return err
	}
	m, err := encodeSize(buf[n:], size, w.maxSize)
	if err != nil {
		return err
	}
	_, err = w.out.Write(buf[:n+m])
	return err
}

func (w *unlockedWriter) writeElement(id ID, payload []byte) error {
	size, err := payloadSize(len(payload))
	if err != nil {
		return err
	}
	if err := w.writeHead(id, size); err != nil {
		return err
	}
	_, err = w.out.Write(payload)
	return err
}

func payloadSize(n int) (uint32, error) {
	if uint64(n) >= uint64(sizeBounds[maxWidth-1]) {
		return 0, fmt.Errorf("%w: %d", ErrSizeTooLarge, n)
	}
	return uint32(n), nil
}

// WriteUint writes v in the fewest big-endian bytes; zero has an empty payload.
func (w *unlockedWriter) WriteUint(id ID, v uint64) error {
	if v > math.MaxUint32 {
		return fmt.Errorf("%w: %d", ErrIntegerRange, v)
	}
	var buf [4]byte
	n := uintLen(v)
	putUint(buf[:n], v)
	return w.writeElement(id, buf[:n])
}

// WriteSint writes v in the fewest two's complement bytes; zero has an empty payload.
func (w *unlockedWriter) WriteSint(id ID, v int64) error {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return fmt.Errorf("%w: %d", ErrIntegerRange, v)
	}
	var buf [4]byte
	n := sintLen(v)
	putUint(buf[:n], v)
	return w.writeElement(id, buf[:n])
}

func (w *unlockedWriter) WriteFloat(id ID, v float32) error {
	if v == 0 {
		return w.writeElement(id, nil)
	}
	var buf [4]byte
	putUint(buf[:], math.Float32bits(v))
	return w.writeElement(id, buf[:])
}

func (w *unlockedWriter) WriteDouble(id ID, v float64) error {
	if v == 0 {
		return w.writeElement(id, nil)
	}
	var buf [8]byte
	putUint(buf[:], math.Float64bits(v))
	return w.writeElement(id, buf[:])
}

func (w *unlockedWriter) WriteASCII(id ID, s string) error {
	return w.writeString(id, s)
}

func (w *unlockedWriter) WriteUTF8(id ID, s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: element %s", ErrInvalidUTF8, id)
	}
	return w.writeString(id, s)
}

func (w *unlockedWriter) writeString(id ID, s string) error {
	size, err := payloadSize(len(s))
	if err != nil {
		return err
	}
	if err := w.writeHead(id, size); err != nil {
		return err
	}
	_, err = w.out.WriteString(s)
	return err
}

func (w *unlockedWriter) WriteBinary(id ID, p []byte) error {
	return w.writeElement(id, p)
}

// WriteBinaryFrom writes a binary element whose payload is the next size bytes of r.
func (w *unlockedWriter) WriteBinaryFrom(id ID, r io.Reader, size uint32) error {
	if r == nil {
		return ErrNilIO
	}
	if _, err := payloadSize(int(size)); err != nil {
		return err
	}
	if err := w.writeHead(id, size); err != nil {
		return err
	}
	return w.out.copyN(r, int64(size))
}

// StartContainer writes id and a placeholder size that StopContainer patches.
func (w *unlockedWriter) StartContainer(id ID) error {
	if err := w.check(); err != nil {
		return err
	}
	if w.maxSize < containerSizeWidth {
		return fmt.Errorf("%w: containers need %d size bytes, maximum is %d", ErrSizeWidth, containerSizeWidth, w.maxSize)
	}
	var buf [maxWidth + containerSizeWidth]byte
	n, err := encodeID(buf[:], id, w.maxID)
	if err != nil {
		return err
	}
	if err := putContainerSize(buf[n:], containerPlaceholder); err != nil {
		return err
	}
	if _, err := w.out.Write(buf[:n]); err != nil {
		return err
	}
	start := w.out.pos
	if _, err := w.out.Write(buf[n : n+containerSizeWidth]); err != nil {
		return err
	}
	w.starts = append(w.starts, start)
	return nil
}

// StopContainer closes the innermost open container. Its size counts everything
// after the id, the size field included.
func (w *unlockedWriter) StopContainer() error {
	if w.closed {
		return ErrClosed
	}
	if len(w.starts) == 0 {
		return ErrNoContainer
	}
	start := w.starts[len(w.starts)-1]
	w.starts = w.starts[:len(w.starts)-1]
	if w.out.err != nil {
		return w.out.err
	}

	size := w.out.pos - start
	if size > math.MaxUint32 {
		return fmt.Errorf("%w: container of %d bytes", ErrSizeTooLarge, size)
	}
	var buf [containerSizeWidth]byte
	if err := putContainerSize(buf[:], uint32(size)); err != nil {
		return err
	}
	return w.out.patch(start, buf[:])
}

// WriteContainer opens a container, runs body and closes the container even when
// body fails. Containers that body opened and left open are closed as well and reported
// with ErrUnbalancedContainer.
func (w *unlockedWriter) WriteContainer(id ID, body func(ElementWriter) error) (err error) {
	if err := w.StartContainer(id); err != nil {
		return err
	}
	depth := len(w.starts)
	defer func() {
		if len(w.starts) < depth {
			if err == nil {
				err = fmt.Errorf("%w: %s closed by its body", ErrUnbalancedContainer, id)
			}
			return
		}
		if len(w.starts) > depth && err == nil {
			err = fmt.Errorf("%w: %d left open in %s", ErrUnbalancedContainer, len(w.starts)-depth, id)
		}
		for len(w.starts) >= depth {
			if cerr := w.StopContainer(); cerr != nil {
				if err == nil {
					err = cerr
				}
				w.starts = w.starts[:depth-1]
				return
			}
		}
	}()
	return body(w)
}

// WriteObject writes obj inside a container with the given id: its type name,
// then whatever its formatter emits. An object without a formatter for the
// writer's format is skipped with a warning.
func (w *unlockedWriter) WriteObject(id ID, obj Object) error {
	if obj == nil {
		return ErrNilObject
	}
	if w.registry == nil {
		return ErrNoRegistry
	}
	name := obj.TypeName()
	f, ok := w.registry.Formatter(w.format, name)
	if !ok {
		w.log.Warn("no formatter for object, skipped",
			zap.String("type", name),
			zap.String("format", w.format),
			zap.Stringer("id", id))
		return nil
	}
	return w.WriteContainer(id, func(ew ElementWriter) error {
		if err := ew.WriteUTF8(ClassNameID, name); err != nil {
			return err
		}
		if err := f.Encode(ew, obj); err != nil {
			return fmt.Errorf("encode %s: %w", name, err)
		}
		return nil
	})
}

func (w *unlockedWriter) Tell() int64 { return w.out.pos }

func (w *unlockedWriter) close() error {
	if w.closed {
		return nil
	}
	var err error
	if n := len(w.starts); n > 0 {
		w.log.Warn("closing writer with open containers", zap.Int("open", n))
		for len(w.starts) > 0 && err == nil {
			err = w.StopContainer()
		}
	}
	if ferr := w.out.Flush(); err == nil {
		err = ferr
	}
	w.closed = true
	return err
}
