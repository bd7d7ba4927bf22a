package ebml

import (
	"errors"
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"go.uber.org/zap"
)

// untilEOF is the end of a container of unknown size at the top level.
const untilEOF int64 = math.MaxInt64

// Reader decodes elements from a stream. NewReader consumes the header; its
// widths then bound every later id and size.
//
// A Reader is not safe for concurrent use. Reads are position dependent and the
// container stack belongs to the single goroutine consuming the stream.
type Reader struct {
	in       *source
	header   Header
	maxID    int
	maxSize  int
	ends     []int64 // end offset of every open container
	registry *Registry
	format   string
	log      *zap.Logger
}

var _ ElementReader = (*Reader)(nil)

// NewReader reads and validates the header at the start of r. Streams that are
// not io.Seekers can be read, but only forward.
func NewReader(r io.Reader, opts ...Option) (*Reader, error) {
	if r == nil {
		return nil, ErrNilIO
	}
	o := buildOptions(opts)
	in, err := newSource(r, o.bufferSize)
	if err != nil {
		return nil, err
	}
	rd := &Reader{
		in:       in,
		maxID:    maxWidth,
		maxSize:  maxWidth,
		registry: o.registry,
		format:   o.format,
		log:      o.logger,
	}
	h, err := readHeader(rd)
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	rd.header = h
	rd.maxID = int(h.MaxIDWidth)
	rd.maxSize = int(h.MaxSizeWidth)
	if o.docType != "" {
		if err := rd.ExpectDocType(o.docType); err != nil {
			return nil, err
		}
	}
	return rd, nil
}

// Header returns the header read from the stream.
func (r *Reader) Header() Header { return r.header }

// ExpectDocType reports ErrDocTypeMismatch unless the stream's doctype is docType.
func (r *Reader) ExpectDocType(docType string) error {
	if r.header.DocType != docType {
		return fmt.Errorf("%w: expected %q, got %q", ErrDocTypeMismatch, docType, r.header.DocType)
	}
	return nil
}

// Tell returns the current offset from the start of the stream.
func (r *Reader) Tell() int64 { return r.in.pos }

// Seek moves the read position. The container stack is left untouched; callers
// seeking out of an open container must not consult it afterwards.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	return r.in.Seek(offset, whence)
}

// EOF reports whether the stream has no further element.
func (r *Reader) EOF() bool { return r.in.atEOF() }

func (r *Reader) peekID() (ID, int, error) {
	b, err := r.in.Peek(1)
	if err != nil {
		return 0, 0, err
	}
	w, err := idWidth(b[0], r.maxID)
	if err != nil {
		return 0, 0, err
	}
	if b, err = r.in.Peek(w); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, 0, err
	}
	return decodeID(b), w, nil
}

// PeekID returns the id of the next element without consuming it. At the end
// of the stream it returns io.EOF.
func (r *Reader) PeekID() (ID, error) {
	id, _, err := r.peekID()
	return id, err
}

// ReadID consumes the id of the next element.
func (r *Reader) ReadID() (ID, error) {
	id, w, err := r.peekID()
	if err != nil {
		return 0, err
	}
	_, err = r.in.Discard(w)
	return id, err
}

// ElementSize consumes the size that follows an id read with ReadID.
func (r *Reader) ElementSize() (uint32, error) {
	var buf [maxWidth]byte
	first, err := r.in.ReadByte()
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, err
	}
	w, err := sizeLen(first, r.maxSize)
	if err != nil {
		return 0, err
	}
	buf[0] = first
	if _, err := io.ReadFull(r.in, buf[1:w]); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return 0, err
	}
	return decodeSize(buf[:w]), nil
}

func (r *Reader) readHead() (ID, uint32, error) {
	id, err := r.ReadID()
	if err != nil {
		return 0, 0, err
	}
	size, err := r.ElementSize()
	return id, size, err
}

// readKnownHead reads an id and a size that must not be SizeUnknown and must
// fit in the innermost open container.
func (r *Reader) readKnownHead() (ID, uint32, error) {
	id, size, err := r.readHead()
	if err != nil {
		return id, 0, err
	}
	if size == SizeUnknown {
		return id, 0, fmt.Errorf("%w: element %s", ErrUnknownSize, id)
	}
	if err := r.checkFits(id, r.in.pos, size); err != nil {
		return id, 0, err
	}
	return id, size, nil
}

// checkFits rejects an element whose body, starting at start, runs past the end
// of the innermost open container.
func (r *Reader) checkFits(id ID, start int64, size uint32) error {
	n := len(r.ends)
	if n == 0 || r.ends[n-1] == untilEOF {
		return nil
	}
	if end := start + int64(size); end > r.ends[n-1] {
		return fmt.Errorf("%w: %s ends at %d, container ends at %d", ErrElementOverrun, id, end, r.ends[n-1])
	}
	return nil
}

// SkipElement consumes the next element whole. For an element of unknown size
// only the id and size are consumed.
func (r *Reader) SkipElement() error {
	id, size, err := r.readHead()
	if err != nil {
		return err
	}
	if size == SizeUnknown {
		r.log.Debug("skipped element of unknown size", zap.Stringer("id", id))
		return nil
	}
	if err := r.checkFits(id, r.in.pos, size); err != nil {
		return err
	}
	return r.in.skip(int64(size))
}

func (r *Reader) readPayload() (ID, []byte, error) {
	id, size, err := r.readKnownHead()
	if err != nil {
		return id, nil, err
	}
	p, err := r.in.readFull(int(size))
	return id, p, err
}

// readInt reads an integer payload of at most four bytes.
func (r *Reader) readInt() (ID, []byte, error) {
	id, size, err := r.readKnownHead()
	if err != nil {
		return id, nil, err
	}
	if size > 4 {
		return id, nil, fmt.Errorf("%w: %d bytes in %s", ErrIntegerSize, size, id)
	}
	p, err := r.in.readFull(int(size))
	return id, p, err
}

func (r *Reader) ReadUint() (ID, uint64, error) {
	id, p, err := r.readInt()
	if err != nil {
		return id, 0, err
	}
	return id, beUint(p), nil
}

func (r *Reader) ReadSint() (ID, int64, error) {
	id, p, err := r.readInt()
	if err != nil {
		return id, 0, err
	}
	return id, beSint(p), nil
}

func (r *Reader) ReadFloat() (ID, float32, error) {
	id, p, err := r.readPayload()
	if err != nil {
		return id, 0, err
	}
	switch len(p) {
	case 0:
		return id, 0, nil
	case 4:
		return id, math.Float32frombits(uint32(beUint(p))), nil
	}
	return id, 0, fmt.Errorf("%w: %d bytes in %s", ErrFloatSize, len(p), id)
}

func (r *Reader) ReadDouble() (ID, float64, error) {
	id, p, err := r.readPayload()
	if err != nil {
		return id, 0, err
	}
	switch len(p) {
	case 0:
		return id, 0, nil
	case 8:
		return id, math.Float64frombits(beUint(p)), nil
	}
	return id, 0, fmt.Errorf("%w: %d bytes in %s", ErrFloatSize, len(p), id)
}

func (r *Reader) ReadASCII() (ID, string, error) {
	id, p, err := r.readPayload()
	if err != nil {
		return id, "", err
	}
	return id, string(p), nil
}

func (r *Reader) ReadUTF8() (ID, string, error) {
	id, p, err := r.readPayload()
	if err != nil {
		return id, "", err
	}
	if !utf8.Valid(p) {
		return id, "", fmt.Errorf("%w: element %s", ErrInvalidUTF8, id)
	}
	return id, string(p), nil
}

// ReadBinary returns the payload of the next element, or nil if it is empty.
func (r *Reader) ReadBinary() (ID, []byte, error) {
	id, p, err := r.readPayload()
	if err != nil || len(p) == 0 {
		return id, nil, err
	}
	return id, p, nil
}

// ReadBinaryTo copies the payload of the next element to dst without holding it in memory.
func (r *Reader) ReadBinaryTo(dst io.Writer) (ID, int64, error) {
	id, size, err := r.readKnownHead()
	if err != nil {
		return id, 0, err
	}
	n, err := io.CopyN(dst, r.in, int64(size))
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return id, n, err
}

// Container opens the next element as a container and returns its id.
func (r *Reader) Container() (ID, error) {
	id, err := r.ReadID()
	if err != nil {
		return 0, err
	}
	start := r.in.pos
	size, err := r.ElementSize()
	if err != nil {
		return id, err
	}
	end := start + int64(size)
	if size == SizeUnknown {
		end = untilEOF
		if n := len(r.ends); n > 0 {
			end = r.ends[n-1]
		}
	} else if err := r.checkFits(id, start, size); err != nil {
		return id, err
	}
	r.ends = append(r.ends, end)
	return id, nil
}

// ContainerAtEnd reports whether the innermost open container is exhausted and,
// if so, closes it. With no open container it reports true.
func (r *Reader) ContainerAtEnd() (bool, error) {
	n := len(r.ends)
	if n == 0 {
		return true, nil
	}
	end := r.ends[n-1]
	if r.in.pos >= end {
		r.ends = r.ends[:n-1]
		return true, nil
	}
	if r.in.atEOF() {
		if end == untilEOF {
			r.ends = r.ends[:n-1]
			return true, nil
		}
		return false, fmt.Errorf("%w: container ends at %d, stream at %d", io.ErrUnexpectedEOF, end, r.in.pos)
	}
	return false, nil
}

// ForEachChild calls fn with the id of every remaining child of the innermost
// open container and closes the container afterwards. fn must consume the
// element it is given; returning ErrUnknownElement instead skips it with a warning.
func (r *Reader) ForEachChild(fn func(ID) error) error {
	for {
		done, err := r.ContainerAtEnd()
		if err != nil || done {
			return err
		}
		id, err := r.PeekID()
		if err != nil {
			return err
		}
		pos := r.in.pos
		err = fn(id)
		switch {
		case errors.Is(err, ErrUnknownElement):
			r.log.Warn("unknown element skipped", zap.Stringer("id", id), zap.Int64("offset", pos))
			if err := r.SkipElement(); err != nil {
				return err
			}
		case err != nil:
			return err
		case r.in.pos == pos:
			return fmt.Errorf("%w: %s at %d", ErrNotConsumed, id, pos)
		}
	}
}

// skipContainer drops the open container at depth and moves to its end.
func (r *Reader) skipContainer(depth int) error {
	end := r.ends[depth-1]
	r.ends = r.ends[:depth-1]
	if end == untilEOF {
		_, err := io.Copy(io.Discard, r.in)
		return err
	}
	if end < r.in.pos {
		return fmt.Errorf("%w: read past %d to %d", ErrContainerNotClosed, end, r.in.pos)
	}
	return r.in.skip(end - r.in.pos)
}

// closeContainer requires the stream to be exactly at the end of the container
// at depth. Exhausted inner containers are closed on the way.
func (r *Reader) closeContainer(depth int) error {
	for len(r.ends) > depth && r.in.pos >= r.ends[len(r.ends)-1] {
		r.ends = r.ends[:len(r.ends)-1]
	}
	if len(r.ends) != depth {
		return fmt.Errorf("%w: %d inner containers still open", ErrContainerNotClosed, len(r.ends)-depth)
	}
	end := r.ends[depth-1]
	if end == untilEOF {
		if !r.in.atEOF() {
			return fmt.Errorf("%w: data after object at %d", ErrContainerNotClosed, r.in.pos)
		}
	} else if r.in.pos != end {
		return fmt.Errorf("%w: at %d, container ends at %d", ErrContainerNotClosed, r.in.pos, end)
	}
	r.ends = r.ends[:depth-1]
	return nil
}

// ReadObject reads an object envelope. An object whose type cannot be decoded
// with the reader's format is skipped with a warning and returned as nil
// without an error; the stream is then positioned after its container.
func (r *Reader) ReadObject() (ID, Object, error) {
	if r.registry == nil {
		return 0, nil, ErrNoRegistry
	}
	id, err := r.Container()
	if err != nil {
		return id, nil, err
	}
	depth := len(r.ends)
	if r.in.pos >= r.ends[depth-1] {
		return id, nil, fmt.Errorf("%w: object %s is empty", ErrIDMismatch, id)
	}

	cid, err := r.PeekID()
	if err != nil {
		return id, nil, err
	}
	if cid != ClassNameID {
		return id, nil, fmt.Errorf("%w: object %s starts with %s, expected %s", ErrIDMismatch, id, cid, ClassNameID)
	}
	_, name, err := r.ReadUTF8()
	if err != nil {
		return id, nil, err
	}

	if !r.registry.IsReadable(name, r.format) {
		r.log.Warn("object type not readable, skipped",
			zap.String("type", name),
			zap.String("format", r.format),
			zap.Stringer("id", id))
		return id, nil, r.skipContainer(depth)
	}
	f, _ := r.registry.Formatter(r.format, name)
	dec := f.(Decoder)

	if r.in.pos >= r.ends[depth-1] {
		return id, nil, fmt.Errorf("%w: object %s of %s has no data element", ErrIDMismatch, id, name)
	}
	did, err := r.PeekID()
	if err != nil {
		return id, nil, err
	}
	if did != ObjectDataID {
		return id, nil, fmt.Errorf("%w: object data of %s is %s, expected %s", ErrIDMismatch, name, did, ObjectDataID)
	}
	obj, err := r.registry.New(name)
	if err != nil {
		return id, nil, err
	}
	if err := dec.Decode(r, obj); err != nil {
		return id, nil, fmt.Errorf("decode %s: %w", name, err)
	}
	if err := r.closeContainer(depth); err != nil {
		return id, nil, err
	}
	return id, obj, nil
}
