package ebml

import (
	"bytes"
	"fmt"
)

// Marshal encodes header followed by obj as an object envelope with the given id.
func Marshal(reg *Registry, header Header, id ID, obj Object, opts ...Option) ([]byte, error) {
	if reg == nil {
		return nil, ErrNoRegistry
	}
	if obj == nil {
		return nil, ErrNilObject
	}
	opts = append([]Option{WithRegistry(reg)}, opts...)
	if format := buildOptions(opts).format; !reg.IsWritable(obj, format) {
		return nil, fmt.Errorf("%w: %s has no formatter for %q", ErrNotRegistered, obj.TypeName(), format)
	}

	buf := getBuffer()
	defer putBuffer(buf)
	w, err := NewWriter(buf, header, opts...)
	if err != nil {
		return nil, err
	}
	if err := w.WriteObject(id, obj); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

// Unmarshal decodes a stream produced by Marshal. The object is nil if its type
// is not readable with reg.
func Unmarshal(reg *Registry, data []byte, opts ...Option) (Header, Object, error) {
	if reg == nil {
		return Header{}, nil, ErrNoRegistry
	}
	r, err := NewReader(NewBuffer(data), append([]Option{WithRegistry(reg)}, opts...)...)
	if err != nil {
		return Header{}, nil, err
	}
	_, obj, err := r.ReadObject()
	if err != nil {
		return r.Header(), nil, err
	}
	return r.Header(), obj, nil
}
