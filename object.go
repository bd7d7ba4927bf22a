package ebml

import "io"

// Object is a value that can be written as an object envelope. TypeName is the
// class name stored in the envelope and the key under which its formatter and
// constructor are registered.
type Object interface {
	TypeName() string
}

// Formatter writes the data part of an object. Encode must emit exactly one
// ObjectDataID element, either a primitive or a container.
type Formatter interface {
	Encode(w ElementWriter, obj Object) error
}

// Decoder is implemented by formatters that can also read objects back. Decode
// is called with the reader positioned on the ObjectDataID element and must
// consume it.
type Decoder interface {
	Decode(r ElementReader, obj Object) error
}

// FormatterFunc adapts a function to a write-only Formatter.
type FormatterFunc func(w ElementWriter, obj Object) error

func (f FormatterFunc) Encode(w ElementWriter, obj Object) error { return f(w, obj) }

// Constructor returns a new zero object ready to be decoded into.
type Constructor func() Object

// ElementWriter is the write side available to formatters.
type ElementWriter interface {
	WriteUint(id ID, v uint64) error
	WriteSint(id ID, v int64) error
	WriteFloat(id ID, v float32) error
	WriteDouble(id ID, v float64) error
	WriteASCII(id ID, s string) error
	WriteUTF8(id ID, s string) error
	WriteBinary(id ID, p []byte) error
	WriteBinaryFrom(id ID, r io.Reader, size uint32) error

	StartContainer(id ID) error
	StopContainer() error
	WriteContainer(id ID, body func(ElementWriter) error) error
	WriteObject(id ID, obj Object) error

	Tell() int64
}

// ElementReader is the read side available to decoders.
type ElementReader interface {
	PeekID() (ID, error)
	ReadID() (ID, error)
	ElementSize() (uint32, error)
	SkipElement() error

	ReadUint() (ID, uint64, error)
	ReadSint() (ID, int64, error)
	ReadFloat() (ID, float32, error)
	ReadDouble() (ID, float64, error)
	ReadASCII() (ID, string, error)
	ReadUTF8() (ID, string, error)
	ReadBinary() (ID, []byte, error)
	ReadBinaryTo(dst io.Writer) (ID, int64, error)

	Container() (ID, error)
	ContainerAtEnd() (bool, error)
	ForEachChild(fn func(ID) error) error
	ReadObject() (ID, Object, error)

	Tell() int64
}
