// Package objects provides formatters for the built-in object types: scalar
// primitives, time-aligned tracks and flat arrays of ints and floats.
package objects

import (
	"errors"
	"fmt"

	"github.com/oy3o/ebml"
)

const (
	// Format is the format tag the formatters are registered under.
	Format = ebml.FormatTag

	// FileDocType is the doctype and file format name of single-object files.
	FileDocType = "spct_object"

	// FileObjectID is the id of the object envelope in a single-object file.
	FileObjectID ebml.ID = 0x4081
)

// FileFormat stores one object after a header with doctype FileDocType.
var FileFormat = ebml.ObjectFile{DocType: FileDocType, ObjectID: FileObjectID}

var (
	// ErrWrongType indicates a formatter was handed an object of another type.
	ErrWrongType = errors.New("objects: wrong object type")

	// ErrShape indicates track or array contents that disagree with their counts.
	ErrShape = errors.New("objects: inconsistent shape")
)

// codec adapts typed encode/decode functions to ebml.Formatter and ebml.Decoder.
type codec[T ebml.Object] struct {
	encode func(ebml.ElementWriter, T) error
	decode func(ebml.ElementReader, T) error
}

func (c codec[T]) Encode(w ebml.ElementWriter, obj ebml.Object) error {
	v, ok := obj.(T)
	if !ok {
		return fmt.Errorf("%w: %T", ErrWrongType, obj)
	}
	return c.encode(w, v)
}

func (c codec[T]) Decode(r ebml.ElementReader, obj ebml.Object) error {
	v, ok := obj.(T)
	if !ok {
		return fmt.Errorf("%w: %T", ErrWrongType, obj)
	}
	return c.decode(r, v)
}

type entry struct {
	name string
	ctor ebml.Constructor
	f    ebml.Formatter
}

var entries = []entry{
	{IntType, func() ebml.Object { return new(Int) }, codec[*Int]{encodeInt, decodeInt}},
	{FloatType, func() ebml.Object { return new(Float) }, codec[*Float]{encodeFloat, decodeFloat}},
	{StringType, func() ebml.Object { return new(String) }, codec[*String]{encodeString, decodeString}},
	{FloatTrackType, func() ebml.Object { return new(FloatTrack) }, codec[*FloatTrack]{encodeFloatTrack, decodeFloatTrack}},
	{IntTrackType, func() ebml.Object { return new(IntTrack) }, codec[*IntTrack]{encodeIntTrack, decodeIntTrack}},
	{FloatArrayType, func() ebml.Object { return new(FloatArray) }, codec[*FloatArray]{encodeFloatArray, decodeFloatArray}},
	{IntArrayType, func() ebml.Object { return new(IntArray) }, codec[*IntArray]{encodeIntArray, decodeIntArray}},
}

// Register adds every built-in type, its formatter and FileFormat to reg.
func Register(reg *ebml.Registry) error {
	for _, e := range entries {
		if err := reg.RegisterType(e.name, e.ctor); err != nil {
			return err
		}
		if err := reg.RegisterFormatter(Format, e.f, e.name); err != nil {
			return err
		}
	}
	return reg.RegisterFile(FileDocType, FileFormat)
}

// element reads and writes one scalar of a track or array.
type element[T any] struct {
	write func(w ebml.ElementWriter, id ebml.ID, v T) error
	read  func(r ebml.ElementReader) (T, error)
}

var floatElement = element[float32]{
	write: func(w ebml.ElementWriter, id ebml.ID, v float32) error { return w.WriteFloat(id, v) },
	read: func(r ebml.ElementReader) (float32, error) {
		_, v, err := r.ReadFloat()
		return v, err
	},
}

var intElement = element[int32]{
	write: func(w ebml.ElementWriter, id ebml.ID, v int32) error { return w.WriteSint(id, int64(v)) },
	read: func(r ebml.ElementReader) (int32, error) {
		_, v, err := r.ReadSint()
		return int32(v), err
	},
}

// capHint bounds preallocation by counts read from the stream.
func capHint(n uint64) int {
	return int(min(n, 1024))
}
