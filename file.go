package ebml

import (
	"fmt"
	"io"
	"os"
)

// FileFormat saves and loads whole files of one kind.
type FileFormat interface {
	Save(ws io.WriteSeeker, reg *Registry, obj Object) error
	Load(r io.Reader, reg *Registry) (Object, error)
}

// ObjectFile is a FileFormat made of a header with DocType followed by a single
// object envelope with ObjectID.
type ObjectFile struct {
	DocType  string
	ObjectID ID
	Options  []Option
}

func (f ObjectFile) Save(ws io.WriteSeeker, reg *Registry, obj Object) error {
	if reg == nil {
		return ErrNoRegistry
	}
	if !reg.IsWritable(obj, f.format()) {
		return fmt.Errorf("%w: %s is not writable", ErrNotRegistered, typeName(obj))
	}
	w, err := NewWriter(ws, DefaultHeader(f.DocType), f.options(reg)...)
	if err != nil {
		return err
	}
	if err := w.WriteObject(f.ObjectID, obj); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func (f ObjectFile) Load(r io.Reader, reg *Registry) (Object, error) {
	if reg == nil {
		return nil, ErrNoRegistry
	}
	rd, err := NewReader(r, append(f.options(reg), WithDocType(f.DocType))...)
	if err != nil {
		return nil, err
	}
	id, obj, err := rd.ReadObject()
	if err != nil {
		return nil, err
	}
	if id != f.ObjectID {
		return nil, fmt.Errorf("%w: file object %s, expected %s", ErrIDMismatch, id, f.ObjectID)
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: object in %s file is not readable", ErrNotRegistered, f.DocType)
	}
	return obj, nil
}

func (f ObjectFile) options(reg *Registry) []Option {
	return append([]Option{WithRegistry(reg)}, f.Options...)
}

func (f ObjectFile) format() string {
	return buildOptions(f.Options).format
}

func typeName(obj Object) string {
	if obj == nil {
		return "<nil>"
	}
	return obj.TypeName()
}

// Save writes obj to the file at path using the file format registered as format.
func Save(reg *Registry, path, format string, obj Object) (err error) {
	if reg == nil {
		return ErrNoRegistry
	}
	if obj == nil {
		return ErrNilObject
	}
	ff, err := reg.File(format)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return ff.Save(f, reg, obj)
}

// Load reads the file at path using the file format registered as format.
func Load(reg *Registry, path, format string) (Object, error) {
	if reg == nil {
		return nil, ErrNoRegistry
	}
	ff, err := reg.File(format)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ff.Load(f, reg)
}
