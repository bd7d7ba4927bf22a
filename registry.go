package ebml

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v4"
)

type formatKey struct {
	format   string
	typeName string
}

// Registry maps type names to constructors and (format, type name) pairs to
// formatters. It is safe for concurrent use, so one registry can serve any
// number of readers and writers.
type Registry struct {
	types      *xsync.Map[string, Constructor]
	formatters *xsync.Map[formatKey, Formatter]
	files      *xsync.Map[string, FileFormat]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:      xsync.NewMap[string, Constructor](),
		formatters: xsync.NewMap[formatKey, Formatter](),
		files:      xsync.NewMap[string, FileFormat](),
	}
}

// RegisterType registers the constructor used to create objects of the named type.
func (r *Registry) RegisterType(name string, ctor Constructor) error {
	if ctor == nil {
		return fmt.Errorf("%w: nil constructor for %q", ErrNotRegistered, name)
	}
	if _, loaded := r.types.LoadOrStore(name, ctor); loaded {
		return fmt.Errorf("%w: type %q", ErrDuplicate, name)
	}
	return nil
}

// RegisterFormatter registers f for every named type under format. Either all
// names are registered or, on a duplicate, none are.
func (r *Registry) RegisterFormatter(format string, f Formatter, typeNames ...string) error {
	if f == nil {
		return fmt.Errorf("%w: nil formatter for format %q", ErrNotRegistered, format)
	}
	for i, name := range typeNames {
		key := formatKey{format: format, typeName: name}
		if _, loaded := r.formatters.LoadOrStore(key, f); loaded {
			for _, done := range typeNames[:i] {
				r.formatters.Delete(formatKey{format: format, typeName: done})
			}
			return fmt.Errorf("%w: formatter for %q in format %q", ErrDuplicate, name, format)
		}
	}
	return nil
}

// Formatter returns the formatter for the named type under format.
func (r *Registry) Formatter(format, typeName string) (Formatter, bool) {
	return r.formatters.Load(formatKey{format: format, typeName: typeName})
}

// IsReadable reports whether objects of the named type can be decoded under
// format: a decoding formatter and a constructor are both registered.
func (r *Registry) IsReadable(typeName, format string) bool {
	f, ok := r.Formatter(format, typeName)
	if !ok {
		return false
	}
	if _, ok := f.(Decoder); !ok {
		return false
	}
	_, ok = r.types.Load(typeName)
	return ok
}

// IsWritable reports whether obj has a formatter under format.
func (r *Registry) IsWritable(obj Object, format string) bool {
	if obj == nil {
		return false
	}
	_, ok := r.Formatter(format, obj.TypeName())
	return ok
}

// New creates an object of the named type.
func (r *Registry) New(typeName string) (Object, error) {
	ctor, ok := r.types.Load(typeName)
	if !ok {
		return nil, fmt.Errorf("%w: type %q", ErrNotRegistered, typeName)
	}
	obj := ctor()
	if obj == nil {
		return nil, fmt.Errorf("%w: constructor of %q returned nil", ErrNilObject, typeName)
	}
	return obj, nil
}

// RegisterFile registers a file format under its name.
func (r *Registry) RegisterFile(format string, f FileFormat) error {
	if f == nil {
		return fmt.Errorf("%w: nil file format %q", ErrNotRegistered, format)
	}
	if _, loaded := r.files.LoadOrStore(format, f); loaded {
		return fmt.Errorf("%w: file format %q", ErrDuplicate, format)
	}
	return nil
}

// File returns the file format registered under format.
func (r *Registry) File(format string) (FileFormat, error) {
	f, ok := r.files.Load(format)
	if !ok {
		return nil, fmt.Errorf("%w: file format %q", ErrNotRegistered, format)
	}
	return f, nil
}
