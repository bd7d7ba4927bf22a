package objects

import (
	"fmt"

	"github.com/oy3o/ebml"
)

// Type names of the array objects.
const (
	FloatArrayType = "SArrayFloat"
	IntArrayType   = "SArrayInt"
)

// Children of an array's data container.
const (
	arrayCountID   ebml.ID = 0x83
	arrayDataID    ebml.ID = 0x84
	arrayElementID ebml.ID = 0x85
)

// FloatArray is a flat array of floats.
type FloatArray struct{ Values []float32 }

// IntArray is a flat array of ints.
type IntArray struct{ Values []int32 }

func (*FloatArray) TypeName() string { return FloatArrayType }
func (*IntArray) TypeName() string   { return IntArrayType }

func encodeFloatArray(w ebml.ElementWriter, a *FloatArray) error {
	return encodeArray(w, floatElement, a.Values)
}

func decodeFloatArray(r ebml.ElementReader, a *FloatArray) (err error) {
	a.Values, err = decodeArray(r, floatElement)
	return err
}

func encodeIntArray(w ebml.ElementWriter, a *IntArray) error {
	return encodeArray(w, intElement, a.Values)
}

func decodeIntArray(r ebml.ElementReader, a *IntArray) (err error) {
	a.Values, err = decodeArray(r, intElement)
	return err
}

// encodeArray writes the count and a data container holding one element per value.
func encodeArray[T any](w ebml.ElementWriter, el element[T], values []T) error {
	return w.WriteContainer(ebml.ObjectDataID, func(w ebml.ElementWriter) error {
		if err := w.WriteUint(arrayCountID, uint64(len(values))); err != nil {
			return err
		}
		if len(values) == 0 {
			return nil
		}
		return w.WriteContainer(arrayDataID, func(w ebml.ElementWriter) error {
			for _, v := range values {
				if err := el.write(w, arrayElementID, v); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

func decodeArray[T any](r ebml.ElementReader, el element[T]) ([]T, error) {
	if _, err := r.Container(); err != nil {
		return nil, err
	}
	var (
		count  uint64
		values []T
	)
	err := r.ForEachChild(func(id ebml.ID) (err error) {
		switch id {
		case arrayCountID:
			_, count, err = r.ReadUint()
		case arrayDataID:
			values, err = decodeArrayData(r, el, count)
		default:
			return ebml.ErrUnknownElement
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if uint64(len(values)) != count {
		return nil, fmt.Errorf("%w: %d values, expected %d", ErrShape, len(values), count)
	}
	if count == 0 {
		return nil, nil
	}
	return values, nil
}

// decodeArrayData reads the data container; the count must precede it.
func decodeArrayData[T any](r ebml.ElementReader, el element[T], count uint64) ([]T, error) {
	if _, err := r.Container(); err != nil {
		return nil, err
	}
	values := make([]T, 0, capHint(count))
	err := r.ForEachChild(func(id ebml.ID) error {
		if id != arrayElementID {
			return ebml.ErrUnknownElement
		}
		if uint64(len(values)) >= count {
			return fmt.Errorf("%w: more than %d values", ErrShape, count)
		}
		v, err := el.read(r)
		values = append(values, v)
		return err
	})
	return values, err
}
