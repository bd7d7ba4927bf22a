package objects

import (
	"fmt"

	"github.com/oy3o/ebml"
)

// Type names of the track objects.
const (
	FloatTrackType = "STrackFloat"
	IntTrackType   = "STrackInt"
)

// Children of a track's data container.
const (
	trackRowCountID ebml.ID = 0x83
	trackColCountID ebml.ID = 0x84
	trackRowDataID  ebml.ID = 0x85
	trackTimeID     ebml.ID = 0x86
	trackColDataID  ebml.ID = 0x87
	trackElementID  ebml.ID = 0x88
)

// FloatTrack is a matrix of floats with one time stamp per row.
type FloatTrack struct {
	Time []float32
	Data [][]float32
}

// IntTrack is a matrix of ints with one time stamp per row.
type IntTrack struct {
	Time []float32
	Data [][]int32
}

func (*FloatTrack) TypeName() string { return FloatTrackType }
func (*IntTrack) TypeName() string   { return IntTrackType }

func encodeFloatTrack(w ebml.ElementWriter, t *FloatTrack) error {
	return encodeTrack(w, floatElement, t.Time, t.Data)
}

func decodeFloatTrack(r ebml.ElementReader, t *FloatTrack) (err error) {
	t.Time, t.Data, err = decodeTrack(r, floatElement)
	return err
}

func encodeIntTrack(w ebml.ElementWriter, t *IntTrack) error {
	return encodeTrack(w, intElement, t.Time, t.Data)
}

func decodeIntTrack(r ebml.ElementReader, t *IntTrack) (err error) {
	t.Time, t.Data, err = decodeTrack(r, intElement)
	return err
}

// trackShape returns the row and column counts, requiring a time stamp per row
// and rows of equal length.
func trackShape[T any](time []float32, data [][]T) (rows, cols int, err error) {
	rows = len(data)
	if len(time) != rows {
		return 0, 0, fmt.Errorf("%w: %d time stamps for %d rows", ErrShape, len(time), rows)
	}
	if rows > 0 {
		cols = len(data[0])
	}
	for i, row := range data {
		if len(row) != cols {
			return 0, 0, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrShape, i, len(row), cols)
		}
	}
	return rows, cols, nil
}

func encodeTrack[T any](w ebml.ElementWriter, el element[T], time []float32, data [][]T) error {
	rows, cols, err := trackShape(time, data)
	if err != nil {
		return err
	}
	return w.WriteContainer(ebml.ObjectDataID, func(w ebml.ElementWriter) error {
		if err := w.WriteUint(trackRowCountID, uint64(rows)); err != nil {
			return err
		}
		if err := w.WriteUint(trackColCountID, uint64(cols)); err != nil {
			return err
		}
		if rows == 0 || cols == 0 {
			return nil
		}
		return w.WriteContainer(trackRowDataID, func(w ebml.ElementWriter) error {
			for i, row := range data {
				if err := w.WriteFloat(trackTimeID, time[i]); err != nil {
					return err
				}
				err := w.WriteContainer(trackColDataID, func(w ebml.ElementWriter) error {
					for _, v := range row {
						if err := el.write(w, trackElementID, v); err != nil {
							return err
						}
					}
					return nil
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
	})
}

func decodeTrack[T any](r ebml.ElementReader, el element[T]) ([]float32, [][]T, error) {
	if _, err := r.Container(); err != nil {
		return nil, nil, err
	}
	var (
		rows, cols uint64
		time       []float32
		data       [][]T
	)
	err := r.ForEachChild(func(id ebml.ID) (err error) {
		switch id {
		case trackRowCountID:
			_, rows, err = r.ReadUint()
		case trackColCountID:
			_, cols, err = r.ReadUint()
		case trackRowDataID:
			time, data, err = decodeRows(r, el, rows, cols)
		default:
			return ebml.ErrUnknownElement
		}
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	if rows == 0 || cols == 0 {
		return nil, nil, nil
	}
	if uint64(len(data)) != rows || uint64(len(time)) != rows {
		return nil, nil, fmt.Errorf("%w: %d rows and %d time stamps, expected %d", ErrShape, len(data), len(time), rows)
	}
	return time, data, nil
}

func decodeRows[T any](r ebml.ElementReader, el element[T], rows, cols uint64) ([]float32, [][]T, error) {
	if _, err := r.Container(); err != nil {
		return nil, nil, err
	}
	time := make([]float32, 0, capHint(rows))
	data := make([][]T, 0, capHint(rows))
	err := r.ForEachChild(func(id ebml.ID) error {
		switch id {
		case trackTimeID:
			_, t, err := r.ReadFloat()
			time = append(time, t)
			return err
		case trackColDataID:
			row, err := decodeColumns(r, el, cols)
			data = append(data, row)
			return err
		}
		return ebml.ErrUnknownElement
	})
	return time, data, err
}

func decodeColumns[T any](r ebml.ElementReader, el element[T], cols uint64) ([]T, error) {
	if _, err := r.Container(); err != nil {
		return nil, err
	}
	row := make([]T, 0, capHint(cols))
	err := r.ForEachChild(func(id ebml.ID) error {
		if id != trackElementID {
			return ebml.ErrUnknownElement
		}
		v, err := el.read(r)
		row = append(row, v)
		return err
	})
	if err != nil {
		return nil, err
	}
	if uint64(len(row)) != cols {
		return nil, fmt.Errorf("%w: row of %d values, expected %d columns", ErrShape, len(row), cols)
	}
	return row, nil
}
