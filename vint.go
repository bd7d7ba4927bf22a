package ebml

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Size encoding boundaries. A value must be strictly below the bound of a width to be
// encoded in that width, which keeps the all-ones pattern free for SizeUnknown.
var sizeBounds = [maxWidth]uint32{
	1<<7 - 1,
	1<<14 - 1,
	1<<21 - 1,
	1<<28 - 1,
}

// marker returns the width marker bit of the leading byte for a vint of width w.
func marker(w int) byte { return 0x80 >> (w - 1) }

// vintWidth probes the leading byte of an id or size for its marker bit.
func vintWidth(first byte, max int) (int, bool) {
	for w := 1; w <= max; w++ {
		if first&marker(w) != 0 {
			return w, true
		}
	}
	return 0, false
}

// encodeSize writes size into dst and returns the number of bytes used.
func encodeSize(dst []byte, size uint32, max int) (int, error) {
	w := 0
	for i, bound := range sizeBounds {
		if size < bound {
			w = i + 1
			break
		}
	}
	if w == 0 {
		return 0, fmt.Errorf("%w: %d", ErrSizeTooLarge, size)
	}
	if w > max {
		return 0, fmt.Errorf("%w: size %d needs %d bytes, maximum is %d", ErrSizeWidth, size, w, max)
	}
	putUint(dst[:w], size|uint32(marker(w))<<(8*(w-1)))
	return w, nil
}

// putContainerSize writes size with the fixed container width so it can be
// overwritten in place later.
func putContainerSize(dst []byte, size uint32) error {
	if size >= sizeBounds[containerSizeWidth-1] {
		return fmt.Errorf("%w: container of %d bytes", ErrSizeTooLarge, size)
	}
	putUint(dst[:containerSizeWidth], size|uint32(marker(containerSizeWidth))<<(8*(containerSizeWidth-1)))
	return nil
}

// sizeLen reports the width of a size from its leading byte.
func sizeLen(first byte, max int) (int, error) {
	w, ok := vintWidth(first, max)
	if !ok {
		return 0, fmt.Errorf("%w: leading byte 0x%02X, maximum is %d", ErrSizeWidth, first, max)
	}
	return w, nil
}

// decodeSize decodes a complete size whose width was found with sizeLen.
func decodeSize(src []byte) uint32 {
	w := len(src)
	v := uint32(src[0] &^ marker(w))
	for _, b := range src[1:] {
		v = v<<8 | uint32(b)
	}
	if v == uint32(1)<<(7*w)-1 {
		return SizeUnknown
	}
	return v
}

// idLen returns the encoded width of id. The leading byte of a valid id carries exactly
// one marker bit in the position that encodes the id's own width, and nothing above it.
func idLen(id ID) (int, error) {
	v := uint32(id)
	for w := 1; w <= maxWidth; w++ {
		if w < maxWidth && v>>(8*w) != 0 {
			continue
		}
		lead := byte(v >> (8 * (w - 1)))
		if lead&marker(w) != 0 && int(lead) < int(marker(w))<<1 {
			return w, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrInvalidID, id)
}

// encodeID writes id into dst with its marker bits retained.
func encodeID(dst []byte, id ID, max int) (int, error) {
	w, err := idLen(id)
	if err != nil {
		return 0, err
	}
	if w > max {
		return 0, fmt.Errorf("%w: %s needs %d bytes, maximum is %d", ErrIDWidth, id, w, max)
	}
	putUint(dst[:w], uint32(id))
	return w, nil
}

// idWidth reports the width of an id from its leading byte.
func idWidth(first byte, max int) (int, error) {
	w, ok := vintWidth(first, max)
	if !ok {
		return 0, fmt.Errorf("%w: leading byte 0x%02X, maximum is %d", ErrIDWidth, first, max)
	}
	return w, nil
}

// decodeID combines a complete id without stripping its marker.
func decodeID(src []byte) ID {
	var v uint32
	for _, b := range src {
		v = v<<8 | uint32(b)
	}
	return ID(v)
}

// uintLen is the minimal number of big-endian bytes holding v; zero needs none.
func uintLen[T constraints.Unsigned](v T) int {
	n := 0
	for v != 0 {
		n++
		v >>= 8
	}
	return n
}

// sintLen is the minimal number of two's complement bytes holding v; zero needs none.
func sintLen[T constraints.Signed](v T) int {
	if v == 0 {
		return 0
	}
	x := int64(v)
	if x < 0 {
		x = ^x
	}
	n := 1
	for n < 8 && x >= 1<<(8*n-1) {
		n++
	}
	return n
}

// putUint stores the low len(dst) bytes of v big-endian.
func putUint[T constraints.Integer](dst []byte, v T) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = byte(v)
		v >>= 8
	}
}

// beUint combines big-endian bytes.
func beUint(src []byte) uint64 {
	var v uint64
	for _, b := range src {
		v = v<<8 | uint64(b)
	}
	return v
}

// beSint combines big-endian two's complement bytes, sign-extending from the top byte.
func beSint(src []byte) int64 {
	if len(src) == 0 {
		return 0
	}
	v := int64(int8(src[0]))
	for _, b := range src[1:] {
		v = v<<8 | int64(b)
	}
	return v
}
