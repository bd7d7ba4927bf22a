package ebml

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// testHeaderBytes is the encoding of DefaultHeader("test").
var testHeaderBytes = []byte{
	0x1A, 0x45, 0xDF, 0xA3, 0x10, 0x00, 0x00, 0x23,
	0x42, 0x86, 0x81, 0x01,
	0x42, 0xF7, 0x81, 0x01,
	0x42, 0xF2, 0x81, 0x04,
	0x42, 0xF3, 0x81, 0x04,
	0x42, 0x82, 0x84, 't', 'e', 's', 't',
	0x42, 0x87, 0x81, 0x01,
	0x42, 0x85, 0x81, 0x01,
}

// raw encodes one element with a minimal size.
func raw(t testing.TB, id ID, payload ...byte) []byte {
	t.Helper()
	var buf [2 * maxWidth]byte
	n, err := encodeID(buf[:], id, maxWidth)
	require.NoError(t, err)
	m, err := encodeSize(buf[n:], uint32(len(payload)), maxWidth)
	require.NoError(t, err)
	return append(append([]byte{}, buf[:n+m]...), payload...)
}

// rawContainer encodes a container the way Writer does, with a 4-byte size
// that counts itself.
func rawContainer(t testing.TB, id ID, children ...[]byte) []byte {
	t.Helper()
	var body []byte
	for _, c := range children {
		body = append(body, c...)
	}
	var buf [maxWidth + containerSizeWidth]byte
	n, err := encodeID(buf[:], id, maxWidth)
	require.NoError(t, err)
	require.NoError(t, putContainerSize(buf[n:], uint32(containerSizeWidth+len(body))))
	return append(append([]byte{}, buf[:n+containerSizeWidth]...), body...)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// forwardOnly hides every method but Read.
type forwardOnly struct{ r io.Reader }

func (f forwardOnly) Read(p []byte) (int, error) { return f.r.Read(p) }

// newTestWriter returns a writer on a fresh Buffer with DefaultHeader("test").
func newTestWriter(t testing.TB, opts ...Option) (*Writer, *Buffer) {
	t.Helper()
	buf := NewBuffer(nil)
	w, err := NewWriter(buf, DefaultHeader("test"), opts...)
	require.NoError(t, err)
	return w, buf
}

// readerOver returns a reader over a closed writer's output.
func readerOver(t testing.TB, w *Writer, buf *Buffer, opts ...Option) *Reader {
	t.Helper()
	require.NoError(t, w.Close())
	r, err := NewReader(NewBuffer(buf.Bytes()), opts...)
	require.NoError(t, err)
	return r
}
