package objects

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/oy3o/ebml"
)

const rawFormat = "raw"

type ObjectsTestSuite struct {
	suite.Suite
	reg *ebml.Registry
}

func TestObjectsTestSuite(t *testing.T) {
	suite.Run(t, new(ObjectsTestSuite))
}

func (s *ObjectsTestSuite) SetupTest() {
	s.reg = ebml.NewRegistry()
	s.Require().NoError(Register(s.reg))
}

func (s *ObjectsTestSuite) SetupSubTest() { s.SetupTest() }

func (s *ObjectsTestSuite) roundTrip(obj ebml.Object) ebml.Object {
	data, err := ebml.Marshal(s.reg, ebml.DefaultHeader(FileDocType), FileObjectID, obj)
	s.Require().NoError(err)
	_, got, err := ebml.Unmarshal(s.reg, data)
	s.Require().NoError(err)
	return got
}

// rawStream registers a raw formatter for typeName under rawFormat and returns
// the stream it produces for obj.
func (s *ObjectsTestSuite) rawStream(typeName string, obj ebml.Object, f ebml.FormatterFunc) []byte {
	s.Require().NoError(s.reg.RegisterFormatter(rawFormat, f, typeName))
	data, err := ebml.Marshal(s.reg, ebml.DefaultHeader(FileDocType), FileObjectID, obj, ebml.WithFormat(rawFormat))
	s.Require().NoError(err)
	return data
}

func (s *ObjectsTestSuite) TestRegister() {
	for _, name := range []string{IntType, FloatType, StringType, FloatTrackType, IntTrackType, FloatArrayType, IntArrayType} {
		s.True(s.reg.IsReadable(name, Format), name)
	}
	ff, err := s.reg.File(FileDocType)
	s.Require().NoError(err)
	s.Equal(FileFormat, ff)

	s.ErrorIs(Register(s.reg), ebml.ErrDuplicate)
}

func (s *ObjectsTestSuite) TestPrimitives() {
	s.Equal(&Int{Value: -70000}, s.roundTrip(&Int{Value: -70000}))
	s.Equal(&Int{}, s.roundTrip(&Int{}))
	s.Equal(&Float{Value: 3.5}, s.roundTrip(&Float{Value: 3.5}))
	s.Equal(&String{Value: "héllo"}, s.roundTrip(&String{Value: "héllo"}))
	s.Equal(&String{}, s.roundTrip(&String{}))
}

func (s *ObjectsTestSuite) TestIntEnvelopeBytes() {
	data, err := ebml.Marshal(s.reg, ebml.DefaultHeader("t"), 0x4081, &Int{Value: 5})
	s.Require().NoError(err)
	want := []byte{
		0x40, 0x81, 0x10, 0x00, 0x00, 0x0D,
		0x81, 0x84, 'S', 'I', 'n', 't',
		0x82, 0x81, 0x05,
	}
	s.Equal(want, data[len(data)-len(want):])
}

func (s *ObjectsTestSuite) TestTracks() {
	ft := &FloatTrack{
		Time: []float32{0, 0.5, 1},
		Data: [][]float32{{1, 2}, {3, 4}, {5, 6}},
	}
	s.Equal(ft, s.roundTrip(ft))

	it := &IntTrack{
		Time: []float32{10},
		Data: [][]int32{{-1, 0, 1 << 20}},
	}
	s.Equal(it, s.roundTrip(it))

	s.Equal(&FloatTrack{}, s.roundTrip(&FloatTrack{}))
}

func (s *ObjectsTestSuite) TestArrays() {
	fa := &FloatArray{Values: []float32{1.25, -2, 0}}
	s.Equal(fa, s.roundTrip(fa))
	ia := &IntArray{Values: []int32{-1, 2, 1 << 30}}
	s.Equal(ia, s.roundTrip(ia))
	s.Equal(&IntArray{}, s.roundTrip(&IntArray{}))
}

func (s *ObjectsTestSuite) TestTrackShapeOnWrite() {
	_, err := ebml.Marshal(s.reg, ebml.DefaultHeader(FileDocType), FileObjectID,
		&FloatTrack{Time: []float32{1}, Data: [][]float32{{1}, {2}}})
	s.ErrorIs(err, ErrShape)

	_, err = ebml.Marshal(s.reg, ebml.DefaultHeader(FileDocType), FileObjectID,
		&IntTrack{Time: []float32{1, 2}, Data: [][]int32{{1, 2}, {3}}})
	s.ErrorIs(err, ErrShape)
}

func (s *ObjectsTestSuite) TestTrackShapeOnRead() {
	data := s.rawStream(FloatTrackType, &FloatTrack{}, func(w ebml.ElementWriter, _ ebml.Object) error {
		return w.WriteContainer(ebml.ObjectDataID, func(w ebml.ElementWriter) error {
			if err := w.WriteUint(trackRowCountID, 2); err != nil {
				return err
			}
			if err := w.WriteUint(trackColCountID, 1); err != nil {
				return err
			}
			return w.WriteContainer(trackRowDataID, func(w ebml.ElementWriter) error {
				if err := w.WriteFloat(trackTimeID, 1); err != nil {
					return err
				}
				return w.WriteContainer(trackColDataID, func(w ebml.ElementWriter) error {
					return w.WriteFloat(trackElementID, 7)
				})
			})
		})
	})
	_, _, err := ebml.Unmarshal(s.reg, data)
	s.ErrorIs(err, ErrShape)
}

func (s *ObjectsTestSuite) TestTrackSkipsUnknownChild() {
	data := s.rawStream(IntTrackType, &IntTrack{}, func(w ebml.ElementWriter, _ ebml.Object) error {
		return w.WriteContainer(ebml.ObjectDataID, func(w ebml.ElementWriter) error {
			if err := w.WriteUint(trackRowCountID, 1); err != nil {
				return err
			}
			if err := w.WriteASCII(0x89, "future"); err != nil {
				return err
			}
			if err := w.WriteUint(trackColCountID, 1); err != nil {
				return err
			}
			return w.WriteContainer(trackRowDataID, func(w ebml.ElementWriter) error {
				if err := w.WriteFloat(trackTimeID, 2); err != nil {
					return err
				}
				return w.WriteContainer(trackColDataID, func(w ebml.ElementWriter) error {
					return w.WriteSint(trackElementID, -9)
				})
			})
		})
	})
	_, obj, err := ebml.Unmarshal(s.reg, data)
	s.Require().NoError(err)
	s.Equal(&IntTrack{Time: []float32{2}, Data: [][]int32{{-9}}}, obj)
}

// arrayStream writes an int array data container with count and the given data
// children under rawFormat.
func (s *ObjectsTestSuite) arrayStream(count uint64, data func(w ebml.ElementWriter) error) []byte {
	return s.rawStream(IntArrayType, &IntArray{}, func(w ebml.ElementWriter, _ ebml.Object) error {
		return w.WriteContainer(ebml.ObjectDataID, func(w ebml.ElementWriter) error {
			if err := w.WriteUint(arrayCountID, count); err != nil {
				return err
			}
			return w.WriteContainer(arrayDataID, data)
		})
	})
}

func (s *ObjectsTestSuite) TestArrayBytes() {
	data, err := ebml.Marshal(s.reg, ebml.DefaultHeader("t"), 0x4081, &IntArray{Values: []int32{-1, 2}})
	s.Require().NoError(err)
	want := []byte{
		0x82, 0x10, 0x00, 0x00, 0x13,
		0x83, 0x81, 0x02,
		0x84, 0x10, 0x00, 0x00, 0x0A,
		0x85, 0x81, 0xFF,
		0x85, 0x81, 0x02,
	}
	s.Equal(want, data[len(data)-len(want):])
}

func (s *ObjectsTestSuite) TestArrayShapeOnRead() {
	s.Run("TooFew", func() {
		data := s.arrayStream(3, func(w ebml.ElementWriter) error {
			return w.WriteSint(arrayElementID, 1)
		})
		_, _, err := ebml.Unmarshal(s.reg, data)
		s.ErrorIs(err, ErrShape)
	})

	s.Run("TooMany", func() {
		data := s.arrayStream(1, func(w ebml.ElementWriter) error {
			if err := w.WriteSint(arrayElementID, 1); err != nil {
				return err
			}
			return w.WriteSint(arrayElementID, 2)
		})
		_, _, err := ebml.Unmarshal(s.reg, data)
		s.ErrorIs(err, ErrShape)
	})
}

func (s *ObjectsTestSuite) TestArraySkipsUnknownChild() {
	data := s.arrayStream(2, func(w ebml.ElementWriter) error {
		if err := w.WriteSint(arrayElementID, 4); err != nil {
			return err
		}
		if err := w.WriteASCII(0x89, "future"); err != nil {
			return err
		}
		return w.WriteSint(arrayElementID, -4)
	})
	_, obj, err := ebml.Unmarshal(s.reg, data)
	s.Require().NoError(err)
	s.Equal(&IntArray{Values: []int32{4, -4}}, obj)
}

func (s *ObjectsTestSuite) TestWrongType() {
	s.Require().NoError(s.reg.RegisterType("fake", func() ebml.Object { return new(Int) }))
	s.Require().NoError(s.reg.RegisterFormatter(Format, codec[*Float]{encodeFloat, decodeFloat}, "fake"))
	_, err := ebml.Marshal(s.reg, ebml.DefaultHeader(FileDocType), FileObjectID, fake{})
	s.ErrorIs(err, ErrWrongType)
}

type fake struct{}

func (fake) TypeName() string { return "fake" }

func TestFileFormat(t *testing.T) {
	reg := ebml.NewRegistry()
	require.NoError(t, Register(reg))
	path := filepath.Join(t.TempDir(), "track.ebml")

	track := &FloatTrack{Time: []float32{1, 2}, Data: [][]float32{{0.5}, {1.5}}}
	require.NoError(t, ebml.Save(reg, path, FileDocType, track))
	obj, err := ebml.Load(reg, path, FileDocType)
	require.NoError(t, err)
	assert.Equal(t, track, obj)
}
