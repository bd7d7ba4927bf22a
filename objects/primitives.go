package objects

import "github.com/oy3o/ebml"

// Type names of the primitive objects.
const (
	IntType    = "SInt"
	FloatType  = "SFloat"
	StringType = "SString"
)

// Int is a boxed 32-bit signed integer.
type Int struct{ Value int32 }

// Float is a boxed 32-bit float.
type Float struct{ Value float32 }

// String is a boxed UTF-8 string.
type String struct{ Value string }

func (*Int) TypeName() string    { return IntType }
func (*Float) TypeName() string  { return FloatType }
func (*String) TypeName() string { return StringType }

func encodeInt(w ebml.ElementWriter, v *Int) error {
	return w.WriteSint(ebml.ObjectDataID, int64(v.Value))
}

func decodeInt(r ebml.ElementReader, v *Int) error {
	_, n, err := r.ReadSint()
	v.Value = int32(n)
	return err
}

func encodeFloat(w ebml.ElementWriter, v *Float) error {
	return w.WriteFloat(ebml.ObjectDataID, v.Value)
}

func decodeFloat(r ebml.ElementReader, v *Float) (err error) {
	_, v.Value, err = r.ReadFloat()
	return err
}

func encodeString(w ebml.ElementWriter, v *String) error {
	return w.WriteUTF8(ebml.ObjectDataID, v.Value)
}

func decodeString(r ebml.ElementReader, v *String) (err error) {
	_, v.Value, err = r.ReadUTF8()
	return err
}
