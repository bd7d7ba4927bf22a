package ebml

import "fmt"

// ID is an element identifier. Identifiers keep their width marker bits, so the
// leading byte of the constant itself tells how many bytes it occupies on the wire.
type ID uint32

func (id ID) String() string { return fmt.Sprintf("0x%X", uint32(id)) }

// Fixed identifiers of the container format.
const (
	HeaderID             ID = 0x1A45DFA3
	VersionID            ID = 0x4286
	ReadVersionID        ID = 0x42F7
	MaxIDWidthID         ID = 0x42F2
	MaxSizeWidthID       ID = 0x42F3
	DocTypeID            ID = 0x4282
	DocTypeVersionID     ID = 0x4287
	DocTypeReadVersionID ID = 0x4285
	CRC32ID              ID = 0xBF
	VoidID               ID = 0xEC

	// ClassNameID and ObjectDataID are the two children of an object envelope.
	ClassNameID  ID = 0x81
	ObjectDataID ID = 0x82
)

const (
	// SizeUnknown is the decoded value of a size whose data bits are all set. It marks
	// a streamed element of unknown length. Writers never produce it.
	SizeUnknown uint32 = 0xFFFFFFFF

	// Version is the container format version written into headers.
	Version = 1

	// FormatTag is the default format under which formatters are looked up.
	FormatTag = "spct_ebml"

	// maxWidth is the widest id or size the format can express.
	maxWidth = 4

	// containerSizeWidth is the fixed width reserved for every container size.
	containerSizeWidth = 4

	// containerPlaceholder is written while a container's size is still unknown.
	containerPlaceholder uint32 = 0x1000000
)
