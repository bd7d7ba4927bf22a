package ebml

import "errors"

var (
	// ErrNilIO indicates that NewReader/NewWriter was called with a nil stream.
	ErrNilIO = errors.New("ebml: NewReader/NewWriter called with a nil stream")

	// ErrNilObject indicates WriteObject was called with a nil object.
	ErrNilObject = errors.New("ebml: nil object")

	// ErrNoRegistry indicates an object operation on a reader/writer built without a registry.
	ErrNoRegistry = errors.New("ebml: no type registry configured")

	// ErrClosed is returned by every operation on a closed writer.
	ErrClosed = errors.New("ebml: writer is closed")

	// ErrInvalidSeek indicates a seek was attempted to an invalid position.
	ErrInvalidSeek = errors.New("ebml: seek to an invalid position")

	// ErrUnsupportedNegativeSeek indicates a backward seek on a forward-only stream.
	ErrUnsupportedNegativeSeek = errors.New("ebml: unsupported negative offset for forward-only stream")

	// ErrInvalidWhence indicates an invalid 'whence' parameter was provided to a Seek operation.
	ErrInvalidWhence = errors.New("ebml: unsupported whence")

	// ErrInvalidWrite indicates that an io.Writer returned an invalid count from Write.
	ErrInvalidWrite = errors.New("ebml: writer returned invalid count from Write")

	// ErrInvalidID indicates an identifier whose leading byte does not encode its own width.
	ErrInvalidID = errors.New("ebml: invalid element id")

	// ErrIDWidth indicates an identifier wider than the negotiated maximum id width.
	ErrIDWidth = errors.New("ebml: id width exceeds maximum")

	// ErrSizeWidth indicates a size wider than the negotiated maximum size width.
	ErrSizeWidth = errors.New("ebml: size width exceeds maximum")

	// ErrSizeTooLarge indicates a size that cannot be encoded in four bytes.
	ErrSizeTooLarge = errors.New("ebml: element size too large")

	// ErrUnknownSize indicates the unknown-size sentinel where a definite size is required.
	ErrUnknownSize = errors.New("ebml: element has unknown size")

	// ErrIntegerRange indicates an integer outside the 32-bit domain of the format.
	ErrIntegerRange = errors.New("ebml: integer out of range")

	// ErrIntegerSize indicates an integer payload wider than four bytes.
	ErrIntegerSize = errors.New("ebml: invalid integer size")

	// ErrFloatSize indicates a float/double payload that is neither empty nor 4/8 bytes.
	ErrFloatSize = errors.New("ebml: invalid float size")

	// ErrInvalidUTF8 indicates a UTF-8 element whose payload is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("ebml: invalid utf-8 string")

	// ErrIDMismatch indicates a required element did not carry the expected identifier.
	ErrIDMismatch = errors.New("ebml: id mismatch")

	// ErrInvalidHeader indicates a header with out-of-range width fields or no doctype.
	ErrInvalidHeader = errors.New("ebml: invalid header")

	// ErrDocTypeMismatch indicates the stream's doctype differs from the expected one.
	ErrDocTypeMismatch = errors.New("ebml: doctype mismatch")

	// ErrNoContainer indicates StopContainer was called with no open container.
	ErrNoContainer = errors.New("ebml: no open container")

	// ErrUnbalancedContainer indicates a container body returned with nested containers still open.
	ErrUnbalancedContainer = errors.New("ebml: container body left nested containers open")

	// ErrContainerNotClosed indicates an object's container did not end where its size declared.
	ErrContainerNotClosed = errors.New("ebml: container not closed at its declared end")

	// ErrElementOverrun indicates an element whose declared size runs past the end of its container.
	ErrElementOverrun = errors.New("ebml: element overruns its container")

	// ErrUnknownElement is returned by ForEachChild callbacks to request that the
	// current child be skipped.
	ErrUnknownElement = errors.New("ebml: unknown element")

	// ErrNotConsumed indicates a ForEachChild callback returned nil without reading its element.
	ErrNotConsumed = errors.New("ebml: element not consumed")

	// ErrDuplicate indicates a second registration under an already registered name.
	ErrDuplicate = errors.New("ebml: duplicate registration")

	// ErrNotRegistered indicates a lookup of a type or file format that was never registered.
	ErrNotRegistered = errors.New("ebml: not registered")
)
