package ebml

import (
	"fmt"

	"go.uber.org/zap"
)

// Header is the document header every stream starts with. It fixes the widest
// id and size the rest of the stream may use and names the document type.
type Header struct {
	Version            uint32 `toml:"version"`
	ReadVersion        uint32 `toml:"read_version"`
	MaxIDWidth         uint32 `toml:"max_id_width"`
	MaxSizeWidth       uint32 `toml:"max_size_width"`
	DocType            string `toml:"doctype"`
	DocTypeVersion     uint32 `toml:"doctype_version"`
	DocTypeReadVersion uint32 `toml:"doctype_read_version"`
}

// DefaultHeader returns a version 1 header with 4-byte id and size widths.
func DefaultHeader(docType string) Header {
	return Header{
		Version:            Version,
		ReadVersion:        Version,
		MaxIDWidth:         maxWidth,
		MaxSizeWidth:       maxWidth,
		DocType:            docType,
		DocTypeVersion:     1,
		DocTypeReadVersion: 1,
	}
}

// Validate checks that both widths are within 1..4 and that a doctype is set.
func (h Header) Validate() error {
	if h.MaxIDWidth < 1 || h.MaxIDWidth > maxWidth {
		return fmt.Errorf("%w: max id width %d", ErrInvalidHeader, h.MaxIDWidth)
	}
	if h.MaxSizeWidth < 1 || h.MaxSizeWidth > maxWidth {
		return fmt.Errorf("%w: max size width %d", ErrInvalidHeader, h.MaxSizeWidth)
	}
	if h.DocType == "" {
		return fmt.Errorf("%w: empty doctype", ErrInvalidHeader)
	}
	return nil
}

// writeHeader emits the header container. The caller is still on provisional widths.
func writeHeader(w *unlockedWriter, h Header) error {
	return w.WriteContainer(HeaderID, func(ew ElementWriter) error {
		if err := ew.WriteUint(VersionID, uint64(h.Version)); err != nil {
			return err
		}
		if err := ew.WriteUint(ReadVersionID, uint64(h.ReadVersion)); err != nil {
			return err
		}
		if err := ew.WriteUint(MaxIDWidthID, uint64(h.MaxIDWidth)); err != nil {
			return err
		}
		if err := ew.WriteUint(MaxSizeWidthID, uint64(h.MaxSizeWidth)); err != nil {
			return err
		}
		if err := ew.WriteASCII(DocTypeID, h.DocType); err != nil {
			return err
		}
		if err := ew.WriteUint(DocTypeVersionID, uint64(h.DocTypeVersion)); err != nil {
			return err
		}
		return ew.WriteUint(DocTypeReadVersionID, uint64(h.DocTypeReadVersion))
	})
}

// readHeader parses the header container. Void and CRC-32 children are ignored,
// anything else unknown is skipped with a warning.
func readHeader(r *Reader) (Header, error) {
	var h Header
	id, err := r.Container()
	if err != nil {
		return h, err
	}
	if id != HeaderID {
		return h, fmt.Errorf("%w: expected header %s, got %s", ErrIDMismatch, HeaderID, id)
	}

	err = r.ForEachChild(func(id ID) error {
		var v uint64
		var err error
		switch id {
		case VersionID:
			_, v, err = r.ReadUint()
			h.Version = uint32(v)
		case ReadVersionID:
			_, v, err = r.ReadUint()
			h.ReadVersion = uint32(v)
		case MaxIDWidthID:
			_, v, err = r.ReadUint()
			h.MaxIDWidth = uint32(v)
		case MaxSizeWidthID:
			_, v, err = r.ReadUint()
			h.MaxSizeWidth = uint32(v)
		case DocTypeID:
			_, h.DocType, err = r.ReadASCII()
		case DocTypeVersionID:
			_, v, err = r.ReadUint()
			h.DocTypeVersion = uint32(v)
		case DocTypeReadVersionID:
			_, v, err = r.ReadUint()
			h.DocTypeReadVersion = uint32(v)
		case VoidID, CRC32ID:
			err = r.SkipElement()
		default:
			return ErrUnknownElement
		}
		return err
	})
	if err != nil {
		return h, err
	}
	if err := h.Validate(); err != nil {
		return h, err
	}
	r.log.Debug("ebml header",
		zap.String("doctype", h.DocType),
		zap.Uint32("max_id_width", h.MaxIDWidth),
		zap.Uint32("max_size_width", h.MaxSizeWidth))
	return h, nil
}
