package woff2

import "fmt"

const headerSize = 48

const (
	signatureWOFF2 = 0x774F4632 // "wOF2"
	flavorTTC      = 0x74746366 // "ttcf"
)

// header holds the fixed 48-byte WOFF2 file header.
type header struct {
	flavor               uint32
	length               uint32
	numTables            uint16
	totalSfntSize        uint32
	totalCompressedSize  uint32
	metaOffset           uint32
	metaLength           uint32
	metaOrigLength       uint32
	privOffset           uint32
	privLength           uint32
}

func parseHeader(r *BinaryReader, fileLength uint32) (*header, error) {
	if r.Len() < headerSize {
		return nil, fmt.Errorf("header: %w", ErrTruncated)
	}
	signature := r.ReadUint32()
	if signature != signatureWOFF2 {
		return nil, fmt.Errorf("header: %w", ErrBadSignature)
	}
	h := &header{}
	h.flavor = r.ReadUint32()
	if h.flavor == flavorTTC {
		return nil, fmt.Errorf("header: %w", ErrUnsupportedCollection)
	}
	h.length = r.ReadUint32()
	h.numTables = r.ReadUint16()
	reserved := r.ReadUint16()
	h.totalSfntSize = r.ReadUint32()
	h.totalCompressedSize = r.ReadUint32()
	_ = r.ReadUint16() // majorVersion
	_ = r.ReadUint16() // minorVersion
	h.metaOffset = r.ReadUint32()
	h.metaLength = r.ReadUint32()
	h.metaOrigLength = r.ReadUint32()
	h.privOffset = r.ReadUint32()
	h.privLength = r.ReadUint32()
	if r.EOF() {
		return nil, fmt.Errorf("header: %w", ErrTruncated)
	}
	if h.length > fileLength {
		return nil, fmt.Errorf("header: length field exceeds input size: %w", ErrInvalidFontData)
	}
	if h.numTables == 0 {
		return nil, fmt.Errorf("header: numTables must not be zero: %w", ErrInvalidFontData)
	}
	if reserved != 0 {
		return nil, fmt.Errorf("header: reserved field must be zero: %w", ErrInvalidFontData)
	}
	if (h.metaLength == 0) != (h.metaOffset == 0) {
		return nil, fmt.Errorf("header: metadata block: %w", ErrInconsistentBlockOffset)
	}
	if (h.privLength == 0) != (h.privOffset == 0) {
		return nil, fmt.Errorf("header: private data block: %w", ErrInconsistentBlockOffset)
	}
	return h, nil
}
