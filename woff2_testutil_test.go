package woff2

import (
	"bytes"

	"github.com/andybalholm/brotli"
)

// testTable is one table to splice into a hand-built WOFF2 fixture.
type testTable struct {
	tag              string
	transformVersion int
	origLength       uint32
	transformLength  uint32 // 0 if untransformed
	data             []byte // the bytes that go into the decompressed blob
}

func writeUintBase128(w *BinaryWriter, v uint32) {
	var bytesOut [5]byte
	n := 0
	bytesOut[4] = byte(v & 0x7F)
	n = 1
	v >>= 7
	for v != 0 {
		n++
		bytesOut[5-n] = byte(v&0x7F) | 0x80
		v >>= 7
	}
	w.WriteBytes(bytesOut[5-n:])
}

// buildWOFF2 assembles a minimal, well-formed WOFF2 file from a flavor and
// a set of tables, compressing their concatenated bytes with brotli. It is
// test-only fixture-construction code, not part of the decoder's public
// surface.
func buildWOFF2(flavor uint32, tables []testTable) []byte {
	var blob bytes.Buffer
	for _, t := range tables {
		blob.Write(t.data)
	}

	var compressed bytes.Buffer
	bw := brotli.NewWriter(&compressed)
	bw.Write(blob.Bytes())
	bw.Close()

	dir := NewBinaryWriter(nil)
	for _, t := range tables {
		tagIndex := -1
		for i, k := range knownTags {
			if k == t.tag {
				tagIndex = i
				break
			}
		}
		flagByte := byte(t.transformVersion)<<6
		if tagIndex < 0 {
			flagByte |= 0x3F
		} else {
			flagByte |= byte(tagIndex)
		}
		dir.WriteByte(flagByte)
		if tagIndex < 0 {
			dir.WriteUint32(tagToUint32(t.tag))
		}
		writeUintBase128(dir, t.origLength)
		needsTransformLength := (t.tag == "glyf" || t.tag == "loca") && t.transformVersion == 0 ||
			t.tag == "hmtx" && t.transformVersion == 1
		if needsTransformLength {
			writeUintBase128(dir, t.transformLength)
		}
	}

	w := NewBinaryWriter(nil)
	w.WriteUint32(signatureWOFF2)
	w.WriteUint32(flavor)
	lengthPos := w.Len()
	w.WriteUint32(0) // length, patched below
	w.WriteUint16(uint16(len(tables)))
	w.WriteUint16(0) // reserved
	w.WriteUint32(0) // totalSfntSize, used by the decoder only as a buffer-size hint
	totalCompressedPos := w.Len()
	w.WriteUint32(0) // totalCompressedSize, patched below
	w.WriteUint16(1) // majorVersion
	w.WriteUint16(0) // minorVersion
	w.WriteUint32(0) // metaOffset
	w.WriteUint32(0) // metaLength
	w.WriteUint32(0) // metaOrigLength
	w.WriteUint32(0) // privOffset
	w.WriteUint32(0) // privLength
	w.WriteBytes(dir.Bytes())
	w.WriteBytes(compressed.Bytes())

	buf := w.Bytes()
	patchUint32(buf, lengthPos, uint32(len(buf)))
	patchUint32(buf, totalCompressedPos, uint32(compressed.Len()))
	return buf
}

func patchUint32(b []byte, pos, v uint32) {
	b[pos] = byte(v >> 24)
	b[pos+1] = byte(v >> 16)
	b[pos+2] = byte(v >> 8)
	b[pos+3] = byte(v)
}

// minimalHead returns a syntactically valid 54-byte head table with bit 11
// of flags set, as the decoder requires.
func minimalHead() []byte {
	w := NewBinaryWriter(make([]byte, 0, 54))
	w.WriteUint16(1) // majorVersion
	w.WriteUint16(0) // minorVersion
	w.WriteUint32(0) // fontRevision
	w.WriteUint32(0) // checksumAdjustment
	w.WriteUint32(0x5F0F3CF5)
	w.WriteUint16(0x0800) // flags, bit 11 set
	w.WriteUint16(1000)   // unitsPerEm
	w.WriteUint64(0)      // created
	w.WriteUint64(0)      // modified
	w.WriteInt16(0)       // xMin
	w.WriteInt16(0)       // yMin
	w.WriteInt16(0)       // xMax
	w.WriteInt16(0)       // yMax
	w.WriteUint16(0)      // macStyle
	w.WriteUint16(8)      // lowestRecPPEM
	w.WriteInt16(2)       // fontDirectionHint
	w.WriteInt16(0)       // indexToLocFormat
	w.WriteInt16(0)       // glyphDataFormat
	return w.Bytes()
}
