package woff2

import (
	"errors"
	"testing"

	"github.com/tdewolff/test"
	"github.com/wofflab/woff2/internal/sfntverify"
)

func minimalMaxp(numGlyphs uint16) []byte {
	w := NewBinaryWriter(make([]byte, 0, 6))
	w.WriteUint32(0x00005000)
	w.WriteUint16(numGlyphs)
	return w.Bytes()
}

// TestDecodeEmptyFont covers the font-with-no-glyphs scenario: head and
// maxp only, no glyf/loca pair at all.
func TestDecodeEmptyFont(t *testing.T) {
	b := buildWOFF2(0x00010000, []testTable{
		{tag: "head", origLength: 54, data: minimalHead()},
		{tag: "maxp", origLength: 6, data: minimalMaxp(0)},
	})
	font, err := Load(b)
	test.Error(t, err)
	test.T(t, font.NumTables, uint16(2))

	sf, err := sfntverify.Parse(font.Bytes())
	test.Error(t, err)
	test.T(t, sf.NumGlyphs, uint16(0))
}

// TestDecodeNullTransformGlyfLoca covers a glyf/loca pair carried through
// untransformed (transformVersion 3), one empty glyph and one single-point
// simple glyph.
func TestDecodeNullTransformGlyfLoca(t *testing.T) {
	glyfW := NewBinaryWriter(nil)
	// glyph 0: empty (zero length)
	// glyph 1: trivial simple glyph, numberOfContours=0 still counts as empty in real SFNT,
	// so use a one-point single-contour glyph instead.
	g1 := NewBinaryWriter(nil)
	g1.WriteInt16(1) // numberOfContours
	g1.WriteInt16(0) // xMin
	g1.WriteInt16(0) // yMin
	g1.WriteInt16(10)
	g1.WriteInt16(10)
	g1.WriteUint16(0) // endPtsOfContours[0]
	g1.WriteUint16(0) // instructionLength
	g1.WriteByte(0x01) // flag: on-curve, short vectors absent
	g1.WriteInt16(10) // x
	g1.WriteInt16(10) // y
	glyfW.WriteBytes(g1.Bytes())
	glyfW.WriteByte(0) // pad to an even length: the short loca format stores offset/2

	loca := NewBinaryWriter(nil)
	loca.WriteUint16(0)
	loca.WriteUint16(0)
	loca.WriteUint16(uint16(glyfW.Len() >> 1))

	b := buildWOFF2(0x00010000, []testTable{
		{tag: "head", origLength: 54, data: minimalHead()},
		{tag: "maxp", origLength: 6, data: minimalMaxp(2)},
		{tag: "glyf", origLength: uint32(glyfW.Len()), transformVersion: 3, data: glyfW.Bytes()},
		{tag: "loca", origLength: uint32(loca.Len()), transformVersion: 3, data: loca.Bytes()},
	})
	font, err := Load(b)
	test.Error(t, err)

	sf, err := sfntverify.Parse(font.Bytes())
	test.Error(t, err)
	c0, err := sf.Contour(0)
	test.Error(t, err)
	test.T(t, len(c0.EndPoints), 0)
	c1, err := sf.Contour(1)
	test.Error(t, err)
	test.T(t, len(c1.EndPoints), 1)
}

// TestDecodeTruncatedBrotliPayload covers a compressed payload that is
// shorter than its declared totalCompressedSize. The header's length field
// is patched to the truncated size so the input reaches the brotli stage.
func TestDecodeTruncatedBrotliPayload(t *testing.T) {
	b := buildWOFF2(0x00010000, []testTable{
		{tag: "head", origLength: 54, data: minimalHead()},
		{tag: "maxp", origLength: 6, data: minimalMaxp(0)},
	})
	b = b[:len(b)-5]
	patchUint32(b, 8, uint32(len(b)))
	_, err := Load(b)
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestDecodeHeadMissing(t *testing.T) {
	b := buildWOFF2(0x00010000, []testTable{
		{tag: "maxp", origLength: 6, data: minimalMaxp(0)},
	})
	_, err := Load(b)
	if !errors.Is(err, ErrInvalidFontData) {
		t.Fatalf("expected ErrInvalidFontData, got %v", err)
	}
}
