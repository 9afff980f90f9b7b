package woff2

import "fmt"

// decodeTriplet decodes one point's (dx, dy) delta from the glyph stream
// given its flag byte (low 7 bits; the on-curve bit has already been
// stripped by the caller). The flag selects one of 128 coordinate
// encodings, each specifying a byte count, bit widths, and additive bases
// for dx and dy, per the WOFF2 triplet encoding table; this follows the
// arithmetic form of that table, cross-checked against the reference
// decoder's coordinate_triplet_encodings table row by row.
func decodeTriplet(flag byte, glyphStream *BinaryReader) (dx, dy int16, err error) {
	sign := func(pos uint) int16 {
		if flag&(1<<pos) != 0 {
			return 1
		}
		return -1
	}

	switch {
	case flag < 10:
		b0 := int16(glyphStream.ReadByte())
		dy = sign(0) * (int16(flag&0x0E)<<7 + b0)
	case flag < 20:
		b0 := int16(glyphStream.ReadByte())
		dx = sign(0) * (int16((flag-10)&0x0E)<<7 + b0)
	case flag < 84:
		b0 := int16(glyphStream.ReadByte())
		dx = sign(0) * (1 + int16((flag-20)&0x30) + b0>>4)
		dy = sign(1) * (1 + int16((flag-20)&0x0C)<<2 + (b0 & 0x0F))
	case flag < 120:
		b0 := int16(glyphStream.ReadByte())
		b1 := int16(glyphStream.ReadByte())
		dx = sign(0) * (1 + int16((flag-84)/12)<<8 + b0)
		dy = sign(1) * (1 + (int16((flag-84)%12)>>2)<<8 + b1)
	case flag < 124:
		b0 := int16(glyphStream.ReadByte())
		b1 := int16(glyphStream.ReadByte())
		b2 := int16(glyphStream.ReadByte())
		dx = sign(0) * (b0<<4 + b1>>4)
		dy = sign(1) * ((b1&0x0F)<<8 + b2)
	default:
		b0 := int16(glyphStream.ReadByte())
		b1 := int16(glyphStream.ReadByte())
		b2 := int16(glyphStream.ReadByte())
		b3 := int16(glyphStream.ReadByte())
		dx = sign(0) * (b0<<8 + b1)
		dy = sign(1) * (b2<<8 + b3)
	}
	if glyphStream.EOF() {
		return 0, 0, fmt.Errorf("triplet: %w", ErrTruncated)
	}
	return dx, dy, nil
}
