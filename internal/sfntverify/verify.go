// Package sfntverify is a trimmed, independent SFNT reader used by tests
// to check that decoded output parses back into the expected glyph
// contours, and by cmd/woff2dump to print glyph count and names. It is not
// used by the decoder itself.
package sfntverify

import (
	"fmt"

	"github.com/tdewolff/parse/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Font is a minimally parsed SFNT: enough of head/maxp/loca/glyf to walk
// glyph contours, plus raw table access and name-table string lookup.
type Font struct {
	Version          string
	NumGlyphs        uint16
	IndexToLocFormat int16
	tables           map[string][]byte
	loca             []byte
	glyf             []byte
}

// Parse reads the SFNT offset table and directory, then head/maxp/loca so
// Contour can be called immediately.
func Parse(b []byte) (*Font, error) {
	r := parse.NewBinaryReaderBytes(b)
	if r.Len() < 12 {
		return nil, fmt.Errorf("sfntverify: truncated offset table")
	}
	version := string(r.ReadBytes(4))
	if version != "OTTO" && version != "true" && version != "\x00\x01\x00\x00" {
		return nil, fmt.Errorf("sfntverify: bad sfnt version")
	}
	numTables := r.ReadUint16()
	_ = r.ReadUint16() // searchRange
	_ = r.ReadUint16() // entrySelector
	_ = r.ReadUint16() // rangeShift
	if r.Len() < 16*int64(numTables) {
		return nil, fmt.Errorf("sfntverify: truncated table directory")
	}

	tables := make(map[string][]byte, numTables)
	for i := 0; i < int(numTables); i++ {
		tag := string(r.ReadBytes(4))
		_ = r.ReadUint32() // checksum
		offset := r.ReadUint32()
		length := r.ReadUint32()
		if uint32(len(b)) < offset || uint32(len(b))-offset < length {
			return nil, fmt.Errorf("sfntverify: %s: table out of range", tag)
		}
		tables[tag] = b[offset : offset+length : offset+length]
	}

	f := &Font{Version: version, tables: tables}
	head, ok := tables["head"]
	if !ok || len(head) != 54 {
		return nil, fmt.Errorf("sfntverify: head: missing or malformed")
	}
	f.IndexToLocFormat = int16(head[50])<<8 | int16(head[51])

	maxp, ok := tables["maxp"]
	if !ok || len(maxp) < 6 {
		return nil, fmt.Errorf("sfntverify: maxp: missing or malformed")
	}
	f.NumGlyphs = uint16(maxp[4])<<8 | uint16(maxp[5])

	if loca, ok := tables["loca"]; ok {
		f.loca = loca
	}
	if glyf, ok := tables["glyf"]; ok {
		f.glyf = glyf
	}
	return f, nil
}

// Table returns the raw bytes of a table, or nil if absent.
func (f *Font) Table(tag string) []byte {
	return f.tables[tag]
}

// Name decodes the first name record matching nameID from the name table,
// preferring the Windows/Unicode platform (UTF-16BE) and falling back to
// Macintosh Roman.
func (f *Font) Name(nameID uint16) (string, bool) {
	b, ok := f.tables["name"]
	if !ok || len(b) < 6 {
		return "", false
	}
	r := parse.NewBinaryReaderBytes(b)
	_ = r.ReadUint16() // format
	count := r.ReadUint16()
	stringOffset := r.ReadUint16()
	if r.Len() < 12*int64(count) {
		return "", false
	}

	type record struct {
		platform, enc, name uint16
		offset, length      uint16
	}
	var best *record
	for i := uint16(0); i < count; i++ {
		platform := r.ReadUint16()
		enc := r.ReadUint16()
		_ = r.ReadUint16() // language
		name := r.ReadUint16()
		length := r.ReadUint16()
		offset := r.ReadUint16()
		if name != nameID {
			continue
		}
		rec := record{platform: platform, enc: enc, name: name, offset: offset, length: length}
		if platform == 3 || platform == 0 { // Windows or Unicode
			best = &rec
			break
		}
		if best == nil {
			best = &rec
		}
	}
	if best == nil {
		return "", false
	}
	start := int(stringOffset) + int(best.offset)
	end := start + int(best.length)
	if start < 0 || end > len(b) || end < start {
		return "", false
	}
	raw := b[start:end]

	var dec *encoding.Decoder
	switch {
	case best.platform == 3 || best.platform == 0:
		dec = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
	case best.platform == 1 && best.enc == 0:
		dec = charmap.Macintosh.NewDecoder()
	}
	if dec == nil {
		return string(raw), true
	}
	s, _, err := transform.String(dec, string(raw))
	if err != nil {
		return string(raw), true
	}
	return s, true
}

func (f *Font) locaOffset(glyphID uint16) (uint32, bool) {
	if f.IndexToLocFormat == 0 {
		i := int(glyphID) * 2
		if i+2 > len(f.loca) {
			return 0, false
		}
		return 2 * uint32(uint16(f.loca[i])<<8|uint16(f.loca[i+1])), true
	}
	i := int(glyphID) * 4
	if i+4 > len(f.loca) {
		return 0, false
	}
	return uint32(f.loca[i])<<24 | uint32(f.loca[i+1])<<16 | uint32(f.loca[i+2])<<8 | uint32(f.loca[i+3]), true
}

func (f *Font) glyphBytes(glyphID uint16) ([]byte, error) {
	start, ok1 := f.locaOffset(glyphID)
	end, ok2 := f.locaOffset(glyphID + 1)
	if !ok1 || !ok2 || end < start || uint32(len(f.glyf)) < end {
		return nil, fmt.Errorf("sfntverify: glyph %d: bad loca range", glyphID)
	}
	return f.glyf[start:end], nil
}

// Contour is the flattened outline of one glyph: composite components are
// resolved into a single point list, matching what a rendering pipeline
// would consume.
type Contour struct {
	GlyphID       uint16
	XMin, YMin    int16
	XMax, YMax    int16
	EndPoints     []uint16
	OnCurve       []bool
	OverlapSimple []bool
	X, Y          []int16
	Instructions  []byte
}

// Contour returns the glyph's outline, resolving composite references.
func (f *Font) Contour(glyphID uint16) (*Contour, error) {
	return f.contour(glyphID, 0)
}

func (f *Font) contour(glyphID uint16, level int) (*Contour, error) {
	if 7 < level {
		return nil, fmt.Errorf("sfntverify: composite glyphs nested too deep")
	}
	b, err := f.glyphBytes(glyphID)
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return &Contour{GlyphID: glyphID}, nil
	}
	r := parse.NewBinaryReaderBytes(b)
	if r.Len() < 10 {
		return nil, fmt.Errorf("sfntverify: glyph %d: truncated header", glyphID)
	}

	c := &Contour{GlyphID: glyphID}
	numberOfContours := r.ReadInt16()
	c.XMin = r.ReadInt16()
	c.YMin = r.ReadInt16()
	c.XMax = r.ReadInt16()
	c.YMax = r.ReadInt16()

	if 0 <= numberOfContours {
		if r.Len() < 2*int64(numberOfContours)+2 {
			return nil, fmt.Errorf("sfntverify: glyph %d: truncated simple glyph", glyphID)
		}
		c.EndPoints = make([]uint16, numberOfContours)
		for i := range c.EndPoints {
			c.EndPoints[i] = r.ReadUint16()
		}
		instructionLength := r.ReadUint16()
		if r.Len() < int64(instructionLength) {
			return nil, fmt.Errorf("sfntverify: glyph %d: truncated instructions", glyphID)
		}
		c.Instructions = r.ReadBytes(int64(instructionLength))

		numPoints := 0
		if len(c.EndPoints) > 0 {
			numPoints = int(c.EndPoints[len(c.EndPoints)-1]) + 1
		}
		flags := make([]byte, numPoints)
		c.OnCurve = make([]bool, numPoints)
		c.OverlapSimple = make([]bool, numPoints)
		for i := 0; i < numPoints; i++ {
			if r.Len() < 1 {
				return nil, fmt.Errorf("sfntverify: glyph %d: truncated flags", glyphID)
			}
			flags[i] = r.ReadUint8()
			c.OnCurve[i] = flags[i]&0x01 != 0
			c.OverlapSimple[i] = flags[i]&0x40 != 0
			if flags[i]&0x08 != 0 { // REPEAT_FLAG
				repeats := int(r.ReadUint8())
				for j := 1; j <= repeats && i+j < numPoints; j++ {
					flags[i+j] = flags[i]
					c.OnCurve[i+j] = c.OnCurve[i]
					c.OverlapSimple[i+j] = c.OverlapSimple[i]
				}
				i += repeats
			}
		}

		c.X = make([]int16, numPoints)
		var x int16
		for i := 0; i < numPoints; i++ {
			short := flags[i]&0x02 != 0
			same := flags[i]&0x10 != 0
			if short {
				if same {
					x += int16(r.ReadUint8())
				} else {
					x -= int16(r.ReadUint8())
				}
			} else if !same {
				x += r.ReadInt16()
			}
			c.X[i] = x
		}

		c.Y = make([]int16, numPoints)
		var y int16
		for i := 0; i < numPoints; i++ {
			short := flags[i]&0x04 != 0
			same := flags[i]&0x20 != 0
			if short {
				if same {
					y += int16(r.ReadUint8())
				} else {
					y -= int16(r.ReadUint8())
				}
			} else if !same {
				y += r.ReadInt16()
			}
			c.Y[i] = y
		}
		if r.Err() != nil {
			return nil, fmt.Errorf("sfntverify: glyph %d: truncated coordinates", glyphID)
		}
		return c, nil
	}

	// composite glyph
	hasInstructions := false
	for {
		if r.Len() < 4 {
			return nil, fmt.Errorf("sfntverify: glyph %d: truncated composite component", glyphID)
		}
		flags := r.ReadUint16()
		subGlyphID := r.ReadUint16()
		if flags&0x0002 == 0 {
			return nil, fmt.Errorf("sfntverify: glyph %d: composite args must be xy values", glyphID)
		}
		var dx, dy int16
		if flags&0x0001 != 0 {
			dx, dy = r.ReadInt16(), r.ReadInt16()
		} else {
			dx, dy = int16(r.ReadInt8()), int16(r.ReadInt8())
		}
		var txx, txy, tyx, tyy int16
		switch {
		case flags&0x0008 != 0: // WE_HAVE_A_SCALE
			txx = r.ReadInt16()
			tyy = txx
		case flags&0x0040 != 0: // WE_HAVE_AN_X_AND_Y_SCALE
			txx, tyy = r.ReadInt16(), r.ReadInt16()
		case flags&0x0080 != 0: // WE_HAVE_A_TWO_BY_TWO
			txx, txy, tyx, tyy = r.ReadInt16(), r.ReadInt16(), r.ReadInt16(), r.ReadInt16()
		}
		if flags&0x0100 != 0 {
			hasInstructions = true
		}

		sub, err := f.contour(subGlyphID, level+1)
		if err != nil {
			return nil, err
		}
		base := uint16(0)
		if len(c.EndPoints) > 0 {
			base = c.EndPoints[len(c.EndPoints)-1] + 1
		}
		for _, e := range sub.EndPoints {
			c.EndPoints = append(c.EndPoints, base+e)
		}
		c.OnCurve = append(c.OnCurve, sub.OnCurve...)
		c.OverlapSimple = append(c.OverlapSimple, sub.OverlapSimple...)
		for i := range sub.X {
			px, py := sub.X[i], sub.Y[i]
			if flags&0x00C8 != 0 {
				const half = 1 << 13
				nx := int16((int64(px)*int64(txx)+half)>>14) + int16((int64(py)*int64(tyx)+half)>>14)
				ny := int16((int64(px)*int64(txy)+half)>>14) + int16((int64(py)*int64(tyy)+half)>>14)
				px, py = nx, ny
			}
			c.X = append(c.X, dx+px)
			c.Y = append(c.Y, dy+py)
		}
		if flags&0x0020 == 0 { // MORE_COMPONENTS
			break
		}
	}
	if hasInstructions {
		instructionLength := r.ReadUint16()
		if r.Len() < int64(instructionLength) {
			return nil, fmt.Errorf("sfntverify: glyph %d: truncated instructions", glyphID)
		}
		c.Instructions = r.ReadBytes(int64(instructionLength))
	}
	return c, nil
}
