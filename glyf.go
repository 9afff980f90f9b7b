package woff2

import (
	"fmt"
	"math"
)

// glyfSubStreams holds the seven parallel cursors the transformed glyf
// table is demultiplexed into, plus the bbox bitmap and the optional
// overlapSimple bitmap, which share the same one-bit-per-glyph layout.
type glyfSubStreams struct {
	numGlyphs     uint16
	indexFormat   uint16
	nContour      *BinaryReader
	nPoints       *BinaryReader
	flag          *BinaryReader
	glyph         *BinaryReader
	composite     *BinaryReader
	bboxBitmap    *BitmapReader
	bbox          *BinaryReader
	instruction   *BinaryReader
	overlapBitmap *BitmapReader // nil if optionFlags bit 0 is unset
}

const transformedGlyfHeaderSize = 36

// splitGlyfSubStreams parses the 36-byte transformed glyf header and
// carves the remaining bytes into the seven declared sub-streams.
func splitGlyfSubStreams(b []byte) (*glyfSubStreams, error) {
	r := NewBinaryReader(b)
	if r.Len() < transformedGlyfHeaderSize {
		return nil, fmt.Errorf("glyf: header: %w", ErrTruncated)
	}
	_ = r.ReadUint16() // reserved
	optionFlags := r.ReadUint16()
	numGlyphs := r.ReadUint16()
	indexFormat := r.ReadUint16()
	nContourSize := r.ReadUint32()
	nPointsSize := r.ReadUint32()
	flagSize := r.ReadUint32()
	glyphSize := r.ReadUint32()
	compositeSize := r.ReadUint32()
	bboxSize := r.ReadUint32()
	instructionSize := r.ReadUint32()
	if r.EOF() {
		return nil, fmt.Errorf("glyf: header: %w", ErrTruncated)
	}
	if nContourSize != 2*uint32(numGlyphs) {
		return nil, fmt.Errorf("glyf: nContourStream size must equal 2*numGlyphs: %w", ErrSubStreamSizeMismatch)
	}

	bitmapSize := ((uint32(numGlyphs) + 31) >> 5) << 2
	if bboxSize < bitmapSize {
		return nil, fmt.Errorf("glyf: bboxStream smaller than bbox bitmap: %w", ErrSubStreamSizeMismatch)
	}

	s := &glyfSubStreams{numGlyphs: numGlyphs, indexFormat: indexFormat}
	s.nContour = NewBinaryReader(r.ReadBytes(nContourSize))
	s.nPoints = NewBinaryReader(r.ReadBytes(nPointsSize))
	s.flag = NewBinaryReader(r.ReadBytes(flagSize))
	s.glyph = NewBinaryReader(r.ReadBytes(glyphSize))
	s.composite = NewBinaryReader(r.ReadBytes(compositeSize))
	s.bboxBitmap = NewBitmapReader(r.ReadBytes(bitmapSize))
	s.bbox = NewBinaryReader(r.ReadBytes(bboxSize - bitmapSize))
	s.instruction = NewBinaryReader(r.ReadBytes(instructionSize))
	if optionFlags&0x0001 != 0 {
		s.overlapBitmap = NewBitmapReader(r.ReadBytes(bitmapSize))
	}
	if r.EOF() {
		return nil, fmt.Errorf("glyf: sub-streams: %w", ErrSubStreamSizeMismatch)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("glyf: trailing bytes after sub-streams: %w", ErrSubStreamSizeMismatch)
	}
	return s, nil
}

// reconstructGlyfLoca rebuilds the canonical glyf and loca tables from a
// transformed glyf table's bytes.
func reconstructGlyfLoca(b []byte, origLocaLength uint32) (glyfData, locaData []byte, err error) {
	s, err := splitGlyfSubStreams(b)
	if err != nil {
		return nil, nil, err
	}

	wantLocaLength := (uint32(s.numGlyphs) + 1) * 2
	if s.indexFormat != 0 {
		wantLocaLength *= 2
	}
	if wantLocaLength != origLocaLength {
		return nil, nil, fmt.Errorf("loca: origLength does not match numGlyphs+1 entries: %w", ErrInvalidFontData)
	}

	w := NewBinaryWriter(nil)
	loca := NewBinaryWriter(make([]byte, 0, wantLocaLength))
	writeLocaEntry := func() {
		if s.indexFormat == 0 {
			loca.WriteUint16(uint16(w.Len() >> 1))
		} else {
			loca.WriteUint32(w.Len())
		}
	}

	for i := uint16(0); i < s.numGlyphs; i++ {
		writeLocaEntry()

		explicitBbox := s.bboxBitmap.Read()
		overlapSimple := s.overlapBitmap != nil && s.overlapBitmap.Read()
		nContours := s.nContour.ReadInt16()
		if s.nContour.EOF() {
			return nil, nil, fmt.Errorf("glyf: %w", ErrTruncated)
		}

		switch {
		case nContours == 0:
			if explicitBbox {
				return nil, nil, fmt.Errorf("glyf: empty glyph cannot have an explicit bbox: %w", ErrMalformed)
			}
		case nContours > 0:
			if err := writeSimpleGlyph(w, s, nContours, explicitBbox, overlapSimple); err != nil {
				return nil, nil, err
			}
		default:
			if err := writeCompositeGlyph(w, s, nContours, explicitBbox); err != nil {
				return nil, nil, err
			}
		}

		for w.Len()%4 != 0 {
			w.WriteByte(0)
		}
	}
	writeLocaEntry()
	return w.Bytes(), loca.Bytes(), nil
}

func writeSimpleGlyph(w *BinaryWriter, s *glyfSubStreams, nContours int16, explicitBbox, overlapSimple bool) error {
	var xMin, yMin, xMax, yMax int16
	if explicitBbox {
		xMin, yMin, xMax, yMax = s.bbox.ReadInt16(), s.bbox.ReadInt16(), s.bbox.ReadInt16(), s.bbox.ReadInt16()
		if s.bbox.EOF() {
			return fmt.Errorf("glyf: bbox: %w", ErrTruncated)
		}
	}

	endPts := make([]uint16, nContours)
	var nPoints uint16
	for i := int16(0); i < nContours; i++ {
		n, err := read255Uint16(s.nPoints)
		if err != nil {
			return fmt.Errorf("glyf: nPoints: %w", err)
		}
		if math.MaxUint16-nPoints < n {
			return fmt.Errorf("glyf: %w", ErrMalformed)
		}
		nPoints += n
		endPts[i] = nPoints - 1
	}
	if s.nPoints.EOF() {
		return fmt.Errorf("glyf: nPoints: %w", ErrTruncated)
	}

	outlineFlags := make([]byte, nPoints)
	xCoords := make([]int16, nPoints)
	yCoords := make([]int16, nPoints)
	var x, y int16
	for i := uint16(0); i < nPoints; i++ {
		flagByte := s.flag.ReadByte()
		if s.flag.EOF() {
			return fmt.Errorf("glyf: flags: %w", ErrTruncated)
		}
		onCurve := flagByte&0x80 == 0
		dx, dy, err := decodeTriplet(flagByte&0x7F, s.glyph)
		if err != nil {
			return fmt.Errorf("glyf: point %d: %w", i, err)
		}
		xCoords[i], yCoords[i] = dx, dy

		var outlineFlag byte
		if onCurve {
			outlineFlag |= 0x01 // ON_CURVE_POINT
		}
		if overlapSimple && i == 0 {
			outlineFlag |= 0x40 // OVERLAP_SIMPLE, on the glyph's first flag
		}
		outlineFlags[i] = outlineFlag

		if !explicitBbox {
			if (0 < x && math.MaxInt16-x < dx) || (x < 0 && dx < math.MinInt16-x) ||
				(0 < y && math.MaxInt16-y < dy) || (y < 0 && dy < math.MinInt16-y) {
				return fmt.Errorf("glyf: coordinate overflow: %w", ErrMalformed)
			}
			x += dx
			y += dy
			if i == 0 {
				xMin, xMax, yMin, yMax = x, x, y, y
			} else {
				if x < xMin {
					xMin = x
				} else if xMax < x {
					xMax = x
				}
				if y < yMin {
					yMin = y
				} else if yMax < y {
					yMax = y
				}
			}
		}
	}

	instructionLength, err := read255Uint16(s.glyph)
	if err != nil {
		return fmt.Errorf("glyf: instruction length: %w", err)
	}
	instructions := s.instruction.ReadBytes(uint32(instructionLength))
	if s.instruction.EOF() {
		return fmt.Errorf("glyf: instructions: %w", ErrTruncated)
	}

	w.WriteInt16(nContours)
	w.WriteInt16(xMin)
	w.WriteInt16(yMin)
	w.WriteInt16(xMax)
	w.WriteInt16(yMax)
	for _, e := range endPts {
		w.WriteUint16(e)
	}
	w.WriteUint16(instructionLength)
	w.WriteBytes(instructions)
	for _, f := range outlineFlags {
		w.WriteByte(f)
	}
	for _, c := range xCoords {
		w.WriteInt16(c)
	}
	for _, c := range yCoords {
		w.WriteInt16(c)
	}
	return nil
}

func writeCompositeGlyph(w *BinaryWriter, s *glyfSubStreams, nContours int16, explicitBbox bool) error {
	if !explicitBbox {
		return fmt.Errorf("glyf: composite glyph requires an explicit bbox: %w", ErrMalformed)
	}
	xMin, yMin, xMax, yMax := s.bbox.ReadInt16(), s.bbox.ReadInt16(), s.bbox.ReadInt16(), s.bbox.ReadInt16()
	if s.bbox.EOF() {
		return fmt.Errorf("glyf: bbox: %w", ErrTruncated)
	}

	w.WriteInt16(nContours)
	w.WriteInt16(xMin)
	w.WriteInt16(yMin)
	w.WriteInt16(xMax)
	w.WriteInt16(yMax)

	hasInstructions := false
	for {
		flag := s.composite.ReadUint16()
		argsAreWords := flag&0x0001 != 0
		haveScale := flag&0x0008 != 0
		moreComponents := flag&0x0020 != 0
		haveXYScales := flag&0x0040 != 0
		have2by2 := flag&0x0080 != 0
		haveInstructions := flag&0x0100 != 0

		n := uint32(4) // glyphIndex (2) + xy args (2, widened below)
		if argsAreWords {
			n += 2
		}
		switch {
		case haveScale:
			n += 2
		case haveXYScales:
			n += 4
		case have2by2:
			n += 8
		}
		body := s.composite.ReadBytes(n)
		if s.composite.EOF() {
			return fmt.Errorf("glyf: composite component: %w", ErrTruncated)
		}

		w.WriteUint16(flag)
		w.WriteBytes(body)

		if haveInstructions {
			hasInstructions = true
		}
		if !moreComponents {
			break
		}
	}

	if hasInstructions {
		instructionLength, err := read255Uint16(s.glyph)
		if err != nil {
			return fmt.Errorf("glyf: instruction length: %w", err)
		}
		instructions := s.instruction.ReadBytes(uint32(instructionLength))
		if s.instruction.EOF() {
			return fmt.Errorf("glyf: instructions: %w", ErrTruncated)
		}
		w.WriteUint16(instructionLength)
		w.WriteBytes(instructions)
	}
	return nil
}
