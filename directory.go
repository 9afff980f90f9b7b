package woff2

import (
	"fmt"
	"math"
)

// tableEntry is one parsed table directory record plus the bytes the
// decoder eventually fills in for it.
type tableEntry struct {
	tag              string
	transformVersion int
	origLength       uint32
	transformLength  uint32 // 0 if not transformed
	data             []byte
}

func (e *tableEntry) hasTransform() bool {
	if e.tag == "glyf" || e.tag == "loca" {
		return e.transformVersion == 0
	}
	return e.transformVersion != 0
}

func (e *tableEntry) storedLength() uint32 {
	if e.tag == "loca" && e.hasTransform() {
		return 0
	}
	if e.transformLength != 0 {
		return e.transformLength
	}
	return e.origLength
}

// parseDirectory reads numTables table directory entries and returns them
// in file order along with the total number of bytes they claim from the
// decompressed payload.
func parseDirectory(r *BinaryReader, numTables uint16) ([]tableEntry, uint32, error) {
	tables := make([]tableEntry, 0, numTables)
	seen := map[string]int{}
	var uncompressedSize uint32

	for i := 0; i < int(numTables); i++ {
		flagByte := r.ReadByte()
		if r.EOF() {
			return nil, 0, fmt.Errorf("directory: %w", ErrTruncated)
		}
		tagIndex := int(flagByte & 0x3F)
		transformVersion := int((flagByte & 0xC0) >> 6)

		var tag string
		if tagIndex == 0x3F {
			tag = uint32ToTag(r.ReadUint32())
			if r.EOF() {
				return nil, 0, fmt.Errorf("directory: %w", ErrTruncated)
			}
		} else if tagIndex < len(knownTags) {
			tag = knownTags[tagIndex]
		} else {
			return nil, 0, fmt.Errorf("directory: tag index %d: %w", tagIndex, ErrUnknownTag)
		}

		origLength, err := readUintBase128(r)
		if err != nil {
			return nil, 0, fmt.Errorf("directory: %s: %w", tag, err)
		}

		e := tableEntry{tag: tag, transformVersion: transformVersion, origLength: origLength}

		needsTransformLength := (tag == "glyf" || tag == "loca") && transformVersion == 0 ||
			tag == "hmtx" && transformVersion == 1
		if needsTransformLength {
			transformLength, err := readUintBase128(r)
			if err != nil {
				return nil, 0, fmt.Errorf("directory: %s: %w", tag, err)
			}
			if tag != "loca" && transformLength == 0 {
				return nil, 0, fmt.Errorf("directory: %s: transformLength must be nonzero: %w", tag, ErrInvalidFontData)
			}
			e.transformLength = transformLength
		} else if transformVersion != 0 && !(tag == "glyf" || tag == "loca") {
			return nil, 0, fmt.Errorf("directory: %s: %w", tag, ErrUnsupportedTransformation)
		}

		contribution := e.storedLength()
		if math.MaxUint32-uncompressedSize < contribution {
			return nil, 0, fmt.Errorf("directory: %s: %w", tag, ErrInvalidFontData)
		}
		uncompressedSize += contribution

		if tag == "loca" {
			if _, hasGlyf := seen["glyf"]; !hasGlyf {
				return nil, 0, fmt.Errorf("directory: loca must come after glyf: %w", ErrInvalidFontData)
			}
		}
		if _, dup := seen[tag]; dup {
			return nil, 0, fmt.Errorf("directory: %s: table defined more than once: %w", tag, ErrInvalidFontData)
		}
		seen[tag] = len(tables)
		tables = append(tables, e)
	}

	if err := checkCoupling(tables, seen); err != nil {
		return nil, 0, err
	}
	return tables, uncompressedSize, nil
}

func checkCoupling(tables []tableEntry, seen map[string]int) error {
	iGlyf, hasGlyf := seen["glyf"]
	iLoca, hasLoca := seen["loca"]
	if hasGlyf != hasLoca {
		return fmt.Errorf("directory: glyf and loca must both be present or both absent: %w", ErrCouplingViolation)
	}
	if hasGlyf && tables[iGlyf].transformVersion != tables[iLoca].transformVersion {
		return fmt.Errorf("directory: glyf and loca transform versions differ: %w", ErrCouplingViolation)
	}
	if hasLoca && tables[iLoca].transformLength != 0 {
		return fmt.Errorf("directory: loca: transformLength must be zero: %w", ErrInvalidFontData)
	}
	if iHmtx, hasHmtx := seen["hmtx"]; hasHmtx && tables[iHmtx].transformVersion != 0 {
		return fmt.Errorf("directory: hmtx: %w", ErrUnsupportedTransformation)
	}
	return nil
}

func indexOf(tables []tableEntry, tag string) (int, bool) {
	for i := range tables {
		if tables[i].tag == tag {
			return i, true
		}
	}
	return -1, false
}
