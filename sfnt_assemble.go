package woff2

import (
	"fmt"
	"math"
	"sort"
)

// assembleSFNT writes the 12-byte offset table, the sorted table
// directory, and the table bytes themselves (4-byte aligned), and patches
// in head.checkSumAdjustment.
func assembleSFNT(flavor uint32, tables []tableEntry, totalSfntSizeHint uint32) ([]byte, error) {
	numTables := uint16(len(tables))

	var searchRange uint16 = 1
	var entrySelector uint16
	for searchRange*2 <= numTables {
		searchRange *= 2
		entrySelector++
	}
	searchRange *= 16
	rangeShift := numTables*16 - searchRange

	if MaxMemory < totalSfntSizeHint {
		return nil, ErrExceedsMemory
	}
	w := NewBinaryWriter(make([]byte, 0, totalSfntSizeHint))
	w.WriteUint32(flavor)
	w.WriteUint16(numTables)
	w.WriteUint16(searchRange)
	w.WriteUint16(entrySelector)
	w.WriteUint16(rangeShift)

	order := make([]int, len(tables))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return tables[order[a]].tag < tables[order[b]].tag })

	sfntOffset := 12 + 16*uint32(numTables)
	padded := make([][]byte, len(tables))
	for _, i := range order {
		data := tables[i].data
		nPadding := (4 - uint32(len(data))&3) & 3
		if nPadding != 0 {
			data = append(append(make([]byte, 0, len(data)+int(nPadding)), data...), make([]byte, nPadding)...)
		}
		padded[i] = data

		if math.MaxUint32-uint32(len(data)) < sfntOffset {
			return nil, fmt.Errorf("sfnt: table offset overflow: %w", ErrInvalidFontData)
		}
		w.WriteUint32(tagToUint32(tables[i].tag))
		w.WriteUint32(calcChecksum(data))
		w.WriteUint32(sfntOffset)
		w.WriteUint32(uint32(len(tables[i].data)))
		sfntOffset += uint32(len(data))
	}

	var headCheckSumAdjustmentOffset uint32
	for _, i := range order {
		if tables[i].tag == "head" {
			if len(padded[i]) < 12 {
				return nil, fmt.Errorf("sfnt: head table too short: %w", ErrInvalidFontData)
			}
			headCheckSumAdjustmentOffset = w.Len() + 8
		}
		w.WriteBytes(padded[i])
	}

	buf := w.Bytes()
	if headCheckSumAdjustmentOffset != 0 {
		checkSumAdjustment := 0xB1B0AFBA - calcChecksum(buf)
		buf[headCheckSumAdjustmentOffset] = byte(checkSumAdjustment >> 24)
		buf[headCheckSumAdjustmentOffset+1] = byte(checkSumAdjustment >> 16)
		buf[headCheckSumAdjustmentOffset+2] = byte(checkSumAdjustment >> 8)
		buf[headCheckSumAdjustmentOffset+3] = byte(checkSumAdjustment)
	}
	return buf, nil
}
