package woff2

import "encoding/binary"

// MaxMemory bounds the decompressed table data size and the header's
// totalSfntSize hint used to pre-size the SFNT buffer; files whose
// declared sizes exceed it fail with ErrExceedsMemory. The reconstructed
// glyf/loca tables and the final assembled SFNT buffer are not checked
// against it.
var MaxMemory uint32 = 30 * 1024 * 1024

func calcChecksum(b []byte) uint32 {
	var sum uint32
	for i := 0; i+4 <= len(b); i += 4 {
		sum += binary.BigEndian.Uint32(b[i : i+4])
	}
	if rem := len(b) % 4; rem != 0 {
		var tail [4]byte
		copy(tail[:], b[len(b)-rem:])
		sum += binary.BigEndian.Uint32(tail[:])
	}
	return sum
}
