package woff2

import (
	"bytes"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

// decompress reads compressedSize bytes from r, Brotli-decompresses them,
// and requires the result be exactly wantSize bytes.
func decompress(r *BinaryReader, compressedSize, wantSize uint32) ([]byte, error) {
	compData := r.ReadBytes(compressedSize)
	if r.EOF() {
		return nil, fmt.Errorf("brotli: compressed payload: %w", ErrTruncated)
	}
	if MaxMemory < wantSize {
		return nil, ErrExceedsMemory
	}
	br := brotli.NewReader(bytes.NewReader(compData))
	buf := bytes.NewBuffer(make([]byte, 0, wantSize))
	if _, err := io.CopyN(buf, br, int64(wantSize)+1); err != nil && err != io.EOF {
		return nil, fmt.Errorf("brotli: %w", err)
	}
	data := buf.Bytes()
	if uint32(len(data)) != wantSize {
		return nil, fmt.Errorf("brotli: %w", ErrDecompressedSizeMismatch)
	}
	return data, nil
}
