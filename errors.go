package woff2

import "fmt"

// Sentinel errors callers can match with errors.Is. Decode failures are
// wrapped with positional context via fmt.Errorf("...: %w", Err...) so the
// sentinel still matches while the message carries a hint of where things
// went wrong.
var (
	ErrTruncated                 = fmt.Errorf("truncated")
	ErrBadSignature              = fmt.Errorf("bad signature")
	ErrUnsupportedCollection     = fmt.Errorf("font collections are unsupported")
	ErrInvalidFontData           = fmt.Errorf("invalid font data")
	ErrInconsistentBlockOffset   = fmt.Errorf("inconsistent block offset")
	ErrMalformedVarInt           = fmt.Errorf("malformed variable-length integer")
	ErrUnknownTag                = fmt.Errorf("unknown table tag index")
	ErrCouplingViolation         = fmt.Errorf("glyf/loca coupling violation")
	ErrDecompressedSizeMismatch  = fmt.Errorf("decompressed size does not match sum of table lengths")
	ErrSubStreamSizeMismatch     = fmt.Errorf("glyf sub-stream sizes do not match transformed table length")
	ErrMalformed                 = fmt.Errorf("malformed font data")
	ErrUnsupportedTransformation = fmt.Errorf("unsupported table transformation")
	ErrExceedsMemory             = fmt.Errorf("memory limit exceeded")
)
