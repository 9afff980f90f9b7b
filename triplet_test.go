package woff2

import (
	"testing"

	"github.com/tdewolff/test"
)

func TestDecodeTripletSmallY(t *testing.T) {
	// flag < 10, bit 0 set means positive sign: dy = (flag&0x0E)<<7 + byte
	r := NewBinaryReader([]byte{0x05})
	dx, dy, err := decodeTriplet(0x01, r)
	test.Error(t, err)
	test.T(t, dx, int16(0))
	test.T(t, dy, int16(5))
}

func TestDecodeTripletSmallX(t *testing.T) {
	r := NewBinaryReader([]byte{0x05})
	dx, dy, err := decodeTriplet(0x0B, r) // flag in [10,20)
	test.Error(t, err)
	test.T(t, dy, int16(0))
	test.T(t, dx, int16(5))
}

func TestDecodeTripletFourByte(t *testing.T) {
	r := NewBinaryReader([]byte{0x01, 0x00, 0x02, 0x00})
	dx, dy, err := decodeTriplet(124, r) // flag >= 124, both sign bits zero (negative)
	test.Error(t, err)
	test.T(t, dx, int16(-256))
	test.T(t, dy, int16(-512))
}

func TestDecodeTripletTruncated(t *testing.T) {
	r := NewBinaryReader(nil)
	_, _, err := decodeTriplet(0x01, r)
	if err == nil {
		t.Fatal("expected truncation error")
	}
}
