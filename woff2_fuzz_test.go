package woff2

import "testing"

// FuzzLoad replaces the legacy //go:build gofuzz harness with the native
// go test -fuzz driver. It checks that Load never panics and that a nil
// error comes with a font of at least the 12-byte offset table; a rejected
// or malformed input returning an error is a pass, not a failure.
func FuzzLoad(f *testing.F) {
	f.Add(buildWOFF2(0x00010000, []testTable{
		{tag: "head", origLength: 54, data: minimalHead()},
		{tag: "maxp", origLength: 6, data: minimalMaxp(0)},
	}))
	f.Add(buildWOFF2(0x00010000, []testTable{
		{tag: "head", origLength: 54, data: minimalHead()},
		{tag: "maxp", origLength: 6, data: minimalMaxp(0)},
	})[:10])
	f.Add([]byte{})
	f.Add([]byte("wOF2"))

	f.Fuzz(func(t *testing.T, data []byte) {
		font, err := Load(data)
		if err != nil {
			return
		}
		if font == nil || len(font.Bytes()) < 12 {
			t.Fatalf("Load returned a nil error but an unusable font: %v", font)
		}
	})
}
