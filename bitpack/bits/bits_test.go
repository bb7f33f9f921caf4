package bits

import (
	"math"
	"testing"
)

func TestUint16RoundTrip(t *testing.T) {
	buf := make([]byte, 2)
	if err := WriteUint16BE(buf, 0, 0xBEEF); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadUint16BE(buf, 0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != 0xBEEF {
		t.Fatalf("got 0x%04x, want 0xBEEF", got)
	}
}

func TestUint16ShortBuffer(t *testing.T) {
	if _, err := ReadUint16BE([]byte{0x01}, 0); err == nil {
		t.Fatal("expected error on short buffer")
	}
}

func TestUint32RoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	if err := WriteUint32BE(buf, 0, 0xDEADBEEF); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadUint32BE(buf, 0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got != 0xDEADBEEF {
		t.Fatalf("got 0x%08x, want 0xDEADBEEF", got)
	}
}

func TestVarIntEncodedLengthBoundaries(t *testing.T) {
	cases := []struct {
		n      uint32
		length int
	}{
		{0, 1},
		{127, 1},
		{128, 2},
		{16383, 2},
		{16384, 3},
		{2097151, 3},
		{2097152, 4},
		{268435455, 4},
		{268435456, 5},
		{math.MaxUint32, 5},
	}
	for _, c := range cases {
		if got := EncodedLength(c.n); got != c.length {
			t.Errorf("EncodedLength(%d) = %d, want %d", c.n, got, c.length)
		}
		encoded := VarIntEncode(nil, c.n)
		if len(encoded) != c.length {
			t.Errorf("len(VarIntEncode(%d)) = %d, want %d", c.n, len(encoded), c.length)
		}
	}
}

func TestVarIntRoundTrip(t *testing.T) {
	for _, n := range []uint32{0, 1, 127, 128, 300, 16383, 16384, 1 << 20, math.MaxUint32} {
		buf := VarIntEncode(nil, n)
		got, consumed, err := VarIntDecode(buf, 0)
		if err != nil {
			t.Fatalf("decode(%d): %v", n, err)
		}
		if got != n || consumed != len(buf) {
			t.Errorf("decode(%d) = (%d, %d), want (%d, %d)", n, got, consumed, n, len(buf))
		}
	}
}

func TestVarIntTruncated(t *testing.T) {
	buf := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80} // continuation forever
	if _, _, err := VarIntDecode(buf, 0); err == nil {
		t.Fatal("expected truncation error")
	}
	if _, _, err := VarIntDecode([]byte{0x80}, 0); err == nil {
		t.Fatal("expected truncation error on short buffer")
	}
}

func TestVarIntSignedRoundTrip(t *testing.T) {
	for _, n := range []int32{0, 1, -1, 63, -64, 1000000, -1000000, math.MaxInt32, math.MinInt32} {
		buf := VarIntEncodeSigned(nil, n)
		got, _, err := VarIntDecodeSigned(buf, 0)
		if err != nil {
			t.Fatalf("decode(%d): %v", n, err)
		}
		if got != n {
			t.Errorf("decodeSigned(%d) = %d", n, got)
		}
	}
}

func TestVarIntSignedSmallNegativeIsOneByte(t *testing.T) {
	buf := VarIntEncodeSigned(nil, -1)
	if len(buf) != 1 {
		t.Fatalf("encode(-1) length = %d, want 1", len(buf))
	}
}

func TestBCDRoundTripEven(t *testing.T) {
	digits := "5551234567"
	enc, err := BCDEncode(digits)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(enc) != 5 {
		t.Fatalf("len = %d, want 5", len(enc))
	}
	dec, err := BCDDecode(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dec != digits {
		t.Fatalf("decode = %q, want %q", dec, digits)
	}
}

func TestBCDRoundTripOddPadsWithF(t *testing.T) {
	digits := "123"
	enc, err := BCDEncode(digits)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(enc) != 2 || enc[1]&0x0F != 0xF {
		t.Fatalf("enc = %x, expected low nibble of last byte to be 0xF", enc)
	}
	dec, err := BCDDecode(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dec != digits {
		t.Fatalf("decode = %q, want %q", dec, digits)
	}
}

func TestBCDInvalidNibble(t *testing.T) {
	if _, err := BCDDecode([]byte{0xAB}); err == nil {
		t.Fatal("expected invalid nibble error")
	}
}

func TestBCDInvalidDigit(t *testing.T) {
	if _, err := BCDEncode("12x4"); err == nil {
		t.Fatal("expected invalid digit error")
	}
}

func TestBCDFormatDefaultCountryCode(t *testing.T) {
	if got := BCDFormat("5551234567", ""); got != "+905551234567" {
		t.Fatalf("got %q", got)
	}
}

func TestCRC8SingleByteFlipDetected(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03, 0x04}
	c1 := CRC8(data)
	data[2] ^= 0x01
	c2 := CRC8(data)
	if c1 == c2 {
		t.Fatal("expected CRC-8 to change on single-byte flip")
	}
}

func TestCRC32TestVector(t *testing.T) {
	if got := CRC32([]byte("123456789")); got != 0xCBF43926 {
		t.Fatalf("CRC32(\"123456789\") = 0x%08X, want 0xCBF43926", got)
	}
}

func TestGPSEncodeDecodeRoundTrip(t *testing.T) {
	g, err := NewGPS(41.0082, 28.9784)
	if err != nil {
		t.Fatalf("new gps: %v", err)
	}
	buf := make([]byte, 8)
	if err := g.Encode(buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeGPS(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.LatE7 != g.LatE7 || got.LonE7 != g.LonE7 {
		t.Fatalf("got %+v, want %+v", got, g)
	}
}

func TestGPSInvalidCoordinate(t *testing.T) {
	if _, err := NewGPS(91, 0); err == nil {
		t.Fatal("expected invalid coordinate error for lat=91")
	}
	if _, err := NewGPS(0, 181); err == nil {
		t.Fatal("expected invalid coordinate error for lon=181")
	}
}

func TestGPSDistanceIstanbulToAnkara(t *testing.T) {
	istanbul, _ := NewGPS(41.0082, 28.9784)
	ankara, _ := NewGPS(39.9334, 32.8597)
	d := Distance(istanbul, ankara)
	// Known great-circle distance is ~350km; allow a generous tolerance.
	if d < 300000 || d > 400000 {
		t.Fatalf("distance = %f m, want ~350000", d)
	}
}

func TestGPSDistanceZeroForSamePoint(t *testing.T) {
	p, _ := NewGPS(10, 10)
	if d := Distance(p, p); d != 0 {
		t.Fatalf("distance(p, p) = %f, want 0", d)
	}
}
