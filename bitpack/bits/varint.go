package bits

import (
	"fmt"

	"github.com/fzengin19/bitpack/bitpack/bperrors"
)

// maxVarIntBytes is the longest a base-128 encoding of a uint32 can be:
// ceil(32/7) = 5 bytes.
const maxVarIntBytes = 5

// EncodedLength returns the number of bytes VarIntEncode would produce for n.
func EncodedLength(n uint32) int {
	length := 1
	for n >= 0x80 {
		n >>= 7
		length++
	}
	return length
}

// VarIntEncode appends the base-128 little-endian encoding of n to dst and
// returns the extended slice. Each byte carries 7 value bits; the MSB is a
// continuation flag set on every byte but the last.
func VarIntEncode(dst []byte, n uint32) []byte {
	for n >= 0x80 {
		dst = append(dst, byte(n)|0x80)
		n >>= 7
	}
	return append(dst, byte(n))
}

// VarIntDecode decodes a base-128 little-endian varint from buf starting at
// off, returning the value and the number of bytes consumed.
func VarIntDecode(buf []byte, off int) (uint32, int, error) {
	var result uint32
	for i := 0; i < maxVarIntBytes; i++ {
		pos := off + i
		if pos >= len(buf) {
			return 0, 0, fmt.Errorf("varint: truncated after %d bytes: %w", i, bperrors.VarIntTruncated)
		}
		b := buf[pos]
		result |= uint32(b&0x7F) << (7 * i)
		if b&0x80 == 0 {
			return result, i + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("varint: exceeds %d-byte maximum: %w", maxVarIntBytes, bperrors.VarIntTruncated)
}

// zigZagEncode maps a signed int32 to an unsigned uint32 such that small
// magnitude values (positive or negative) encode to small varints.
func zigZagEncode(n int32) uint32 {
	return uint32((n << 1) ^ (n >> 31))
}

// zigZagDecode reverses zigZagEncode.
func zigZagDecode(n uint32) int32 {
	return int32(n>>1) ^ -int32(n&1)
}

// VarIntEncodeSigned appends the zig-zag + base-128 encoding of n to dst.
func VarIntEncodeSigned(dst []byte, n int32) []byte {
	return VarIntEncode(dst, zigZagEncode(n))
}

// VarIntDecodeSigned decodes a zig-zag + base-128 varint from buf at off.
func VarIntDecodeSigned(buf []byte, off int) (int32, int, error) {
	u, n, err := VarIntDecode(buf, off)
	if err != nil {
		return 0, 0, err
	}
	return zigZagDecode(u), n, nil
}
