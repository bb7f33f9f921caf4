// Package bits implements BitPack's L0 bit primitives: big-endian integer
// I/O, base-128 varints, BCD nibble packing, CRC-8/CRC-32 checksums, and
// fixed-point GPS coordinates.
//
// Every function here is a pure function of its arguments. The only
// package-level state is the CRC-32 lookup table, built once on first use
// and read-only afterward.
package bits

import (
	"fmt"

	"github.com/fzengin19/bitpack/bitpack/bperrors"
)

// ReadUint16BE reads a big-endian uint16 from buf at off.
func ReadUint16BE(buf []byte, off int) (uint16, error) {
	if off < 0 || off+2 > len(buf) {
		return 0, fmt.Errorf("read uint16: need 2 bytes at offset %d, have %d: %w",
			off, len(buf), bperrors.InsufficientData)
	}
	return uint16(buf[off])<<8 | uint16(buf[off+1]), nil
}

// WriteUint16BE writes v as a big-endian uint16 into buf at off.
func WriteUint16BE(buf []byte, off int, v uint16) error {
	if off < 0 || off+2 > len(buf) {
		return fmt.Errorf("write uint16: need 2 bytes at offset %d, have %d: %w",
			off, len(buf), bperrors.InsufficientData)
	}
	buf[off] = byte(v >> 8)
	buf[off+1] = byte(v)
	return nil
}

// ReadUint32BE reads a big-endian uint32 from buf at off.
func ReadUint32BE(buf []byte, off int) (uint32, error) {
	if off < 0 || off+4 > len(buf) {
		return 0, fmt.Errorf("read uint32: need 4 bytes at offset %d, have %d: %w",
			off, len(buf), bperrors.InsufficientData)
	}
	return uint32(buf[off])<<24 | uint32(buf[off+1])<<16 | uint32(buf[off+2])<<8 | uint32(buf[off+3]), nil
}

// WriteUint32BE writes v as a big-endian uint32 into buf at off.
func WriteUint32BE(buf []byte, off int, v uint32) error {
	if off < 0 || off+4 > len(buf) {
		return fmt.Errorf("write uint32: need 4 bytes at offset %d, have %d: %w",
			off, len(buf), bperrors.InsufficientData)
	}
	buf[off] = byte(v >> 24)
	buf[off+1] = byte(v >> 16)
	buf[off+2] = byte(v >> 8)
	buf[off+3] = byte(v)
	return nil
}
