package payload

import (
	"fmt"

	"github.com/fzengin19/bitpack/bitpack/bits"
	"github.com/fzengin19/bitpack/bitpack/bperrors"
)

// LocationCompactSize is the wire size of a non-extended LocationPayload:
// just the 8-byte GPS fix.
const LocationCompactSize = 8

// LocationExtendedSize adds a signed 16-bit altitude and unsigned 16-bit
// accuracy (metres) to the compact layout.
const LocationExtendedSize = LocationCompactSize + 2 + 2

// LocationPayload is a GPS location report, optionally extended with
// altitude and horizontal accuracy.
type LocationPayload struct {
	Fix      bits.GPS
	Extended bool
	AltitudeM int16
	AccuracyM uint16
}

// SizeInBytes returns the wire size for the payload's Extended setting.
func (p LocationPayload) SizeInBytes() int {
	if p.Extended {
		return LocationExtendedSize
	}
	return LocationCompactSize
}

// Encode serializes p.
func (p LocationPayload) Encode() ([]byte, error) {
	buf := make([]byte, p.SizeInBytes())
	if err := p.Fix.Encode(buf[:8]); err != nil {
		return nil, err
	}
	if p.Extended {
		alt := uint16(p.AltitudeM)
		buf[8] = byte(alt >> 8)
		buf[9] = byte(alt)
		buf[10] = byte(p.AccuracyM >> 8)
		buf[11] = byte(p.AccuracyM)
	}
	return buf, nil
}

// DecodeLocation decodes a LocationPayload from buf. extended selects
// which of the two wire layouts buf holds: a mode hint from the caller,
// since the wire format carries no self-describing length tag.
func DecodeLocation(buf []byte, extended bool) (LocationPayload, error) {
	size := LocationCompactSize
	if extended {
		size = LocationExtendedSize
	}
	if len(buf) < size {
		return LocationPayload{}, fmt.Errorf("location payload: need %d bytes, got %d: %w", size, len(buf), bperrors.InsufficientData)
	}

	fix, err := bits.DecodeGPS(buf[:8])
	if err != nil {
		return LocationPayload{}, err
	}

	p := LocationPayload{Fix: fix, Extended: extended}
	if extended {
		p.AltitudeM = int16(uint16(buf[8])<<8 | uint16(buf[9]))
		p.AccuracyM = uint16(buf[10])<<8 | uint16(buf[11])
	}
	return p, nil
}
