// Package payload implements BitPack's L2 typed payload codecs: SOS beacons,
// GPS location reports, short text, ACK/NACK, and international BCD phone
// numbers.
package payload

import (
	"fmt"

	"github.com/fzengin19/bitpack/bitpack/bits"
	"github.com/fzengin19/bitpack/bitpack/bperrors"
)

// SosType is the 3-bit reason code carried by an SOS beacon.
type SosType uint8

const (
	SosTypeNeedRescue       SosType = 0
	SosTypeInjured          SosType = 1
	SosTypeTrapped          SosType = 2
	SosTypeSafe             SosType = 3
	SosTypeCanHelp          SosType = 4
	SosTypeMedicalEmergency SosType = 5
)

// phoneDigits is the fixed count of trailing phone digits an SOS beacon
// carries.
const phoneDigits = 8

// phoneBytes is phoneDigits packed two-per-byte.
const phoneBytes = phoneDigits / 2

// sosMaxAltitudeMagnitude bounds the altitude field.
const sosMaxAltitudeMagnitude = 4095

// SosSize is the encoded size of an SosPayload in bytes: altitude and
// battery each get their own byte-aligned field so that decoding always
// exactly inverts encoding, rather than packing both into one shared byte
// at the cost of precision.
const SosSize = 1 + 8 + phoneBytes + 2 + 1

// SosPayload is an emergency beacon: reason, headcount, GPS fix, a
// call-back phone number, altitude, and battery level.
type SosPayload struct {
	Type        SosType
	PeopleCount uint8 // 1-7
	HasInjured  bool
	IsTrapped   bool
	Location    bits.GPS
	Phone       string // last 8 decimal digits
	AltitudeM   int16  // magnitude <= 4095
	BatteryPct  uint8  // 0-100
}

// NewSosPayload validates and builds an SosPayload.
func NewSosPayload(t SosType, peopleCount uint8, hasInjured, isTrapped bool, loc bits.GPS, phone string, altitudeM int16, batteryPct uint8) (SosPayload, error) {
	if peopleCount < 1 || peopleCount > 7 {
		return SosPayload{}, fmt.Errorf("sos payload: people count %d out of range [1,7]: %w", peopleCount, bperrors.ArgumentOutOfRange)
	}
	if altitudeM < -sosMaxAltitudeMagnitude || altitudeM > sosMaxAltitudeMagnitude {
		return SosPayload{}, fmt.Errorf("sos payload: altitude %d exceeds magnitude %d: %w", altitudeM, sosMaxAltitudeMagnitude, bperrors.ArgumentOutOfRange)
	}
	if batteryPct > 100 {
		return SosPayload{}, fmt.Errorf("sos payload: battery %d exceeds 100: %w", batteryPct, bperrors.ArgumentOutOfRange)
	}
	if len(phone) > phoneDigits {
		phone = phone[len(phone)-phoneDigits:]
	}
	for len(phone) < phoneDigits {
		phone = "0" + phone
	}
	return SosPayload{
		Type: t, PeopleCount: peopleCount, HasInjured: hasInjured, IsTrapped: isTrapped,
		Location: loc, Phone: phone, AltitudeM: altitudeM, BatteryPct: batteryPct,
	}, nil
}

// SizeInBytes returns SosSize; every SosPayload encodes to the same length.
func (p SosPayload) SizeInBytes() int { return SosSize }

// Encode serializes p to SosSize bytes.
func (p SosPayload) Encode() ([]byte, error) {
	buf := make([]byte, SosSize)

	buf[0] = (uint8(p.Type)&0x07)<<5 | (p.PeopleCount&0x07)<<2
	if p.HasInjured {
		buf[0] |= 1 << 1
	}
	if p.IsTrapped {
		buf[0] |= 1
	}

	if err := p.Location.Encode(buf[1:9]); err != nil {
		return nil, err
	}

	phoneBCD, err := bits.BCDEncode(p.Phone)
	if err != nil {
		return nil, err
	}
	copy(buf[9:9+phoneBytes], phoneBCD)

	alt := uint16(p.AltitudeM)
	buf[9+phoneBytes] = byte(alt >> 8)
	buf[9+phoneBytes+1] = byte(alt)
	buf[9+phoneBytes+2] = p.BatteryPct

	return buf, nil
}

// DecodeSos decodes an SosPayload from buf.
func DecodeSos(buf []byte) (SosPayload, error) {
	if len(buf) < SosSize {
		return SosPayload{}, fmt.Errorf("sos payload: need %d bytes, got %d: %w", SosSize, len(buf), bperrors.InsufficientData)
	}

	p := SosPayload{
		Type:        SosType(buf[0] >> 5 & 0x07),
		PeopleCount: buf[0] >> 2 & 0x07,
		HasInjured:  buf[0]&(1<<1) != 0,
		IsTrapped:   buf[0]&1 != 0,
	}

	loc, err := bits.DecodeGPS(buf[1:9])
	if err != nil {
		return SosPayload{}, err
	}
	p.Location = loc

	phone, err := bits.BCDDecode(buf[9 : 9+phoneBytes])
	if err != nil {
		return SosPayload{}, err
	}
	p.Phone = phone

	p.AltitudeM = int16(uint16(buf[9+phoneBytes])<<8 | uint16(buf[9+phoneBytes+1]))
	p.BatteryPct = buf[9+phoneBytes+2]

	return p, nil
}
