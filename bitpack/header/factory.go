package header

import (
	"fmt"

	"github.com/fzengin19/bitpack/bitpack/bperrors"
)

// HasCompleteHeader reports whether buf contains enough bytes to decode the
// header variant its mode bit selects (but says nothing about the payload).
func HasCompleteHeader(buf []byte) bool {
	if len(buf) < 1 {
		return false
	}
	if DetectMode(buf[0]) == ModeStandard {
		return len(buf) >= StandardHeaderSize
	}
	return len(buf) >= CompactHeaderSize
}

// Decode detects the mode bit of buf and decodes the matching header
// variant, returning it as the common Header interface.
func Decode(buf []byte) (Header, error) {
	if len(buf) < 1 {
		return nil, fmt.Errorf("header: empty buffer: %w", bperrors.InsufficientData)
	}
	if DetectMode(buf[0]) == ModeStandard {
		h, err := DecodeStandardHeader(buf)
		if err != nil {
			return nil, err
		}
		return &h, nil
	}
	h, err := DecodeCompactHeader(buf)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// DecodeWithPayload decodes the header and returns it alongside the
// remaining payload slice (buf[header.SizeInBytes():]).
func DecodeWithPayload(buf []byte) (Header, []byte, error) {
	h, err := Decode(buf)
	if err != nil {
		return nil, nil, err
	}
	if len(buf) < h.SizeInBytes() {
		return nil, nil, fmt.Errorf("header: buffer shorter than header size %d: %w",
			h.SizeInBytes(), bperrors.InsufficientData)
	}
	return h, buf[h.SizeInBytes():], nil
}

// AutoParams bundles the fields CreateAuto needs to decide Compact vs
// Standard and to build whichever variant it picks.
type AutoParams struct {
	Type          MessageType
	Flags         PacketFlags
	TTL           uint8
	MessageID     uint32
	Security      SecurityMode
	PayloadLength uint16
	AgeMinutes    uint16
	// ForceStandard overrides the heuristic and always picks Standard.
	ForceStandard bool
}

// CreateAuto picks Compact unless any forcing condition holds: the type
// requires Standard, a non-None security mode, any
// fragment flag, a payload over the auto-select ceiling, nonzero age, a
// message ID or TTL too large for Compact's fields, or an explicit
// override.
func CreateAuto(p AutoParams) (Header, error) {
	forceStandard := p.ForceStandard ||
		p.Type.RequiresStandardMode() ||
		p.Security != SecurityModeNone ||
		p.Flags.RequiresStandardMode() ||
		p.PayloadLength > AutoSelectCompactPayloadCeiling ||
		p.AgeMinutes > 0 ||
		p.MessageID > 0xFFFF ||
		p.TTL > CompactMaxTTL

	if forceStandard {
		h, err := NewStandardHeader(p.Type, p.Flags, p.TTL, p.MessageID, p.Security, p.PayloadLength, p.AgeMinutes)
		if err != nil {
			return nil, err
		}
		return &h, nil
	}

	return NewCompactHeader(p.Type, p.Flags, p.TTL, uint16(p.MessageID))
}
