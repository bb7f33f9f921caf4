package header

import (
	"fmt"

	"github.com/fzengin19/bitpack/bitpack/bperrors"
)

// CompactHeader is the 4-byte header variant:
//
//	byte0: [MODE=0|TYPE(4)|mesh|ackReq|encrypted]
//	byte1: [TTL(4)|compressed|urgent|reserved(2)]
//	byte2-3: MESSAGE_ID (u16 BE)
type CompactHeader struct {
	MsgType   MessageType
	FlagSet   PacketFlags
	Hops      uint8  // 0-15
	MsgID     uint16
}

// NewCompactHeader validates and builds a CompactHeader.
func NewCompactHeader(t MessageType, flags PacketFlags, ttl uint8, msgID uint16) (CompactHeader, error) {
	if !t.CompactCompatible() {
		return CompactHeader{}, fmt.Errorf("compact header: type %s requires standard mode: %w", t, bperrors.ArgumentOutOfRange)
	}
	if ttl > CompactMaxTTL {
		return CompactHeader{}, fmt.Errorf("compact header: ttl %d exceeds max %d: %w", ttl, CompactMaxTTL, bperrors.ArgumentOutOfRange)
	}
	if flags.RequiresStandardMode() {
		return CompactHeader{}, fmt.Errorf("compact header: fragment flags require standard mode: %w", bperrors.ArgumentOutOfRange)
	}
	return CompactHeader{MsgType: t, FlagSet: flags, Hops: ttl, MsgID: msgID}, nil
}

func (h CompactHeader) Mode() PacketMode     { return ModeCompact }
func (h CompactHeader) Type() MessageType    { return h.MsgType }
func (h CompactHeader) Flags() PacketFlags   { return h.FlagSet }
func (h CompactHeader) TTL() uint8           { return h.Hops }
func (h CompactHeader) MessageID() uint32    { return uint32(h.MsgID) }
func (h CompactHeader) SizeInBytes() int     { return CompactHeaderSize }

// IsExpired reports whether the packet has exhausted its hop budget.
// Compact headers carry no age field, so expiry here is hop-limit only;
// age-based expiry is a Standard-header concept.
func (h CompactHeader) IsExpired() bool { return h.Hops == 0 }

// Encode packs the 4-byte Compact header.
func (h CompactHeader) Encode() []byte {
	buf := make([]byte, CompactHeaderSize)
	buf[0] = byte(ModeCompact)<<7 | (uint8(h.MsgType)&0x0F)<<3 | h.FlagSet.encodeCompactByte0Bits()
	buf[1] = (h.Hops&0x0F)<<4 | h.FlagSet.encodeCompactByte1Bits()
	buf[2] = byte(h.MsgID >> 8)
	buf[3] = byte(h.MsgID)
	return buf
}

// DecodeCompactHeader decodes a 4-byte Compact header from buf.
func DecodeCompactHeader(buf []byte) (CompactHeader, error) {
	if len(buf) < CompactHeaderSize {
		return CompactHeader{}, fmt.Errorf("compact header: need %d bytes, got %d: %w",
			CompactHeaderSize, len(buf), bperrors.InsufficientData)
	}
	if DetectMode(buf[0]) != ModeCompact {
		return CompactHeader{}, fmt.Errorf("compact header: mode bit indicates standard: %w", bperrors.InvalidMode)
	}

	code := (buf[0] >> 3) & 0x0F
	t, ok := messageTypeFromCode(code)
	if !ok {
		return CompactHeader{}, fmt.Errorf("compact header: type code %d: %w", code, bperrors.UnknownType)
	}

	return CompactHeader{
		MsgType: t,
		FlagSet: decodeCompactFlags(buf[0], buf[1]),
		Hops:    buf[1] >> 4,
		MsgID:   uint16(buf[2])<<8 | uint16(buf[3]),
	}, nil
}
