package header

import (
	"fmt"
	"time"

	"github.com/fzengin19/bitpack/bitpack/bperrors"
)

// StandardVersion is the only protocol version this implementation speaks.
const StandardVersion uint8 = 1

// StandardHeader is the 11-byte header variant:
//
//	byte0:    [MODE=1|VERSION(1)|TYPE(6)]
//	byte1:    FLAGS (8 bits)
//	byte2:    HOP_TTL
//	byte3-6:  MESSAGE_ID (u32 BE)
//	byte7:    [SEC_MODE(3)|PAYLOAD_LEN_HI(5)]
//	byte8:    PAYLOAD_LEN_LO
//	byte9-10: AGE_MINUTES (u16 BE)
//
// receivedAt is a relay-local clock reading attached when the local node
// accepts the packet; it is never transmitted and is write-once via
// MarkReceived.
type StandardHeader struct {
	Version       uint8
	MsgType       MessageType
	FlagSet       PacketFlags
	HopTTL        uint8
	MsgID         uint32
	Security      SecurityMode
	PayloadLength uint16 // 0-8191
	AgeMinutes    uint16

	receivedAt    time.Time
	receivedAtSet bool
}

// NewStandardHeader validates and builds a StandardHeader.
func NewStandardHeader(
	t MessageType, flags PacketFlags, hopTTL uint8, msgID uint32,
	sec SecurityMode, payloadLength, ageMinutes uint16,
) (StandardHeader, error) {
	if payloadLength > MaxPayloadLength {
		return StandardHeader{}, fmt.Errorf("standard header: payload length %d exceeds max %d: %w",
			payloadLength, MaxPayloadLength, bperrors.ArgumentOutOfRange)
	}
	return StandardHeader{
		Version:       StandardVersion,
		MsgType:       t,
		FlagSet:       flags,
		HopTTL:        hopTTL,
		MsgID:         msgID,
		Security:      sec,
		PayloadLength: payloadLength,
		AgeMinutes:    ageMinutes,
	}, nil
}

func (h StandardHeader) Mode() PacketMode   { return ModeStandard }
func (h StandardHeader) Type() MessageType  { return h.MsgType }
func (h StandardHeader) Flags() PacketFlags { return h.FlagSet }
func (h StandardHeader) TTL() uint8         { return h.HopTTL }
func (h StandardHeader) MessageID() uint32  { return h.MsgID }
func (h StandardHeader) SizeInBytes() int   { return StandardHeaderSize }

// IsExpired reports whether the packet has exhausted its hop budget or
// reached the 24h expiry threshold, evaluated at the header's own recorded
// AgeMinutes (no relay-local clock involved).
func (h StandardHeader) IsExpired() bool {
	return h.HopTTL == 0 || uint32(h.AgeMinutes) >= ExpiryThresholdMinutes
}

// Encode packs the 11-byte Standard header.
func (h StandardHeader) Encode() []byte {
	buf := make([]byte, StandardHeaderSize)
	buf[0] = byte(ModeStandard)<<7 | (h.Version&0x01)<<6 | uint8(h.MsgType)&0x3F
	buf[1] = h.FlagSet.EncodeStandard()
	buf[2] = h.HopTTL
	buf[3] = byte(h.MsgID >> 24)
	buf[4] = byte(h.MsgID >> 16)
	buf[5] = byte(h.MsgID >> 8)
	buf[6] = byte(h.MsgID)
	buf[7] = (uint8(h.Security)&0x07)<<5 | byte(h.PayloadLength>>8)&0x1F
	buf[8] = byte(h.PayloadLength)
	buf[9] = byte(h.AgeMinutes >> 8)
	buf[10] = byte(h.AgeMinutes)
	return buf
}

// DecodeStandardHeader decodes an 11-byte Standard header from buf.
func DecodeStandardHeader(buf []byte) (StandardHeader, error) {
	if len(buf) < StandardHeaderSize {
		return StandardHeader{}, fmt.Errorf("standard header: need %d bytes, got %d: %w",
			StandardHeaderSize, len(buf), bperrors.InsufficientData)
	}
	if DetectMode(buf[0]) != ModeStandard {
		return StandardHeader{}, fmt.Errorf("standard header: mode bit indicates compact: %w", bperrors.InvalidMode)
	}

	code := buf[0] & 0x3F
	t, ok := messageTypeFromCode(code)
	if !ok {
		return StandardHeader{}, fmt.Errorf("standard header: type code %d: %w", code, bperrors.UnknownType)
	}

	secCode := buf[7] >> 5
	sec, ok := securityModeFromCode(secCode)
	if !ok {
		return StandardHeader{}, fmt.Errorf("standard header: security mode code %d: %w", secCode, bperrors.UnknownSecurityMode)
	}

	payloadLen := uint16(buf[7]&0x1F)<<8 | uint16(buf[8])

	return StandardHeader{
		Version:       buf[0] >> 6 & 0x01,
		MsgType:       t,
		FlagSet:       DecodeStandardFlags(buf[1]),
		HopTTL:        buf[2],
		MsgID:         uint32(buf[3])<<24 | uint32(buf[4])<<16 | uint32(buf[5])<<8 | uint32(buf[6]),
		Security:      sec,
		PayloadLength: payloadLen,
		AgeMinutes:    uint16(buf[9])<<8 | uint16(buf[10]),
	}, nil
}

// MarkReceived records the relay-local time the packet was accepted. It is
// write-once from the caller's perspective: subsequent calls are no-ops so
// relay code can call it unconditionally on every decode path.
func (h *StandardHeader) MarkReceived(now time.Time) {
	if h.receivedAtSet {
		return
	}
	h.receivedAt = now
	h.receivedAtSet = true
}

// ReceivedAt returns the relay-local acceptance time and whether
// MarkReceived has been called.
func (h StandardHeader) ReceivedAt() (time.Time, bool) {
	return h.receivedAt, h.receivedAtSet
}

// CurrentAgeMinutes derives the packet's age as of now: the wire
// AgeMinutes plus whole minutes elapsed since MarkReceived, clamped to
// [0, MaxAgeMinutes]. Negative clock jumps are clamped at zero rather than
// allowed to reduce the age. Returns AgeMinutes unchanged if MarkReceived
// has not been called.
func (h StandardHeader) CurrentAgeMinutes(now time.Time) uint16 {
	if !h.receivedAtSet {
		return h.AgeMinutes
	}
	elapsed := now.Sub(h.receivedAt)
	elapsedMinutes := int64(0)
	if elapsed > 0 {
		elapsedMinutes = int64(elapsed / time.Minute)
	}

	total := int64(h.AgeMinutes) + elapsedMinutes
	if total < 0 {
		total = 0
	}
	if total > MaxAgeMinutes {
		total = MaxAgeMinutes
	}
	return uint16(total)
}

// IsExpiredAt reports whether the packet is expired as of now: either the
// hop TTL is exhausted, or CurrentAgeMinutes(now) has reached the 24h
// expiry threshold.
func (h StandardHeader) IsExpiredAt(now time.Time) bool {
	return h.HopTTL == 0 || uint32(h.CurrentAgeMinutes(now)) >= ExpiryThresholdMinutes
}
