// Package header implements BitPack's two wire header variants (Compact,
// 4 bytes; Standard, 11 bytes), the mode-bit auto-selector between them,
// and the relay-side age/hop bookkeeping carried on a decoded Standard
// header.
package header

import "fmt"

// PacketMode selects which header variant a frame uses. It lives in bit 7
// of byte 0 of every BitPack frame: 0 = Compact, 1 = Standard.
type PacketMode uint8

const (
	// ModeCompact is the 4-byte header variant.
	ModeCompact PacketMode = 0
	// ModeStandard is the 11-byte header variant.
	ModeStandard PacketMode = 1
)

// DetectMode reads bit 7 of the first byte of a frame.
func DetectMode(b byte) PacketMode {
	if b&0x80 != 0 {
		return ModeStandard
	}
	return ModeCompact
}

func (m PacketMode) String() string {
	if m == ModeStandard {
		return "Standard"
	}
	return "Compact"
}

// MessageType identifies the payload codec carried by a packet. It is a
// 4-bit field in Compact headers and a 6-bit field in Standard headers;
// values above 15 therefore always force Standard mode.
type MessageType uint8

const (
	MessageTypeSosBeacon MessageType = 1
	MessageTypeSosAck    MessageType = 2
	MessageTypeLocation  MessageType = 3
	MessageTypeTextShort MessageType = 4
	MessageTypeAck       MessageType = 5
	MessageTypeNack      MessageType = 6

	// MessageTypeChallengeRequest and MessageTypeChallengeResponse carry a
	// ChallengeBlock (bitpack/crypto) and always require Standard mode:
	// their codes do not fit the 4-bit Compact type field.
	MessageTypeChallengeRequest  MessageType = 16
	MessageTypeChallengeResponse MessageType = 17
)

// messageTypeNames maps known type codes to display names.
var messageTypeNames = map[MessageType]string{
	MessageTypeSosBeacon:         "SosBeacon",
	MessageTypeSosAck:            "SosAck",
	MessageTypeLocation:          "Location",
	MessageTypeTextShort:         "TextShort",
	MessageTypeAck:               "Ack",
	MessageTypeNack:               "Nack",
	MessageTypeChallengeRequest:  "ChallengeRequest",
	MessageTypeChallengeResponse: "ChallengeResponse",
}

// messageTypeFromCode recovers the enum variant for a wire code; the zero
// value ok=false means the code is unknown and decoding must fail.
func messageTypeFromCode(code uint8) (MessageType, bool) {
	t := MessageType(code)
	_, ok := messageTypeNames[t]
	return t, ok
}

func (t MessageType) String() string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint8(t))
}

// CompactCompatible reports whether t fits the 4-bit Compact type field.
func (t MessageType) CompactCompatible() bool { return t <= 0x0F }

// RequiresStandardMode reports whether t can only ever be carried in a
// Standard header (type code too wide, or semantically always-Standard).
func (t MessageType) RequiresStandardMode() bool { return !t.CompactCompatible() }

// SecurityMode selects the cryptographic envelope applied to a packet's
// payload. It is a 3-bit field.
type SecurityMode uint8

const (
	SecurityModeNone      SecurityMode = 0
	SecurityModeAes128Gcm SecurityMode = 1
	SecurityModeAes256Gcm SecurityMode = 2
)

var securityModeNames = map[SecurityMode]string{
	SecurityModeNone:      "None",
	SecurityModeAes128Gcm: "Aes128Gcm",
	SecurityModeAes256Gcm: "Aes256Gcm",
}

func (s SecurityMode) String() string {
	if name, ok := securityModeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(%d)", uint8(s))
}

// securityModeFromCode recovers the enum variant for a wire code.
func securityModeFromCode(code uint8) (SecurityMode, bool) {
	s := SecurityMode(code)
	_, ok := securityModeNames[s]
	return s, ok
}
