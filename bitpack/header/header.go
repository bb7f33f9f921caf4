package header

// Header is the capability set common to both header variants. Callers
// that don't care which variant they hold can work entirely through this
// interface; callers that do care type-switch on the concrete type.
type Header interface {
	Mode() PacketMode
	Type() MessageType
	Flags() PacketFlags
	TTL() uint8
	MessageID() uint32
	SizeInBytes() int
	IsExpired() bool
	Encode() []byte
}

// Wire-stable size constants.
const (
	CompactHeaderSize  = 4
	StandardHeaderSize = 11

	// CompactMaxTTL is the largest value the 4-bit Compact TTL field holds.
	CompactMaxTTL = 15
	// StandardMaxTTL is the largest value the 8-bit Standard hop TTL holds.
	StandardMaxTTL = 255
	// DefaultHopTTL is the hop count new packets are created with.
	DefaultHopTTL = 7

	// MaxPayloadLength is the largest value the 13-bit Standard payload
	// length field holds.
	MaxPayloadLength = 8191
	// MaxAgeMinutes is the hard cap on the 16-bit Standard age field.
	MaxAgeMinutes = 65535
	// ExpiryThresholdMinutes is the age (24h) at which a packet is
	// considered expired regardless of hop TTL.
	ExpiryThresholdMinutes = 24 * 60

	// MaxCompactPayloadSize is the chosen ceiling for Compact-mode
	// payloads: BLE 4.2's 20-byte MTU minus the 4-byte Compact header. The
	// trailing CRC byte is transport framing and is not counted against
	// the MTU budget. No encoder or decoder checks it: packet.Encode and
	// packet.Decode accept Compact payloads of any length.
	MaxCompactPayloadSize = 16

	// AutoSelectCompactPayloadCeiling is the payload size above which
	// CreateAuto forces Standard mode.
	AutoSelectCompactPayloadCeiling = 15
)
