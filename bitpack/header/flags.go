package header

// PacketFlags is the set of boolean flags a packet may carry. Standard
// headers encode all seven in a single byte (the lowest bit is reserved);
// Compact headers can only
// represent mesh/ackRequested/encrypted (byte 0) and compressed/urgent
// (byte 1) -- Compact therefore cannot express fragmentation.
type PacketFlags struct {
	Mesh           bool
	AckRequested   bool
	Encrypted      bool
	Compressed     bool
	Urgent         bool
	IsFragment     bool
	MoreFragments  bool
}

// RequiresStandardMode reports whether any flag set on f can only be
// represented in a Standard header.
func (f PacketFlags) RequiresStandardMode() bool {
	return f.IsFragment || f.MoreFragments
}

// EncodeStandard packs all eight flag bits into a single byte, MSB-first:
// mesh, ackRequested, encrypted, compressed, urgent, isFragment,
// moreFragments, reserved.
func (f PacketFlags) EncodeStandard() byte {
	var b byte
	if f.Mesh {
		b |= 1 << 7
	}
	if f.AckRequested {
		b |= 1 << 6
	}
	if f.Encrypted {
		b |= 1 << 5
	}
	if f.Compressed {
		b |= 1 << 4
	}
	if f.Urgent {
		b |= 1 << 3
	}
	if f.IsFragment {
		b |= 1 << 2
	}
	if f.MoreFragments {
		b |= 1 << 1
	}
	return b
}

// DecodeStandardFlags unpacks a Standard flags byte.
func DecodeStandardFlags(b byte) PacketFlags {
	return PacketFlags{
		Mesh:          b&(1<<7) != 0,
		AckRequested:  b&(1<<6) != 0,
		Encrypted:     b&(1<<5) != 0,
		Compressed:    b&(1<<4) != 0,
		Urgent:        b&(1<<3) != 0,
		IsFragment:    b&(1<<2) != 0,
		MoreFragments: b&(1<<1) != 0,
	}
}

// encodeCompactByte0Bits packs mesh/ackRequested/encrypted into the low 3
// bits of Compact header byte 0 (bits 2-0; bits 6-3 hold the message type).
func (f PacketFlags) encodeCompactByte0Bits() byte {
	var b byte
	if f.Mesh {
		b |= 1 << 2
	}
	if f.AckRequested {
		b |= 1 << 1
	}
	if f.Encrypted {
		b |= 1 << 0
	}
	return b
}

// encodeCompactByte1Bits packs compressed/urgent into bits 3-2 of Compact
// header byte 1 (bits 7-4 hold the TTL; bits 1-0 are reserved).
func (f PacketFlags) encodeCompactByte1Bits() byte {
	var b byte
	if f.Compressed {
		b |= 1 << 3
	}
	if f.Urgent {
		b |= 1 << 2
	}
	return b
}

// decodeCompactFlags reconstructs a PacketFlags from Compact header bytes 0
// and 1. Compact cannot represent fragmentation, so those fields are always
// false.
func decodeCompactFlags(byte0, byte1 byte) PacketFlags {
	return PacketFlags{
		Mesh:         byte0&(1<<2) != 0,
		AckRequested: byte0&(1<<1) != 0,
		Encrypted:    byte0&(1<<0) != 0,
		Compressed:   byte1&(1<<3) != 0,
		Urgent:       byte1&(1<<2) != 0,
	}
}
