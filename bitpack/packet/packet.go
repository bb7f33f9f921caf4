// Package packet assembles and disassembles complete BitPack frames: a
// header (bitpack/header), a typed payload (bitpack/payload), an optional
// AES-GCM envelope (bitpack/crypto) when the header's security mode is
// non-None, and a trailing CRC-8 checksum over header||payload.
package packet

import (
	"fmt"

	"github.com/fzengin19/bitpack/bitpack/bits"
	"github.com/fzengin19/bitpack/bitpack/bperrors"
	"github.com/fzengin19/bitpack/bitpack/crypto"
	"github.com/fzengin19/bitpack/bitpack/header"
	"github.com/fzengin19/bitpack/bitpack/payload"
)

// Packet is a fully assembled frame: a decoded header and the payload
// bytes that belong to it (plaintext; any encryption has already been
// removed by Decode, or not yet applied by Encode).
type Packet struct {
	Header  header.Header
	Payload []byte
}

// New builds a Packet from h and payload as given. It does not set or
// check a Standard header's PayloadLength field: callers size the header
// themselves (e.g. via header.CreateAuto) before encoding.
func New(h header.Header, payload []byte) Packet {
	return Packet{Header: h, Payload: payload}
}

// ComputeSize returns the total wire size of p once encoded: header +
// payload + 1 CRC-8 trailer byte.
func (p Packet) ComputeSize() int {
	return p.Header.SizeInBytes() + len(p.Payload) + 1
}

// Encode serializes p to header||payload||crc8(header||payload). Payload
// is taken as-is: callers that need encryption must have already run it
// through bitpack/crypto and set the header's security mode accordingly.
func (p Packet) Encode() []byte {
	headerBytes := p.Header.Encode()
	buf := make([]byte, 0, p.ComputeSize())
	buf = append(buf, headerBytes...)
	buf = append(buf, p.Payload...)
	buf = append(buf, bits.CRC8(buf))
	return buf
}

// Decode parses a complete frame from buf: header, payload, and CRC-8
// trailer. The payload is NOT decrypted even if the header's security
// mode is non-None; call DecryptPayload with the shared key afterward.
func Decode(buf []byte) (Packet, error) {
	h, rest, err := header.DecodeWithPayload(buf)
	if err != nil {
		return Packet{}, err
	}

	payloadLen := payloadLengthOf(h, len(rest)-1)
	if payloadLen < 0 || len(rest) < payloadLen+1 {
		return Packet{}, fmt.Errorf("packet: buffer too short for declared payload: %w", bperrors.InsufficientData)
	}

	framed := buf[:h.SizeInBytes()+payloadLen]
	wantCRC := rest[payloadLen]
	gotCRC := bits.CRC8(framed)
	if wantCRC != gotCRC {
		return Packet{}, bperrors.NewCrcMismatch(wantCRC, gotCRC)
	}

	return Packet{Header: h, Payload: rest[:payloadLen]}, nil
}

// payloadLengthOf returns the payload length to trust for framing: a
// Standard header carries an explicit PayloadLength field; a Compact
// header carries none, so the whole remainder (minus the 1-byte CRC
// trailer) is assumed to be payload.
func payloadLengthOf(h header.Header, remainderMinusCRC int) int {
	if sh, ok := h.(*header.StandardHeader); ok {
		return int(sh.PayloadLength)
	}
	return remainderMinusCRC
}

// DecryptPayload decrypts p.Payload using key and returns a new Packet
// holding the plaintext, treating the
// encoded header bytes as additional authenticated data when the header
// carries a non-None security mode. It is a no-op (returns p unchanged)
// when the header's security mode is None.
func DecryptPayload(p Packet, key []byte) (Packet, error) {
	h, ok := p.Header.(*header.StandardHeader)
	if !ok {
		return p, nil
	}
	if h.Security == header.SecurityModeNone {
		return p, nil
	}

	plaintext, err := crypto.DecryptWithHeader(key, h.Encode(), p.Payload)
	if err != nil {
		return Packet{}, err
	}
	return Packet{Header: p.Header, Payload: plaintext}, nil
}

// EncryptPayload encrypts plaintext with key, using the encoded header
// bytes as additional authenticated data, and returns a Packet whose
// Payload is the resulting ciphertext. The header's security mode must
// already reflect the cipher being used (Aes128Gcm or Aes256Gcm).
func EncryptPayload(h *header.StandardHeader, plaintext, key []byte) (Packet, error) {
	if h.Security == header.SecurityModeNone {
		return Packet{}, fmt.Errorf("packet: header security mode is None: %w", bperrors.UnknownSecurityMode)
	}
	ciphertext, err := crypto.EncryptWithHeader(key, h.Encode(), plaintext)
	if err != nil {
		return Packet{}, err
	}
	return Packet{Header: h, Payload: ciphertext}, nil
}

// DecodeTypedPayload dispatches p.Payload to the payload codec matching
// h.Type(), returning the concrete typed value (payload.SosPayload,
// payload.LocationPayload, ...) as an any. Callers type-switch on the
// result.
func DecodeTypedPayload(h header.Header, buf []byte) (any, error) {
	switch h.Type() {
	case header.MessageTypeSosBeacon:
		return payload.DecodeSos(buf)
	case header.MessageTypeLocation:
		extended := len(buf) >= payload.LocationExtendedSize
		return payload.DecodeLocation(buf, extended)
	case header.MessageTypeTextShort:
		return payload.DecodeText(buf)
	case header.MessageTypeAck, header.MessageTypeSosAck:
		return payload.DecodeAck(buf, h.Mode() == header.ModeCompact, false)
	case header.MessageTypeNack:
		return payload.DecodeNack(buf)
	default:
		return nil, fmt.Errorf("packet: no payload codec for type %s: %w", h.Type(), bperrors.UnknownType)
	}
}
