package packet

import (
	"errors"
	"testing"

	"github.com/fzengin19/bitpack/bitpack/bits"
	"github.com/fzengin19/bitpack/bitpack/bperrors"
	"github.com/fzengin19/bitpack/bitpack/crypto"
	"github.com/fzengin19/bitpack/bitpack/header"
	"github.com/fzengin19/bitpack/bitpack/payload"
)

func TestCompactPacketRoundTrip(t *testing.T) {
	loc, _ := bits.NewGPS(41.0082, 28.9784)
	sos, err := payload.NewSosPayload(payload.SosTypeTrapped, 3, true, true, loc, "5551234567", -10, 55)
	if err != nil {
		t.Fatalf("NewSosPayload: %v", err)
	}
	sosBytes, err := sos.Encode()
	if err != nil {
		t.Fatalf("sos Encode: %v", err)
	}

	h, err := header.NewCompactHeader(header.MessageTypeSosBeacon, header.PacketFlags{AckRequested: true}, 7, 42)
	if err != nil {
		t.Fatalf("NewCompactHeader: %v", err)
	}

	pkt := New(h, sosBytes)
	wire := pkt.Encode()
	if len(wire) != pkt.ComputeSize() {
		t.Fatalf("wire length = %d, want %d", len(wire), pkt.ComputeSize())
	}
	if len(wire) != header.CompactHeaderSize+payload.SosSize+1 {
		t.Fatalf("wire length = %d, want %d", len(wire), header.CompactHeaderSize+payload.SosSize+1)
	}

	got, err := Decode(wire)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.Header.Type() != header.MessageTypeSosBeacon {
		t.Fatalf("type = %v, want SosBeacon", got.Header.Type())
	}

	decoded, err := DecodeTypedPayload(got.Header, got.Payload)
	if err != nil {
		t.Fatalf("DecodeTypedPayload: %v", err)
	}
	gotSos, ok := decoded.(payload.SosPayload)
	if !ok {
		t.Fatalf("decoded type = %T, want payload.SosPayload", decoded)
	}
	if gotSos != sos {
		t.Fatalf("sos roundtrip mismatch: got %+v, want %+v", gotSos, sos)
	}
}

func TestPacketDecodeRejectsCrcMismatch(t *testing.T) {
	h, _ := header.NewCompactHeader(header.MessageTypeAck, header.PacketFlags{}, 3, 1)
	ack := payload.AckPayload{MsgID: 1, Status: payload.AckStatusReceived}
	ackBytes, err := ack.Encode(true)
	if err != nil {
		t.Fatalf("ack Encode: %v", err)
	}

	wire := New(h, ackBytes).Encode()
	wire[len(wire)-1] ^= 0xFF // corrupt the CRC trailer

	_, err = Decode(wire)
	var crcErr *bperrors.CrcMismatchError
	if !errors.As(err, &crcErr) {
		t.Fatalf("expected CrcMismatchError, got %v", err)
	}
}

func TestStandardPacketRoundTripWithEncryption(t *testing.T) {
	key := make([]byte, crypto.KeySize128)
	for i := range key {
		key[i] = byte(i + 1)
	}

	text, err := payload.NewTextPayload("relay-3", "relay-9", "bridge is out, reroute via valley road")
	if err != nil {
		t.Fatalf("NewTextPayload: %v", err)
	}
	plaintext, err := text.Encode()
	if err != nil {
		t.Fatalf("text Encode: %v", err)
	}

	h, err := header.NewStandardHeader(header.MessageTypeTextShort, header.PacketFlags{Encrypted: true}, 5, 777,
		header.SecurityModeAes128Gcm, 0, 0)
	if err != nil {
		t.Fatalf("NewStandardHeader: %v", err)
	}

	sealed, err := EncryptPayload(&h, plaintext, key)
	if err != nil {
		t.Fatalf("EncryptPayload: %v", err)
	}
	h.PayloadLength = uint16(len(sealed.Payload))
	sealed.Header = &h

	wire := sealed.Encode()

	decodedPkt, err := Decode(wire)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	opened, err := DecryptPayload(decodedPkt, key)
	if err != nil {
		t.Fatalf("DecryptPayload: %v", err)
	}

	gotText, err := payload.DecodeText(opened.Payload)
	if err != nil {
		t.Fatalf("DecodeText: %v", err)
	}
	if gotText != text {
		t.Fatalf("text roundtrip mismatch: got %+v, want %+v", gotText, text)
	}
}

func TestStandardPacketDecryptRejectsWrongKey(t *testing.T) {
	key := make([]byte, crypto.KeySize128)
	wrongKey := make([]byte, crypto.KeySize128)
	wrongKey[0] = 0xAA

	ack := payload.AckPayload{MsgID: 9, Status: payload.AckStatusDelivered}
	plaintext, _ := ack.Encode(false)

	h, err := header.NewStandardHeader(header.MessageTypeAck, header.PacketFlags{Encrypted: true}, 5, 9,
		header.SecurityModeAes128Gcm, 0, 0)
	if err != nil {
		t.Fatalf("NewStandardHeader: %v", err)
	}
	sealed, err := EncryptPayload(&h, plaintext, key)
	if err != nil {
		t.Fatalf("EncryptPayload: %v", err)
	}
	h.PayloadLength = uint16(len(sealed.Payload))
	sealed.Header = &h

	if _, err := DecryptPayload(sealed, wrongKey); !errors.Is(err, bperrors.AuthenticationFailed) {
		t.Fatalf("expected AuthenticationFailed, got %v", err)
	}
}
