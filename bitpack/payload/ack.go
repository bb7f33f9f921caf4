package payload

import (
	"fmt"

	"github.com/fzengin19/bitpack/bitpack/bperrors"
)

// AckStatus is the 8-bit delivery status carried by an AckPayload.
type AckStatus uint8

const (
	AckStatusReceived  AckStatus = 0
	AckStatusDelivered AckStatus = 1
	AckStatusRead      AckStatus = 2
	AckStatusFailed    AckStatus = 3
	AckStatusRejected  AckStatus = 4
	AckStatusRelayed   AckStatus = 5
)

var knownAckStatuses = map[AckStatus]bool{
	AckStatusReceived: true, AckStatusDelivered: true, AckStatusRead: true,
	AckStatusFailed: true, AckStatusRejected: true, AckStatusRelayed: true,
}

// AckPayload acknowledges a previously sent message ID.
//
// Compact wire form (3 bytes): msgID(u16) | status(u8).
// Standard wire form (5 bytes): msgID(u32) | status(u8).
// When Status is Failed, a [len(u8)]reason UTF-8 string may follow.
type AckPayload struct {
	MsgID  uint32
	Status AckStatus
	Reason string
}

// SizeInBytes returns the encoded size for the given header mode.
func (p AckPayload) SizeInBytes(compact bool) int {
	size := 1 // status
	if compact {
		size += 2
	} else {
		size += 4
	}
	if p.Status == AckStatusFailed && p.Reason != "" {
		size += 1 + len(p.Reason)
	}
	return size
}

// Encode serializes p using the Compact (u16 msgID) or Standard (u32
// msgID) wire form.
func (p AckPayload) Encode(compact bool) ([]byte, error) {
	if compact && p.MsgID > 0xFFFF {
		return nil, fmt.Errorf("ack payload: message id %d exceeds compact u16 range: %w", p.MsgID, bperrors.ArgumentOutOfRange)
	}
	if p.Status == AckStatusFailed && len(p.Reason) > 255 {
		return nil, fmt.Errorf("ack payload: reason longer than 255 bytes: %w", bperrors.ArgumentOutOfRange)
	}

	buf := make([]byte, 0, p.SizeInBytes(compact))
	if compact {
		buf = append(buf, byte(p.MsgID>>8), byte(p.MsgID))
	} else {
		buf = append(buf, byte(p.MsgID>>24), byte(p.MsgID>>16), byte(p.MsgID>>8), byte(p.MsgID))
	}
	buf = append(buf, byte(p.Status))

	if p.Status == AckStatusFailed && p.Reason != "" {
		buf = append(buf, byte(len(p.Reason)))
		buf = append(buf, p.Reason...)
	}
	return buf, nil
}

// DecodeAck decodes an AckPayload from buf. strict controls how an
// unrecognized status code is handled: false silently maps it to
// AckStatusReceived (the permissive default, which can mask
// protocol-version skew between peers); true returns UnknownType.
func DecodeAck(buf []byte, compact, strict bool) (AckPayload, error) {
	idSize := 4
	if compact {
		idSize = 2
	}
	if len(buf) < idSize+1 {
		return AckPayload{}, fmt.Errorf("ack payload: need %d bytes, got %d: %w", idSize+1, len(buf), bperrors.InsufficientData)
	}

	var msgID uint32
	if compact {
		msgID = uint32(buf[0])<<8 | uint32(buf[1])
	} else {
		msgID = uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	}

	code := AckStatus(buf[idSize])
	if !knownAckStatuses[code] {
		if strict {
			return AckPayload{}, fmt.Errorf("ack payload: status code %d: %w", code, bperrors.UnknownType)
		}
		code = AckStatusReceived
	}

	p := AckPayload{MsgID: msgID, Status: code}
	off := idSize + 1
	if code == AckStatusFailed && off < len(buf) {
		n := int(buf[off])
		off++
		if off+n > len(buf) {
			return AckPayload{}, fmt.Errorf("ack payload: reason truncated: %w", bperrors.InsufficientData)
		}
		p.Reason = string(buf[off : off+n])
	}
	return p, nil
}
