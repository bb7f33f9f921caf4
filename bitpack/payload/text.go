package payload

import (
	"fmt"

	"github.com/fzengin19/bitpack/bitpack/bperrors"
)

// TextPayload is a short free-text message with optional sender and
// recipient identifiers.
//
// Wire layout: byte0 = [hasSender|hasRecipient|reserved(6)], then optional
// [len(1)]senderID[len bytes], then optional [len(1)]recipientID[len
// bytes], then UTF-8 text running to the end of the payload.
type TextPayload struct {
	SenderID    string
	RecipientID string
	Text        string
}

// NewTextPayload validates and builds a TextPayload. Empty text is
// rejected at construction.
func NewTextPayload(senderID, recipientID, text string) (TextPayload, error) {
	if text == "" {
		return TextPayload{}, fmt.Errorf("text payload: empty text: %w", bperrors.ArgumentOutOfRange)
	}
	if len(senderID) > 255 || len(recipientID) > 255 {
		return TextPayload{}, fmt.Errorf("text payload: identifier longer than 255 bytes: %w", bperrors.ArgumentOutOfRange)
	}
	return TextPayload{SenderID: senderID, RecipientID: recipientID, Text: text}, nil
}

// SizeInBytes returns the encoded size.
func (p TextPayload) SizeInBytes() int {
	size := 1 + len(p.Text)
	if p.SenderID != "" {
		size += 1 + len(p.SenderID)
	}
	if p.RecipientID != "" {
		size += 1 + len(p.RecipientID)
	}
	return size
}

// Encode serializes p.
func (p TextPayload) Encode() ([]byte, error) {
	buf := make([]byte, 0, p.SizeInBytes())

	var flags byte
	if p.SenderID != "" {
		flags |= 1 << 7
	}
	if p.RecipientID != "" {
		flags |= 1 << 6
	}
	buf = append(buf, flags)

	if p.SenderID != "" {
		buf = append(buf, byte(len(p.SenderID)))
		buf = append(buf, p.SenderID...)
	}
	if p.RecipientID != "" {
		buf = append(buf, byte(len(p.RecipientID)))
		buf = append(buf, p.RecipientID...)
	}
	buf = append(buf, p.Text...)

	return buf, nil
}

// DecodeText decodes a TextPayload from buf.
func DecodeText(buf []byte) (TextPayload, error) {
	if len(buf) < 1 {
		return TextPayload{}, fmt.Errorf("text payload: empty buffer: %w", bperrors.InsufficientData)
	}
	flags := buf[0]
	off := 1

	p := TextPayload{}
	if flags&(1<<7) != 0 {
		id, next, err := readLengthPrefixed(buf, off)
		if err != nil {
			return TextPayload{}, err
		}
		p.SenderID, off = id, next
	}
	if flags&(1<<6) != 0 {
		id, next, err := readLengthPrefixed(buf, off)
		if err != nil {
			return TextPayload{}, err
		}
		p.RecipientID, off = id, next
	}
	if off > len(buf) {
		return TextPayload{}, fmt.Errorf("text payload: truncated: %w", bperrors.InsufficientData)
	}
	p.Text = string(buf[off:])
	if p.Text == "" {
		return TextPayload{}, fmt.Errorf("text payload: empty text: %w", bperrors.ArgumentOutOfRange)
	}
	return p, nil
}

func readLengthPrefixed(buf []byte, off int) (string, int, error) {
	if off >= len(buf) {
		return "", 0, fmt.Errorf("text payload: missing length byte: %w", bperrors.InsufficientData)
	}
	n := int(buf[off])
	off++
	if off+n > len(buf) {
		return "", 0, fmt.Errorf("text payload: identifier truncated: %w", bperrors.InsufficientData)
	}
	return string(buf[off : off+n]), off + n, nil
}
