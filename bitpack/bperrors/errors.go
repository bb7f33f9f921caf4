// Package bperrors defines BitPack's typed failure taxonomy.
//
// Encoder misuse (a field outside its declared domain) and decoder input
// corruption are deliberately never conflated: ArgumentOutOfRange is raised
// only at construction/encode time, everything else is a decode-time or
// crypto-time failure. Callers match on the sentinel with errors.Is.
package bperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors. Wrap these with fmt.Errorf("...: %w", Err...) to attach
// detail; never translate one kind into another.
var (
	// ArgumentOutOfRange is raised when an encoder is fed a field outside
	// its declared domain (e.g. a Compact TTL of 20). Caller bug: fail
	// fast, emit no bytes.
	ArgumentOutOfRange = errors.New("bitpack: argument out of range")

	// InsufficientData is raised when a buffer is shorter than the
	// header/payload/crypto prefix required to decode it.
	InsufficientData = errors.New("bitpack: insufficient data")

	// InvalidMode is raised when the mode bit disagrees with the header
	// variant the caller asked to decode.
	InvalidMode = errors.New("bitpack: invalid mode")

	// UnknownType is raised when a message type code has no known mapping.
	UnknownType = errors.New("bitpack: unknown message type")

	// UnknownSecurityMode is raised when a security mode code has no
	// known mapping.
	UnknownSecurityMode = errors.New("bitpack: unknown security mode")

	// CrcMismatch is raised when the trailing CRC-8 disagrees with the
	// computed CRC-8 over header||payload.
	CrcMismatch = errors.New("bitpack: crc mismatch")

	// InvalidBcdNibble is raised on a BCD nibble that is neither a digit
	// (0x0-0x9) nor the 0xF pad/sentinel.
	InvalidBcdNibble = errors.New("bitpack: invalid bcd nibble")

	// VarIntTruncated is raised when a varint continues past the end of
	// the buffer, or past the 5-byte maximum for a 32-bit value.
	VarIntTruncated = errors.New("bitpack: varint truncated")

	// InvalidCoordinate is raised when a decoded GPS fixed-point value
	// falls outside valid latitude/longitude range.
	InvalidCoordinate = errors.New("bitpack: invalid coordinate")

	// AuthenticationFailed is raised when AES-GCM tag verification fails
	// (wrong key, tampered ciphertext, or mismatched AAD). The core never
	// reveals which of the three was wrong.
	AuthenticationFailed = errors.New("bitpack: authentication failed")

	// KeyDerivationFailed is raised on PBKDF2 parameter validation or
	// primitive failure. Caller bug or RNG failure: fail fast.
	KeyDerivationFailed = errors.New("bitpack: key derivation failed")

	// ChallengeVerificationFailed is raised by VerifyOrThrow on magic
	// mismatch or decryption failure.
	ChallengeVerificationFailed = errors.New("bitpack: challenge verification failed")

	// MessageExpired names the relay-side failure of a decoded header
	// whose current age has reached the hard cap.
	//
	// MessageExpired, HopLimitReached and AgeLimitReached are not returned
	// by any function in this module: internal/relay reports its drops as
	// Decision.Reason strings instead.
	MessageExpired = errors.New("bitpack: message expired")

	// HopLimitReached names the relay-side failure of a decoded header
	// whose hop/TTL has reached zero.
	HopLimitReached = errors.New("bitpack: hop limit reached")

	// AgeLimitReached names the relay-side failure of a decoded header
	// whose current age has reached the expiry threshold.
	AgeLimitReached = errors.New("bitpack: age limit reached")
)

// CrcMismatchError carries the expected and actual CRC-8 values for a
// failed trailer check.
type CrcMismatchError struct {
	Expected byte
	Actual   byte
}

func (e *CrcMismatchError) Error() string {
	return fmt.Sprintf("bitpack: crc mismatch: expected 0x%02x, got 0x%02x", e.Expected, e.Actual)
}

func (e *CrcMismatchError) Unwrap() error { return CrcMismatch }

// NewCrcMismatch builds a CrcMismatchError wrapping the CrcMismatch sentinel.
func NewCrcMismatch(expected, actual byte) error {
	return &CrcMismatchError{Expected: expected, Actual: actual}
}
