package crypto

import (
	"bytes"
	"crypto/rand"
	"fmt"

	"github.com/fzengin19/bitpack/bitpack/bperrors"
)

// challengeMagic identifies a decrypted challenge plaintext as genuine
// rather than an accidental successful decrypt under the wrong key (GCM's
// tag already rules that out, but the magic lets a verifier fail fast and
// gives the wire format a recognizable shape).
var challengeMagic = [8]byte{'B', 'I', 'T', 'P', 'A', 'C', 'K', 0x00}

// ChallengePlaintextSize is magic(8) + random nonce(8).
const ChallengePlaintextSize = 8 + 8

// ChallengeEnvelopeSize is the wire size of an encrypted ChallengeBlock:
// GCM nonce(12) + ChallengePlaintextSize(16) + tag(16).
const ChallengeEnvelopeSize = NonceSize + ChallengePlaintextSize + TagSize

// ChallengeBlock is a zero-knowledge proof of shared-secret possession: a
// magic-prefixed random plaintext, sealed with AES-GCM under the shared
// key. A peer that can produce Verify==true for a block it did not create
// has demonstrated it holds the same key, without the key ever crossing
// the wire.
type ChallengeBlock struct {
	Envelope []byte // ChallengeEnvelopeSize bytes
}

// Create builds a new ChallengeBlock sealed under key.
func Create(key []byte) (ChallengeBlock, error) {
	block, _, err := CreatePair(key)
	return block, err
}

// Verify reports whether b decrypts under key to a well-formed challenge
// plaintext (correct length and magic prefix). It never returns an error
// for an authentication failure; ok=false covers that case.
func (b ChallengeBlock) Verify(key []byte) (ok bool, err error) {
	plaintext, decErr := Decrypt(key, b.Envelope)
	if decErr != nil {
		return false, nil
	}
	if len(plaintext) != ChallengePlaintextSize {
		return false, nil
	}
	return bytes.Equal(plaintext[:8], challengeMagic[:]), nil
}

// VerifyOrThrow is Verify but returns bperrors.ChallengeVerificationFailed
// instead of ok=false, for callers that want an error-return control flow.
func (b ChallengeBlock) VerifyOrThrow(key []byte) error {
	ok, err := b.Verify(key)
	if err != nil {
		return err
	}
	if !ok {
		return bperrors.ChallengeVerificationFailed
	}
	return nil
}

// CreatePair builds one ChallengeBlock and returns it alongside the
// plaintext it seals, for transports that need to cache the expected
// response instead of re-decrypting the envelope on every comparison: a
// verifier holding plaintext can compare a peer's returned plaintext
// directly, without holding the key itself.
func CreatePair(key []byte) (block ChallengeBlock, plaintext []byte, err error) {
	plaintext = make([]byte, 0, ChallengePlaintextSize)
	plaintext = append(plaintext, challengeMagic[:]...)

	random := make([]byte, 8)
	if _, err := rand.Read(random); err != nil {
		return ChallengeBlock{}, nil, fmt.Errorf("crypto: challenge random: %w", bperrors.ChallengeVerificationFailed)
	}
	plaintext = append(plaintext, random...)

	envelope, err := Encrypt(key, plaintext)
	if err != nil {
		return ChallengeBlock{}, nil, err
	}
	return ChallengeBlock{Envelope: envelope}, plaintext, nil
}
