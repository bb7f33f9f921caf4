// Package crypto implements BitPack's cryptographic envelope: PBKDF2 key
// derivation, AES-GCM authenticated encryption, and the zero-knowledge
// challenge block used to prove possession of a shared secret without
// transmitting it.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/fzengin19/bitpack/bitpack/bperrors"
)

// Key sizes, in bytes, selected by header.SecurityMode.
const (
	KeySize128 = 16
	KeySize256 = 32
)

// SaltSize is the PBKDF2 salt length GenerateSalt produces.
const SaltSize = 16

// MinSaltSize is the shortest salt DeriveKey accepts.
const MinSaltSize = 8

// DefaultIterations is the PBKDF2 round count callers should pass when they
// have no reason to deviate. DeriveKey accepts any count from
// MinIterations to MaxIterations; a higher count makes the derivation
// slower to brute-force.
const DefaultIterations = 10_000

// MinIterations and MaxIterations bound the iterations argument DeriveKey
// accepts.
const (
	MinIterations = 1_000
	MaxIterations = 1_000_000
)

// MessageSaltSize is the length of the deterministic salt CreateMessageSalt
// returns: an 8-byte prefix of each endpoint id plus a 4-byte message id.
const MessageSaltSize = 8 + 8 + 4

// GenerateSalt returns SaltSize cryptographically random bytes.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("crypto: generate salt: %w", bperrors.KeyDerivationFailed)
	}
	return salt, nil
}

// CreateMessageSalt derives a deterministic 20-byte salt from a message's
// endpoints and id: senderID[0:8] || recipientID[0:8] || messageID (big
// endian u32). Two peers deriving a per-message key independently arrive at
// the same salt without exchanging one, as long as they agree on senderID,
// recipientID, and messageID.
func CreateMessageSalt(senderID, recipientID []byte, messageID uint32) ([]byte, error) {
	if len(senderID) < 8 {
		return nil, fmt.Errorf("crypto: sender id length %d below 8: %w", len(senderID), bperrors.ArgumentOutOfRange)
	}
	if len(recipientID) < 8 {
		return nil, fmt.Errorf("crypto: recipient id length %d below 8: %w", len(recipientID), bperrors.ArgumentOutOfRange)
	}

	salt := make([]byte, 0, MessageSaltSize)
	salt = append(salt, senderID[:8]...)
	salt = append(salt, recipientID[:8]...)
	salt = append(salt, byte(messageID>>24), byte(messageID>>16), byte(messageID>>8), byte(messageID))
	return salt, nil
}

// DeriveKey runs PBKDF2-HMAC-SHA256 over passphrase with salt for the given
// number of iterations, producing a key of keySize bytes (KeySize128 or
// KeySize256).
func DeriveKey(passphrase string, salt []byte, keySize, iterations int) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("crypto: empty passphrase: %w", bperrors.KeyDerivationFailed)
	}
	if keySize != KeySize128 && keySize != KeySize256 {
		return nil, fmt.Errorf("crypto: key size %d must be %d or %d: %w",
			keySize, KeySize128, KeySize256, bperrors.ArgumentOutOfRange)
	}
	if len(salt) < MinSaltSize {
		return nil, fmt.Errorf("crypto: salt length %d below minimum %d: %w", len(salt), MinSaltSize, bperrors.KeyDerivationFailed)
	}
	if iterations < MinIterations || iterations > MaxIterations {
		return nil, fmt.Errorf("crypto: iterations %d outside [%d,%d]: %w",
			iterations, MinIterations, MaxIterations, bperrors.ArgumentOutOfRange)
	}
	return pbkdf2.Key([]byte(passphrase), salt, iterations, keySize, sha256.New), nil
}

// KeyDerivationResult is the payload delivered on the channel returned by
// DeriveKeyAsync.
type KeyDerivationResult struct {
	Key []byte
	Err error
}

// DeriveKeyAsync runs DeriveKey on its own goroutine and returns a channel
// that receives exactly one result, so a caller can derive a key without
// blocking its own goroutine.
func DeriveKeyAsync(passphrase string, salt []byte, keySize, iterations int) <-chan KeyDerivationResult {
	out := make(chan KeyDerivationResult, 1)
	go func() {
		key, err := DeriveKey(passphrase, salt, keySize, iterations)
		out <- KeyDerivationResult{Key: key, Err: err}
	}()
	return out
}
