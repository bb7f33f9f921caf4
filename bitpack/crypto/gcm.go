package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"github.com/fzengin19/bitpack/bitpack/bperrors"
)

// NonceSize is the AES-GCM nonce length.
const NonceSize = 12

// TagSize is the AES-GCM authentication tag length.
const TagSize = 16

// Encrypt seals plaintext under key with no additional authenticated
// data, returning nonce||ciphertext||tag.
func Encrypt(key, plaintext []byte) ([]byte, error) {
	return EncryptWithHeader(key, nil, plaintext)
}

// Decrypt opens a nonce||ciphertext||tag envelope produced by Encrypt.
func Decrypt(key, envelope []byte) ([]byte, error) {
	return DecryptWithHeader(key, nil, envelope)
}

// EncryptWithHeader seals plaintext under key, binding aad (typically the
// encoded packet header) as additional authenticated data. The returned
// envelope is nonce||ciphertext||tag.
func EncryptWithHeader(key, aad, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("crypto: generate nonce: %w", bperrors.AuthenticationFailed)
	}

	sealed := gcm.Seal(nil, nonce, plaintext, aad)
	return append(nonce, sealed...), nil
}

// DecryptWithHeader opens a nonce||ciphertext||tag envelope produced by
// EncryptWithHeader, verifying it against the same aad used to seal it.
func DecryptWithHeader(key, aad, envelope []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(envelope) < NonceSize+TagSize {
		return nil, fmt.Errorf("crypto: envelope shorter than nonce+tag: %w", bperrors.InsufficientData)
	}

	nonce, sealed := envelope[:NonceSize], envelope[NonceSize:]
	plaintext, err := gcm.Open(nil, nonce, sealed, aad)
	if err != nil {
		return nil, fmt.Errorf("crypto: gcm open: %w", bperrors.AuthenticationFailed)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize128 && len(key) != KeySize256 {
		return nil, fmt.Errorf("crypto: key length %d must be %d or %d: %w",
			len(key), KeySize128, KeySize256, bperrors.ArgumentOutOfRange)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: new aes cipher: %w", bperrors.KeyDerivationFailed)
	}
	gcm, err := cipher.NewGCMWithTagSize(block, TagSize)
	if err != nil {
		return nil, fmt.Errorf("crypto: new gcm: %w", bperrors.KeyDerivationFailed)
	}
	return gcm, nil
}
