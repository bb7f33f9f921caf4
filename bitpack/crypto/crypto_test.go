package crypto

import (
	"bytes"
	"errors"
	"testing"

	"github.com/fzengin19/bitpack/bitpack/bperrors"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	k1, err := DeriveKey("correct horse battery staple", salt, KeySize256, DefaultIterations)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	k2, err := DeriveKey("correct horse battery staple", salt, KeySize256, DefaultIterations)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	if !bytes.Equal(k1, k2) {
		t.Fatalf("same passphrase+salt produced different keys")
	}
	if len(k1) != KeySize256 {
		t.Fatalf("key length = %d, want %d", len(k1), KeySize256)
	}
}

func TestDeriveKeyDifferentSaltDifferentKey(t *testing.T) {
	salt1, _ := GenerateSalt()
	salt2, _ := GenerateSalt()
	k1, _ := DeriveKey("shared secret", salt1, KeySize128, DefaultIterations)
	k2, _ := DeriveKey("shared secret", salt2, KeySize128, DefaultIterations)
	if bytes.Equal(k1, k2) {
		t.Fatalf("different salts produced the same key")
	}
}

func TestDeriveKeyRejectsBadKeySize(t *testing.T) {
	salt, _ := GenerateSalt()
	if _, err := DeriveKey("x", salt, 24, DefaultIterations); !errors.Is(err, bperrors.ArgumentOutOfRange) {
		t.Fatalf("expected ArgumentOutOfRange, got %v", err)
	}
}

func TestDeriveKeyRejectsEmptyPassphrase(t *testing.T) {
	salt, _ := GenerateSalt()
	if _, err := DeriveKey("", salt, KeySize128, DefaultIterations); !errors.Is(err, bperrors.KeyDerivationFailed) {
		t.Fatalf("expected KeyDerivationFailed, got %v", err)
	}
}

func TestDeriveKeyRejectsShortSalt(t *testing.T) {
	if _, err := DeriveKey("x", make([]byte, MinSaltSize-1), KeySize128, DefaultIterations); !errors.Is(err, bperrors.KeyDerivationFailed) {
		t.Fatalf("expected KeyDerivationFailed, got %v", err)
	}
	if _, err := DeriveKey("x", make([]byte, MinSaltSize), KeySize128, DefaultIterations); err != nil {
		t.Fatalf("minimum-length salt rejected: %v", err)
	}
}

func TestDeriveKeyRejectsIterationsOutOfRange(t *testing.T) {
	salt, _ := GenerateSalt()
	if _, err := DeriveKey("x", salt, KeySize128, MinIterations-1); !errors.Is(err, bperrors.ArgumentOutOfRange) {
		t.Fatalf("expected ArgumentOutOfRange below MinIterations, got %v", err)
	}
	if _, err := DeriveKey("x", salt, KeySize128, MaxIterations+1); !errors.Is(err, bperrors.ArgumentOutOfRange) {
		t.Fatalf("expected ArgumentOutOfRange above MaxIterations, got %v", err)
	}
}

func TestDeriveKeyAsync(t *testing.T) {
	salt, _ := GenerateSalt()
	ch := DeriveKeyAsync("async secret", salt, KeySize128, DefaultIterations)
	result := <-ch
	if result.Err != nil {
		t.Fatalf("DeriveKeyAsync: %v", result.Err)
	}
	want, _ := DeriveKey("async secret", salt, KeySize128, DefaultIterations)
	if !bytes.Equal(result.Key, want) {
		t.Fatalf("async key does not match synchronous derivation")
	}
}

func TestCreateMessageSalt(t *testing.T) {
	sender := []byte("sender-0123456789")
	recipient := []byte("recipient-9876543210")

	salt, err := CreateMessageSalt(sender, recipient, 42)
	if err != nil {
		t.Fatalf("CreateMessageSalt: %v", err)
	}
	if len(salt) != MessageSaltSize {
		t.Fatalf("salt length = %d, want %d", len(salt), MessageSaltSize)
	}
	if !bytes.Equal(salt[:8], sender[:8]) {
		t.Fatalf("salt sender prefix = %x, want %x", salt[:8], sender[:8])
	}
	if !bytes.Equal(salt[8:16], recipient[:8]) {
		t.Fatalf("salt recipient prefix = %x, want %x", salt[8:16], recipient[:8])
	}
	wantID := []byte{0x00, 0x00, 0x00, 0x2a}
	if !bytes.Equal(salt[16:20], wantID) {
		t.Fatalf("salt message id = %x, want %x", salt[16:20], wantID)
	}

	again, err := CreateMessageSalt(sender, recipient, 42)
	if err != nil {
		t.Fatalf("CreateMessageSalt: %v", err)
	}
	if !bytes.Equal(salt, again) {
		t.Fatalf("CreateMessageSalt is not deterministic")
	}
}

func TestCreateMessageSaltRejectsShortIDs(t *testing.T) {
	if _, err := CreateMessageSalt([]byte("short"), make([]byte, 8), 1); !errors.Is(err, bperrors.ArgumentOutOfRange) {
		t.Fatalf("expected ArgumentOutOfRange for short sender id, got %v", err)
	}
	if _, err := CreateMessageSalt(make([]byte, 8), []byte("short"), 1); !errors.Is(err, bperrors.ArgumentOutOfRange) {
		t.Fatalf("expected ArgumentOutOfRange for short recipient id, got %v", err)
	}
}

func TestGcmRoundTrip(t *testing.T) {
	key := make([]byte, KeySize128)
	plaintext := []byte("help needed, north ridge, 3 people")

	envelope, err := Encrypt(key, plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if len(envelope) != NonceSize+len(plaintext)+TagSize {
		t.Fatalf("envelope length = %d, want %d", len(envelope), NonceSize+len(plaintext)+TagSize)
	}

	got, err := Decrypt(key, envelope)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("roundtrip mismatch: got %q, want %q", got, plaintext)
	}
}

func TestGcmWithHeaderAAD(t *testing.T) {
	key := make([]byte, KeySize256)
	for i := range key {
		key[i] = byte(i)
	}
	header := []byte{0x80, 0x01, 0x03, 0x00, 0x00, 0x00, 0x01, 0x20, 0x00, 0x00, 0x00}
	plaintext := []byte("0.0000000,0.0000000")

	envelope, err := EncryptWithHeader(key, header, plaintext)
	if err != nil {
		t.Fatalf("EncryptWithHeader: %v", err)
	}

	if _, err := DecryptWithHeader(key, []byte("tampered header!!!!"), envelope); err == nil {
		t.Fatalf("expected authentication failure with mismatched AAD")
	}

	got, err := DecryptWithHeader(key, header, envelope)
	if err != nil {
		t.Fatalf("DecryptWithHeader: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("roundtrip mismatch: got %q, want %q", got, plaintext)
	}
}

func TestGcmRejectsWrongKey(t *testing.T) {
	key := make([]byte, KeySize128)
	wrongKey := make([]byte, KeySize128)
	wrongKey[0] = 0xFF

	envelope, err := Encrypt(key, []byte("secret"))
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := Decrypt(wrongKey, envelope); !errors.Is(err, bperrors.AuthenticationFailed) {
		t.Fatalf("expected AuthenticationFailed, got %v", err)
	}
}

func TestGcmRejectsShortEnvelope(t *testing.T) {
	key := make([]byte, KeySize128)
	if _, err := Decrypt(key, make([]byte, 4)); !errors.Is(err, bperrors.InsufficientData) {
		t.Fatalf("expected InsufficientData, got %v", err)
	}
}

func TestChallengeVerifiesWithSameKey(t *testing.T) {
	key := make([]byte, KeySize256)
	for i := range key {
		key[i] = byte(i * 3)
	}

	block, err := Create(key)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(block.Envelope) != ChallengeEnvelopeSize {
		t.Fatalf("envelope length = %d, want %d", len(block.Envelope), ChallengeEnvelopeSize)
	}

	ok, err := block.Verify(key)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected challenge to verify under its own key")
	}
	if err := block.VerifyOrThrow(key); err != nil {
		t.Fatalf("VerifyOrThrow: %v", err)
	}
}

func TestChallengeFailsWithWrongKey(t *testing.T) {
	key := make([]byte, KeySize128)
	wrongKey := make([]byte, KeySize128)
	wrongKey[15] = 0x01

	block, err := Create(key)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	ok, err := block.Verify(wrongKey)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if ok {
		t.Fatalf("expected verification failure under wrong key")
	}
	if err := block.VerifyOrThrow(wrongKey); !errors.Is(err, bperrors.ChallengeVerificationFailed) {
		t.Fatalf("expected ChallengeVerificationFailed, got %v", err)
	}
}

func TestCreatePairReturnsMatchingPlaintext(t *testing.T) {
	key := make([]byte, KeySize128)
	for i := range key {
		key[i] = byte(i * 5)
	}

	block, plaintext, err := CreatePair(key)
	if err != nil {
		t.Fatalf("CreatePair: %v", err)
	}
	if len(plaintext) != ChallengePlaintextSize {
		t.Fatalf("plaintext length = %d, want %d", len(plaintext), ChallengePlaintextSize)
	}

	decrypted, err := Decrypt(key, block.Envelope)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Fatalf("decrypted envelope %x does not match cached plaintext %x", decrypted, plaintext)
	}

	ok, err := block.Verify(key)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected block to verify under its own key")
	}
}
