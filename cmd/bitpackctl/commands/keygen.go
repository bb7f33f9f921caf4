package commands

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fzengin19/bitpack/bitpack/crypto"
)

var errPassphraseRequired = errors.New("--passphrase flag is required")

func keygenCmd() *cobra.Command {
	var (
		passphrase string
		saltHex    string
		bits       int
		iterations int
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Derive an AES key from a passphrase via PBKDF2-HMAC-SHA256",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if passphrase == "" {
				return errPassphraseRequired
			}

			salt, err := resolveSalt(saltHex)
			if err != nil {
				return err
			}

			keySize := crypto.KeySize128
			if bits == 256 {
				keySize = crypto.KeySize256
			} else if bits != 128 {
				return fmt.Errorf("keygen: --bits must be 128 or 256, got %d", bits)
			}

			key, err := crypto.DeriveKey(passphrase, salt, keySize, iterations)
			if err != nil {
				return fmt.Errorf("derive key: %w", err)
			}

			fmt.Printf("salt: %s\n", hex.EncodeToString(salt))
			fmt.Printf("key:  %s\n", hex.EncodeToString(key))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&passphrase, "passphrase", "", "shared passphrase to derive the key from (required)")
	flags.StringVar(&saltHex, "salt", "", "hex-encoded salt; a fresh random salt is generated if omitted")
	flags.IntVar(&bits, "bits", 128, "key size in bits: 128 or 256")
	flags.IntVar(&iterations, "iterations", crypto.DefaultIterations,
		fmt.Sprintf("PBKDF2 round count, %d-%d", crypto.MinIterations, crypto.MaxIterations))

	return cmd
}

// resolveSalt decodes an explicit salt or generates a fresh one.
func resolveSalt(saltHex string) ([]byte, error) {
	if saltHex == "" {
		return crypto.GenerateSalt()
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return nil, fmt.Errorf("decode salt hex: %w", err)
	}
	return salt, nil
}
