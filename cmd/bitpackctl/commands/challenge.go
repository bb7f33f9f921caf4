package commands

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fzengin19/bitpack/bitpack/crypto"
)

var errKeyRequired = errors.New("--key flag is required")

func challengeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "challenge",
		Short: "Create or verify a zero-knowledge challenge block",
	}

	cmd.AddCommand(challengeCreateCmd())
	cmd.AddCommand(challengeVerifyCmd())

	return cmd
}

func challengeCreateCmd() *cobra.Command {
	var keyHex string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a challenge block sealed under a shared key",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			key, err := parseKeyHex(keyHex)
			if err != nil {
				return err
			}

			block, err := crypto.Create(key)
			if err != nil {
				return fmt.Errorf("create challenge block: %w", err)
			}

			fmt.Println(hex.EncodeToString(block.Envelope))
			return nil
		},
	}

	cmd.Flags().StringVar(&keyHex, "key", "", "hex-encoded AES-GCM key (required)")
	return cmd
}

func challengeVerifyCmd() *cobra.Command {
	var keyHex string

	cmd := &cobra.Command{
		Use:   "verify <hex-envelope>",
		Short: "Verify a challenge block was sealed under the same shared key",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			key, err := parseKeyHex(keyHex)
			if err != nil {
				return err
			}

			envelope, err := decodeHexArg(args[0])
			if err != nil {
				return err
			}

			block := crypto.ChallengeBlock{Envelope: envelope}
			ok, err := block.Verify(key)
			if err != nil {
				return fmt.Errorf("verify challenge block: %w", err)
			}

			if ok {
				fmt.Println("verified: true")
				return nil
			}
			fmt.Println("verified: false")
			return nil
		},
	}

	cmd.Flags().StringVar(&keyHex, "key", "", "hex-encoded AES-GCM key (required)")
	return cmd
}

func parseKeyHex(keyHex string) ([]byte, error) {
	if keyHex == "" {
		return nil, errKeyRequired
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("decode key hex: %w", err)
	}
	return key, nil
}
