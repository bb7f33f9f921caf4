package commands

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fzengin19/bitpack/bitpack/bperrors"
	"github.com/fzengin19/bitpack/bitpack/header"
	"github.com/fzengin19/bitpack/bitpack/packet"
)

func decodeCmd() *cobra.Command {
	var keyHex string

	cmd := &cobra.Command{
		Use:   "decode <hex-frame>",
		Short: "Parse a BitPack frame and print its header and payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			buf, err := decodeHexArg(args[0])
			if err != nil {
				return err
			}

			pkt, err := packet.Decode(buf)
			if err != nil {
				return fmt.Errorf("decode frame: %w", err)
			}

			if keyHex != "" {
				key, err := hex.DecodeString(keyHex)
				if err != nil {
					return fmt.Errorf("decode key hex: %w", err)
				}
				pkt, err = packet.DecryptPayload(pkt, key)
				if err != nil {
					return fmt.Errorf("decrypt payload: %w", err)
				}
			}

			view, err := buildFrameView(pkt)
			if err != nil {
				return err
			}

			return printFrameView(view, outputFormat)
		},
	}

	cmd.Flags().StringVar(&keyHex, "key", "", "hex-encoded AES-GCM key, required if the header's security mode is non-None")

	return cmd
}

// frameView is a flat, JSON/table-friendly projection of a decoded Packet.
type frameView struct {
	Mode       string `json:"mode"`
	Type       string `json:"type"`
	TTL        uint8  `json:"ttl"`
	MessageID  uint32 `json:"message_id"`
	Security   string `json:"security,omitempty"`
	AgeMinutes uint16 `json:"age_minutes,omitempty"`
	Payload    any    `json:"payload,omitempty"`
	RawPayload string `json:"raw_payload,omitempty"`
}

func buildFrameView(pkt packet.Packet) (frameView, error) {
	v := frameView{
		Mode:      pkt.Header.Mode().String(),
		Type:      pkt.Header.Type().String(),
		TTL:       pkt.Header.TTL(),
		MessageID: pkt.Header.MessageID(),
	}

	if sh, ok := pkt.Header.(*header.StandardHeader); ok {
		v.Security = sh.Security.String()
		v.AgeMinutes = sh.AgeMinutes
	}

	typed, err := packet.DecodeTypedPayload(pkt.Header, pkt.Payload)
	if err != nil {
		if !errors.Is(err, bperrors.UnknownType) {
			return frameView{}, fmt.Errorf("decode payload: %w", err)
		}
		v.RawPayload = hex.EncodeToString(pkt.Payload)
		return v, nil
	}
	v.Payload = typed
	return v, nil
}

func printFrameView(v frameView, format string) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal frame to JSON: %w", err)
		}
		fmt.Println(string(data))
	default:
		fmt.Printf("Mode:       %s\n", v.Mode)
		fmt.Printf("Type:       %s\n", v.Type)
		fmt.Printf("TTL:        %d\n", v.TTL)
		fmt.Printf("MessageID:  %d\n", v.MessageID)
		if v.Security != "" {
			fmt.Printf("Security:   %s\n", v.Security)
			fmt.Printf("AgeMinutes: %d\n", v.AgeMinutes)
		}
		if v.RawPayload != "" {
			fmt.Printf("Payload:    (undecoded) %s\n", v.RawPayload)
		} else {
			fmt.Printf("Payload:    %+v\n", v.Payload)
		}
	}
	return nil
}
