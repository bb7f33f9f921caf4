package commands

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fzengin19/bitpack/bitpack/bits"
	"github.com/fzengin19/bitpack/bitpack/header"
	"github.com/fzengin19/bitpack/bitpack/packet"
	"github.com/fzengin19/bitpack/bitpack/payload"
)

func encodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Build a BitPack frame and print it as hex",
	}

	cmd.AddCommand(encodeSosCmd())
	cmd.AddCommand(encodeLocationCmd())
	cmd.AddCommand(encodeTextCmd())
	cmd.AddCommand(encodeAckCmd())
	cmd.AddCommand(encodeNackCmd())

	return cmd
}

func printFrame(pkt packet.Packet) {
	fmt.Println(hex.EncodeToString(pkt.Encode()))
}

// --- encode sos ---

func encodeSosCmd() *cobra.Command {
	var (
		sosType     uint8
		people      uint8
		injured     bool
		trapped     bool
		lat, lon    float64
		phone       string
		altitude    int16
		battery     uint8
		ttl         uint8
		msgID       uint32
	)

	cmd := &cobra.Command{
		Use:   "sos",
		Short: "Encode an SOS beacon",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			loc, err := bits.NewGPS(lat, lon)
			if err != nil {
				return fmt.Errorf("build GPS fix: %w", err)
			}

			p, err := payload.NewSosPayload(payload.SosType(sosType), people, injured, trapped, loc, phone, altitude, battery)
			if err != nil {
				return fmt.Errorf("build sos payload: %w", err)
			}

			encoded, err := p.Encode()
			if err != nil {
				return fmt.Errorf("encode sos payload: %w", err)
			}

			h, err := buildHeader(header.MessageTypeSosBeacon, ttl, msgID, len(encoded), false)
			if err != nil {
				return fmt.Errorf("build header: %w", err)
			}

			printFrame(packet.New(h, encoded))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Uint8Var(&sosType, "type", uint8(payload.SosTypeNeedRescue), "sos type code (0=need-rescue .. 5=medical-emergency)")
	flags.Uint8Var(&people, "people", 1, "people count (1-7)")
	flags.BoolVar(&injured, "injured", false, "someone in the group is injured")
	flags.BoolVar(&trapped, "trapped", false, "the group is trapped")
	flags.Float64Var(&lat, "lat", 0, "latitude in degrees")
	flags.Float64Var(&lon, "lon", 0, "longitude in degrees")
	flags.StringVar(&phone, "phone", "", "last 8 digits of a callback phone number")
	flags.Int16Var(&altitude, "altitude", 0, "altitude in metres (magnitude <= 4095)")
	flags.Uint8Var(&battery, "battery", 100, "battery percentage (0-100)")
	flags.Uint8Var(&ttl, "ttl", header.DefaultHopTTL, "hop TTL")
	flags.Uint32Var(&msgID, "msgid", 0, "message id")

	return cmd
}

// --- encode location ---

func encodeLocationCmd() *cobra.Command {
	var (
		lat, lon   float64
		extended   bool
		altitude   int16
		accuracy   uint16
		ttl        uint8
		msgID      uint32
		standard   bool
	)

	cmd := &cobra.Command{
		Use:   "location",
		Short: "Encode a GPS location report",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fix, err := bits.NewGPS(lat, lon)
			if err != nil {
				return fmt.Errorf("build GPS fix: %w", err)
			}

			p := payload.LocationPayload{Fix: fix, Extended: extended, AltitudeM: altitude, AccuracyM: accuracy}
			encoded, err := p.Encode()
			if err != nil {
				return fmt.Errorf("encode location payload: %w", err)
			}

			h, err := buildHeader(header.MessageTypeLocation, ttl, msgID, len(encoded), standard)
			if err != nil {
				return fmt.Errorf("build header: %w", err)
			}

			printFrame(packet.New(h, encoded))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&lat, "lat", 0, "latitude in degrees")
	flags.Float64Var(&lon, "lon", 0, "longitude in degrees")
	flags.BoolVar(&extended, "extended", false, "include altitude and accuracy fields")
	flags.Int16Var(&altitude, "altitude", 0, "altitude in metres (extended only)")
	flags.Uint16Var(&accuracy, "accuracy", 0, "horizontal accuracy in metres (extended only)")
	flags.Uint8Var(&ttl, "ttl", header.DefaultHopTTL, "hop TTL")
	flags.Uint32Var(&msgID, "msgid", 0, "message id")
	flags.BoolVar(&standard, "standard", false, "force the 11-byte Standard header")

	return cmd
}

// --- encode text ---

func encodeTextCmd() *cobra.Command {
	var (
		sender, recipient, text string
		ttl                     uint8
		msgID                   uint32
	)

	cmd := &cobra.Command{
		Use:   "text",
		Short: "Encode a short text message",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			p, err := payload.NewTextPayload(sender, recipient, text)
			if err != nil {
				return fmt.Errorf("build text payload: %w", err)
			}

			encoded, err := p.Encode()
			if err != nil {
				return fmt.Errorf("encode text payload: %w", err)
			}

			h, err := buildHeader(header.MessageTypeTextShort, ttl, msgID, len(encoded), false)
			if err != nil {
				return fmt.Errorf("build header: %w", err)
			}

			printFrame(packet.New(h, encoded))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&sender, "sender", "", "sender identifier")
	flags.StringVar(&recipient, "recipient", "", "recipient identifier")
	flags.StringVar(&text, "text", "", "message text (required)")
	flags.Uint8Var(&ttl, "ttl", header.DefaultHopTTL, "hop TTL")
	flags.Uint32Var(&msgID, "msgid", 0, "message id")

	return cmd
}

// --- encode ack ---

func encodeAckCmd() *cobra.Command {
	var (
		msgID   uint32
		status  uint8
		reason  string
		compact bool
		ttl     uint8
	)

	cmd := &cobra.Command{
		Use:   "ack",
		Short: "Encode a delivery acknowledgment",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			p := payload.AckPayload{MsgID: msgID, Status: payload.AckStatus(status), Reason: reason}
			encoded, err := p.Encode(compact)
			if err != nil {
				return fmt.Errorf("encode ack payload: %w", err)
			}

			// AckPayload's own wire form (u16 vs u32 msgID) is fixed by
			// compact, so the header variant must agree: CreateAuto's TTL/age
			// heuristic is bypassed here the same way it is for SOS beacons.
			var h header.Header
			if compact {
				if ttl > header.CompactMaxTTL {
					return fmt.Errorf("compact ack ttl %d exceeds compact 4-bit range", ttl)
				}
				ch, err := header.NewCompactHeader(header.MessageTypeAck, header.PacketFlags{}, ttl, uint16(msgID))
				if err != nil {
					return fmt.Errorf("build header: %w", err)
				}
				h = ch
			} else {
				sh, err := header.NewStandardHeader(header.MessageTypeAck, header.PacketFlags{}, ttl, msgID,
					header.SecurityModeNone, uint16(len(encoded)), 0)
				if err != nil {
					return fmt.Errorf("build header: %w", err)
				}
				h = &sh
			}

			printFrame(packet.New(h, encoded))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Uint32Var(&msgID, "msgid", 0, "acknowledged message id")
	flags.Uint8Var(&status, "status", uint8(payload.AckStatusReceived), "status code (0=received .. 5=relayed)")
	flags.StringVar(&reason, "reason", "", "failure reason, only used when status=3 (failed)")
	flags.BoolVar(&compact, "compact", true, "use the Compact (u16 msgID) wire form")
	flags.Uint8Var(&ttl, "ttl", header.DefaultHopTTL, "hop TTL")

	return cmd
}

// --- encode nack ---

func encodeNackCmd() *cobra.Command {
	var (
		msgID   uint32
		missing string
		ttl     uint8
	)

	cmd := &cobra.Command{
		Use:   "nack",
		Short: "Encode a selective negative acknowledgment",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			indices, err := parseIndices(missing)
			if err != nil {
				return err
			}

			p, err := payload.FromMissingIndices(msgID, indices)
			if err != nil {
				return fmt.Errorf("build nack payload: %w", err)
			}

			encoded, err := p.Encode()
			if err != nil {
				return fmt.Errorf("encode nack payload: %w", err)
			}

			h, err := buildHeader(header.MessageTypeNack, ttl, msgID, len(encoded), true)
			if err != nil {
				return fmt.Errorf("build header: %w", err)
			}

			printFrame(packet.New(h, encoded))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Uint32Var(&msgID, "msgid", 0, "message id being NACKed")
	flags.StringVar(&missing, "missing", "", "comma-separated list of missing fragment indices")
	flags.Uint8Var(&ttl, "ttl", header.DefaultHopTTL, "hop TTL")

	return cmd
}
