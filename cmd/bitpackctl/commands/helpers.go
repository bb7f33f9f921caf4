package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fzengin19/bitpack/bitpack/header"
)

var errMissingHexArg = errors.New("expected a hex-encoded frame argument")

func decodeHexArg(arg string) ([]byte, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return nil, errMissingHexArg
	}
	buf, err := hex.DecodeString(arg)
	if err != nil {
		return nil, fmt.Errorf("decode hex argument: %w", err)
	}
	return buf, nil
}

func parseIndices(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	indices := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("parse missing index %q: %w", part, err)
		}
		indices = append(indices, n)
	}
	return indices, nil
}

// buildHeader constructs a header via header.CreateAuto, except for SOS
// beacons which always use a direct Compact header: their 16-byte payload
// sits exactly at header.MaxCompactPayloadSize but one byte past
// header.AutoSelectCompactPayloadCeiling, so the auto-selection heuristic
// would otherwise bump every SOS beacon into Standard mode.
func buildHeader(msgType header.MessageType, ttl uint8, msgID uint32, payloadLen int, forceStandard bool) (header.Header, error) {
	if msgType == header.MessageTypeSosBeacon && !forceStandard {
		if msgID > 0xFFFF {
			return nil, fmt.Errorf("sos beacon message id %d exceeds compact u16 range", msgID)
		}
		if ttl > header.CompactMaxTTL {
			return nil, fmt.Errorf("sos beacon ttl %d exceeds compact 4-bit range", ttl)
		}
		return header.NewCompactHeader(msgType, header.PacketFlags{}, ttl, uint16(msgID))
	}

	return header.CreateAuto(header.AutoParams{
		Type:          msgType,
		TTL:           ttl,
		MessageID:     msgID,
		PayloadLength: uint16(payloadLen),
		ForceStandard: forceStandard,
	})
}
