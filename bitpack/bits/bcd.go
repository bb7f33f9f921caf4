package bits

import (
	"fmt"
	"strings"

	"github.com/fzengin19/bitpack/bitpack/bperrors"
)

// bcdPad is the nibble value used to pad an odd-length digit string and to
// mark the end of the digit run on decode.
const bcdPad = 0xF

// BCDEncode packs digits (a string of ASCII '0'-'9') two-per-byte, high
// nibble first. An odd-length input pads the final low nibble with 0xF.
func BCDEncode(digits string) ([]byte, error) {
	n := len(digits)
	out := make([]byte, 0, (n+1)/2)

	for i := 0; i < n; i += 2 {
		hi, err := digitNibble(digits[i])
		if err != nil {
			return nil, err
		}
		lo := byte(bcdPad)
		if i+1 < n {
			lo, err = digitNibble(digits[i+1])
			if err != nil {
				return nil, err
			}
		}
		out = append(out, hi<<4|lo)
	}
	return out, nil
}

func digitNibble(c byte) (byte, error) {
	if c < '0' || c > '9' {
		return 0, fmt.Errorf("bcd: %q is not a decimal digit: %w", c, bperrors.InvalidBcdNibble)
	}
	return c - '0', nil
}

// BCDDecode unpacks a BCD byte string into a decimal digit string. Decoding
// stops at the first 0xF nibble (the pad/sentinel). Any other non-digit
// nibble (0xA-0xE) is a decoding error.
func BCDDecode(buf []byte) (string, error) {
	var sb strings.Builder
	for _, b := range buf {
		hi, lo := b>>4, b&0x0F
		done, err := appendNibble(&sb, hi)
		if err != nil {
			return "", err
		}
		if done {
			return sb.String(), nil
		}
		done, err = appendNibble(&sb, lo)
		if err != nil {
			return "", err
		}
		if done {
			return sb.String(), nil
		}
	}
	return sb.String(), nil
}

// appendNibble writes the decimal digit for nibble to sb, reporting whether
// the 0xF pad/sentinel was seen (decode should stop).
func appendNibble(sb *strings.Builder, nibble byte) (bool, error) {
	switch {
	case nibble == bcdPad:
		return true, nil
	case nibble <= 9:
		sb.WriteByte('0' + nibble)
		return false, nil
	default:
		return false, fmt.Errorf("bcd: nibble 0x%X is neither a digit nor the pad sentinel: %w",
			nibble, bperrors.InvalidBcdNibble)
	}
}

// BCDFormat prepends countryCode (default "+90") to a decoded digit string.
func BCDFormat(digits string, countryCode string) string {
	if countryCode == "" {
		countryCode = "+90"
	}
	return countryCode + digits
}
