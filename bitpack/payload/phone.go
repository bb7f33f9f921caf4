package payload

import (
	"fmt"
	"strings"

	"github.com/fzengin19/bitpack/bitpack/bits"
	"github.com/fzengin19/bitpack/bitpack/bperrors"
)

// CountryCode is the 3-bit international dialing-code shortcut carried by
// an InternationalBCD phone number.
type CountryCode uint8

const (
	CountryCodeUsaCanada CountryCode = 0x1
	CountryCodeUk        CountryCode = 0x2
	CountryCodeGermany   CountryCode = 0x3
	CountryCodeTurkey    CountryCode = 0x6
	// CountryCodeCustom signals that a 2-byte BCD numeric country code
	// follows the header byte rather than using one of the 3-bit shortcuts.
	CountryCodeCustom CountryCode = 0x7
)

// countryDialCodes maps a known shortcut to its dialing prefix digits.
var countryDialCodes = map[CountryCode]string{
	CountryCodeUsaCanada: "1",
	CountryCodeUk:        "44",
	CountryCodeGermany:   "49",
	CountryCodeTurkey:    "90",
}

// InternationalBCD is a phone number encoded as a header byte plus BCD
// digit bytes. When International is false, the number is domestic
// (Turkey implicit) and Digits holds up to the last
// 10 domestic digits. When true, Country selects a 3-bit dialing-code
// shortcut, or CountryCodeCustom with CustomDialCode holding the numeric
// country code as a BCD digit string.
type InternationalBCD struct {
	International  bool
	Country        CountryCode
	CustomDialCode string // only set when Country == CountryCodeCustom
	Digits         string // domestic digits, decimal ASCII
}

// NewDomesticBCD builds a domestic (Turkey-implicit) phone number from up
// to the last 10 digits.
func NewDomesticBCD(digits string) (InternationalBCD, error) {
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return InternationalBCD{International: false, Digits: digits}, nil
}

// NewShortcutBCD builds an international phone number using one of the
// 3-bit dialing-code shortcuts.
func NewShortcutBCD(country CountryCode, digits string) (InternationalBCD, error) {
	if country == CountryCodeCustom {
		return InternationalBCD{}, fmt.Errorf("phone: use NewCustomBCD for custom country codes: %w", bperrors.ArgumentOutOfRange)
	}
	if _, ok := countryDialCodes[country]; !ok {
		return InternationalBCD{}, fmt.Errorf("phone: country code %d has no shortcut: %w", country, bperrors.ArgumentOutOfRange)
	}
	return InternationalBCD{International: true, Country: country, Digits: digits}, nil
}

// NewCustomBCD builds an international phone number whose country code has
// no 3-bit shortcut; dialCode is a numeric country-calling-code digit
// string (e.g. "353").
func NewCustomBCD(dialCode, digits string) (InternationalBCD, error) {
	return InternationalBCD{International: true, Country: CountryCodeCustom, CustomDialCode: dialCode, Digits: digits}, nil
}

// EncodePhone parses a "+<dialcode><digits>" phone string into an
// InternationalBCD, preferring a known shortcut when the prefix matches
// one.
func EncodePhone(phone string) (InternationalBCD, error) {
	if !strings.HasPrefix(phone, "+") {
		return InternationalBCD{}, fmt.Errorf("phone: %q missing '+' dial prefix: %w", phone, bperrors.ArgumentOutOfRange)
	}
	rest := phone[1:]

	// Try longest known dial-code prefixes first (2 digits before 1).
	for _, length := range []int{2, 1} {
		if len(rest) <= length {
			continue
		}
		prefix := rest[:length]
		for code, dial := range countryDialCodes {
			if dial == prefix {
				return NewShortcutBCD(code, rest[length:])
			}
		}
	}
	return InternationalBCD{}, fmt.Errorf("phone: %q has no known dial-code shortcut; use NewCustomBCD: %w", phone, bperrors.ArgumentOutOfRange)
}

// GetCountryCode returns the dialing prefix for a known shortcut, or ""
// (and ok=false) for CountryCodeCustom -- the custom numeric code lives in
// CustomDialCode, decoded separately.
func (p InternationalBCD) GetCountryCode() (string, bool) {
	if p.Country == CountryCodeCustom {
		return "", false
	}
	dial, ok := countryDialCodes[p.Country]
	return dial, ok
}

// String renders the phone number with its dial prefix.
func (p InternationalBCD) String() string {
	if !p.International {
		return bits.BCDFormat(p.Digits, "+90")
	}
	if p.Country == CountryCodeCustom {
		return "+" + p.CustomDialCode + p.Digits
	}
	dial := countryDialCodes[p.Country]
	return "+" + dial + p.Digits
}

// Encode serializes p: header byte [INT(1)|LENGTH(4)|COUNTRY(3)], followed
// by 2 BCD bytes for a custom country code, followed by the BCD-packed
// domestic digits.
func (p InternationalBCD) Encode() ([]byte, error) {
	digitBCD, err := bits.BCDEncode(p.Digits)
	if err != nil {
		return nil, err
	}
	if len(digitBCD) > 0x0F {
		return nil, fmt.Errorf("phone: %d BCD bytes exceeds 4-bit length field: %w", len(digitBCD), bperrors.ArgumentOutOfRange)
	}

	var header byte
	if p.International {
		header |= 1 << 7
	}
	header |= byte(len(digitBCD)&0x0F) << 3
	header |= byte(p.Country) & 0x07

	buf := make([]byte, 0, 1+2+len(digitBCD))
	buf = append(buf, header)

	if p.International && p.Country == CountryCodeCustom {
		customBCD, err := bits.BCDEncode(p.CustomDialCode)
		if err != nil {
			return nil, err
		}
		if len(customBCD) != 2 {
			return nil, fmt.Errorf("phone: custom dial code must encode to exactly 2 BCD bytes: %w", bperrors.ArgumentOutOfRange)
		}
		buf = append(buf, customBCD...)
	}

	buf = append(buf, digitBCD...)
	return buf, nil
}

// DecodeInternationalBCD decodes an InternationalBCD from buf.
func DecodeInternationalBCD(buf []byte) (InternationalBCD, error) {
	if len(buf) < 1 {
		return InternationalBCD{}, fmt.Errorf("phone: empty buffer: %w", bperrors.InsufficientData)
	}
	header := buf[0]
	international := header&(1<<7) != 0
	length := int(header >> 3 & 0x0F)
	country := CountryCode(header & 0x07)

	off := 1
	p := InternationalBCD{International: international, Country: country}

	if international && country == CountryCodeCustom {
		if len(buf) < off+2 {
			return InternationalBCD{}, fmt.Errorf("phone: truncated custom country code: %w", bperrors.InsufficientData)
		}
		dial, err := bits.BCDDecode(buf[off : off+2])
		if err != nil {
			return InternationalBCD{}, err
		}
		p.CustomDialCode = dial
		off += 2
	}

	if len(buf) < off+length {
		return InternationalBCD{}, fmt.Errorf("phone: need %d digit bytes, got %d: %w", length, len(buf)-off, bperrors.InsufficientData)
	}
	digits, err := bits.BCDDecode(buf[off : off+length])
	if err != nil {
		return InternationalBCD{}, err
	}
	p.Digits = digits

	return p, nil
}
