package label

import (
	"strings"

	"github.com/labelforge/labelforge/pkg/errors"
)

// code39Charset is the set of characters encodable in Code 39.
const code39Charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ-. $/+%"

// maxPayloadLen bounds payloads for the dense 2D symbologies. QR caps out
// lower than this for high error-correction levels; the renderer reports
// those per record.
const maxPayloadLen = 2048

// ValidatePayload checks a payload against the rules of the given
// symbology. Validation runs once, at record creation time; the result is
// recorded on the record and never thrown.
func ValidatePayload(payload string, format Format) error {
	if payload == "" {
		return errors.New(errors.ErrCodeInvalidPayload, "payload is empty")
	}

	switch format {
	case FormatQR, FormatDataMatrix:
		if len(payload) > maxPayloadLen {
			return errors.New(errors.ErrCodeInvalidPayload, "payload exceeds %d characters", maxPayloadLen)
		}
		return nil

	case FormatCode128:
		for _, r := range payload {
			if r > 126 {
				return errors.New(errors.ErrCodeInvalidPayload, "Code 128 only encodes ASCII, found %q", r)
			}
		}
		return nil

	case FormatCode39:
		for _, r := range strings.ToUpper(payload) {
			if !strings.ContainsRune(code39Charset, r) {
				return errors.New(errors.ErrCodeInvalidPayload, "character %q is not encodable in Code 39", r)
			}
		}
		return nil

	case FormatEAN13:
		return validateEAN(payload, 13)

	case FormatEAN8:
		return validateEAN(payload, 8)

	case FormatITF:
		if !allDigits(payload) {
			return errors.New(errors.ErrCodeInvalidPayload, "ITF encodes digits only")
		}
		if len(payload)%2 != 0 {
			return errors.New(errors.ErrCodeInvalidPayload, "ITF needs an even number of digits, got %d", len(payload))
		}
		return nil

	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format)
	}
}

// validateEAN accepts either the full code (with check digit) or the code
// without it; with a check digit present the checksum must hold.
func validateEAN(payload string, full int) error {
	if !allDigits(payload) {
		return errors.New(errors.ErrCodeInvalidPayload, "EAN encodes digits only")
	}
	switch len(payload) {
	case full - 1:
		return nil
	case full:
		if eanCheckDigit(payload[:full-1]) != int(payload[full-1]-'0') {
			return errors.New(errors.ErrCodeInvalidPayload, "EAN-%d checksum mismatch", full)
		}
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidPayload,
			"EAN-%d needs %d or %d digits, got %d", full, full-1, full, len(payload))
	}
}

// eanCheckDigit computes the EAN check digit for the given digit string.
// Weights 1 and 3 alternate from the rightmost data digit inward.
func eanCheckDigit(digits string) int {
	sum := 0
	weight := 3
	for i := len(digits) - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * weight
		weight = 4 - weight // alternate 3,1,3,...
	}
	return (10 - sum%10) % 10
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
