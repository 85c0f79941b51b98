// Package phone normalizes Rwandan phone numbers into the canonical
// WhatsApp addressing form "<countrycode><subscriber>@c.us".
package phone

import "strings"

const (
	// CountryCode is the Rwandan country calling code.
	CountryCode = "250"

	// UserServer is the legacy WhatsApp user server suffix expected by the
	// messaging client when addressing personal chats.
	UserServer = "@c.us"

	canonicalLength  = 12 // country code + 9 digit subscriber number
	localLength      = 10 // leading 0 + 9 digit subscriber number
	subscriberLength = 9
)

// InvalidFormatError reports input that cannot be shaped into a Rwandan
// phone number.
type InvalidFormatError struct {
	Reason string
}

func (e *InvalidFormatError) Error() string {
	return "invalid phone number format: " + e.Reason
}

// Normalize converts a loosely formatted Rwandan phone number into the
// canonical "<digits>@c.us" address. Accepted shapes after stripping
// separators: "250XXXXXXXXX", "0XXXXXXXXX", and bare "XXXXXXXXX".
func Normalize(input string) (string, error) {
	digits := stripNonDigits(input)

	switch {
	case strings.HasPrefix(digits, CountryCode):
		if len(digits) != canonicalLength {
			return "", &InvalidFormatError{Reason: "expected 12 digits with country code 250"}
		}
		return digits + UserServer, nil
	case strings.HasPrefix(digits, "0"):
		if len(digits) != localLength {
			return "", &InvalidFormatError{Reason: "expected 10 digits starting with 0"}
		}
		return CountryCode + digits[1:] + UserServer, nil
	case len(digits) == subscriberLength:
		return CountryCode + digits + UserServer, nil
	default:
		return "", &InvalidFormatError{Reason: "expected 250XXXXXXXXX, 0XXXXXXXXX, or XXXXXXXXX"}
	}
}

func stripNonDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
