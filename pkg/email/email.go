// Package email normalizes addresses used as the account join key.
package email

import (
	"net/mail"
	"strings"
	"unicode"
)

// Normalize trims and lower-cases an address. Every lookup and insert keyed
// by email goes through here so "A@X.com" and "a@x.com" are one account.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// IsValid reports whether address parses as a bare addr-spec.
func IsValid(address string) bool {
	if address == "" || len(address) > 254 {
		return false
	}
	parsed, err := mail.ParseAddress(address)
	if err != nil {
		return false
	}
	return parsed.Address == address
}

// Synthesize builds the placeholder address for accounts created from a
// phone sign-in. The subject is kept verbatim since provider subject ids are
// case-sensitive; uniqueness rests on the provider.
func Synthesize(subject, domain string) string {
	return strings.TrimSpace(subject) + "@" + Normalize(domain)
}

// DisplayName derives a human name from the local part, e.g.
// "jane.doe@x.com" becomes "Jane Doe".
func DisplayName(address string) string {
	localPart := address
	if at := strings.IndexByte(address, '@'); at > 0 {
		localPart = address[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return "Employee"
	}
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
