package core

import (
	"strings"
	"unicode"
)

// CountryCode is the Kenyan dialing prefix the provider expects
const CountryCode = "254"

// NormalizePhone converts a local or international Kenyan number into the
// 254XXXXXXXXX form used by the provider.
func NormalizePhone(phone string) string {
	phone = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, phone)

	if strings.HasPrefix(phone, "0") {
		phone = CountryCode + phone[1:]
	}
	phone = strings.TrimPrefix(phone, "+")
	if !strings.HasPrefix(phone, CountryCode) {
		phone = CountryCode + phone
	}
	return phone
}
