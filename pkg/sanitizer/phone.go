package sanitizer

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	supportedRegions = []string{
		"IN",
		"US",
	}

	reValidPhone = regexp.MustCompile(`^\+?[0-9][0-9 \-()]{6,18}$`)
)

// SanitizePhone normalizes a traveler's phone number to E.164. Input that
// cannot be parsed for any supported region comes back empty; the field
// is optional on bookings so callers treat empty as "not provided".
func SanitizePhone(phone string) string {
	phone = strings.TrimSpace(phone)

	if phone == "" || !reValidPhone.MatchString(phone) {
		return ""
	}

	for _, region := range supportedRegions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err == nil && phonenumbers.IsValidNumber(parsed) {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}
	return ""
}
