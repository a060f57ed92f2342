package utils

import (
	"strings"
)

// NormalizePhone canonicalizes a Sri Lankan contact number to +94 form.
// Returns "" when the input cannot be a valid local number; callers treat a
// contact phone as optional.
func NormalizePhone(raw string) string {
	var digits strings.Builder
	hasPlus := strings.HasPrefix(strings.TrimSpace(raw), "+")
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	num := digits.String()

	switch {
	case hasPlus && strings.HasPrefix(num, "94") && len(num) == 11:
		return "+" + num
	case strings.HasPrefix(num, "94") && len(num) == 11:
		return "+" + num
	case strings.HasPrefix(num, "0") && len(num) == 10:
		return "+94" + num[1:]
	case len(num) == 9:
		return "+94" + num
	}
	return ""
}
