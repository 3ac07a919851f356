package validators

import "strings"

// NormalizePhone strips formatting characters so the same client is found no
// matter how the number was typed ("+7 (900) 123-45-67" vs "79001234567").
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func IsPhoneValid(phone string) bool {
	n := NormalizePhone(phone)
	digits := strings.TrimPrefix(n, "+")
	return len(digits) >= 7 && len(digits) <= 15
}
