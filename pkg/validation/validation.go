package validation

import (
	"regexp"
)

var (
	// Intentionally permissive: non-space local part, non-space domain with
	// a dot. Not an RFC 5322 validator.
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// South African mobile numbers only: +27 or leading 0, then a digit in
	// 6-8, then 8 further digits.
	phoneRegex = regexp.MustCompile(`^(\+27|0)[6-8][0-9]{8}$`)
)

// IsValidEmail reports whether the address looks like an email.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// IsValidPhoneNumber reports whether the number is a valid South African
// mobile number.
func IsValidPhoneNumber(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// IsStrongPassword reports whether the password meets the minimum length
// requirement. There is no composition requirement.
func IsStrongPassword(password string) bool {
	return len(password) >= 8
}
