// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var (
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{7,14}$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	// Clean the phone number
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")

	return phonePattern.MatchString(cleaned)
}

// FormatPhoneNumber normalizes a WhatsApp number to +62 form:
// "0812-3456-7890" and "812 3456 7890" both become "+6281234567890".
func FormatPhoneNumber(phone string) string {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	if cleaned == "" {
		return ""
	}
	if strings.HasPrefix(cleaned, "0") {
		return "+62" + cleaned[1:]
	}
	if !strings.HasPrefix(cleaned, "62") {
		return "+62" + cleaned
	}
	return "+" + cleaned
}
