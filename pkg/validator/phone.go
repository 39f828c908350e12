package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyPhone indicates the phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")

	// ErrInvalidFormat indicates the phone number contains invalid characters
	ErrInvalidFormat = errors.New("phone number can only contain digits and an optional leading +")

	// ErrInvalidLength indicates the phone number is too short or too long
	ErrInvalidLength = errors.New("phone number must be between 7 and 15 digits")
)

// digitsRegex matches digits only
var digitsRegex = regexp.MustCompile(`^\d+$`)

// PhoneValidator validates international guest phone numbers. Numbers are
// accepted in E.164 form or as loose local input with common separators.
type PhoneValidator struct{}

// NewPhoneValidator creates a new phone validator instance
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{}
}

// Validate validates a phone number.
// Accepts formats like +14155550123, (415) 555-0123 or 415 555 0123.
// Returns the sanitized number, with the + prefix preserved when present.
func (v *PhoneValidator) Validate(phone string) (string, error) {
	if phone == "" {
		return "", ErrEmptyPhone
	}

	sanitized := v.Sanitize(phone)

	digits := strings.TrimPrefix(sanitized, "+")
	if digits == "" || !digitsRegex.MatchString(digits) {
		return "", ErrInvalidFormat
	}

	if len(digits) < 7 || len(digits) > 15 {
		return "", ErrInvalidLength
	}

	return sanitized, nil
}

// Sanitize removes common separator characters, keeping a leading +
func (v *PhoneValidator) Sanitize(phone string) string {
	phone = strings.TrimSpace(phone)

	hasPlus := strings.HasPrefix(phone, "+")

	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")
	phone = strings.ReplaceAll(phone, "(", "")
	phone = strings.ReplaceAll(phone, ")", "")
	phone = strings.ReplaceAll(phone, ".", "")
	phone = strings.ReplaceAll(phone, "+", "")

	if hasPlus {
		return "+" + phone
	}
	return phone
}

// IsValid is a convenience method that returns true if the phone is valid
func (v *PhoneValidator) IsValid(phone string) bool {
	_, err := v.Validate(phone)
	return err == nil
}
