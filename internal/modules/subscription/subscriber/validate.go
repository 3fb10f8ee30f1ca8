package subscriber

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\s\-().]{6,19}$`)
)

const minNameLength = 2

// Normalize trims the request and lower-cases the email in place.
func (r *SignupRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if r.WhatsAppPhone != nil {
		phone := strings.TrimSpace(*r.WhatsAppPhone)
		if phone == "" {
			r.WhatsAppPhone = nil
		} else {
			r.WhatsAppPhone = &phone
		}
	}
}

// Validate returns the first *ValidationError found, or nil.
func (r *SignupRequest) Validate() error {
	switch {
	case r.Name == "" && r.Email == "":
		return &ValidationError{Field: "name", Message: "Name and email are required"}
	case r.Name == "":
		return &ValidationError{Field: "name", Message: "Name is required"}
	case r.Email == "":
		return &ValidationError{Field: "email", Message: "Email is required"}
	case !emailPattern.MatchString(r.Email):
		return &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	case utf8.RuneCountInString(r.Name) < minNameLength:
		return &ValidationError{Field: "name", Message: "Name must be at least 2 characters long"}
	}
	if r.WhatsAppPhone != nil && !phonePattern.MatchString(*r.WhatsAppPhone) {
		return &ValidationError{Field: "whatsapp_phone", Message: "Please enter a valid WhatsApp phone number"}
	}
	return nil
}
