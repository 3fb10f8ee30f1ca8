package mail

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

// Category groups provider failures for display to administrators.
type Category string

const (
	CategoryRateLimit    Category = "rate_limit"
	CategoryVerification Category = "verification"
	CategoryInvalidEmail Category = "invalid_email"
	CategoryGeneric      Category = "generic"
)

// DeliveryError is a provider rejection of a single message.
type DeliveryError struct {
	Provider   string
	StatusCode int
	Category   Category
	Message    string
}

func (e *DeliveryError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "delivery rejected"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error %d: %s", e.Provider, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Provider, msg)
}

// Classify maps an error onto a Category. A structured DeliveryError category
// or a 429 status wins; anything else falls back to matching whole words in
// the message text.
func Classify(err error) Category {
	if err == nil {
		return ""
	}
	var de *DeliveryError
	if errors.As(err, &de) {
		if de.Category != "" && de.Category != CategoryGeneric {
			return de.Category
		}
		if de.StatusCode == http.StatusTooManyRequests {
			return CategoryRateLimit
		}
	}
	return classifyMessage(err.Error())
}

var (
	rateLimitPattern    = regexp.MustCompile(`\brate[ _-]?limit|\btoo many requests\b|\b(?:status|error|code|http)\s*:?\s*429\b`)
	verificationPattern = regexp.MustCompile(`\bunverified\b|\bnot (?:yet )?verified\b|\bverification (?:required|failed|pending)\b|\bdomain is not\b`)
	invalidPattern      = regexp.MustCompile(`\binvalid\b`)
	addressPattern      = regexp.MustCompile(`\b(?:e-?mail|address|recipient)s?\b`)
)

func classifyMessage(msg string) Category {
	m := strings.ToLower(msg)
	switch {
	case rateLimitPattern.MatchString(m):
		return CategoryRateLimit
	case verificationPattern.MatchString(m):
		return CategoryVerification
	case invalidPattern.MatchString(m) && addressPattern.MatchString(m):
		return CategoryInvalidEmail
	default:
		return CategoryGeneric
	}
}
