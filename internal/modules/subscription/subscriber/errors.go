package subscriber

import (
	"errors"
	"fmt"
)

// ErrAlreadySubscribed is returned when the email already completed verification.
var ErrAlreadySubscribed = errors.New("this email is already subscribed")

// ErrEmailTaken is returned by a Store when a concurrent insert won the unique email.
var ErrEmailTaken = errors.New("email already exists")

// ValidationError rejects malformed input before any datastore access.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// EmailSendError wraps a verification email delivery failure. The subscriber
// and token rows written before the send are kept.
type EmailSendError struct {
	Err error
}

func (e *EmailSendError) Error() string {
	return fmt.Sprintf("failed to send verification email: %v", e.Err)
}

func (e *EmailSendError) Unwrap() error { return e.Err }
