package domain

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrSegmentNotFound  = errors.New("segment not found")
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrResultNotFound   = errors.New("campaign result not found")
	ErrSessionNotFound  = errors.New("session not found or expired")
)

// ValidationError is input the caller has to fix. Handlers answer it with 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Invalid(message string) error {
	return &ValidationError{Message: message}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

var ErrEmailTaken = Invalid("email already exists")
