package models

import "strings"

// ValidationError carries the batched, user-visible validation messages of
// a rejected operation or save attempt
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// NewValidationError creates a validation error from one or more messages
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}
