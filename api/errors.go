package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// FallbackMessage is shown when a failure carries no usable message.
const FallbackMessage = "An unexpected error occurred"

// Error is the uniform failure shape returned by the client and by Normalize.
type Error struct {
	Message string          `json:"message"`
	Status  int             `json:"status,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Cause   error           `json:"-"`
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Normalize converts any error into an *Error. API errors keep their message,
// status and body; everything else gets the fallback message with the original
// error kept as Cause.
func Normalize(err error) *Error {
	if err == nil {
		return &Error{Message: FallbackMessage}
	}

	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr != nil {
		msg := apiErr.Message
		if msg == "" {
			msg = FallbackMessage
		}
		return &Error{Message: msg, Status: apiErr.Status, Data: apiErr.Data, Cause: apiErr.Cause}
	}

	return &Error{Message: FallbackMessage, Cause: err}
}

// StatusOf returns the HTTP status attached to err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr != nil {
		return apiErr.Status
	}
	return 0
}
