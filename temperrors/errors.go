package temperrors

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyList    = errors.New("empty list")
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string
}

func NewStatusError(code int) *StatusError {
	return &StatusError{StatusCode: code, Message: fmt.Sprintf("request failed with status code %d", code)}
}

func (e *StatusError) Error() string {
	return e.Message
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match a 401.
func (e *StatusError) Unwrap() error {
	if e.StatusCode == 401 {
		return ErrUnauthorized
	}
	return nil
}

// StatusCode extracts the HTTP status from err, or 0 when err is not a StatusError.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
