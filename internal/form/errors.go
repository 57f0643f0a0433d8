package form

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when Translate is called while a request is in flight.
var ErrBusy = errors.New("translation already in progress")

// ValidationError rejects an action before any network or clipboard work.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RequestError is a non-2xx answer from the translation endpoint.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	return e.Message
}

// TransportError covers network failures and malformed success bodies.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return e.Cause.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ClipboardError is any failure of the copy action.
type ClipboardError struct {
	Cause error
}

func (e *ClipboardError) Error() string {
	return fmt.Sprintf("clipboard: %v", e.Cause)
}

func (e *ClipboardError) Unwrap() error {
	return e.Cause
}
