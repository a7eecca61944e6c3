package errors

import (
	"errors"
	"fmt"
)

// User-facing messages for load failures
const (
	MsgNetworkFailure = "Unable to reach the user service."
	MsgBadStatus      = "Failed to fetch users."
	MsgUnknown        = "Unknown error"
)

// NetworkError represents a transport failure while talking to the user source
type NetworkError struct {
	Endpoint string
	Err      error
}

// NewNetworkError creates a new network error
func NewNetworkError(endpoint string, err error) *NetworkError {
	return &NetworkError{
		Endpoint: endpoint,
		Err:      err,
	}
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("request to %s failed", e.Endpoint)
}

// Unwrap returns the wrapped error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// BadStatusError represents a non-success HTTP response from the user source
type BadStatusError struct {
	Endpoint   string
	StatusCode int
}

// NewBadStatusError creates a new bad status error
func NewBadStatusError(endpoint string, statusCode int) *BadStatusError {
	return &BadStatusError{
		Endpoint:   endpoint,
		StatusCode: statusCode,
	}
}

// Error implements the error interface
func (e *BadStatusError) Error() string {
	return fmt.Sprintf("%s responded with status %d", e.Endpoint, e.StatusCode)
}

// MalformedPayloadError represents a response body that could not be
// turned into user records
type MalformedPayloadError struct {
	Message string
	Err     error
}

// NewMalformedPayloadError creates a new malformed payload error
func NewMalformedPayloadError(message string, err error) *MalformedPayloadError {
	return &MalformedPayloadError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *MalformedPayloadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Invalid user data: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("Invalid user data: %s", e.Message)
}

// Unwrap returns the wrapped error
func (e *MalformedPayloadError) Unwrap() error {
	return e.Err
}

// UserMessage converts a load failure into the message shown in place of
// the user table. It returns an empty string for a nil error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var networkErr *NetworkError
	if errors.As(err, &networkErr) {
		return MsgNetworkFailure
	}

	var statusErr *BadStatusError
	if errors.As(err, &statusErr) {
		return MsgBadStatus
	}

	var payloadErr *MalformedPayloadError
	if errors.As(err, &payloadErr) {
		return payloadErr.Error()
	}

	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgUnknown
}
