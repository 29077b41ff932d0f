// Package errors provides error types and handling for upload operations.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents an upload operation error with context about the
// operation that failed. It wraps the underlying transport or preparation
// error with additional context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "transfer", "uploadFile")
	Op string

	// URL is the destination endpoint (if applicable)
	URL string

	// StatusCode is the HTTP status the endpoint answered with (if any)
	StatusCode int

	// Call is the executed HTTP request the failure belongs to, for
	// diagnostic correlation (if any)
	Call *http.Request

	// Err is the underlying error from the transport or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.URL != "" && e.StatusCode != 0 {
		return fmt.Sprintf("upload.%s %s: status %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	if e.URL != "" {
		return fmt.Sprintf("upload.%s %s: %v", e.Op, e.URL, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("upload.%s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upload.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithURL adds destination context to an existing error.
func (e *Error) WithURL(url string) *Error {
	e.URL = url
	return e
}

// WithStatusCode adds the HTTP status the endpoint answered with.
func (e *Error) WithStatusCode(code int) *Error {
	e.StatusCode = code
	return e
}

// WithCall tags the error with the executed HTTP request it belongs to.
func (e *Error) WithCall(req *http.Request) *Error {
	e.Call = req
	return e
}

// CallOf extracts the executed request from an error chain.
// It returns nil when no Error in the chain carries one.
func CallOf(err error) *http.Request {
	var e *Error
	if errors.As(err, &e) {
		return e.Call
	}
	return nil
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewHTTPError creates a new Error for a non-success response from the endpoint.
func NewHTTPError(op, url string, statusCode int, err error) *Error {
	return &Error{
		Op:         op,
		URL:        url,
		StatusCode: statusCode,
		Err:        err,
	}
}

// StatusCodeOf extracts the HTTP status code from an error chain.
// It returns 0 when no Error in the chain carries one.
func StatusCodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// Sentinel errors for upload operation failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("upload: invalid input")

	// ErrAlreadyExecuted indicates a transfer was started more than once;
	// each transfer consumes its payload stream and is single-use
	ErrAlreadyExecuted = errors.New("upload: transfer already executed")

	// ErrPayload indicates the payload could not be read or encrypted
	// before any network call was made
	ErrPayload = errors.New("upload: payload preparation failed")

	// ErrHostLookup indicates name resolution for the destination host failed
	ErrHostLookup = errors.New("upload: host lookup failed")

	// ErrConnection indicates a socket or TLS failure while reaching the endpoint
	ErrConnection = errors.New("upload: connection failed")

	// ErrTimeout indicates the operation timed out
	ErrTimeout = errors.New("upload: operation timeout")

	// ErrCancelled indicates the caller cancelled the transfer
	ErrCancelled = errors.New("upload: transfer cancelled")

	// ErrTransport indicates a network-level failure while executing the request
	ErrTransport = errors.New("upload: transport failure")

	// ErrRejected indicates the endpoint answered with a non-success status
	ErrRejected = errors.New("upload: request rejected")
)

// IsInvalidInput checks if an error indicates invalid input.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsPayload checks if an error occurred while preparing the payload,
// before any network call was made.
func IsPayload(err error) bool {
	return errors.Is(err, ErrPayload)
}

// IsHostLookup checks if an error indicates the destination host could not be resolved.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsHostLookup(err error) bool {
	return errors.Is(err, ErrHostLookup)
}

// IsConnection checks if an error indicates a socket or TLS failure.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsTimeout checks if an error indicates the operation timed out.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCancelled checks if an error indicates the transfer was cancelled.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}

// IsRejected checks if an error indicates the endpoint answered with a
// non-success status. Use StatusCodeOf to recover the status code.
func IsRejected(err error) bool {
	return errors.Is(err, ErrRejected)
}
