package httpclient

import (
	"errors"
	"fmt"
)

// Kind classifies HTTP client errors.
type Kind int

const (
	// KindNetwork indicates no response was obtained (refused, DNS, reset).
	KindNetwork Kind = iota
	// KindTimeout indicates the attempt was cancelled after its threshold.
	KindTimeout
	// KindServer indicates a non-2xx response with a structured body.
	KindServer
	// KindParse indicates a body that could not be parsed as JSON.
	KindParse
	// KindUnauthorized indicates a 401 response.
	KindUnauthorized
	// KindInvalid indicates a request that could not be constructed.
	KindInvalid
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindServer:
		return "server"
	case KindParse:
		return "parse"
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// MarshalText renders the kind by name in JSON and YAML output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Error is the canonical failure value for one request.
type Error struct {
	// Kind classifies the error.
	Kind Kind `json:"kind" yaml:"kind"`
	// Message is human-readable.
	Message string `json:"message" yaml:"message"`
	// Status is the HTTP status code, 0 when no response was received.
	Status int `json:"status" yaml:"status"`
	// Code is the backend's machine-readable error code, if any.
	Code string `json:"code,omitempty" yaml:"code,omitempty"`
	// Body is the raw response body (may be nil).
	Body []byte `json:"-" yaml:"-"`
	// Err is the underlying error.
	Err error `json:"-" yaml:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error {
	return &Error{
		Kind:    KindTimeout,
		Message: "Request timed out",
		Err:     err,
	}
}

// NewNetworkError creates a network error.
func NewNetworkError(err error) *Error {
	msg := "Network error occurred"
	if err != nil {
		msg = err.Error()
	}
	return &Error{
		Kind:    KindNetwork,
		Message: msg,
		Err:     err,
	}
}

// NewParseError creates a parse error carrying the raw body as its message,
// or "Server returned <status>" when the body is empty.
func NewParseError(status int, body []byte, err error) *Error {
	msg := string(body)
	if msg == "" {
		msg = fmt.Sprintf("Server returned %d", status)
	}
	return &Error{
		Kind:    KindParse,
		Message: msg,
		Status:  status,
		Body:    body,
		Err:     err,
	}
}

// NewInvalidError creates an error for a request that could not be built.
func NewInvalidError(msg string, err error) *Error {
	return &Error{
		Kind:    KindInvalid,
		Message: msg,
		Err:     err,
	}
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	return hasKind(err, KindTimeout)
}

// IsNetwork checks if an error is a network error.
func IsNetwork(err error) bool {
	return hasKind(err, KindNetwork)
}

// IsServer checks if an error is a structured server error.
func IsServer(err error) bool {
	return hasKind(err, KindServer)
}

// IsParse checks if an error is a parse error.
func IsParse(err error) bool {
	return hasKind(err, KindParse)
}

// IsUnauthorized checks if an error is a 401.
func IsUnauthorized(err error) bool {
	return hasKind(err, KindUnauthorized)
}

// IsInvalid checks if an error is a client-side construction error.
func IsInvalid(err error) bool {
	return hasKind(err, KindInvalid)
}

// AsError extracts the *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func hasKind(err error, kind Kind) bool {
	e, ok := AsError(err)
	return ok && e != nil && e.Kind == kind
}
