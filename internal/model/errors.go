package model

import "fmt"

// ErrorKind classifies a gateway failure. The kind decides the HTTP status
// the API layer answers with and whether a retry is ever attempted.
type ErrorKind int

const (
	// ErrorValidation means a required inbound field was missing or empty.
	// Never retried; no outbound call is made.
	ErrorValidation ErrorKind = iota
	// ErrorUpstream means the remote API answered with a failure.
	ErrorUpstream
	// ErrorTransport means the outbound call itself failed: network error,
	// timeout, or an unparseable response body.
	ErrorTransport
)

// Well-known error codes used when the upstream payload carries none.
const (
	CodeTransport  = 1001
	CodeValidation = 1002
)

// GatewayError is the single error type crossing the translation core's
// boundary. Code is int or string, matching whatever the upstream reported.
type GatewayError struct {
	Kind    ErrorKind
	Code    interface{}
	Message string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s (code %v)", e.Message, e.Code)
}

// NewValidationError builds a validation failure with the fixed code.
func NewValidationError(message string) *GatewayError {
	return &GatewayError{Kind: ErrorValidation, Code: CodeValidation, Message: message}
}

// NewTransportError wraps a network or decoding failure.
func NewTransportError(cause error) *GatewayError {
	return &GatewayError{
		Kind:    ErrorTransport,
		Code:    CodeTransport,
		Message: fmt.Sprintf("eKomKassa connection error: %v", cause),
	}
}

// NewUpstreamError builds a failure from an upstream error code and message.
func NewUpstreamError(code interface{}, message string) *GatewayError {
	return &GatewayError{Kind: ErrorUpstream, Code: code, Message: message}
}
