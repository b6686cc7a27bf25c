package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unified error code across the adapter layer.
type ErrorCode string

// Configuration error codes
const (
	ErrIncompleteConfig      ErrorCode = "INCOMPLETE_CONFIGURATION"
	ErrInvalidRequest        ErrorCode = "INVALID_REQUEST"
	ErrCapabilityUnsupported ErrorCode = "CAPABILITY_UNSUPPORTED"
	ErrMediaEncoding         ErrorCode = "MEDIA_ENCODING"
)

// Transport error codes
const (
	ErrUpstreamTimeout ErrorCode = "UPSTREAM_TIMEOUT"
	ErrUpstreamError   ErrorCode = "UPSTREAM_ERROR"
	ErrCanceled        ErrorCode = "CANCELED"
)

// Provider error codes
const (
	ErrUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrForbidden        ErrorCode = "FORBIDDEN"
	ErrRateLimited      ErrorCode = "RATE_LIMITED"
	ErrQuotaExceeded    ErrorCode = "QUOTA_EXCEEDED"
	ErrModelNotFound    ErrorCode = "MODEL_NOT_FOUND"
	ErrModelOverloaded  ErrorCode = "MODEL_OVERLOADED"
	ErrProviderRejected ErrorCode = "PROVIDER_REJECTED"
)

// Decode error codes
const (
	ErrMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	ErrMalformedStream   ErrorCode = "MALFORMED_STREAM"
)

// ErrorKind is the coarse failure taxonomy callers branch on.
type ErrorKind string

const (
	// KindConfiguration: missing key/endpoint/model or an unsupported capability, detected before I/O.
	KindConfiguration ErrorKind = "configuration"
	// KindTransport: network failure, DNS, timeout.
	KindTransport ErrorKind = "transport"
	// KindProvider: the provider answered with a non-2xx status or an error envelope.
	KindProvider ErrorKind = "provider"
	// KindDecode: malformed JSON or stream framing.
	KindDecode ErrorKind = "decode"
)

// Error represents a structured error with code, kind, message, and metadata.
type Error struct {
	Code       ErrorCode `json:"code"`
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Retryable  bool      `json:"retryable"`
	Provider   string    `json:"provider,omitempty"`
	Cause      error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Kind: kindOf(code), Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithHTTPStatus sets the HTTP status code.
func (e *Error) WithHTTPStatus(status int) *Error {
	e.HTTPStatus = status
	return e
}

// WithRetryable marks the error as retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// WithProvider sets the provider name.
func (e *Error) WithProvider(provider string) *Error {
	e.Provider = provider
	return e
}

// NewConfigurationError reports input that can never succeed, detected before any network I/O.
func NewConfigurationError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Kind: KindConfiguration, Message: message}
}

// NewTransportError wraps a network-level failure.
func NewTransportError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Kind: KindTransport, Message: message, Cause: cause, Retryable: true}
}

// NewProviderError carries a provider rejection; message is the provider's raw body.
func NewProviderError(code ErrorCode, status int, message string) *Error {
	return &Error{Code: code, Kind: KindProvider, Message: message, HTTPStatus: status}
}

// NewDecodeError reports a payload we could not understand.
func NewDecodeError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Kind: KindDecode, Message: message, Cause: cause}
}

// AsError extracts a *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if e, ok := AsError(err); ok {
		return e.Retryable
	}
	return false
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := AsError(err); ok {
		return e.Code
	}
	return ""
}

// GetErrorKind extracts the error kind from an error.
func GetErrorKind(err error) ErrorKind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return ""
}

func kindOf(code ErrorCode) ErrorKind {
	switch code {
	case ErrIncompleteConfig, ErrInvalidRequest, ErrCapabilityUnsupported, ErrMediaEncoding:
		return KindConfiguration
	case ErrUpstreamTimeout, ErrUpstreamError, ErrCanceled:
		return KindTransport
	case ErrMalformedResponse, ErrMalformedStream:
		return KindDecode
	default:
		return KindProvider
	}
}
