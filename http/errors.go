package http

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the failures a Client can return.
type ErrorKind int

const (
	// KindNone is reported for nil errors and errors not produced by this package.
	KindNone ErrorKind = iota
	// KindConfig covers invalid options and URLs. Nothing was sent.
	KindConfig
	// KindTransport covers connection, DNS and timeout failures.
	KindTransport
	// KindDecode covers response bodies that are not valid JSON.
	KindDecode
)

// String returns the name of the kind
func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	default:
		return "none"
	}
}

// ConfigError reports an invalid option, method or URL.
// Key names the offending option when there is one.
type ConfigError struct {
	Key     string
	Message string
	Err     error
}

// Error returns the error message
func (e *ConfigError) Error() string {
	msg := e.Message
	if e.Key != "" {
		msg = fmt.Sprintf("option %q: %s", e.Key, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("invalid configuration: %s: %v", msg, e.Err)
	}
	return "invalid configuration: " + msg
}

func (e *ConfigError) Unwrap() error { return e.Err }

// TransportError reports a request that could not be exchanged with the
// server. Detail carries whatever the transport captured before failing.
type TransportError struct {
	URL    string
	Detail string
	Err    error
}

// Error returns the error message
func (e *TransportError) Error() string {
	msg := "error opening request to " + e.URL
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports a response body that could not be decoded as JSON.
type DecodeError struct {
	Err error
}

// Error returns the error message
func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid JSON format in response body: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func configErrorf(key, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Key: key, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, looking through wrapped errors.
func KindOf(err error) ErrorKind {
	var (
		cfgErr       *ConfigError
		transportErr *TransportError
		decodeErr    *DecodeError
	)
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &cfgErr):
		return KindConfig
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.As(err, &decodeErr):
		return KindDecode
	}
	return KindNone
}

// IsConfigError returns true if err is or wraps a *ConfigError
func IsConfigError(err error) bool { return KindOf(err) == KindConfig }

// IsTransportError returns true if err is or wraps a *TransportError
func IsTransportError(err error) bool { return KindOf(err) == KindTransport }

// IsDecodeError returns true if err is or wraps a *DecodeError
func IsDecodeError(err error) bool { return KindOf(err) == KindDecode }
