package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the different failure classes of an import invocation
type ErrorType string

const (
	ErrorTypeInvalidIdentifier ErrorType = "invalid_identifier"
	ErrorTypeInvalidSize       ErrorType = "invalid_size"
	ErrorTypeInvalidCustomSize ErrorType = "invalid_custom_size"
	ErrorTypeAPIRequest        ErrorType = "api_request_failed"
	ErrorTypeAPIParse          ErrorType = "api_parse_failed"
	ErrorTypeNetwork           ErrorType = "network"
	ErrorTypeAuth              ErrorType = "auth"
	ErrorTypeImport            ErrorType = "import"
)

// Error is the typed error surfaced by every stage of the pipeline.
// Token is the offending user input, URL the requested endpoint and
// Code the HTTP status when one was received.
type Error struct {
	Type    ErrorType
	Message string
	Token   string
	URL     string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Code != 0:
		return fmt.Sprintf("%s: %s (url %s, HTTP code %d)", e.Type, e.Message, e.URL, e.Code)
	case e.URL != "":
		return fmt.Sprintf("%s: %s (url %s)", e.Type, e.Message, e.URL)
	default:
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
}

// Unwrap returns the underlying cause, if any
func (e *Error) Unwrap() error {
	return e.Err
}

// InvalidIdentifier reports a token that is not a photo ID, page URL or "random"
func InvalidIdentifier(token string) *Error {
	return &Error{
		Type:    ErrorTypeInvalidIdentifier,
		Message: fmt.Sprintf("invalid photo ID '%s'", token),
		Token:   token,
	}
}

// InvalidSize reports an unknown predefined size name
func InvalidSize(name, suggestion string) *Error {
	msg := fmt.Sprintf("unknown image size \"%s\"", name)
	if suggestion != "" {
		msg += fmt.Sprintf(", did you mean \"%s\"?", suggestion)
	}
	return &Error{
		Type:    ErrorTypeInvalidSize,
		Message: msg,
		Token:   name,
	}
}

// InvalidCustomSize reports a custom size that is not WIDTHxHEIGHT
func InvalidCustomSize(value string) *Error {
	return &Error{
		Type:    ErrorTypeInvalidCustomSize,
		Message: fmt.Sprintf("invalid custom image size \"%s\"", value),
		Token:   value,
	}
}

// APIRequestFailed reports a non-2xx response from the photo API
func APIRequestFailed(url string, code int) *Error {
	return &Error{
		Type:    ErrorTypeAPIRequest,
		Message: "couldn't fetch response from Pexels API",
		URL:     url,
		Code:    code,
	}
}

// APIParseFailed reports a response body that holds no usable photo
func APIParseFailed(url string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeAPIParse,
		Message: "failed to parse photo data",
		URL:     url,
		Err:     cause,
	}
}

// Network reports a transport-level failure
func Network(url string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeNetwork,
		Message: fmt.Sprintf("network error: %v", cause),
		URL:     url,
		Err:     cause,
	}
}

// IsType reports whether err (or anything it wraps) is an *Error of type t
func IsType(err error, t ErrorType) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// TypeOf returns the ErrorType of err, or "" when err is not an *Error
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ""
}
