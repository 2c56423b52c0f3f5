package client

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of failure conditions the service boundary
// can produce. Callers branch on Kind, never on message text.
type ErrorKind string

const (
	KindNotFound      ErrorKind = "not_found"
	KindTimeout       ErrorKind = "timeout"
	KindBadRequest    ErrorKind = "bad_request"
	KindServerError   ErrorKind = "server_error"
	KindRequestFailed ErrorKind = "request_failed"
	KindValidation    ErrorKind = "validation"
	KindMaxRetries    ErrorKind = "max_retries"
)

// Error is a classified failure from the service boundary. Detail is the
// human-readable message shown to the user; Status is the HTTP status that
// produced it, when there was one.
type Error struct {
	Kind   ErrorKind
	Detail string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the kind from any error in the chain, or KindRequestFailed
// for unclassified errors.
func KindOf(err error) ErrorKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindRequestFailed
}

func statusError(status int, body []byte) *Error {
	switch {
	case status == 404:
		return &Error{Kind: KindNotFound, Detail: "document not found", Status: status}
	case status == 408:
		return &Error{Kind: KindTimeout, Detail: "request timeout - processing is taking longer than expected", Status: status}
	case status == 400:
		return &Error{Kind: KindBadRequest, Detail: badRequestDetail(body), Status: status}
	case status >= 500:
		return &Error{Kind: KindServerError, Detail: "server error - please try again later", Status: status}
	default:
		return &Error{Kind: KindRequestFailed, Detail: fmt.Sprintf("request failed with status: %d", status), Status: status}
	}
}
