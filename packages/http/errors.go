package http

import (
	"errors"
	"fmt"
)

// ErrorKind tells validation failures apart from transport failures.
type ErrorKind int

const (
	// KindValidation means the request was rejected before any I/O.
	KindValidation ErrorKind = iota + 1
	// KindTransport covers connection, send and receive failures, including an
	// undecodable response body.
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is returned by Executor.Execute. Its message is what the desktop shell
// shows to the user as-is.
type Error struct {
	Kind   ErrorKind
	Method string
	URL    string
	Err    error
}

func (e *Error) Error() string {
	if e.Kind == KindValidation {
		return fmt.Sprintf("Unsupported method: %s", e.Method)
	}
	if e.Err == nil {
		return "transport failed"
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrBodyNotText is wrapped when a response body is neither valid UTF-8 nor
// decodable with its declared charset.
var ErrBodyNotText = errors.New("error decoding response body: invalid UTF-8")

func transportError(method, url string, err error) *Error {
	return &Error{Kind: KindTransport, Method: method, URL: url, Err: err}
}

// KindOf returns the kind of an executor error, or 0 if err is not one.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

func IsTransport(err error) bool {
	return KindOf(err) == KindTransport
}
