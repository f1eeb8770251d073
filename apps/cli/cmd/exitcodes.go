package cmd

import (
	"errors"

	"github.com/abdul-hamid-achik/apidesk/packages/http"
)

// Exit codes for apidesk CLI
const (
	// ExitSuccess indicates the request completed
	ExitSuccess = 0

	// ExitFailure covers anything not listed below
	ExitFailure = 1

	// ExitValidationError indicates an unsupported method or invalid document
	ExitValidationError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError carries the process exit code for an error. reported means the
// message was already written by a formatter.
type exitError struct {
	code     int
	err      error
	reported bool
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// exitCodeFor maps executor errors to exit codes
func exitCodeFor(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	switch http.KindOf(err) {
	case http.KindValidation:
		return ExitValidationError
	case http.KindTransport:
		return ExitNetworkError
	}
	return ExitFailure
}
