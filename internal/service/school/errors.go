package school

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is a non-2xx answer of the remote API.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("school api: status %d", e.Code)
	}
	return fmt.Sprintf("school api: status %d: %s", e.Code, e.Message)
}

// EnvelopeError is a 2xx answer carrying success:false.
type EnvelopeError struct {
	Message string
}

func (e *EnvelopeError) Error() string {
	if e.Message == "" {
		return "school api: request not successful"
	}
	return "school api: " + e.Message
}

func statusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

func IsUnauthorized(err error) bool {
	return statusCode(err) == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	return statusCode(err) == http.StatusNotFound
}

// Message returns the text the server gave for err, or fallback.
func Message(err error, fallback string) string {
	var se *StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	var ee *EnvelopeError
	if errors.As(err, &ee) && ee.Message != "" {
		return ee.Message
	}
	return fallback
}
