package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// EC values carried in every response envelope.
const (
	ECOK          = 0
	ECMissing     = 1
	ECDuplicated  = 2
	ECUnknown     = 3
	ECInvalid     = 4
	ECNotFound    = 5
	ECNotVerified = 6
	ECNotPermit   = 7
)

type Error struct {
	Status int
	Code   string
	EC     int
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, EC: ecForStatus(status), Err: err}
}

func ecForStatus(status int) int {
	switch status {
	case http.StatusNotFound:
		return ECNotFound
	case http.StatusConflict:
		return ECDuplicated
	case http.StatusBadRequest:
		return ECMissing
	case http.StatusUnprocessableEntity:
		return ECInvalid
	case http.StatusForbidden, http.StatusUnauthorized:
		return ECNotPermit
	default:
		return ECUnknown
	}
}

func Missing(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "missing_value", EC: ECMissing, Err: errors.New(msg)}
}

func Duplicated(msg string) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Code: "duplicated_value", EC: ECDuplicated, Err: errors.New(msg)}
}

func Invalid(msg string) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Code: "invalid_request", EC: ECInvalid, Err: errors.New(msg)}
}

func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Code: "not_found", EC: ECNotFound, Err: errors.New(msg)}
}

func NotVerified() *Error {
	return &Error{Status: http.StatusForbidden, Code: "not_verified", EC: ECNotVerified, Err: errors.New("You must verified first")}
}

func NotPermit(msg string) *Error {
	if msg == "" {
		msg = "You are not allowed"
	}
	return &Error{Status: http.StatusForbidden, Code: "not_permitted", EC: ECNotPermit, Err: errors.New(msg)}
}

func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: "unauthorized", EC: ECNotPermit, Err: errors.New(msg)}
}

// Unknown wraps a store or dependency failure. The cause stays available to
// logs through Unwrap but is never rendered to clients.
func Unknown(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: "unknown", EC: ECUnknown, Err: err}
}

// Is reports whether err carries an *Error with the given EC.
func Is(err error, ec int) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.EC == ec
	}
	return false
}
