package api

import (
	"errors"
	"net/http"
)

// ErrorKind classifies a failed call.
type ErrorKind int

const (
	// KindTransport means the request never completed or the response could
	// not be decoded.
	KindTransport ErrorKind = iota
	KindUnauthorized
	KindValidation
	KindNotFound
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	default:
		return "server"
	}
}

const (
	// MsgConnection is shown for every transport-level failure.
	MsgConnection = "connection error, try again"
	// MsgInvalidCredentials is the login 401 text when the server sends none.
	MsgInvalidCredentials = "invalid email or password"
	// MsgEmailInUse is the profile update 400 text when the server sends none.
	MsgEmailInUse = "email already in use"
	// MsgEmailNotFound is the forgot-password 404 text when the server sends none.
	MsgEmailNotFound = "email not found"
)

// Error is the only error type returned by Client operations. Message is
// always fit to show to the user as-is.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// Message returns the user-facing text for any error, falling back to the
// generic connection message for errors that did not come from the API.
// Callers translate their own sentinel errors before reaching for it.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return MsgConnection
}

func transportError(err error) *Error {
	return &Error{Kind: KindTransport, Message: MsgConnection, Err: err}
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindServer
	}
}
