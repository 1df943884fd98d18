// Package apperr defines the tagged error type shared by the auth pipeline,
// the user-service client and the project store. Callers branch on Kind, never
// on the message text; the message is what clients see on the wire.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	// KindAuth covers missing/invalid/expired tokens and rejected users.
	KindAuth Kind = iota + 1
	// KindForbidden marks a known user without the required privilege.
	KindForbidden
	// KindUpstream marks a transport failure against a collaborator service.
	// Never conflated with a definite "invalid user" rejection.
	KindUpstream
	// KindValidation covers missing/malformed parameters and schema mismatches.
	KindValidation
	// KindNotFound marks an unmatched project id. Deliberately mapped to 400,
	// not 404; downstream clients depend on it.
	KindNotFound
	// KindConflict marks a toggle that matched but changed nothing
	// (already liked/pinned/removed).
	KindConflict
)

type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// KindOf returns the Kind of err, or 0 when err carries no *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Payload is the error wire shape clients expect:
// {"statusCode": 401, "error": "Unauthorized", "message": "Token Required"}.
type Payload struct {
	StatusCode int    `json:"statusCode"`
	ErrorText  string `json:"error"`
	Message    string `json:"message"`
}

// PayloadFor builds the response status and body for err.
func PayloadFor(err error) (int, Payload) {
	status := Status(err)
	return status, Payload{
		StatusCode: status,
		ErrorText:  http.StatusText(status),
		Message:    err.Error(),
	}
}

// Status maps an error to the HTTP status the original service used.
// Unknown errors are treated as internal.
func Status(err error) int {
	switch KindOf(err) {
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindUpstream:
		return http.StatusBadGateway
	case KindValidation, KindNotFound, KindConflict:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
