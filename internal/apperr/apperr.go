// Package apperr defines the error taxonomy shared by the service and HTTP
// layers. Every failure that reaches a handler is either an *Error carrying a
// Code or an unclassified error, which is rendered as an upstream failure.
package apperr

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeNotFound          Code = "NOT_FOUND"
	CodeInvalidCredential Code = "INVALID_CREDENTIAL"
	CodeUnauthenticated   Code = "UNAUTHENTICATED"
	CodeValidation        Code = "VALIDATION_FAILURE"
	CodeInvalidArgument   Code = "INVALID_ARGUMENT"
	CodeConflict          Code = "CONFLICT"
	CodeRateLimit         Code = "RATE_LIMITED"
	CodeUpstream          Code = "UPSTREAM_FAILURE"
)

// Metadata describes how a code is presented at the HTTP boundary.
type Metadata struct {
	HTTPStatus     int
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeNotFound: {
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "resource not found",
	},
	CodeInvalidCredential: {
		HTTPStatus:    http.StatusBadRequest,
		PublicMessage: "invalid credentials",
	},
	CodeUnauthenticated: {
		HTTPStatus:    http.StatusUnauthorized,
		PublicMessage: "authentication required",
	},
	CodeValidation: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeInvalidArgument: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "invalid argument",
		DetailsAllowed: true,
	},
	CodeConflict: {
		HTTPStatus:    http.StatusConflict,
		PublicMessage: "conflict detected",
	},
	CodeRateLimit: {
		HTTPStatus:    http.StatusTooManyRequests,
		PublicMessage: "rate limit exceeded",
	},
	CodeUpstream: {
		HTTPStatus:    http.StatusInternalServerError,
		PublicMessage: "internal server error",
	},
}

// MetadataFor returns the presentation metadata for code, falling back to
// the upstream failure entry for unknown codes.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeUpstream]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func NotFound(message string) *Error          { return New(CodeNotFound, message) }
func Unauthenticated(message string) *Error   { return New(CodeUnauthenticated, message) }
func InvalidCredential(message string) *Error { return New(CodeInvalidCredential, message) }
func InvalidArgument(message string) *Error   { return New(CodeInvalidArgument, message) }
func Validation(message string) *Error        { return New(CodeValidation, message) }
func Conflict(message string) *Error          { return New(CodeConflict, message) }

func Upstream(err error, message string) *Error {
	return Wrap(CodeUpstream, err, message)
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeUpstream
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts the first *Error in err's chain, or nil.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf reports the code of err; unclassified errors are upstream failures.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	return CodeUpstream
}

// Is reports whether err carries code.
func Is(err error, code Code) bool {
	typed := As(err)
	return typed != nil && typed.Code() == code
}
