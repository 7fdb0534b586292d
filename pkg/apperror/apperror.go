// Package apperror is the error taxonomy shared by services and the HTTP layer.
// Kind decides the HTTP status; Code is the stable value clients switch on.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation        Kind = "VALIDATION_ERROR"
	KindUnauthorized      Kind = "UNAUTHORIZED"
	KindForbidden         Kind = "FORBIDDEN"
	KindNotFound          Kind = "NOT_FOUND"
	KindConflict          Kind = "CONFLICT"
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK"
	KindTooManyRequests   Kind = "TOO_MANY_REQUESTS"
	KindUnavailable       Kind = "SERVICE_UNAVAILABLE"
	KindInternal          Kind = "INTERNAL"
)

var kindStatus = map[Kind]int{
	KindValidation:        http.StatusUnprocessableEntity,
	KindUnauthorized:      http.StatusUnauthorized,
	KindForbidden:         http.StatusForbidden,
	KindNotFound:          http.StatusNotFound,
	KindConflict:          http.StatusConflict,
	KindInsufficientStock: http.StatusConflict,
	KindTooManyRequests:   http.StatusTooManyRequests,
	KindUnavailable:       http.StatusServiceUnavailable,
	KindInternal:          http.StatusInternalServerError,
}

// Error is a classified domain error. Fields carries per-field messages for
// validation failures and is rendered as the envelope's "errors" map.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Code so a per-occurrence error (with its own message) still
// satisfies errors.Is against the package-level sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *Error) HTTPStatus() int {
	if s, ok := kindStatus[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// WithMessage returns a copy carrying msg.
func (e *Error) WithMessage(msg string) *Error {
	cp := *e
	cp.Message = msg
	return &cp
}

// WithField returns a copy with msg appended under field.
func (e *Error) WithField(field, msg string) *Error {
	cp := *e
	cp.Fields = make(map[string][]string, len(e.Fields)+1)
	for k, v := range e.Fields {
		cp.Fields[k] = append([]string(nil), v...)
	}
	cp.Fields[field] = append(cp.Fields[field], msg)
	return &cp
}

// Wrap returns a copy that records err as the cause.
func (e *Error) Wrap(err error) *Error {
	cp := *e
	cp.Err = err
	return &cp
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Validation(message string, fields map[string][]string) *Error {
	return &Error{Kind: KindValidation, Code: string(KindValidation), Message: message, Fields: fields}
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, string(KindUnauthorized), message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, string(KindForbidden), message)
}

func NotFound(resource string) *Error {
	return New(KindNotFound, string(KindNotFound), resource+" not found")
}

func Conflict(code, message string) *Error {
	return New(KindConflict, code, message)
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: string(KindInternal), Message: "internal server error", Err: err}
}

// From classifies err. Anything that is not already an *Error becomes Internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// KindOf returns the kind of err, or KindInternal.
func KindOf(err error) Kind {
	return From(err).Kind
}
