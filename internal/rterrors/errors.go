// Package rterrors provides the runtime's error envelope: the codes attached to
// script-exception messages and to the admin surface's JSON error responses.
package rterrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error classification.
type Code string

const (
	CodeInvalidArgument Code = "invalid_argument"
	CodeNotFound        Code = "not_found"
	CodeUnavailable     Code = "unavailable"
	CodeInternal        Code = "internal"
	CodeCanceled        Code = "canceled"
)

// Error is the runtime's error envelope. Unlike the RPC error type it was
// adapted from, it carries an optional Cause instead of a free-form Details
// map: nothing in this runtime validates structured request payloads, so
// there is nothing to report per-field.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates a runtime error with no wrapped cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a runtime error wrapping cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Errorf creates a runtime error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// FromError classifies an arbitrary error into a runtime Error, preserving it
// unchanged if it already is one.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var rtErr *Error
	if errors.As(err, &rtErr) {
		return rtErr
	}
	return Wrap(CodeInternal, "unclassified error", err)
}

// HTTPStatus maps a Code to an HTTP status code, for the admin surface.
func HTTPStatus(code Code) int {
	switch code {
	case CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeCanceled:
		return 499
	case CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes err to w as a JSON error envelope with the matching status.
func WriteJSON(w http.ResponseWriter, err *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(err.Code))
	_ = json.NewEncoder(w).Encode(struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	}{err.Code, err.Message})
}
