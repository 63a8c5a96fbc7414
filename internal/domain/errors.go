// Package domain provides shared domain-level error types.
package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrValidation indicates the request failed input validation.
var ErrValidation = errors.New("validation failed")

// Code identifies an error category surfaced to API clients.
type Code string

const (
	CodeInvalidRequest      Code = "INVALID_REQUEST"
	CodeTranscriptionFailed Code = "TRANSCRIPTION_FAILED"
	CodeAudioEmpty          Code = "AUDIO_EMPTY"
	CodeServiceUnavailable  Code = "SERVICE_UNAVAILABLE"
	CodeInternal            Code = "INTERNAL_ERROR"
)

// AppError is a tagged, user-presentable error. Message and Suggestion are
// safe to return to clients; the wrapped cause is logged server-side only.
type AppError struct {
	Code       Code
	HTTPStatus int
	Message    string
	Suggestion string
	cause      error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the internal cause for errors.Is/As chains.
func (e *AppError) Unwrap() error { return e.cause }

// WithCause attaches an internal cause without changing the client-facing fields.
func (e *AppError) WithCause(err error) *AppError {
	clone := *e
	clone.cause = err
	return &clone
}

// NewInvalidRequest reports a malformed or missing input field.
func NewInvalidRequest(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidRequest,
		HTTPStatus: http.StatusBadRequest,
		Message:    message,
	}
}

// NewTranscriptionFailed reports an upstream speech-to-text failure.
func NewTranscriptionFailed(message, suggestion string) *AppError {
	return &AppError{
		Code:       CodeTranscriptionFailed,
		HTTPStatus: http.StatusBadGateway,
		Message:    message,
		Suggestion: suggestion,
	}
}

// NewAudioEmpty reports audio input too short or silent to transcribe.
func NewAudioEmpty() *AppError {
	return &AppError{
		Code:       CodeAudioEmpty,
		HTTPStatus: http.StatusBadRequest,
		Message:    "No speech detected in the recording",
		Suggestion: "Try recording again, a little closer to the microphone",
	}
}

// NewServiceBusy reports a temporarily overloaded upstream service.
func NewServiceBusy(service string) *AppError {
	return &AppError{
		Code:       CodeServiceUnavailable,
		HTTPStatus: http.StatusServiceUnavailable,
		Message:    service + " is busy right now",
		Suggestion: "Wait a moment and try again",
	}
}

// NewInternal reports an unexpected failure. The message shown to clients is
// generic; err is kept for server-side logging via Unwrap.
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		HTTPStatus: http.StatusInternalServerError,
		Message:    "Something went wrong on our side",
		cause:      err,
	}
}

// AsAppError extracts an *AppError from an error chain, or wraps unknown
// errors as internal.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternal(err)
}
