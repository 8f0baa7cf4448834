// Package apperr defines the error taxonomy shared by the task adapters and
// the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

// Code identifies which stage of a task failed.
type Code string

const (
	Validation      Code = "validation"
	MediaProcessing Code = "media_processing"
	Transcription   Code = "transcription"
	Summarization   Code = "summarization"
	RemoteService   Code = "remote_service"
	MalformedTable  Code = "malformed_table_output"
	Internal        Code = "internal"
)

// Error is a classified failure. Message is safe to show to API callers.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Details returns the human-readable text for the API "details" field: the
// message followed by the underlying cause, if any.
func (e *Error) Details() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// New returns an *Error without an underlying cause.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap classifies err under code. A nil err yields nil.
func Wrap(code Code, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// CodeOf returns the code of the outermost *Error in err's chain, or Internal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Internal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}
