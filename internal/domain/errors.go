package domain

import (
	"errors"
	"fmt"
)

// Code is a stable machine-readable failure kind. Batch drivers and API
// handlers match on codes rather than message text.
type Code string

const (
	CodeNotFound           Code = "NOT_FOUND"
	CodeNotAFile           Code = "NOT_A_FILE"
	CodeUnsupportedFormat  Code = "UNSUPPORTED_FORMAT"
	CodeUnreadable         Code = "UNREADABLE"
	CodeMetadataExtraction Code = "METADATA_EXTRACTION"
	CodeLoading            Code = "LOADING"
	CodeSplitting          Code = "SPLITTING"
	CodeCheckpoint         Code = "CHECKPOINT"
	CodeStorage            Code = "STORAGE"
	CodeLedgerUnavailable  Code = "LEDGER_UNAVAILABLE"
	CodeRetrieval          Code = "RETRIEVAL"
	CodeGeneration         Code = "GENERATION"
	CodeRAGQuery           Code = "RAG_QUERY"
)

// Error is the one failure type all pipeline stages report through. Path
// names the file or resource the failure relates to, when there is one.
type Error struct {
	Code    Code
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	s := string(e.Code)
	if e.Path != "" {
		s += ": " + e.Path
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes errors.Is match two domain errors by code, so callers can compare
// against a bare &Error{Code: ...} target.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// Errorf builds a domain error with a formatted message and no cause.
func Errorf(code Code, path, format string, args ...any) *Error {
	return &Error{Code: code, Path: path, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds a domain error around an underlying cause.
func Wrap(code Code, path string, err error) *Error {
	return &Error{Code: code, Path: path, Err: err}
}

// CodeOf returns the code of err if it is (or wraps) a domain error, or the
// empty string otherwise.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err is (or wraps) a domain error with the given code.
func IsCode(err error, code Code) bool {
	return CodeOf(err) == code
}
