package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures for the HTTP edge
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
)

// AppError is a failure whose message is safe to show to the caller
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func newAppError(kind ErrorKind, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func ValidationErrorf(format string, args ...any) error {
	return newAppError(KindValidation, format, args...)
}

func NotFoundErrorf(format string, args ...any) error {
	return newAppError(KindNotFound, format, args...)
}

func ConflictErrorf(format string, args ...any) error {
	return newAppError(KindConflict, format, args...)
}

func UnauthorizedErrorf(format string, args ...any) error {
	return newAppError(KindUnauthorized, format, args...)
}

func ForbiddenErrorf(format string, args ...any) error {
	return newAppError(KindForbidden, format, args...)
}

// InternalError wraps an unexpected failure behind a generic message
func InternalError(message string, err error) error {
	return &AppError{Kind: KindInternal, Message: message, Err: err}
}

// KindOf returns the kind of err, KindInternal for foreign errors
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err is an AppError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
