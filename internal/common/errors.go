package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrMissingCredential = errors.New("missing credential")
	ErrUnreadableInput   = errors.New("unreadable input file")
	ErrDatabase          = errors.New("database error")
	ErrValidation        = errors.New("validation failed")
)

// Error codes carried by AppError.
const (
	CodeConfig   = "CONFIG_ERROR"
	CodeInput    = "INPUT_ERROR"
	CodeOutput   = "OUTPUT_ERROR"
	CodeDatabase = "DATABASE_ERROR"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// InputError marks a malformed or unreadable input file. Callers treat it as fatal.
func InputError(path string, cause error) error {
	return NewAppError(CodeInput, fmt.Sprintf("cannot read %q", path), errors.Join(ErrUnreadableInput, cause))
}

// IsInputError reports whether err came from an unreadable input file.
func IsInputError(err error) bool {
	return errors.Is(err, ErrUnreadableInput)
}
