// Package apperror defines the error taxonomy shared by the store, the
// credential service and the HTTP layer.
//
// Every expected failure is an *AppError carrying a symbolic Code such as
// "duplicate_email". The code is what callers branch on and what the HTTP
// layer puts in the "error" field of a response body. Sentinels make the
// same classification available to errors.Is.
package apperror

import (
	"errors"
	"fmt"
)

// Symbolic failure codes. These strings are part of the API contract.
const (
	CodeValidation         = "validation_error"
	CodeInvalidEmail       = "invalid_email"
	CodeDuplicateEmail     = "duplicate_email"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidHeader      = "invalid_header"
	CodeIO                 = "io_error"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidHeader      = errors.New("invalid header")
	ErrIO                 = errors.New("io error")
)

type AppError struct {
	Err     error  // sentinel classifying the failure
	Code    string // symbolic code, e.g. "duplicate_email"
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
	Cause   error  // Optional: underlying error (filesystem, parser)
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes both the sentinel and the cause, so errors.Is matches
// apperror.ErrIO as well as e.g. fs.ErrPermission.
func (e *AppError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Code:    CodeValidation,
		Message: message,
		Field:   field,
	}
}

func InvalidEmail(email string) *AppError {
	return &AppError{
		Err:     ErrInvalidEmail,
		Code:    CodeInvalidEmail,
		Message: fmt.Sprintf("%q is not a valid email address", email),
		Field:   "email",
	}
}

func DuplicateEmail(email string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Code:    CodeDuplicateEmail,
		Message: fmt.Sprintf("an account with email %s already exists", email),
		Field:   "email",
	}
}

// InvalidCredentials is returned for both an unknown email and a wrong
// password so callers cannot tell which one it was.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Code:    CodeInvalidCredentials,
		Message: "email or password is incorrect",
	}
}

func InvalidHeader(path, got, want string) *AppError {
	return &AppError{
		Err:     ErrInvalidHeader,
		Code:    CodeInvalidHeader,
		Message: fmt.Sprintf("table %s has header %q, want %q", path, got, want),
	}
}

// IO wraps a filesystem or parse failure on the table at path.
func IO(op, path string, cause error) *AppError {
	return &AppError{
		Err:     ErrIO,
		Code:    CodeIO,
		Message: fmt.Sprintf("%s %s", op, path),
		Cause:   cause,
	}
}

// CodeOf returns the symbolic code of the first *AppError in err's chain,
// or "" when err carries none.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
