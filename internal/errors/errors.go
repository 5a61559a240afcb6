package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"beerdash/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context. Domain sentinels keep
// their matching code so the HTTP layer can map them.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    codeFor(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// GetCode returns the error code if it's an AppError, otherwise the code
// derived from known domain sentinels
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	if err == nil {
		return ""
	}
	return codeFor(err)
}

// HTTPStatus maps an error to the response status the API should use
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case CodeInvalidInput, CodeValidationError:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeEmptyInput:
		return http.StatusUnprocessableEntity
	case CodeExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func codeFor(err error) string {
	switch {
	case stderrors.Is(err, core.ErrEmptyInput):
		return CodeEmptyInput
	case core.IsInputError(err):
		return CodeInvalidInput
	case core.IsNotFoundError(err):
		return CodeNotFound
	default:
		return CodeInternalError
	}
}

// Predefined error codes
const (
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeEmptyInput      = "EMPTY_INPUT"
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeInternalError   = "INTERNAL_ERROR"
	CodeExternalService = "EXTERNAL_SERVICE_ERROR"
	CodeInvalidInput    = "INVALID_INPUT"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func ValidationError(message string) *AppError {
	return New(CodeValidationError, message)
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func ExternalServiceError(service string, cause error) *AppError {
	return &AppError{
		Code:    CodeExternalService,
		Message: fmt.Sprintf("%s service error", service),
		Cause:   cause,
	}
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}
