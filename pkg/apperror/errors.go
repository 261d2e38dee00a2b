package apperror

import (
	"fmt"
	"net/http"
)

// ErrorCode identifies a class of application failure.
type ErrorCode int

const (
	ErrValidation ErrorCode = iota + 1000
	ErrDuplicateEmail
	ErrDuplicateVehicleNumber
	ErrInvalidCredentials
	ErrNotFound
	ErrInvalidID
	ErrUploadFailed
	ErrUpstreamUnavailable
	ErrInternal
)

// AppError is the error type crossing service boundaries. Handlers map
// it to an HTTP status via StatusCode.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error class to its HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrValidation, ErrInvalidID:
		return http.StatusBadRequest
	case ErrDuplicateEmail, ErrDuplicateVehicleNumber:
		return http.StatusConflict
	case ErrInvalidCredentials:
		return http.StatusUnauthorized
	case ErrNotFound:
		return http.StatusNotFound
	case ErrUploadFailed, ErrUpstreamUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func Validation(message string) *AppError {
	return &AppError{Code: ErrValidation, Message: message}
}

func Validationf(format string, args ...interface{}) *AppError {
	return &AppError{Code: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func DuplicateEmail(kind string) *AppError {
	return &AppError{
		Code:    ErrDuplicateEmail,
		Message: fmt.Sprintf("%s with this email already exists", kind),
	}
}

func DuplicateVehicleNumber() *AppError {
	return &AppError{
		Code:    ErrDuplicateVehicleNumber,
		Message: "vehicle with this registration number already exists",
	}
}

// InvalidCredentials is deliberately uniform: it never reveals whether
// the email exists or the password mismatched.
func InvalidCredentials() *AppError {
	return &AppError{Code: ErrInvalidCredentials, Message: "invalid email or password"}
}

func NotFound(resource string) *AppError {
	return &AppError{Code: ErrNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

func InvalidID(resource string) *AppError {
	return &AppError{Code: ErrInvalidID, Message: fmt.Sprintf("invalid %s ID", resource)}
}

func UploadFailed(err error) *AppError {
	return &AppError{Code: ErrUploadFailed, Message: "file upload failed", Err: err}
}

func Internal(err error) *AppError {
	return &AppError{Code: ErrInternal, Message: "internal server error", Err: err}
}
