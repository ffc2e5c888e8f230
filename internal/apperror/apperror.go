package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated carries the exact message clients match on to
	// trigger a login redirect. Do not reword it without updating them.
	ErrNotAuthenticated = errors.New("user not authenticated")
	ErrNotFound         = errors.New("not found")
	ErrNotAuthorized    = errors.New("not authorized")
	ErrValidation       = errors.New("validation failed")
)

// FieldError is a field-scoped validation message meant for user display.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type AppError struct {
	Err     error        // sentinel, for errors.Is
	Message string       // human-readable message
	Fields  []FieldError // populated for validation errors
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string, id int) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %d", resource, id),
	}
}

func NotAuthenticated() *AppError {
	return &AppError{
		Err:     ErrNotAuthenticated,
		Message: ErrNotAuthenticated.Error(),
	}
}

func NotAuthorized(message string) *AppError {
	return &AppError{
		Err:     ErrNotAuthorized,
		Message: message,
	}
}

func Validation(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Fields:  []FieldError{{Field: field, Message: message}},
	}
}

func ValidationFields(fields []FieldError) *AppError {
	msg := "validation failed"
	if len(fields) > 0 {
		msg = fields[0].Message
	}
	return &AppError{
		Err:     ErrValidation,
		Message: msg,
		Fields:  fields,
	}
}
