package service

import (
	"errors"
	"strings"

	"github.com/forgo/jobboard/internal/model"
)

// Centralized service layer errors.
// Handlers match on these with errors.Is / errors.As; see handler.MapServiceError.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("username or password is incorrect")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrUserNotFound       = errors.New("user not found")
)

// ===== Job Errors =====
var (
	ErrJobNotFound = errors.New("job not found")
)

// ValidationError carries field-level failures for a rejected payload.
// It is returned before any repository or cache call is made.
type ValidationError struct {
	Fields []model.FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// validationError wraps field errors, returning nil when there are none
func validationError(fields []model.FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
