package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report json names so field errors match what clients sent
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterStructValidation(jobDraftStructValidation, JobDraft{})
	validate.RegisterValidation("username", validateUsername)
	validate.RegisterValidation("bcryptlen", validateBcryptLen)
}

func jobDraftStructValidation(sl validator.StructLevel) {
	draft := sl.Current().Interface().(JobDraft)
	if draft.SalaryMin != nil && draft.SalaryMax != nil && *draft.SalaryMax < *draft.SalaryMin {
		sl.ReportError(draft.SalaryMax, "salary_max", "SalaryMax", "gtefield_salary_min", "")
	}
}

// validateUsername allows letters, digits, dot, dash and underscore
func validateUsername(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// MaxPasswordBytes is the longest input bcrypt will hash
const MaxPasswordBytes = 72

// validateBcryptLen limits the byte length; max= on strings counts runes
func validateBcryptLen(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxPasswordBytes
}

// ValidateStruct runs tag validation on v and converts failures into
// FieldErrors. It returns nil when v is valid.
func ValidateStruct(v any) []FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or greater", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gtefield_salary_min":
		return "salary_max must not be less than salary_min"
	case "bcryptlen":
		return fmt.Sprintf("%s must be at most %d bytes", field, MaxPasswordBytes)
	case "username":
		return fmt.Sprintf("%s may only contain letters, digits, '.', '-' and '_'", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
