package api

import (
	"errors"
	"net/http"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// BindError converts a request binding failure into a 400 envelope. Validator
// failures are reported per field, anything else (malformed JSON) as "error".
func BindError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewError(http.StatusBadRequest, "invalid request body")
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := snakeCase(fe.Field())
		fields[name] = fieldMessage(name, fe)
	}
	return NewFieldErrors(http.StatusBadRequest, fields)
}

func fieldMessage(name string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email address"
	case "min":
		return name + " must be at least " + fe.Param() + " characters"
	case "max":
		return name + " must be at most " + fe.Param() + " characters"
	case "gte":
		return name + " must be greater than or equal to " + fe.Param()
	case "lte":
		return name + " must be less than or equal to " + fe.Param()
	default:
		return name + " is invalid"
	}
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
