package handlers

import (
	"errors"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apierrors "github.com/knakagawa/task-tracker-api/internal/errors"
	"github.com/knakagawa/task-tracker-api/internal/services"
)

// respondBindingError turns a gin binding failure into a 400. Validator
// failures become field-keyed details; anything else (malformed JSON) gets
// a generic message.
func respondBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[snakeCase(fe.Field())] = fieldErrorMessage(fe)
		}
		apierrors.BadRequestWithDetails(c, "Validation failed", fields)
		return
	}

	apierrors.BadRequest(c, "Invalid request body")
}

// respondValidationError maps a service ValidationError to a field-keyed
// 400 response; other errors fall through to a 500.
func respondValidationError(c *gin.Context, err error) bool {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		apierrors.BadRequestWithDetails(c, "Validation failed", verr.Fields)
		return true
	}
	return false
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	default:
		return "This field is invalid."
	}
}

func snakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
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
