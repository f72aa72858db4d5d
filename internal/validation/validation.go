// Package validation provides input validation utilities
package validation

import (
	"errors"
	"fmt"
	"strings"

	"hedwig/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("mediatype", func(fl validator.FieldLevel) bool {
		return models.MediaType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("reaction", func(fl validator.FieldLevel) bool {
		return models.ReactionType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("notificationtype", func(fl validator.FieldLevel) bool {
		return models.NotificationType(fl.Field().String()).Valid()
	})
	return v
}

// Struct validates s against its `validate` tags and converts the first failure
// into a models validation error.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return models.NewValidationError(formatValidationError(fieldErrs[0]))
	}
	return models.NewValidationError(err.Error())
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "url":
		return e.Field() + " must be a valid URL"
	case "eqfield":
		return e.Field() + " must match " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "category":
		return e.Field() + " must be a known category"
	case "mediatype":
		return e.Field() + " must be image or video"
	case "reaction":
		return e.Field() + " must be one of: like love wow haha sad"
	case "notificationtype":
		return e.Field() + " must be a known notification type"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}

// ErrInvalidEmailDomain is wrapped by the error InstitutionalEmail returns.
var ErrInvalidEmailDomain = errors.New("email outside the institution domain")

// InstitutionalEmail checks that email ends with "@"+domain (case-insensitive).
func InstitutionalEmail(email, domain string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	domain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domain), "@"))
	if domain == "" {
		return nil
	}
	if !strings.HasSuffix(email, "@"+domain) || len(email) == len(domain)+1 {
		return &models.AppError{
			Code:    models.CodeValidation,
			Message: fmt.Sprintf("Please use your university email (@%s)", domain),
			Err:     ErrInvalidEmailDomain,
		}
	}
	return nil
}
