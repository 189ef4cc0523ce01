package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// IsValidEmail reports whether s is a syntactically valid email address
func IsValidEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}

// ValidateStruct runs validator/v10 tag validation and returns a
// field -> message map suitable for ValidationErrorResponse.
func ValidateStruct(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"body": "Invalid request body"}
	}

	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", fe.Field())
		case "email":
			out[field] = "Invalid email format"
		case "gt":
			out[field] = fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
		case "min":
			out[field] = fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
		default:
			out[field] = fmt.Sprintf("%s is invalid", fe.Field())
		}
	}
	return out
}

// GenerateCertificateNumber mints a human-presentable certificate number,
// e.g. CERT-2026-1A2B3C4D. Uniqueness is enforced by the db constraint.
func GenerateCertificateNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("CERT-%d-%s", now.Year(), suffix)
}

// GenerateVerificationCode mints the public certificate lookup key
func GenerateVerificationCode() string {
	return uuid.NewString()
}
