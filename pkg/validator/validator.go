// Package validator provides struct validation with custom domain tags.
package validator

import (
	stderrors "errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/laborhours/api/pkg/domain/role"
	"github.com/laborhours/api/pkg/domain/settings"
)

// processIndexRegex validates process index fields: dot-separated numbers
// ("3", "2.1", "2.1.4").
var processIndexRegex = regexp.MustCompile(`^\d+(?:\.\d+)*$`)

// hexColorRegex validates branding colors ("#1a2b3c").
var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validator wraps the go-playground validator with custom validations.
type Validator struct {
	validate *validator.Validate
}

// ValidationError represents a single field validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, e := range v {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	return sb.String()
}

// New creates a new Validator with custom validators registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("user_role", validateUserRole)
	_ = v.RegisterValidation("process_index", validateProcessIndex)
	_ = v.RegisterValidation("template_type", validateTemplateType)
	_ = v.RegisterValidation("hex_color", validateHexColor)

	return &Validator{validate: v}
}

// Validate validates a struct and returns ValidationErrors on failure.
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return err
	}

	result := make(ValidationErrors, 0, len(validationErrors))
	for _, e := range validationErrors {
		result = append(result, ValidationError{
			Field:   toSnakeCase(e.Field()),
			Message: formatErrorMessage(e),
		})
	}

	return result
}

// validateUserRole validates that a string is a known role.
func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Let 'required' handle empty values
	}
	return role.Role(value).IsValid()
}

// validateProcessIndex validates a process index field.
func validateProcessIndex(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Let 'required' handle empty values
	}
	return processIndexRegex.MatchString(value)
}

// validateTemplateType validates that a string is a known template type.
func validateTemplateType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Let 'required' handle empty values
	}
	return settings.TemplateType(value).IsValid()
}

// validateHexColor validates a 6-digit hex color.
func validateHexColor(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Let 'required' handle empty values
	}
	return hexColorRegex.MatchString(value)
}

// formatErrorMessage converts validation errors to human-readable messages.
func formatErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", e.Param())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "user_role":
		return fmt.Sprintf("must be one of: %s, %s", role.RoleAdmin, role.RoleUser)
	case "process_index":
		return "must be a dot-separated process index (e.g., 2.1)"
	case "template_type":
		return fmt.Sprintf("must be one of: %s, %s", settings.TemplateInvitation, settings.TemplateReminder)
	case "hex_color":
		return "must be a hex color (e.g., #1a2b3c)"
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	default:
		return fmt.Sprintf("failed on '%s' validation", e.Tag())
	}
}

// toSnakeCase converts PascalCase/camelCase to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteByte('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}
