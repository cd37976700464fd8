package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance for construction-time checks.
// Field names in violations come from the yaml tag so they match the
// inventory file and the exported artifacts.
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("enum", validateEnum)
	_ = validate.RegisterValidation("notblank", validateNotBlank)
}

// validateEnum accepts a field only if it is a known variant of its enum type.
func validateEnum(fl validator.FieldLevel) bool {
	e, ok := fl.Field().Interface().(enum)
	return ok && e.Valid()
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Violation is one failed constraint on one field.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return v.Field + ": " + v.Message
}

// ValidationError rejects a construction or edit. No object is created and
// no collection is mutated when one is returned.
type ValidationError struct {
	Entity     string
	Violations []Violation
	// Cause optionally links the rejection to a sentinel (e.g. a duplicate
	// name) so callers can match it with errors.Is.
	Cause error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// NewViolation returns a ValidationError carrying a single violation.
func NewViolation(entity, field, rule, message string, cause error) *ValidationError {
	return &ValidationError{
		Entity:     entity,
		Violations: []Violation{{Field: field, Rule: rule, Message: message}},
		Cause:      cause,
	}
}

// AsValidationError reports whether err is (or wraps) a ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// validateStruct runs the tag rules on v and converts failures into an
// ordered violation list.
func validateStruct(entity string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate %s: %w", entity, err)
	}
	out := &ValidationError{Entity: entity}
	for _, fe := range fieldErrs {
		out.Violations = append(out.Violations, Violation{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: violationMessage(fe),
		})
	}
	return out
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "enum":
		if e, ok := fe.Value().(enum); ok {
			return fmt.Sprintf("%q is not one of %s", fe.Value(), strings.Join(e.allowed(), ", "))
		}
		return "unknown value"
	case "notblank", "required":
		return "must not be empty"
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "url":
		return fmt.Sprintf("%q is not a valid URL", fe.Value())
	case "uuid", "uuid4":
		return fmt.Sprintf("%q is not a valid UUID", fe.Value())
	default:
		return "failed " + fe.Tag() + " check"
	}
}
