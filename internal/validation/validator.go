// Package validation checks request bodies with go-playground/validator and
// turns failures into field-level messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/petslib-api/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError represents a single validation failure
type FieldError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Errors is the set of failures for one request body
type Errors []FieldError

// Error joins all messages
func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(e))
	for i, fe := range e {
		messages[i] = fe.Message
	}
	return strings.Join(messages, "; ")
}

// Validator returns the shared validator instance
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()

		// Report json names instead of Go field names
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		// Patch fields validate their inner value only when present
		validate.RegisterCustomTypeFunc(optionalValue[string], models.Optional[string]{})
		validate.RegisterCustomTypeFunc(optionalValue[[]string], models.Optional[[]string]{})
		validate.RegisterCustomTypeFunc(optionalValue[models.CareRequirements], models.Optional[models.CareRequirements]{})

		_ = validate.RegisterValidation("species", func(fl validator.FieldLevel) bool {
			return IsSpecies(fl.Field().String())
		})
	})
	return validate
}

func optionalValue[T any](field reflect.Value) interface{} {
	if o, ok := field.Interface().(models.Optional[T]); ok && o.Set {
		return o.Value
	}
	return nil
}

// Struct validates s and returns Errors, or nil when s is valid
func Struct(s interface{}) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return Errors{{Field: "body", Message: err.Error()}}
	}

	out := make(Errors, len(validationErrs))
	for i, fe := range validationErrs {
		out[i] = FieldError{
			Field:   fe.Field(),
			Message: translate(fe),
			Value:   fe.Value(),
		}
	}
	return out
}

// IsSpecies reports whether s names a supported species
func IsSpecies(s string) bool {
	return s == models.SpeciesDog || s == models.SpeciesCat
}

// IsTrackedPageType reports whether views can be tracked for the page type
func IsTrackedPageType(s string) bool {
	return s == models.PageTypeArticle || s == models.PageTypeBreed
}

// IsMetaPageType reports whether page meta overrides exist for the page type
func IsMetaPageType(s string) bool {
	return IsTrackedPageType(s) || s == models.PageTypeCategory
}

func translate(fe validator.FieldError) string {
	field := fe.Field()
	param := fe.Param()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "species":
		return fmt.Sprintf("%s must be one of: dog, cat", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
