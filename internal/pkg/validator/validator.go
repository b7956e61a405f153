// Package validator wraps go-playground/validator and turns its field errors
// into a single aggregated domain validation error.
package validator

import (
	"fmt"
	"reflect"
	"strings"

	"memberhub/internal/core/domain"
	"memberhub/internal/pkg/objectid"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json/query names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
		return objectid.IsValid(fl.Field().String())
	})

	return v
}

// Struct validates s and returns an aggregated *domain.AppError of kind
// Validation listing every violation, or nil.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if ok := asValidationErrors(err, &fieldErrs); !ok {
		return domain.NewValidationError(err.Error())
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, describe(fe))
	}
	return domain.NewValidationError("Validation failed: " + strings.Join(messages, "; "))
}

// Var validates a single value against tag
func Var(field interface{}, name, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		var fieldErrs validator.ValidationErrors
		if asValidationErrors(err, &fieldErrs) && len(fieldErrs) > 0 {
			return domain.NewValidationError("Validation failed: " + describeAs(fieldErrs[0], name))
		}
		return domain.NewValidationError(fmt.Sprintf("Validation failed: %s is invalid", name))
	}
	return nil
}

// ParseAndValidate parses the JSON body into out and validates it
func ParseAndValidate(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewValidationError("Invalid request body")
	}
	return Struct(out)
}

// ParseQuery parses query parameters into out and validates it
func ParseQuery(c *fiber.Ctx, out interface{}) error {
	if err := c.QueryParser(out); err != nil {
		return domain.NewValidationError("Invalid query parameters")
	}
	return Struct(out)
}

func asValidationErrors(err error, out *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if ok {
		*out = ve
	}
	return ok
}

func describe(fe validator.FieldError) string {
	return describeAs(fe, fe.Field())
}

func describeAs(fe validator.FieldError, field string) string {
	switch fe.Tag() {
	case "required", "required_with", "required_without":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, strings.ReplaceAll(fe.Param(), "'", ""))
	case "objectid":
		return fmt.Sprintf("%s must be a valid id", field)
	case "e164", "phone":
		return fmt.Sprintf("%s must be a valid phone number", field)
	case "dive":
		return fmt.Sprintf("%s contains an invalid value", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
