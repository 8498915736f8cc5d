package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/language"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(yamlFieldName)
	_ = v.RegisterValidation("locale", localeValidator)
	return v
}

func yamlFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

func localeValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := language.Parse(val)
	return err == nil
}

// Validate checks the structure of the configuration. Problems that still
// allow a calculation are reported by ValidateConfiguration instead.
func (c *Configuration) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, describeFieldError(fieldErr))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}

func describeFieldError(fieldErr validator.FieldError) string {
	field := strings.TrimPrefix(fieldErr.Namespace(), "Configuration.")
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fieldErr.Param())
	case "len":
		return fmt.Sprintf("%s must have exactly %s values", field, fieldErr.Param())
	case "unique":
		return fmt.Sprintf("%s must have unique %s values", field, strings.ToLower(fieldErr.Param()))
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fieldErr.Param(), fieldErr.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fieldErr.Param())
	case "locale":
		return fmt.Sprintf("%s is not a valid locale: %q", field, fieldErr.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fieldErr.Tag())
	}
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	for _, person := range c.Persons {
		if person.Income <= 0 {
			warnings = append(warnings, fmt.Sprintf("Person '%s' has non-positive income (%.2f) - coverage amounts will be degenerate",
				person.Name, person.Income))
		}

		for _, field := range []struct {
			name  string
			value float64
		}{
			{"otherIncome", person.OtherIncome},
			{"expenses", person.Expenses},
			{"passiveIncome", person.PassiveIncome},
		} {
			if field.value < 0 {
				warnings = append(warnings, fmt.Sprintf("Person '%s' has negative %s (%.2f)",
					person.Name, field.name, field.value))
			}
		}

		if person.Income > 0 {
			for i, level := range person.PensionLevels {
				if level > person.Income {
					warnings = append(warnings, fmt.Sprintf("Person '%s' pension level %d (%.2f) exceeds income (%.2f) - no invalidity coverage at that level",
						person.Name, i+1, level, person.Income))
				}
			}
		}
	}

	return warnings
}
