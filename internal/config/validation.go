package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"

	"audio2text/internal/app/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the resolved configuration and normalizes the extension set
// to lower case.
func (c *Config) Validate() error {
	c.Extensions = NormalizeExtensions(c.Extensions)
	c.Device = strings.ToLower(strings.TrimSpace(c.Device))

	if err := validate.Struct(c); err != nil {
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			messages := lo.Map(validationErrs, func(fe validator.FieldError, _ int) string {
				return describeFieldError(fe)
			})
			return errors.Wrap(errors.ErrInvalidConfig, strings.Join(messages, "; "))
		}
		return errors.Wrap(errors.ErrInvalidConfig, err.Error())
	}
	return nil
}

// NormalizeExtensions lower-cases extensions, adds a leading dot and drops
// duplicates while keeping the first occurrence order.
func NormalizeExtensions(exts []string) []string {
	normalized := lo.FilterMap(exts, func(ext string, _ int) (string, bool) {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			return "", false
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		return ext, true
	})
	return lo.Uniq(normalized)
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s is invalid: must be one of [%s]", field, fe.Param())
	case "min", "max":
		return fmt.Sprintf("%s is invalid: %s=%s", field, fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid: failed %s", field, fe.Tag())
	}
}
