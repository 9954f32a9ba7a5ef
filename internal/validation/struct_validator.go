package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "presencecli/internal/errors"
)

// StructValidator validates request structs by their `validate` tags and
// reports failures with their JSON field names.
type StructValidator struct {
	validate *validator.Validate
	messages map[string]string
}

// NewStructValidator creates a validator using JSON tag names in errors.
func NewStructValidator() *StructValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &StructValidator{
		validate: v,
		messages: make(map[string]string),
	}
}

// RegisterValidation adds a custom tag. message is a format string receiving
// the field name and is used when the tag fails.
func (s *StructValidator) RegisterValidation(tag string, fn func(value string) bool, message string) error {
	if err := s.validate.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	}); err != nil {
		return err
	}
	s.messages[tag] = message
	return nil
}

// Struct validates v and returns an *apierrors.APIError listing every invalid field.
func (s *StructValidator) Struct(v interface{}) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apierrors.InvalidRequestWithError(err)
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: s.formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(validationErrors)
}

// formatValidationError formats validation error messages
func (s *StructValidator) formatValidationError(err validator.FieldError) string {
	field := err.Field()
	tag := err.Tag()
	param := err.Param()

	if msg, ok := s.messages[tag]; ok {
		return fmt.Sprintf(msg, field)
	}

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex color such as #D9E1F2", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
