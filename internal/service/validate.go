package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/pkordes/trackday/internal/domain"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their JSON names so messages line up with the API.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// validateStruct runs the struct-tag rules on v and folds any failures into
// a single domain.ErrValidation.
func validateStruct(v any) error {
	return checkError(getValidator().Struct(v))
}

func checkError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("service.validateStruct: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fieldMessage(e))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, " and "))
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field(), e.Param())
	case "gte":
		return fmt.Sprintf("%s cannot be less than %s", e.Field(), e.Param())
	case "lte":
		return fmt.Sprintf("%s cannot be greater than %s", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s cannot be longer than %s", e.Field(), e.Param())
	case "gtefield":
		return fmt.Sprintf("%s cannot be before %s", e.Field(), e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %q", e.Field(), e.Param())
	case "email":
		return e.Field() + " must be a valid email address"
	case "datetime":
		return e.Field() + " must be HH:MM"
	}
	return e.Error()
}
