package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/gold-scheme/pkg/mathutil"
)

// NewStructValidator builds a validator that reports fields by their JSON
// names and understands the "finite" rule for float fields. Callers own the
// returned instance and may register further rules before first use.
func NewStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	if err := v.RegisterValidation("finite", isFinite); err != nil {
		panic(fmt.Sprintf("failed to register finite validation: %v", err))
	}
	return v
}

func isFinite(fl validator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		return mathutil.IsFinite(fl.Field().Float())
	default:
		return true
	}
}

// FirstFieldError extracts the first field failure from a validator error.
func FirstFieldError(err error) (validator.FieldError, bool) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return nil, false
	}
	return fieldErrs[0], true
}

// Describe renders a field failure as a short sentence such as
// "goldRate must be greater than 0".
func Describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "finite":
		return fe.Field() + " must be a finite number"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "gte":
		return fe.Field() + " must be at least " + fe.Param()
	case "lte":
		return fe.Field() + " must be at most " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	default:
		return fe.Field() + " failed " + fe.Tag()
	}
}
