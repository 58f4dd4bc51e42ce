package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/campus-issues/pkg/util/errorutil"
)

var validate = newValidator()

// newValidator reports fields by their json tag name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// fieldProblems splits validation failures into blank required fields and
// other rule violations, both keyed by the JSON field name.
func fieldProblems(input any) (missing []string, invalid map[string]string, err error) {
	verr := validate.Struct(input)
	if verr == nil {
		return nil, nil, nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(verr, &fieldErrs) {
		return nil, nil, verr
	}
	invalid = map[string]string{}
	for _, fe := range fieldErrs {
		name := fe.Field()
		if fe.Tag() == "required" {
			missing = append(missing, name)
			continue
		}
		invalid[name] = fe.Tag()
	}
	return missing, invalid, nil
}

func invalidValueError(field string, allowed []string) error {
	return apperrors.NewValidationError(
		field+" must be one of: "+strings.Join(allowed, ", "),
		map[string]any{"field": field, "allowed": allowed},
	)
}
