package models

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/dmitrijs2005/babysteps/internal/common"
	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator instance. Field names in errors
// use the json tag.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidationError lists failing fields. It matches common.ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", common.ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return common.ErrValidation }

// Validate checks v against its validate tags.
func Validate(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	return &ValidationError{Fields: fields}
}

// ValidateSignUp checks in like Validate and also enforces
// MinPasswordLength.
func ValidateSignUp(in RegisterInput) error {
	return withPassword(Validate(in), in.Password)
}

// ValidatePasswordChange enforces MinPasswordLength on a new password.
func ValidatePasswordChange(p UserUpdate) error {
	err := Validate(p)
	if p.Password == nil {
		return err
	}
	return withPassword(err, *p.Password)
}

func withPassword(err error, password string) error {
	var verr *ValidationError
	switch {
	case err == nil:
		verr = &ValidationError{Fields: map[string]string{}}
	case !errors.As(err, &verr):
		return err
	}

	if _, failed := verr.Fields["password"]; !failed && len(password) < MinPasswordLength {
		verr.Fields["password"] = fmt.Sprintf("must be at least %d characters", MinPasswordLength)
	}
	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "datetime":
		return "must be a date formatted as " + fe.Param()
	default:
		return fmt.Sprintf("failed on the '%s' tag", fe.Tag())
	}
}
