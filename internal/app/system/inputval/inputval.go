// Package inputval validates decoded request commands.
//
// Commands declare their rules with go-playground/validator struct tags and a
// human label:
//
//	type createPageInput struct {
//		Title string `validate:"required,max=200" label:"Title"`
//	}
//
//	if result := inputval.Validate(input); result.HasErrors() {
//		return result.Err()
//	}
package inputval

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	phoneRe = regexp.MustCompile(`^[0-9]{10}$`)
	emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// IsValidPhone reports whether s is exactly ten ASCII digits.
func IsValidPhone(s string) bool {
	return phoneRe.MatchString(s)
}

// IsValidEmail reports whether s looks like local@domain.tld with no spaces.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// FieldError is one failed rule on one field.
type FieldError struct {
	Field   string
	Message string
}

// Errors is a list of field failures. It implements error; the message is
// every field message joined with ", ".
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, ", ")
}

// Result is the outcome of Validate.
type Result struct {
	Errors Errors
}

func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// Err returns the errors as an error value, or nil if validation passed.
func (r Result) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return r.Errors
}

// Fail builds a single-message validation error for checks that live outside
// struct tags.
func Fail(field, message string) error {
	return Errors{{Field: field, Message: message}}
}

var (
	once sync.Once
	v    *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			return f.Name
		})
		_ = v.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
			return IsValidPhone(fl.Field().String())
		})
		_ = v.RegisterValidation("simpleemail", func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		})
	})
	return v
}

// Validate runs the struct-tag rules on input.
func Validate(input any) Result {
	err := engine().Struct(input)
	if err == nil {
		return Result{}
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Result{Errors: Errors{{Message: err.Error()}}}
	}
	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.StructNamespace(), Message: message(fe)})
	}
	return Result{Errors: out}
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s cannot exceed %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s cannot be greater than %s", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s cannot be less than %s", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s cannot be less than %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s cannot be greater than %s", label, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Fields(fe.Param()), ", "))
	case "phone10":
		return fmt.Sprintf("%s must be a valid 10-digit phone number", label)
	case "simpleemail", "email":
		return "Please provide a valid email"
	}
	return label + " is invalid"
}
