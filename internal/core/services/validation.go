package services

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/bloodconnect/bloodconnect-service/internal/core/domain"
)

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// FormValidator checks submitted forms and reports problems per JSON field.
type FormValidator struct {
	validate *validator.Validate
}

func NewFormValidator() *FormValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("bloodgroup", func(fl validator.FieldLevel) bool {
		return domain.BloodGroup(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notnumeric", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, r := range s {
			if r < '0' || r > '9' {
				return true
			}
		}
		return s == ""
	})

	return &FormValidator{validate: v}
}

// Check returns a *domain.ValidationError describing every failing field, or
// nil when the form is acceptable.
func (fv *FormValidator) Check(form any) error {
	err := fv.validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := domain.NewValidationError()
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), validationMessage(fe))
	}
	return verr.OrNil()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return "Ensure this value has at most " + fe.Param() + " characters."
	case "min":
		return "This password is too short. It must contain at least " + fe.Param() + " characters."
	case "eqfield":
		return "The two password fields didn't match."
	case "notnumeric":
		return "This password is entirely numeric."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "bloodgroup":
		return "Select a valid choice. That choice is not one of the available choices."
	case "latitude":
		return "Enter a latitude between -90 and 90."
	case "longitude":
		return "Enter a longitude between -180 and 180."
	default:
		return "Enter a valid value."
	}
}
