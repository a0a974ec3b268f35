package auth

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RegisterForm is the registration input as the user fills it in. Field
// names follow the form, not the wire; Manager.Register maps them to the
// backend's names.
type RegisterForm struct {
	FirstName       string `validate:"required"`
	LastName        string `validate:"required"`
	Email           string `validate:"required,email"`
	Username        string `validate:"required,min=3"`
	Password        string `validate:"required,min=8"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// Validate checks the form before it goes on the wire, so the obvious
// mistakes surface without a round trip.
func (f RegisterForm) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fieldLabel(fe.Field()))
	case "email":
		return "email address is not valid"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fieldLabel(fe.Field()), fe.Param())
	case "eqfield":
		return "passwords do not match"
	default:
		return fmt.Sprintf("%s is invalid", fieldLabel(fe.Field()))
	}
}

func fieldLabel(name string) string {
	switch name {
	case "FirstName":
		return "first name"
	case "LastName":
		return "last name"
	case "ConfirmPassword":
		return "password confirmation"
	default:
		return strings.ToLower(name)
	}
}
