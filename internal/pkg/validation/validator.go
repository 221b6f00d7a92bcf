package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the project's own tags.
type Validator struct {
	validate *validator.Validate
}

// FieldError is one failed rule, keyed by the JSON name of the field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New registers "email_addr", which applies IsValidEmail so struct validation and
// the handler-level checks agree on what an email is.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("email_addr", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || IsValidEmail(s)
	})
	return &Validator{validate: v}
}

// Struct validates s and flattens the result into FieldErrors. A non-validation
// failure (e.g. s is not a struct) is returned as err.
func (v *Validator) Struct(s interface{}) ([]FieldError, error) {
	err := v.validate.Struct(s)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out, nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email_addr":
		return "Invalid email format"
	case "datetime":
		return fe.Field() + " must be a calendar date (YYYY-MM-DD)"
	default:
		return fe.Field() + " is invalid"
	}
}
