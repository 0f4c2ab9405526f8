// Package validation checks struct field constraints and reports them as
// human-readable messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// messages maps "<json field>.<tag>" to a message template.
// %[1]v is the rejected value, %[2]s the tag parameter.
var messages = map[string]string{
	"title.notblank":    "Title cannot be blank",
	"title.max":         "Title cannot be longer than %[2]s characters",
	"author.notblank":   "Author cannot be blank",
	"author.max":        "Author cannot be longer than %[2]s characters",
	"isbn.notblank":     "ISBN cannot be blank",
	"isbn.isbn10":       "Invalid ISBN",
	"name.notblank":     "Name should not be blank.",
	"name.max":          "Your name cannot be longer than %[2]s characters",
	"email.notblank":    "Email cannot be blank",
	"email.email":       "The %[1]v is not a valid email",
	"email.max":         "Email cannot be longer than %[2]s characters",
	"password.notblank": "Password should not be blank.",
	"password.min":      "Your password must be at least %[2]s characters long",
	"password.maxbytes": "Your password cannot be longer than %[2]s bytes",
}

// Validator wraps go-playground/validator with the project's messages.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator that names fields by their json tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("maxbytes", maxBytes)

	return &Validator{validate: v}
}

// maxBytes limits the encoded length of a string, unlike max which counts runes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// Validate returns one message per violated constraint, or nil when s is valid.
func (v *Validator) Validate(s any) []string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	if tmpl, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		if strings.Contains(tmpl, "%") {
			return fmt.Sprintf(tmpl, fe.Value(), fe.Param())
		}
		return tmpl
	}
	if fe.Param() != "" {
		return fmt.Sprintf("%s failed on %s=%s", fe.Field(), fe.Tag(), fe.Param())
	}
	return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
}
