// Package validation checks raw input fields and reports every violation as
// a human-readable message.
//
// Rules are declared with `validate` struct tags and checked one by one, so a
// field that breaks several rules yields one message per rule. A `label` tag
// names the field in messages. "required" and "omitempty" gate the remaining
// rules: a zero value either fails once with "X is required." or is skipped.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"storerating/internal/models"

	"github.com/go-playground/validator/v10"
)

// SpecialCharacters is the set accepted by the hasspecial rule.
const SpecialCharacters = `!@#$%^&*(),.?":{}|<>`

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validator runs tag rules through go-playground/validator.
type Validator struct {
	validate *validator.Validate
}

// New returns a Validator with the custom rules registered.
func New() *Validator {
	v := validator.New()
	mustRegister(v, "hasupper", func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), unicode.IsUpper) >= 0
	})
	mustRegister(v, "hasspecial", func(fl validator.FieldLevel) bool {
		return strings.ContainsAny(fl.Field().String(), SpecialCharacters)
	})
	mustRegister(v, "emailshape", func(fl validator.FieldLevel) bool {
		return IsEmail(fl.Field().String())
	})
	mustRegister(v, "role", func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).IsValid()
	})
	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// IsEmail reports whether s has the local@domain.tld shape.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// Check returns all violations for the tagged fields of s, which must be a
// struct or a pointer to one. An empty result means s is valid.
func (v *Validator) Check(s any) []string {
	rv := reflect.Indirect(reflect.ValueOf(s))
	if rv.Kind() != reflect.Struct {
		return []string{"Input is invalid."}
	}
	rt := rv.Type()

	messages := []string{}
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" || tag == "-" {
			continue
		}
		label := field.Tag.Get("label")
		if label == "" {
			label = field.Name
		}
		messages = append(messages, v.checkField(label, rv.Field(i), tag)...)
	}
	return messages
}

func (v *Validator) checkField(label string, value reflect.Value, tag string) []string {
	var required, optional bool
	var rules []string
	for _, rule := range strings.Split(tag, ",") {
		switch rule = strings.TrimSpace(rule); rule {
		case "":
		case "required":
			required = true
		case "omitempty":
			optional = true
		default:
			rules = append(rules, rule)
		}
	}

	if value.IsZero() {
		if required {
			return []string{message(label, "required", "")}
		}
		if optional {
			return nil
		}
	}

	var out []string
	for _, rule := range rules {
		err := v.validate.Var(value.Interface(), rule)
		if err == nil {
			continue
		}
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			out = append(out, message(label, "", ""))
			continue
		}
		for _, fe := range fieldErrs {
			out = append(out, message(label, fe.Tag(), fe.Param()))
		}
	}
	return out
}

func message(label, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required.", label)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, param)
	case "hasupper":
		return fmt.Sprintf("%s must contain at least one uppercase letter.", label)
	case "hasspecial":
		return fmt.Sprintf("%s must contain at least one special character.", label)
	case "emailshape":
		return fmt.Sprintf("%s is not valid.", label)
	case "role":
		names := make([]string, len(models.Roles))
		for i, r := range models.Roles {
			names[i] = r.String()
		}
		return fmt.Sprintf("%s must be one of %s.", label, strings.Join(names, ", "))
	default:
		return fmt.Sprintf("%s is invalid.", label)
	}
}
