package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Errors maps a field name (as it appears in JSON) to its messages.
type Errors map[string][]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e[k], " ")))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a message for field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Field returns a single-field validation error.
func Field(field, message string) Errors {
	return Errors{field: {message}}
}

// AsErrors extracts field errors from err, if any.
func AsErrors(err error) (Errors, bool) {
	var verrs Errors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

var (
	validate *validator.Validate
	initOnce sync.Once
)

func instance() *validator.Validate {
	initOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Struct validates s using its `validate` tags and returns Errors with human messages.
// Messages registered in messages (keyed "field.tag") take precedence over generic ones.
func Struct(s any, messages map[string]string) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating request: %w", err)
	}

	out := Errors{}
	for _, fe := range fieldErrs {
		field := fieldPath(fe)
		out.Add(field, message(fe, field, messages))
	}
	return out
}

// fieldPath strips the top-level struct name, e.g. "ChatbotConfigRequest.personality_traits[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError, field string, messages map[string]string) string {
	base := field
	if i := strings.Index(base, "["); i >= 0 {
		base = base[:i] + ".*"
	}
	if msg, ok := messages[base+"."+fe.Tag()]; ok {
		return msg
	}

	label := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", label)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must not be greater than %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("The %s field must not be greater than %s.", label, fe.Param())
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", label, fe.Param())
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", label)
	case "url":
		return fmt.Sprintf("The %s field must be a valid URL.", label)
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", label)
	default:
		return fmt.Sprintf("The %s field is invalid.", label)
	}
}
