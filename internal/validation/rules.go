// Package validation holds the field rules and messages of the Trade Connect
// forms. Each form is exposed as a form.ValidateFunc.
package validation

import (
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/trade-connect/internal/form"
)

var (
	emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)
	phonePattern = regexp.MustCompile(`^\d{6,15}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fieldString(fl.Field())) != ""
	})
	mustRegister(v, "email_format", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fieldString(fl.Field()))
	})
	mustRegister(v, "phone_digits", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(strings.TrimSpace(fieldString(fl.Field())))
	})
	mustRegister(v, "positive_number", func(fl validator.FieldLevel) bool {
		f, ok := parseNumber(fl.Field())
		return ok && f > 0
	})
	mustRegister(v, "nonnegative_number", func(fl validator.FieldLevel) bool {
		f, ok := parseNumber(fl.Field())
		return ok && f >= 0
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic("validation: register " + tag + ": " + err.Error())
	}
}

func fieldString(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	return ""
}

func parseNumber(v reflect.Value) (float64, bool) {
	switch v.Kind() {
	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
		return f, err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		return f, !math.IsInf(f, 0) && !math.IsNaN(f)
	case reflect.Int, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	default:
		return 0, false
	}
}

// Field is the rule of one form field: validator tags evaluated in order and
// the message reported for each failing tag.
type Field struct {
	Name     string
	Tags     string
	Messages map[string]string
	Fallback string
}

// CrossCheck inspects several fields at once and returns the failing field
// and its message, or "" when the values are consistent.
type CrossCheck func(form.Values) (field, message string)

// Rules is a compiled set of field rules for one form.
type Rules struct {
	fields []Field
	checks []CrossCheck
}

// NewRules builds a rule set.
func NewRules(fields []Field, checks ...CrossCheck) *Rules {
	return &Rules{fields: fields, checks: checks}
}

// Validate checks values and returns one message per failing field. Fields
// missing from values validate as empty text.
func (r *Rules) Validate(values form.Values) form.Errors {
	data := values.Map()
	rules := make(map[string]any, len(r.fields))
	for _, f := range r.fields {
		rules[f.Name] = f.Tags
		if _, ok := data[f.Name]; !ok {
			data[f.Name] = ""
		}
	}

	errs := form.Errors{}
	for name, raw := range validate.ValidateMap(data, rules) {
		errs[name] = r.message(name, raw)
	}

	for _, check := range r.checks {
		field, msg := check(values)
		if field == "" {
			continue
		}
		if _, taken := errs[field]; !taken {
			errs[field] = msg
		}
	}
	return errs
}

// Func adapts r to the form engine.
func (r *Rules) Func() form.ValidateFunc {
	return r.Validate
}

func (r *Rules) message(name string, raw any) string {
	var field Field
	for _, f := range r.fields {
		if f.Name == name {
			field = f
			break
		}
	}

	if verrs, ok := raw.(validator.ValidationErrors); ok && len(verrs) > 0 {
		if msg, ok := field.Messages[verrs[0].Tag()]; ok {
			return msg
		}
	}
	if field.Fallback != "" {
		return field.Fallback
	}
	return name + " is invalid"
}
