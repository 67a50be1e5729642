// Package validation checks request values against declarative rule sets.
package validation

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Store answers the uniqueness lookups of "unique" constraints.
type Store interface {
	Exists(ctx context.Context, table, column, value string, ignoreID int) (bool, error)
}

// Validator applies Rules to a set of raw field values.
type Validator struct {
	validate *validator.Validate
	store    Store
}

func New(store Store) *Validator {
	v := validator.New()

	// Registration only fails on empty tags or nil funcs.
	_ = v.RegisterValidation("digits_between", digitsBetween)
	_ = v.RegisterValidation("max_value", maxValue)
	_ = v.RegisterValidation("date_format", dateFormat)

	return &Validator{validate: v, store: store}
}

// Validate checks values against rules. It returns *Error listing every
// failed constraint per field, or a plain error if a uniqueness lookup failed.
// Empty values only run the "required" constraint.
func (v *Validator) Validate(ctx context.Context, values map[string]string, rules Rules) error {
	fields := make([]string, 0, len(rules))
	for field := range rules {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	verr := &Error{Fields: map[string][]string{}}

	for _, field := range fields {
		value := strings.TrimSpace(values[field])

		for _, constraint := range rules[field] {
			name, param, _ := strings.Cut(constraint, "=")
			if value == "" && name != "required" {
				continue
			}

			if name == "unique" {
				ok, err := v.unique(ctx, param, value)
				if err != nil {
					return err
				}
				if !ok {
					verr.Add(field, message(field, name, param))
				}
				continue
			}

			if err := v.validate.Var(value, constraint); err != nil {
				var fieldErrs validator.ValidationErrors
				if !errors.As(err, &fieldErrs) {
					return errors.Wrapf(err, "validating %s", field)
				}
				verr.Add(field, message(field, name, param))
			}
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}

	return nil
}

// unique reports whether value is free in "<table> <column> [ignoreID]".
func (v *Validator) unique(ctx context.Context, param, value string) (bool, error) {
	parts := strings.Fields(param)
	if len(parts) < 2 {
		return false, errors.Errorf("malformed unique constraint %q", param)
	}

	var ignoreID int
	if len(parts) == 3 {
		id, err := strconv.Atoi(parts[2])
		if err != nil {
			return false, errors.Wrapf(err, "unique constraint %q", param)
		}
		ignoreID = id
	}

	exists, err := v.store.Exists(ctx, parts[0], parts[1], value, ignoreID)
	if err != nil {
		return false, err
	}

	return !exists, nil
}

func digitsBetween(fl validator.FieldLevel) bool {
	bounds := strings.Fields(fl.Param())
	if len(bounds) != 2 {
		return false
	}
	lo, err1 := strconv.Atoi(bounds[0])
	hi, err2 := strconv.Atoi(bounds[1])
	if err1 != nil || err2 != nil {
		return false
	}

	s := fl.Field().String()
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return len(s) >= lo && len(s) <= hi
}

func maxValue(fl validator.FieldLevel) bool {
	limit, err := strconv.ParseFloat(fl.Param(), 64)
	if err != nil {
		return false
	}
	n, err := strconv.ParseFloat(fl.Field().String(), 64)
	if err != nil {
		return false
	}
	return n <= limit
}

func dateFormat(fl validator.FieldLevel) bool {
	_, err := time.Parse(fl.Param(), fl.Field().String())
	return err == nil
}

func message(field, constraint, param string) string {
	name := FieldName(field)

	switch constraint {
	case "required":
		return fmt.Sprintf("The %s field is required.", name)
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", name, param)
	case "digits_between":
		bounds := strings.Fields(param)
		if len(bounds) == 2 {
			return fmt.Sprintf("The %s must be between %s and %s digits.", name, bounds[0], bounds[1])
		}
	case "max_value":
		return fmt.Sprintf("The %s may not be greater than %s.", name, param)
	case "date_format":
		return fmt.Sprintf("The %s does not match the format DD/MM/YYYY.", name)
	case "unique":
		return fmt.Sprintf("The %s has already been taken.", name)
	case "number", "numeric":
		return fmt.Sprintf("The %s must be a number.", name)
	}

	return fmt.Sprintf("The %s is invalid.", name)
}

// FieldName turns national_id into "National Id".
func FieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return cases.Title(language.English).String(s)
}

// Error reports the failed constraints of a request, per field.
type Error struct {
	Fields map[string][]string
}

// Add records a failed constraint message for field.
func (e *Error) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Has reports whether field failed any constraint.
func (e *Error) Has(field string) bool {
	return len(e.Fields[field]) > 0
}

func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

func (e *Error) StatusCode() int {
	return http.StatusUnprocessableEntity
}

func (e *Error) Body() interface{} {
	return map[string]interface{}{
		"error":  "The given data was invalid.",
		"errors": e.Fields,
		"status": false,
	}
}
