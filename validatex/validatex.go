package validatex

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"

	"github.com/Abraxas-365/mockup2html/errx"
)

var (
	validationErrors = errx.NewRegistry("VALIDATION")

	ErrInvalid   = validationErrors.Register("INVALID", errx.TypeValidation, http.StatusBadRequest, "Validation failed")
	ErrNotStruct = validationErrors.Register("NOT_STRUCT", errx.TypeInternal, http.StatusInternalServerError, "Value must be a struct")
)

// Validatable lets a struct add checks the tags cannot express
type Validatable interface {
	Validate() error
}

// Validate checks every field carrying a validatex tag, recursing into
// nested structs. All failures are collected into one error whose details
// map field paths to the failed rule.
func Validate(obj any) error {
	val := reflect.ValueOf(obj)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return validationErrors.New(ErrNotStruct)
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return validationErrors.New(ErrNotStruct).WithDetail("kind", val.Kind().String())
	}

	failures := make(map[string]any)
	walk("", val, failures)

	if len(failures) == 0 {
		return nil
	}

	fields := make([]string, 0, len(failures))
	for f := range failures {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	return validationErrors.NewWithMessage(ErrInvalid,
		fmt.Sprintf("Validation failed for %s", strings.Join(fields, ", "))).
		WithDetails(failures)
}

func walk(prefix string, val reflect.Value, failures map[string]any) {
	typ := val.Type()

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Name
		if prefix != "" {
			name = prefix + "." + name
		}
		fv := val.Field(i)

		if tag := field.Tag.Get("validatex"); tag != "" && tag != "-" {
			for _, rule := range parseTag(tag) {
				if !rule.check(val, fv) {
					failures[name] = rule.String()
					break
				}
			}
		}

		inner := fv
		if inner.Kind() == reflect.Ptr && !inner.IsNil() {
			inner = inner.Elem()
		}
		if inner.Kind() == reflect.Struct {
			walk(name, inner, failures)
		}
	}

	if v, ok := addressable(val).(Validatable); ok {
		if err := v.Validate(); err != nil {
			key := prefix
			if key == "" {
				key = typ.Name()
			}
			failures[key] = err.Error()
		}
	}
}

func addressable(val reflect.Value) any {
	if val.CanAddr() {
		return val.Addr().Interface()
	}
	return val.Interface()
}

// IsInvalid reports a validation failure
func IsInvalid(err error) bool {
	return errx.IsCode(err, ErrInvalid)
}

// Failures returns the field to rule map of a validation error
func Failures(err error) map[string]any {
	var e *errx.Error
	if errors.As(err, &e) && e.Code == ErrInvalid {
		return e.Details
	}
	return nil
}

type ruleInfo struct {
	Name  string
	Param string
}

func (r ruleInfo) String() string {
	if r.Param == "" {
		return r.Name
	}
	return r.Name + "=" + r.Param
}

func (r ruleInfo) check(parent, field reflect.Value) bool {
	if r.Name == "required_if" {
		other, want, _ := strings.Cut(r.Param, " ")
		sibling := parent.FieldByName(other)
		if !sibling.IsValid() || fmt.Sprint(sibling.Interface()) != want {
			return true
		}
		return validateRequired(field.Interface(), "")
	}

	fn, ok := getValidationFunc(r.Name)
	if !ok {
		return false
	}

	value := field.Interface()
	// optional fields only get checked when set
	if r.Name != "required" && isZero(value) {
		return true
	}
	if d, isNil := dereferenceValue(value); !isNil {
		value = d
	}
	return fn(value, r.Param)
}

// parseTag splits "required,oneof=local s3" into rules
func parseTag(tag string) []ruleInfo {
	parts := strings.Split(tag, ",")
	rules := make([]ruleInfo, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, param, _ := strings.Cut(part, "=")
		rules = append(rules, ruleInfo{Name: name, Param: param})
	}
	return rules
}

func isZero(value any) bool {
	if value == nil {
		return true
	}
	return reflect.ValueOf(value).IsZero()
}

func dereferenceValue(value any) (any, bool) {
	if value == nil {
		return nil, true
	}
	val := reflect.ValueOf(value)
	if val.Kind() != reflect.Ptr {
		return value, false
	}
	if val.IsNil() {
		return nil, true
	}
	return val.Elem().Interface(), false
}
