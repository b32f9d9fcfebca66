package validatex

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ValidationFunc defines a function that validates a value
type ValidationFunc func(value any, param string) bool

// builtinValidationFuncs is a map of built-in validation functions
var builtinValidationFuncs = map[string]ValidationFunc{
	"required": validateRequired,
	"url":      validateURL,
	"min":      validateMin,
	"max":      validateMax,
	"oneof":    validateOneOf,
	"regex":    validateRegex,
	"uuid":     validateUUID,
	"duration": validateDuration,
}

// customValidationFuncs is a map of user-registered validation functions
var customValidationFuncs = map[string]ValidationFunc{}

// RegisterValidationFunc registers a custom validation function
func RegisterValidationFunc(name string, fn ValidationFunc) {
	customValidationFuncs[name] = fn
}

// getValidationFunc returns a validation function by name
func getValidationFunc(name string) (ValidationFunc, bool) {
	// Check custom functions first
	if fn, ok := customValidationFuncs[name]; ok {
		return fn, true
	}

	// Check built-in functions
	if fn, ok := builtinValidationFuncs[name]; ok {
		return fn, true
	}

	return nil, false
}

// validateRequired validates that a value is not empty
func validateRequired(value any, _ string) bool {
	return !isZero(value)
}

// validateURL accepts absolute URLs with a host, e.g. https://detect.roboflow.com/x/1
func validateURL(value any, _ string) bool {
	if str, ok := value.(string); ok {
		u, err := url.ParseRequestURI(str)
		return err == nil && u.Scheme != "" && u.Host != ""
	}
	return false
}

// validateMin compares numbers by value and strings, slices and maps by length
func validateMin(value any, param string) bool {
	limit, err := strconv.ParseFloat(param, 64)
	if err != nil {
		return false
	}
	n, ok := measure(value)
	return ok && n >= limit
}

// validateMax is the upper bound counterpart of validateMin
func validateMax(value any, param string) bool {
	limit, err := strconv.ParseFloat(param, 64)
	if err != nil {
		return false
	}
	n, ok := measure(value)
	return ok && n <= limit
}

func measure(value any) (float64, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return float64(rv.Len()), true
	}
	return 0, false
}

// validateOneOf validates that a value is one of a list of values
func validateOneOf(value any, param string) bool {
	allowedValues := strings.Fields(param)
	if len(allowedValues) == 0 {
		return false
	}

	strValue := fmt.Sprintf("%v", value)
	for _, v := range allowedValues {
		if v == strValue {
			return true
		}
	}

	return false
}

// validateRegex validates that a value matches a regular expression
func validateRegex(value any, param string) bool {
	if str, ok := value.(string); ok {
		re, err := regexp.Compile(param)
		if err != nil {
			return false
		}
		return re.MatchString(str)
	}
	return false
}

// validateDuration requires a positive time.Duration
func validateDuration(value any, _ string) bool {
	d, ok := value.(time.Duration)
	return ok && d > 0
}

// validateUUID validates that a value is a valid UUID
var uuidRegex = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)

func validateUUID(value any, _ string) bool {
	if str, ok := value.(string); ok {
		return uuidRegex.MatchString(strings.ToLower(str))
	}
	return false
}
