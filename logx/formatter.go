package logx

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

var (
	errorType = reflect.TypeOf((*error)(nil)).Elem()
	timeType  = reflect.TypeOf(time.Time{})
)

// DebugFormatter pretty prints structs, maps and slices for console output
type DebugFormatter struct {
	maxDepth int
	// byte slices longer than this are summarised; images and documents
	// would otherwise flood the console
	maxBytes int
}

// NewDebugFormatter creates a new debug formatter
func NewDebugFormatter() *DebugFormatter {
	return &DebugFormatter{
		maxDepth: 8,
		maxBytes: 64,
	}
}

// Format formats a value with debug information
func (df *DebugFormatter) Format(v any) string {
	return df.formatValue(reflect.ValueOf(v), 0)
}

// Arg formats composite values and returns scalars untouched so verbs
// like %d and %.0f keep working
func (df *DebugFormatter) Arg(v any) any {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array, reflect.Ptr:
		if _, ok := v.(error); ok {
			return v
		}
		if _, ok := v.(fmt.Stringer); ok {
			return v
		}
		return df.Format(v)
	}
	return v
}

func (df *DebugFormatter) formatValue(v reflect.Value, depth int) string {
	if depth > df.maxDepth {
		return "..."
	}
	if !v.IsValid() {
		return "<nil>"
	}
	if (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) && v.IsNil() {
		return "nil"
	}

	if v.Type().Implements(errorType) && v.CanInterface() {
		if err, ok := v.Interface().(error); ok {
			return fmt.Sprintf("Error(%q)", err.Error())
		}
	}

	switch v.Kind() {
	case reflect.Ptr:
		return "&" + df.formatValue(v.Elem(), depth)
	case reflect.Interface:
		return df.formatValue(v.Elem(), depth)
	case reflect.String:
		return fmt.Sprintf("%q", v.String())
	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%g", v.Float())
	case reflect.Slice, reflect.Array:
		return df.formatSlice(v, depth)
	case reflect.Map:
		return df.formatMap(v, depth)
	case reflect.Struct:
		return df.formatStruct(v, depth)
	default:
		if v.CanInterface() {
			return fmt.Sprintf("%v", v.Interface())
		}
		return fmt.Sprintf("<%s>", v.Type())
	}
}

func (df *DebugFormatter) formatStruct(v reflect.Value, depth int) string {
	t := v.Type()
	if t == timeType {
		if tm, ok := v.Interface().(time.Time); ok {
			return fmt.Sprintf("Time(%q)", tm.Format(time.RFC3339))
		}
	}

	name := t.Name()
	if name == "" {
		name = "struct"
	}

	var parts []string
	for i := 0; i < v.NumField(); i++ {
		if !t.Field(i).IsExported() {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", t.Field(i).Name, df.formatValue(v.Field(i), depth+1)))
	}

	if len(parts) == 0 {
		return name + "{}"
	}
	if len(parts) <= 2 && depth > 0 {
		return fmt.Sprintf("%s{ %s }", name, strings.Join(parts, ", "))
	}
	return df.block(name+"{", "}", parts, depth)
}

func (df *DebugFormatter) formatSlice(v reflect.Value, depth int) string {
	if v.Len() == 0 {
		return "[]"
	}

	if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
		data := v.Bytes()
		if len(data) > df.maxBytes {
			return fmt.Sprintf("[]byte(len=%d)", len(data))
		}
		return fmt.Sprintf("[]byte(%q)", string(data))
	}

	parts := make([]string, v.Len())
	for i := range parts {
		parts[i] = df.formatValue(v.Index(i), depth+1)
	}

	if len(parts) <= 5 || depth > 2 {
		return fmt.Sprintf("[%s]", strings.Join(parts, ", "))
	}
	return df.block("[", "]", parts, depth)
}

func (df *DebugFormatter) formatMap(v reflect.Value, depth int) string {
	if v.Len() == 0 {
		return "map{}"
	}

	parts := make([]string, 0, v.Len())
	for _, key := range v.MapKeys() {
		parts = append(parts, fmt.Sprintf("%s: %s",
			df.formatValue(key, depth+1), df.formatValue(v.MapIndex(key), depth+1)))
	}
	sort.Strings(parts)

	if len(parts) <= 3 && depth > 0 {
		return fmt.Sprintf("map{ %s }", strings.Join(parts, ", "))
	}
	return df.block("map{", "}", parts, depth)
}

func (df *DebugFormatter) block(open, close string, parts []string, depth int) string {
	indent := strings.Repeat("  ", depth+1)
	var b strings.Builder
	b.WriteString(open + "\n")
	for _, part := range parts {
		b.WriteString(indent + part + ",\n")
	}
	b.WriteString(strings.Repeat("  ", depth) + close)
	return b.String()
}
