package docx

import (
	"reflect"
	"strings"
)

type SchemaField struct {
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	Required bool          `json:"required"`
	Fields   []SchemaField `json:"fields,omitempty"`
}

type Schema struct {
	Type   string        `json:"type"`
	Fields []SchemaField `json:"fields,omitempty"`
}

// extractSchema lists the JSON visible fields of a struct type
func extractSchema(t reflect.Type) Schema {
	for t.Kind() == reflect.Ptr || t.Kind() == reflect.Slice {
		t = t.Elem()
	}
	schema := Schema{Type: t.Name()}
	if t.Kind() != reflect.Struct {
		return schema
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, opts, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}

		sf := SchemaField{
			Name:     name,
			Type:     field.Type.String(),
			Required: !strings.Contains(opts, "omitempty"),
		}

		inner := field.Type
		for inner.Kind() == reflect.Ptr || inner.Kind() == reflect.Slice {
			inner = inner.Elem()
		}
		if inner.Kind() == reflect.Struct && inner.PkgPath() != "time" {
			sf.Fields = extractSchema(inner).Fields
		}

		schema.Fields = append(schema.Fields, sf)
	}
	return schema
}
