package openapi

import (
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Exampler can be implemented by model types to provide an example value
// for the generated schema. The returned value is set as the "example"
// field on the object schema.
//
//	func (u User) OpenAPIExample() any {
//	    return User{ID: "550e8400-e29b-41d4-a716-446655440000", Name: "Alice"}
//	}
//
// See: https://spec.openapis.org/oas/v3.0.2#schema-object
type Exampler interface {
	OpenAPIExample() any
}

// SchemaGenerator converts Go model types to inline OpenAPI 3.0 Schema
// objects via reflection. Model types play the role a serializer plays in
// introspection-based schema frameworks: field names, optionality, and
// constraints are read from struct tags. Schemas are always emitted inline
// so per-operation filters (readOnly for requests, writeOnly for responses)
// never leak between operations.
//
// See: https://spec.openapis.org/oas/v3.0.2#schema-object
type SchemaGenerator struct {
	inProgress map[reflect.Type]bool
}

// NewSchemaGenerator creates a new schema generator.
func NewSchemaGenerator() *SchemaGenerator {
	return &SchemaGenerator{
		inProgress: make(map[reflect.Type]bool),
	}
}

// Generate produces a Schema for the given Go value. Returns nil for nil.
// A *Schema value is used as-is, copied so callers can adjust the result
// without touching the original.
func (g *SchemaGenerator) Generate(v any) *Schema {
	if v == nil {
		return nil
	}
	if s, ok := v.(*Schema); ok {
		return copySchema(s)
	}
	return g.generateType(reflect.TypeOf(v))
}

// copySchema copies the top level of a schema: the struct itself, the
// properties map, and the required list. Nested schemas are shared.
func copySchema(s *Schema) *Schema {
	if s == nil {
		return nil
	}
	out := *s
	if s.Properties != nil {
		out.Properties = make(map[string]*Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = prop
		}
	}
	if s.Required != nil {
		out.Required = make([]string, len(s.Required))
		copy(out.Required, s.Required)
	}
	return &out
}

// generateType produces a Schema for the given Go type. Pointer types mark
// the schema nullable. Recursive struct types terminate with a bare object
// schema.
func (g *SchemaGenerator) generateType(t reflect.Type) *Schema {
	nullable := false
	if t.Kind() == reflect.Pointer {
		nullable = true
		t = t.Elem()
	}

	if t.Kind() == reflect.Struct && t != reflect.TypeOf(time.Time{}) {
		if g.inProgress[t] {
			return &Schema{Type: "object"}
		}
		g.inProgress[t] = true
		schema := g.generateStructSchema(t)
		delete(g.inProgress, t)

		if ex, ok := reflect.New(t).Interface().(Exampler); ok {
			schema.Example = ex.OpenAPIExample()
		}
		schema.Nullable = nullable
		return schema
	}

	schema := g.generateInlineType(t)
	if nullable && schema != nil {
		schema.Nullable = true
	}
	return schema
}

// generateInlineType maps Go primitive and composite types to OpenAPI 3.0
// data types.
//
// See: https://spec.openapis.org/oas/v3.0.2#data-types
func (g *SchemaGenerator) generateInlineType(t reflect.Type) *Schema {
	// Special cases first.
	if t == reflect.TypeOf(time.Time{}) {
		return &Schema{Type: "string", Format: "date-time"}
	}

	switch t.Kind() {
	case reflect.Bool:
		return &Schema{Type: "boolean"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &Schema{Type: "integer"}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}

	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}

	case reflect.String:
		return &Schema{Type: "string"}

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return &Schema{Type: "string", Format: "byte"}
		}
		return &Schema{
			Type:  "array",
			Items: g.generateType(t.Elem()),
		}

	case reflect.Array:
		return &Schema{
			Type:  "array",
			Items: g.generateType(t.Elem()),
		}

	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return &Schema{Type: "object"}
		}
		return &Schema{
			Type:                 "object",
			AdditionalProperties: g.generateType(t.Elem()),
		}

	case reflect.Struct:
		return g.generateStructSchema(t)

	case reflect.Interface:
		return &Schema{}
	}

	return nil
}

// generateStructSchema builds an object schema from struct fields.
func (g *SchemaGenerator) generateStructSchema(t reflect.Type) *Schema {
	schema := &Schema{
		Type:       "object",
		Properties: make(map[string]*Schema),
	}

	g.collectFields(t, schema, false)

	if len(schema.Properties) == 0 {
		schema.Properties = nil
	}

	return schema
}

// collectFields recursively collects struct fields into the schema.
// When allOptional is true, all fields are treated as optional regardless
// of their json tags. This is used for pointer-embedded structs where the
// entire embedded struct can be nil and thus all its fields may be absent.
func (g *SchemaGenerator) collectFields(t reflect.Type, schema *Schema, allOptional bool) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		// Skip unexported fields.
		if !field.IsExported() {
			continue
		}

		// Handle embedded structs: inline only when the field has no
		// explicit json tag name. encoding/json treats an anonymous field
		// with a tag name as a regular named field, not inlined.
		if field.Anonymous {
			jsonName, _ := parseJSONTag(field.Tag.Get("json"))
			if jsonName == "" {
				ft := field.Type
				isPtr := ft.Kind() == reflect.Pointer
				if isPtr {
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
					// Pointer-embedded structs: all inlined fields become
					// optional because the pointer can be nil, omitting
					// all fields from JSON output.
					g.collectFields(ft, schema, allOptional || isPtr)
					continue
				}
			}
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name, opts := parseJSONTag(jsonTag)
		if name == "" {
			name = field.Name
		}

		fieldSchema := g.generateType(field.Type)
		if fieldSchema == nil {
			continue
		}

		applyOpenAPITag(fieldSchema, field.Tag.Get("openapi"))

		// The encoding/json ",string" option encodes numeric and boolean
		// values as JSON strings. Override the schema type accordingly.
		if opts.stringEncode && fieldSchema.Type != "" && fieldSchema.Type != "object" && fieldSchema.Type != "array" {
			fieldSchema.Type = "string"
		}

		schema.Properties[name] = fieldSchema

		if !opts.omitempty && !allOptional {
			schema.Required = append(schema.Required, name)
		}
	}
}

type jsonTagOpts struct {
	omitempty    bool
	stringEncode bool // encoding/json ",string" option
}

func parseJSONTag(tag string) (string, jsonTagOpts) {
	if tag == "" {
		return "", jsonTagOpts{}
	}
	name, rest, _ := strings.Cut(tag, ",")
	return name, jsonTagOpts{
		omitempty:    strings.Contains(rest, "omitempty") || strings.Contains(rest, "omitzero"),
		stringEncode: strings.Contains(rest, "string"),
	}
}

// applyOpenAPITag parses the `openapi` struct tag and applies constraints to
// the schema. Tag keys map to Schema Object keywords.
//
// See: https://spec.openapis.org/oas/v3.0.2#schema-object
func applyOpenAPITag(schema *Schema, tag string) {
	if tag == "" {
		return
	}

	for _, part := range strings.Split(tag, ",") {
		key, value, hasValue := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		if hasValue {
			value = strings.TrimSpace(value)
		}

		switch key {
		case "description":
			schema.Description = value
		case "example":
			schema.Example = parseExampleValue(schema, value)
		case "format":
			schema.Format = value
		case "minimum":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				schema.Minimum = &v
			}
		case "maximum":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				schema.Maximum = &v
			}
		case "exclusiveMinimum":
			schema.ExclusiveMinimum = true
		case "exclusiveMaximum":
			schema.ExclusiveMaximum = true
		case "minLength":
			if v, err := strconv.Atoi(value); err == nil {
				schema.MinLength = &v
			}
		case "maxLength":
			if v, err := strconv.Atoi(value); err == nil {
				schema.MaxLength = &v
			}
		case "pattern":
			schema.Pattern = value
		case "enum":
			values := strings.Split(value, "|")
			schema.Enum = make([]any, len(values))
			for i, v := range values {
				schema.Enum[i] = v
			}
		case "const":
			// OAS 3.0 has no const keyword; a single-value enum is the
			// equivalent.
			schema.Enum = []any{value}
		case "deprecated":
			schema.Deprecated = true
		case "readOnly":
			schema.ReadOnly = true
		case "writeOnly":
			schema.WriteOnly = true
		case "nullable":
			schema.Nullable = true
		case "title":
			schema.Title = value
		case "multipleOf":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				schema.MultipleOf = &v
			}
		case "minItems":
			if v, err := strconv.Atoi(value); err == nil {
				schema.MinItems = &v
			}
		case "maxItems":
			if v, err := strconv.Atoi(value); err == nil {
				schema.MaxItems = &v
			}
		case "uniqueItems":
			schema.UniqueItems = true
		case "minProperties":
			if v, err := strconv.Atoi(value); err == nil {
				schema.MinProperties = &v
			}
		case "maxProperties":
			if v, err := strconv.Atoi(value); err == nil {
				schema.MaxProperties = &v
			}
		}
	}
}

// parseExampleValue converts a string tag value to the appropriate Go type
// based on the schema's type field.
func parseExampleValue(schema *Schema, value string) any {
	switch schema.Type {
	case "integer":
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			return v
		}
	case "number":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			return v
		}
	case "boolean":
		if v, err := strconv.ParseBool(value); err == nil {
			return v
		}
	}
	return value
}

// dropRequestOnlyFields removes readOnly properties from an object schema.
// Read-only fields are returned by the API but never accepted in request
// bodies.
//
// See: https://spec.openapis.org/oas/v3.0.2#fixed-fields-20 (readOnly)
func dropRequestOnlyFields(schema *Schema) {
	dropProperties(schema, func(s *Schema) bool { return s.ReadOnly })
}

// dropResponseOnlyFields removes writeOnly properties from an object schema.
// Write-only fields are accepted in request bodies but never returned.
//
// See: https://spec.openapis.org/oas/v3.0.2#fixed-fields-20 (writeOnly)
func dropResponseOnlyFields(schema *Schema) {
	dropProperties(schema, func(s *Schema) bool { return s.WriteOnly })
}

// dropProperties removes top-level properties matched by drop, along with
// their entries in the required list.
func dropProperties(schema *Schema, drop func(*Schema) bool) {
	if schema == nil || len(schema.Properties) == 0 {
		return
	}
	for name, prop := range schema.Properties {
		if !drop(prop) {
			continue
		}
		delete(schema.Properties, name)
		for i, req := range schema.Required {
			if req == name {
				schema.Required = append(schema.Required[:i], schema.Required[i+1:]...)
				break
			}
		}
	}
	if len(schema.Properties) == 0 {
		schema.Properties = nil
	}
	if len(schema.Required) == 0 {
		schema.Required = nil
	}
}

// modelName returns the bare type name of a model value, dereferencing
// pointers. Anonymous and nil models yield an empty string.
func modelName(model any) string {
	if model == nil {
		return ""
	}
	t := reflect.TypeOf(model)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
