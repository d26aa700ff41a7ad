package swagger

import (
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefinitionRef is the JSON pointer prefix of references into the
// document definitions.
const DefinitionRef = "#/definitions/"

var (
	timeType = reflect.TypeOf(time.Time{})
	uuidType = reflect.TypeOf(uuid.UUID{})
)

// Exampler can be implemented by models to provide an example value for
// their definition.
//
//	func (b Balloon) SwaggerExample() any {
//	    return Balloon{ID: 1, Color: "red"}
//	}
type Exampler interface {
	SwaggerExample() any
}

// SchemaGenerator converts Go types to Swagger schemas and collects named
// struct types into the definitions map, referenced via $ref.
//
// A SchemaGenerator is not safe for concurrent use.
type SchemaGenerator struct {
	definitions map[string]*Schema
	visited     map[reflect.Type]bool
	typeNames   map[reflect.Type]string
	nameTypes   map[string]reflect.Type
}

// NewSchemaGenerator creates an empty schema generator.
func NewSchemaGenerator() *SchemaGenerator {
	return &SchemaGenerator{
		definitions: make(map[string]*Schema),
		visited:     make(map[reflect.Type]bool),
		typeNames:   make(map[reflect.Type]string),
		nameTypes:   make(map[string]reflect.Type),
	}
}

// Definitions returns the collected definitions.
func (g *SchemaGenerator) Definitions() map[string]*Schema {
	return g.definitions
}

// Generate produces a schema for the given value. Named struct types are
// stored in the definitions and referenced.
func (g *SchemaGenerator) Generate(v any) *Schema {
	if v == nil {
		return nil
	}
	return g.generateType(reflect.TypeOf(v))
}

func (g *SchemaGenerator) generateType(t reflect.Type) *Schema {
	// Swagger 2.0 has no nullable keyword; pointers document their element.
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Kind() == reflect.Struct && t != timeType {
		if name := g.schemaName(t); name != "" {
			if !g.visited[t] {
				g.visited[t] = true
				schema := g.generateStructSchema(t)

				if ex, ok := reflect.New(t).Interface().(Exampler); ok {
					schema.Example = ex.SwaggerExample()
				}

				g.definitions[name] = schema
			}
			return &Schema{Ref: DefinitionRef + name}
		}
	}

	return g.generateInlineType(t)
}

func (g *SchemaGenerator) generateInlineType(t reflect.Type) *Schema {
	switch t {
	case timeType:
		return &Schema{Type: "string", Format: "date-time"}
	case uuidType:
		return &Schema{Type: "string", Format: "uuid"}
	}

	switch t.Kind() {
	case reflect.Bool:
		return &Schema{Type: "boolean"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
		return &Schema{Type: "integer", Format: "int32"}

	case reflect.Int64:
		return &Schema{Type: "integer", Format: "int64"}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}

	case reflect.Float32:
		return &Schema{Type: "number", Format: "float"}

	case reflect.Float64:
		return &Schema{Type: "number", Format: "double"}

	case reflect.String:
		return &Schema{Type: "string"}

	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return &Schema{Type: "string", Format: "byte"}
		}
		return &Schema{Type: "array", Items: g.generateType(t.Elem())}

	case reflect.Array:
		return &Schema{Type: "array", Items: g.generateType(t.Elem())}

	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return &Schema{Type: "object"}
		}
		return &Schema{Type: "object", AdditionalProperties: g.generateType(t.Elem())}

	case reflect.Struct:
		return g.generateStructSchema(t)

	case reflect.Interface:
		return &Schema{}
	}

	return nil
}

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

// collectFields collects struct fields into schema. Fields of
// pointer-embedded structs are optional.
func (g *SchemaGenerator) collectFields(t reflect.Type, schema *Schema, allOptional bool) {
	for i := range t.NumField() {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		if field.Anonymous {
			if jsonName, _ := parseJSONTag(field.Tag.Get("json")); jsonName == "" {
				ft := field.Type
				isPtr := ft.Kind() == reflect.Pointer
				if isPtr {
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
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

		if fieldSchema.Ref == "" {
			applyFieldTag(fieldSchema, field.Tag.Get("openapi"))
			if opts.stringEncode {
				fieldSchema.Type = "string"
				fieldSchema.Format = ""
			}
		}

		schema.Properties[name] = fieldSchema

		if !opts.omitempty && !allOptional {
			schema.Required = append(schema.Required, name)
		}
	}
}

type jsonTagOpts struct {
	omitempty    bool
	stringEncode bool
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

// applyFieldTag applies the constraints of an `openapi` struct tag, e.g.
// `openapi:"description=Balloon color,enum=red|blue"`. Keys without a
// Swagger 2.0 counterpart are ignored.
func applyFieldTag(schema *Schema, tag string) {
	if tag == "" {
		return
	}

	for part := range strings.SplitSeq(tag, ",") {
		key, value, _ := strings.Cut(part, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "description":
			schema.Description = value
		case "title":
			schema.Title = value
		case "example":
			schema.Example = parseExampleValue(schema, value)
		case "format":
			schema.Format = value
		case "pattern":
			schema.Pattern = value
		case "readOnly":
			schema.ReadOnly = true
		case "minimum":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				schema.Minimum = &v
			}
		case "maximum":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				schema.Maximum = &v
			}
		case "minLength":
			if v, err := strconv.Atoi(value); err == nil {
				schema.MinLength = &v
			}
		case "maxLength":
			if v, err := strconv.Atoi(value); err == nil {
				schema.MaxLength = &v
			}
		case "enum":
			values := strings.Split(value, "|")
			schema.Enum = make([]any, len(values))
			for i, v := range values {
				schema.Enum[i] = v
			}
		}
	}
}

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

// schemaName returns a unique definition name for t. A type whose simple
// name is already taken by a type from another package is prefixed with
// its package name ("ApiUser"), then numbered ("ApiUser2").
func (g *SchemaGenerator) schemaName(t reflect.Type) string {
	simple := sanitizeSchemaName(t.Name())
	if simple == "" || t.PkgPath() == "" {
		return ""
	}

	if name, ok := g.typeNames[t]; ok {
		return name
	}

	name := simple
	if existing, ok := g.nameTypes[name]; ok && existing != t {
		name = pkgPrefix(t.PkgPath()) + simple
		if existing, ok := g.nameTypes[name]; ok && existing != t {
			base := name
			for i := 2; ; i++ {
				candidate := base + strconv.Itoa(i)
				if _, ok := g.nameTypes[candidate]; !ok {
					name = candidate
					break
				}
			}
		}
	}

	g.typeNames[t] = name
	g.nameTypes[name] = t
	return name
}

func pkgPrefix(pkgPath string) string {
	if idx := strings.LastIndexByte(pkgPath, '/'); idx >= 0 {
		pkgPath = pkgPath[idx+1:]
	}
	if pkgPath == "" {
		return ""
	}
	pkgPath = strings.ReplaceAll(pkgPath, "-", "_")
	pkgPath = strings.ReplaceAll(pkgPath, ".", "_")
	return strings.ToUpper(pkgPath[:1]) + pkgPath[1:]
}

// sanitizeSchemaName turns generic instantiations into plain names:
// "Page[pkg.Balloon]" becomes "PageBalloon", "Page[[]pkg.Balloon]"
// becomes "PageBalloonList".
func sanitizeSchemaName(name string) string {
	idx := strings.IndexByte(name, '[')
	if idx < 0 {
		return name
	}

	base := name[:idx]
	inner := name[idx+1 : len(name)-1]

	isList := strings.HasPrefix(inner, "[]")
	inner = strings.TrimPrefix(inner, "[]")

	if dot := strings.LastIndexByte(inner, '.'); dot >= 0 {
		inner = inner[dot+1:]
	}

	result := base + inner
	if isList {
		result += "List"
	}
	return result
}
