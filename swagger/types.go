package swagger

import (
	"encoding/json"
	"strings"
)

// Version is the Swagger specification version emitted by the generator.
const Version = "2.0"

// Document represents the root of a Swagger 2.0 document.
//
// See: https://swagger.io/specification/v2/#swagger-object
type Document struct {
	Swagger     string              `json:"swagger"`
	Info        Info                `json:"info"`
	BasePath    string              `json:"basePath,omitempty"`
	Paths       map[string]PathItem `json:"paths"`
	Definitions map[string]*Schema  `json:"definitions,omitempty"`
	Tags        []Tag               `json:"tags,omitempty"`
}

// Info provides metadata about the API.
//
// See: https://swagger.io/specification/v2/#info-object
type Info struct {
	Title   string `json:"title"`
	Version string `json:"version"`
}

// PathItem maps a lowercase HTTP verb to the operation documented for it.
//
// See: https://swagger.io/specification/v2/#path-item-object
type PathItem map[string]*Operation

// Operation describes a single API operation on a path.
//
// See: https://swagger.io/specification/v2/#operation-object
type Operation struct {
	Summary     string               `json:"summary"`
	Description string               `json:"description"`
	Tags        []string             `json:"tags"`
	Parameters  []Parameter          `json:"parameters"`
	Responses   map[string]*Response `json:"responses,omitempty"`

	// Extra is the raw structured-data block found after a "---" line in
	// the handler documentation. It is never serialized.
	Extra string `json:"-"`

	// Extensions holds vendor extensions. Only keys starting with "x-" are
	// serialized, inline with the operation fields.
	Extensions map[string]any `json:"-"`
}

// MarshalJSON encodes the operation with its vendor extensions inlined.
func (op Operation) MarshalJSON() ([]byte, error) {
	type plain Operation
	data, err := json.Marshal(plain(op))
	if err != nil || len(op.Extensions) == 0 {
		return data, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for key, value := range op.Extensions {
		if !strings.HasPrefix(key, "x-") {
			continue
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		fields[key] = raw
	}
	return json.Marshal(fields)
}

// Parameter describes a single path parameter.
//
// See: https://swagger.io/specification/v2/#parameter-object
type Parameter struct {
	Name     string `json:"name"`
	In       string `json:"in"`
	Type     string `json:"type"`
	Format   string `json:"format,omitempty"`
	Required bool   `json:"required"`
}

// Response describes a single response of an operation.
//
// See: https://swagger.io/specification/v2/#response-object
type Response struct {
	Description string  `json:"description"`
	Schema      *Schema `json:"schema,omitempty"`
}

// Tag groups operations, one per resource type.
//
// See: https://swagger.io/specification/v2/#tag-object
type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Schema is the subset of the Swagger 2.0 Schema Object produced by the
// generator.
//
// See: https://swagger.io/specification/v2/#schema-object
type Schema struct {
	Ref                  string             `json:"$ref,omitempty"`
	Type                 string             `json:"type,omitempty"`
	Format               string             `json:"format,omitempty"`
	Title                string             `json:"title,omitempty"`
	Description          string             `json:"description,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *Schema            `json:"additionalProperties,omitempty"`
	Enum                 []any              `json:"enum,omitempty"`
	Minimum              *float64           `json:"minimum,omitempty"`
	Maximum              *float64           `json:"maximum,omitempty"`
	MinLength            *int               `json:"minLength,omitempty"`
	MaxLength            *int               `json:"maxLength,omitempty"`
	Pattern              string             `json:"pattern,omitempty"`
	ReadOnly             bool               `json:"readOnly,omitempty"`
	Example              any                `json:"example,omitempty"`
}

// ErrorResponse is the default error model documented by the "default"
// response of every operation with a known success status.
type ErrorResponse struct {
	Code    int    `json:"code" openapi:"description=HTTP status code"`
	Message string `json:"message" openapi:"description=Human-readable description"`
}
