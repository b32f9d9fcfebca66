package docx

import (
	"reflect"
)

type HTTPMethod string

const (
	GET    HTTPMethod = "GET"
	POST   HTTPMethod = "POST"
	DELETE HTTPMethod = "DELETE"
)

// Param describes a query parameter or multipart form field
type Param struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Required    bool     `json:"required"`
	Default     any      `json:"default,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

type Endpoint struct {
	Path        string     `json:"path"`
	Method      HTTPMethod `json:"method"`
	Summary     string     `json:"summary,omitempty"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`

	QueryParams []Param `json:"queryParams,omitempty"`
	FormFields  []Param `json:"formFields,omitempty"`

	// Produces lists response content types; JSON when empty
	Produces        []string `json:"produces,omitempty"`
	ResponseSchema  *Schema  `json:"responseSchema,omitempty"`
	ResponseExample any      `json:"responseExample,omitempty"`
}

func NewEndpoint(path string, method HTTPMethod) *Endpoint {
	return &Endpoint{Path: path, Method: method}
}

func (e *Endpoint) WithSummary(summary string) *Endpoint {
	e.Summary = summary
	return e
}

func (e *Endpoint) WithDescription(desc string) *Endpoint {
	e.Description = desc
	return e
}

func (e *Endpoint) WithTags(tags ...string) *Endpoint {
	e.Tags = append(e.Tags, tags...)
	return e
}

// WithQueryParam documents a query parameter; enum restricts its values
func (e *Endpoint) WithQueryParam(name, paramType, description string, required bool, enum ...string) *Endpoint {
	e.QueryParams = append(e.QueryParams, Param{
		Name:        name,
		Type:        paramType,
		Description: description,
		Required:    required,
		Enum:        enum,
	})
	return e
}

// WithFormFile documents a multipart file field
func (e *Endpoint) WithFormFile(name, description string) *Endpoint {
	e.FormFields = append(e.FormFields, Param{
		Name:        name,
		Type:        "file",
		Description: description,
		Required:    true,
	})
	return e
}

func (e *Endpoint) WithProduces(contentTypes ...string) *Endpoint {
	e.Produces = append(e.Produces, contentTypes...)
	return e
}

func (e *Endpoint) WithResponseDTO(dto any) *Endpoint {
	s := extractSchema(reflect.TypeOf(dto))
	e.ResponseSchema = &s
	return e
}

func (e *Endpoint) WithResponseExample(example any) *Endpoint {
	e.ResponseExample = example
	return e
}
