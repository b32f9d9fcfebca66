package docx

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

type RouterDoc struct {
	Title     string      `json:"title,omitempty"`
	BasePath  string      `json:"basePath"`
	Endpoints []*Endpoint `json:"endpoints"`
}

func NewRouterDoc(basePath string) *RouterDoc {
	return &RouterDoc{
		BasePath:  basePath,
		Endpoints: []*Endpoint{},
	}
}

func (r *RouterDoc) WithTitle(title string) *RouterDoc {
	r.Title = title
	return r
}

func (r *RouterDoc) AddEndpoint(endpoint *Endpoint) *RouterDoc {
	r.Endpoints = append(r.Endpoints, endpoint)
	return r
}

// Curls renders one example per endpoint, separated by blank lines
func (r *RouterDoc) Curls(baseURL string) string {
	parts := make([]string, 0, len(r.Endpoints))
	for _, e := range r.Endpoints {
		parts = append(parts, "# "+string(e.Method)+" "+r.BasePath+e.Path+"\n"+Curl(baseURL, r.BasePath, e))
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// RegisterWithFiber serves the documentation at path. ?format=curl returns
// plain-text curl examples built against the request's own host.
func (r *RouterDoc) RegisterWithFiber(app *fiber.App, path string) {
	app.Get(path, func(c *fiber.Ctx) error {
		if c.Query("format") == "curl" {
			c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
			return c.SendString(r.Curls(c.BaseURL()))
		}
		return c.JSON(r)
	})
}
