package docx

import (
	"fmt"
	"strings"
)

// Curl renders a copy-pasteable example request for e
func Curl(baseURL, basePath string, e *Endpoint) string {
	var b strings.Builder

	url := strings.TrimRight(baseURL, "/") + basePath + e.Path
	var query []string
	for _, p := range e.QueryParams {
		switch {
		case len(p.Enum) > 0:
			query = append(query, p.Name+"="+p.Enum[0])
		case p.Default != nil:
			query = append(query, fmt.Sprintf("%s=%v", p.Name, p.Default))
		case p.Required:
			query = append(query, fmt.Sprintf("%s=<%s>", p.Name, strings.ToUpper(p.Name)))
		}
	}
	if len(query) > 0 {
		url += "?" + strings.Join(query, "&")
	}

	fmt.Fprintf(&b, "curl -X %s '%s'", e.Method, url)
	for _, f := range e.FormFields {
		fmt.Fprintf(&b, " \\\n  -F '%s=@<%s>'", f.Name, strings.ToUpper(f.Name))
	}
	if len(e.Produces) > 0 && !strings.HasPrefix(e.Produces[0], "application/json") {
		b.WriteString(" \\\n  -OJ")
	}
	return b.String()
}
