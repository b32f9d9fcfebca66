package docx

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type item struct {
	ID    string   `json:"id"`
	Note  string   `json:"note,omitempty"`
	Inner *item    `json:"-"`
	Tags  []string `json:"tags"`
}

func testDoc() *RouterDoc {
	return NewRouterDoc("/api/v1").
		WithTitle("test").
		AddEndpoint(NewEndpoint("/upload", POST).WithFormFile("file", "image")).
		AddEndpoint(NewEndpoint("/get", GET).
			WithQueryParam("format", "string", "output", false, "html", "txt").
			WithProduces("text/html").
			WithResponseDTO(item{}))
}

func TestSchemaUsesJSONNames(t *testing.T) {
	s := extractSchema(reflect.TypeOf(item{}))
	if s.Type != "item" || len(s.Fields) != 3 {
		t.Fatalf("schema = %+v", s)
	}
	if s.Fields[0].Name != "id" || !s.Fields[0].Required || s.Fields[1].Required {
		t.Errorf("fields = %+v", s.Fields)
	}
}

func TestCurl(t *testing.T) {
	doc := testDoc()
	upload := Curl("http://localhost:8080/", doc.BasePath, doc.Endpoints[0])
	if !strings.Contains(upload, "curl -X POST 'http://localhost:8080/api/v1/upload'") || !strings.Contains(upload, "-F 'file=@<FILE>'") {
		t.Errorf("upload curl = %s", upload)
	}
	get := Curl("http://localhost:8080", doc.BasePath, doc.Endpoints[1])
	if !strings.Contains(get, "/api/v1/get?format=html") || !strings.Contains(get, "-OJ") {
		t.Errorf("get curl = %s", get)
	}
}

func TestRegisterWithFiber(t *testing.T) {
	app := fiber.New()
	testDoc().RegisterWithFiber(app, "/docs")

	resp, err := app.Test(httptest.NewRequest("GET", "/docs", nil))
	if err != nil {
		t.Fatal(err)
	}
	var got RouterDoc
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.BasePath != "/api/v1" || len(got.Endpoints) != 2 {
		t.Errorf("doc = %+v", got)
	}

	resp, _ = app.Test(httptest.NewRequest("GET", "/docs?format=curl", nil))
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "# GET /api/v1/get") {
		t.Errorf("curl body = %s", body)
	}
}
