package errx

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestRegistryNew(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("MISSING", TypeNotFound, http.StatusNotFound, "thing missing")

	if code != "TEST_MISSING" {
		t.Fatalf("code = %q, want TEST_MISSING", code)
	}

	err := reg.New(code).WithDetail("id", 7)
	if err.Status() != http.StatusNotFound {
		t.Errorf("status = %d", err.Status())
	}
	if !IsCode(err, code) || !IsType(err, TypeNotFound) {
		t.Errorf("IsCode/IsType mismatch for %v", err)
	}

	// definitions must not be mutated by instances
	if reg.New(code).Details != nil {
		t.Error("registry definition leaked details")
	}
}

func TestRegistryUnknownCode(t *testing.T) {
	err := NewRegistry("X").New("NOPE")
	if err.Code != "UNKNOWN_ERROR" || err.Status() != http.StatusInternalServerError {
		t.Errorf("unexpected fallback error %+v", err)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	base := errors.New("boom")
	err := Wrap(base, "outer", TypeSystem)

	if !errors.Is(err, base) {
		t.Error("cause not reachable through errors.Is")
	}
	if err.Code != "SYSTEM_ERROR" {
		t.Errorf("code = %q", err.Code)
	}
	if Wrap(nil, "x", TypeSystem) != nil {
		t.Error("Wrap(nil) should be nil")
	}
}

func TestPrintSortsDetails(t *testing.T) {
	err := New("bad", TypeValidation).WithDetail("b", 2).WithDetail("a", 1)
	got := Print(err)
	if !strings.Contains(got, "Details: {a: 1, b: 2}") {
		t.Errorf("Print = %q", got)
	}
	if Print(nil) != "nil" {
		t.Error("Print(nil)")
	}
}

func TestFiberErrorHandler(t *testing.T) {
	reg := NewRegistry("API")
	code := reg.Register("GONE", TypeNotFound, http.StatusGone, "gone")

	app := fiber.New(fiber.Config{ErrorHandler: FiberErrorHandler})
	app.Get("/", func(c *fiber.Ctx) error {
		return reg.New(code)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusGone {
		t.Errorf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"code":"API_GONE"`) {
		t.Errorf("body = %s", body)
	}
}
