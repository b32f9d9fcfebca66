package eventx

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Abraxas-365/mockup2html/errx"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestToJSONKeepsIdentity(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ev := NewEvent("mockup.image.selected", sample{Name: "a.png", Count: 3},
		EventOptions{Source: "test", Timestamp: at})

	raw, err := ToJSON(ev)
	if err != nil {
		t.Fatal(err)
	}

	var got struct {
		ID        string    `json:"id"`
		Type      string    `json:"type"`
		Timestamp time.Time `json:"timestamp"`
		Source    string    `json:"source"`
		Data      sample    `json:"data"`
	}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != ev.ID() || got.Type != ev.Type() || !got.Timestamp.Equal(at) || got.Source != "test" {
		t.Errorf("identity changed: %+v", got)
	}
	if got.Data != (sample{Name: "a.png", Count: 3}) {
		t.Errorf("data = %+v", got.Data)
	}
}

func TestToJSONRejectsUnencodablePayload(t *testing.T) {
	if _, err := ToJSON(NewEvent("x", make(chan int))); !errx.IsCode(err, ErrSerializationFailed) {
		t.Fatalf("err = %v", err)
	}
}

func TestNewEventDefaults(t *testing.T) {
	ev := NewEvent("x", 1)
	if ev.ID() == "" || ev.Source() != "mockup2html" || ev.Metadata() == nil {
		t.Errorf("defaults not applied: %q %q", ev.ID(), ev.Source())
	}
}
