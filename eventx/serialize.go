package eventx

import (
	"encoding/json"
	"time"
)

// SerializableEvent represents an event in a serializable format
type SerializableEvent struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
	Data      json.RawMessage `json:"data"`
	Metadata  map[string]any  `json:"metadata"`
}

// ToSerializable converts an event to a serializable format
func ToSerializable(event Event) (*SerializableEvent, error) {
	dataBytes, err := json.Marshal(event.Payload())
	if err != nil {
		return nil, ErrorRegistry.New(ErrSerializationFailed).
			WithCause(err).
			WithDetail("event_id", event.ID()).
			WithDetail("event_type", event.Type())
	}

	return &SerializableEvent{
		ID:        event.ID(),
		Type:      event.Type(),
		Timestamp: event.Timestamp(),
		Source:    event.Source(),
		Data:      json.RawMessage(dataBytes),
		Metadata:  event.Metadata(),
	}, nil
}

// ToJSON serializes an event to JSON
func ToJSON(event Event) ([]byte, error) {
	serializable, err := ToSerializable(event)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(serializable)
	if err != nil {
		return nil, ErrorRegistry.New(ErrSerializationFailed).
			WithCause(err).
			WithDetail("event_id", event.ID()).
			WithDetail("event_type", event.Type())
	}

	return data, nil
}
