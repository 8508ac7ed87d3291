package rapid

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

const (
	EventNameKey       = "eventName"
	LegacyEventNameKey = "@event_name"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Packet is one JSON message read from the rapid.
type Packet struct {
	raw    []byte
	fields map[string]json.RawMessage
}

func ParsePacket(raw []byte) (*Packet, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("rapid: message is not a json object: %w", err)
	}
	return &Packet{raw: raw, fields: fields}, nil
}

// String returns the value of a top-level string field, or "" if the field is
// missing or not a string.
func (p *Packet) String(key string) string {
	raw, ok := p.fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// EventName returns the discriminator, preferring eventName over the legacy key.
func (p *Packet) EventName() string {
	if name := p.String(EventNameKey); name != "" {
		return name
	}
	return p.String(LegacyEventNameKey)
}

func (p *Packet) Raw() []byte {
	return p.raw
}

// ValidationError means the packet matched a river but is missing required
// fields or has malformed ones. Such packets are skipped, not retried.
type ValidationError struct {
	EventName string
	Err       error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("rapid: validation of %s failed: %v", e.EventName, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Decode unmarshals the packet into v and checks its validate tags.
func Decode(p *Packet, v any) error {
	if err := json.Unmarshal(p.raw, v); err != nil {
		return &ValidationError{EventName: p.EventName(), Err: err}
	}
	if err := validate.Struct(v); err != nil {
		return &ValidationError{EventName: p.EventName(), Err: err}
	}
	return nil
}
