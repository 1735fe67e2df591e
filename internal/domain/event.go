package domain

import (
	"fmt"
	"strings"
)

type EventType string

const (
	EventRain       EventType = "rain"
	EventIrrigation EventType = "irrigation"
	EventFertilizer EventType = "fertilizer"
	EventHarvest    EventType = "harvest"
	EventAmendment  EventType = "amendment"
)

const EventStatusInjected = "Event Injected"

func ParseEventType(raw string) (EventType, error) {
	eventType := EventType(strings.ToLower(strings.TrimSpace(raw)))
	switch eventType {
	case EventRain, EventIrrigation, EventFertilizer, EventHarvest, EventAmendment:
		return eventType, nil
	default:
		return "", fmt.Errorf("unsupported event type %q", raw)
	}
}

type EventRequest struct {
	Type   EventType      `json:"type"`
	Amount float64        `json:"amount"`
	Data   map[string]any `json:"data,omitempty"`
	// Label names the request in activity messages; it defaults to Type.
	Label  string         `json:"-"`
}

func (r EventRequest) DisplayLabel() string {
	if r.Label != "" {
		return r.Label
	}
	return string(r.Type)
}

// WithAmountData mirrors Amount into Data, where the simulation reads it.
func (r EventRequest) WithAmountData() EventRequest {
	data := make(map[string]any, len(r.Data)+1)
	for key, value := range r.Data {
		data[key] = value
	}
	if _, ok := data["amount"]; !ok && r.Amount != 0 {
		data["amount"] = r.Amount
	}
	r.Data = data
	return r
}

// EventPresets are the quick actions offered by the live dashboard.
var EventPresets = []EventRequest{
	{Type: EventRain, Amount: 25, Data: map[string]any{"amount": 25.0}, Label: "rain25"},
	{Type: EventIrrigation, Data: map[string]any{"liters": 50000.0}, Label: "irri"},
	{Type: EventFertilizer, Amount: 20, Data: map[string]any{"type": "urea", "amount": 20.0}, Label: "urea"},
	{Type: EventFertilizer, Amount: 25, Data: map[string]any{"type": "dap", "amount": 25.0}, Label: "dap"},
	{Type: EventHarvest, Data: map[string]any{"crop": "Wheat"}, Label: "harv"},
}

type EventAck struct {
	Status   string         `json:"status"`
	Detail   string         `json:"detail,omitempty"`
	Event    map[string]any `json:"event,omitempty"`
	NewState map[string]any `json:"new_state,omitempty"`
}

func (a EventAck) Injected() bool {
	return a.Status == EventStatusInjected
}

// OptimisticState returns the projected soil reading carried by the ack, if any.
func (a EventAck) OptimisticState() (SoilReading, bool) {
	if len(a.NewState) == 0 {
		return SoilReading{}, false
	}
	return SoilReading{Fields: a.NewState}, true
}
