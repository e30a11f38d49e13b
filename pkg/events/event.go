package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Type names an event.
type Type string

// Event types, one per layout hook.
const (
	TypeOpenWindow  Type = "openwindow"
	TypeCloseWindow Type = "closewindow"
	TypeSplit       Type = "split"
	TypeRecalc      Type = "recalc"
	TypeFault       Type = "fault"
)

// Event is one layout change. Fields irrelevant to the type are omitted
// from the JSON encoding.
type Event struct {
	Type      Type      `json:"type"`
	Time      time.Time `json:"time"`
	Workspace int       `json:"workspace,omitempty"`
	Window    string    `json:"window,omitempty"`
	Layout    string    `json:"layout,omitempty"`
	Collapsed int       `json:"collapsed,omitempty"`
	Nodes     int       `json:"nodes,omitempty"`
	Duration  string    `json:"duration,omitempty"`
	Code      string    `json:"code,omitempty"`
}

// Decode parses an event from its JSON encoding.
func Decode(data []byte) (Event, error) {
	var e Event
	err := json.Unmarshal(data, &e)
	return e, err
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// MemoryPublisher records events in order.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

// NewMemoryPublisher creates an empty MemoryPublisher.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (m *MemoryPublisher) Publish(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *MemoryPublisher) Close() error { return nil }

// Events returns a copy of the recorded events.
func (m *MemoryPublisher) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Reset drops the recorded events.
func (m *MemoryPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
