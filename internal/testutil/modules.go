package testutil

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/vk/registrable/internal/registries"
	"github.com/vk/registrable/sink"
)

// RecordedEvent is one Emit call captured by a RecordingSink.
type RecordedEvent struct {
	Event sink.Event
	Body  []byte
}

// RecordingSink captures emitted events for assertions.
type RecordingSink struct {
	mu     sync.Mutex
	events []RecordedEvent
}

// Emit implements sink.Sink.
func (s *RecordingSink) Emit(ctx context.Context, event sink.Event, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, RecordedEvent{Event: event, Body: body})
	return nil
}

// Events returns a copy of all captured events.
func (s *RecordingSink) Events() []RecordedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedEvent(nil), s.events...)
}

type jsonCodec struct{}

func (jsonCodec) Encode(payload map[string]any) ([]byte, error) {
	return json.Marshal(payload)
}

// RecordingModule registers a recording sink under "print" and a JSON codec
// under "json", satisfying the registry defaults without touching stdout or
// the network.
type RecordingModule struct {
	Sink RecordingSink
}

// Register implements registries.Module.
func (m *RecordingModule) Register(s *registries.Set) {
	s.Sinks.MustRegister("print", func(opts map[string]string) (sink.Sink, error) {
		return &m.Sink, nil
	})
	s.Codecs.MustRegister("json", jsonCodec{})
}
