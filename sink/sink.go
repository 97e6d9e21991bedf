// Package sink defines the event sink base type: the abstract role for which
// delivery backends register themselves. What gets registered is a Factory,
// not a sink instance; the registry hands back constructors and never builds
// or manages sinks itself.
package sink

import "context"

// Event is the unit of data pushed through a sink.
type Event struct {
	Name    string
	Payload map[string]any
}

// Sink delivers an encoded event to some destination.
type Sink interface {
	// Emit delivers the event. The body is the event payload already
	// encoded by the caller's codec of choice.
	Emit(ctx context.Context, event Event, body []byte) error
}

// Factory builds a Sink from string options. Unknown options should be
// rejected by the factory, not silently ignored.
type Factory func(opts map[string]string) (Sink, error)
