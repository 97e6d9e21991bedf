// Package print provides the stdout sink: events are written line by line,
// ready for piping into other tools. It is the default sink implementation.
package print

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/vk/registrable/internal/ctxlog"
	"github.com/vk/registrable/internal/registries"
	"github.com/vk/registrable/sink"
)

// Module implements the registries.Module interface for this package.
type Module struct{}

// Sink writes encoded events to a writer, one event per line.
type Sink struct {
	w io.Writer
}

// New is the registered factory. It accepts no options.
func New(opts map[string]string) (sink.Sink, error) {
	for key := range opts {
		return nil, fmt.Errorf("print sink: unknown option %q", key)
	}
	return &Sink{w: os.Stdout}, nil
}

// NewWithWriter builds a print sink writing to w instead of stdout.
func NewWithWriter(w io.Writer) *Sink {
	return &Sink{w: w}
}

// Emit writes the event name followed by the encoded body.
func (s *Sink) Emit(ctx context.Context, event sink.Event, body []byte) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Printing event.", "event", event.Name, "bytes", len(body))

	_, err := fmt.Fprintf(s.w, "%s %s\n", event.Name, body)
	return err
}

// Register registers the factory with the sink registry.
func (m *Module) Register(s *registries.Set) {
	s.Sinks.MustRegister("print", New)
}
