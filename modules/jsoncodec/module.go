// Package jsoncodec provides the JSON payload codec, the codec registry's
// default implementation.
package jsoncodec

import (
	"encoding/json"

	"github.com/vk/registrable/internal/registries"
)

// Module implements the registries.Module interface for this package.
type Module struct{}

// Codec encodes payloads as compact JSON objects.
type Codec struct{}

// Encode marshals the payload. Map keys are emitted in sorted order, so
// output is deterministic.
func (Codec) Encode(payload map[string]any) ([]byte, error) {
	return json.Marshal(payload)
}

// Register registers the codec with the codec registry.
func (m *Module) Register(s *registries.Set) {
	s.Codecs.MustRegister("json", Codec{})
}
