// Package textcodec provides a plain-text payload codec: one key=value pair
// per line, keys sorted for consistent output.
package textcodec

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vk/registrable/internal/registries"
)

// Module implements the registries.Module interface for this package.
type Module struct{}

// Codec renders payloads as sorted key=value lines.
type Codec struct{}

// Encode renders the payload. A nil payload encodes to an empty body.
func (Codec) Encode(payload map[string]any) ([]byte, error) {
	if len(payload) == 0 {
		return nil, nil
	}

	// Sort keys for consistent output
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%v\n", k, payload[k])
	}
	return []byte(b.String()), nil
}

// Register registers the codec with the codec registry.
func (m *Module) Register(s *registries.Set) {
	s.Codecs.MustRegister("text", Codec{})
}
