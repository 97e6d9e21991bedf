// Package codec defines the payload codec base type. Codecs are stateless,
// so implementations register themselves as values rather than constructors.
package codec

// Codec encodes an event payload for transport.
type Codec interface {
	Encode(payload map[string]any) ([]byte, error)
}
