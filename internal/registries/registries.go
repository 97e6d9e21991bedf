// Package registries wires one registry per base type into a set owned by a
// single application instance. Bundled module packages implement the Module
// interface to self-register their implementations into a set.
package registries

import (
	"log/slog"

	"github.com/vk/registrable"
	"github.com/vk/registrable/codec"
	"github.com/vk/registrable/sink"
)

// Set holds the registries of a single application instance. Sets are
// isolated: two sets never share namespaces, defaults, or hooks.
type Set struct {
	Sinks  *registrable.Registry[sink.Factory]
	Codecs *registrable.Registry[codec.Codec]
}

// Module is the interface bundled packages implement to register their
// implementations with a set.
type Module interface {
	Register(s *Set)
}

// New creates an empty registry set. The loader backs qualified-path
// lookups and may be nil, in which case only registered names resolve.
func New(logger *slog.Logger, loader registrable.Loader) *Set {
	s := &Set{
		Sinks: registrable.New[sink.Factory](
			registrable.WithName("sink"),
			registrable.WithLogger(logger),
			registrable.WithLoader(loader),
		),
		Codecs: registrable.New[codec.Codec](
			registrable.WithName("codec"),
			registrable.WithLogger(logger),
			registrable.WithLoader(loader),
		),
	}
	s.Sinks.SetDefault("print")
	s.Codecs.SetDefault("json")
	return s
}
