package app

import (
	"github.com/vk/registrable/internal/registries"
	"github.com/vk/registrable/modules/jsoncodec"
	"github.com/vk/registrable/modules/print"
	"github.com/vk/registrable/modules/socketio"
	"github.com/vk/registrable/modules/textcodec"
)

// coreModules is the definitive list of all modules that are compiled into
// the registrable binary.
var coreModules = []registries.Module{
	&print.Module{},
	&socketio.Module{},
	&jsoncodec.Module{},
	&textcodec.Module{},
}
