package catalog

import (
	"fmt"
	"plugin"
	"reflect"
	"slices"
)

// open opens the entry's shared object once and returns it wrapped as a
// registrable.Module. The plugin stays open for the life of the process;
// there is no unload.
func (e *Entry) open() (*pluginModule, error) {
	e.once.Do(func() {
		p, err := plugin.Open(e.Plugin)
		if err != nil {
			e.openErr = fmt.Errorf("opening plugin %s for module %q: %w", e.Plugin, e.Path, err)
			return
		}
		e.module = &pluginModule{entry: e, plugin: p}
	})
	if e.openErr != nil {
		return nil, e.openErr
	}
	return e.module, nil
}

// pluginModule adapts an open Go plugin to the registrable.Module interface.
type pluginModule struct {
	entry  *Entry
	plugin *plugin.Plugin
}

// Member looks up an exported symbol of the plugin. Symbols for package
// variables arrive as pointers to the variable, so one pointer level is
// unwrapped before the value is handed to the registry.
func (m *pluginModule) Member(name string) (any, bool) {
	if len(m.entry.Members) > 0 && !slices.Contains(m.entry.Members, name) {
		return nil, false
	}

	sym, err := m.plugin.Lookup(name)
	if err != nil {
		return nil, false
	}

	v := reflect.ValueOf(sym)
	if v.Kind() == reflect.Pointer && !v.IsNil() {
		return v.Elem().Interface(), true
	}
	return sym, true
}
