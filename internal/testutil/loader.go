package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/vk/registrable"
)

// MapModule is an in-memory registrable.Module backed by a plain map.
type MapModule map[string]any

// Member implements registrable.Module.
func (m MapModule) Member(name string) (any, bool) {
	member, ok := m[name]
	return member, ok
}

// MapLoader is an in-memory registrable.Loader for tests. It counts Load
// calls so tests can assert that memoization skips the loader.
type MapLoader struct {
	Modules map[string]MapModule

	loads atomic.Int64
}

// Load implements registrable.Loader.
func (l *MapLoader) Load(path string) (registrable.Module, error) {
	l.loads.Add(1)
	module, ok := l.Modules[path]
	if !ok {
		return nil, fmt.Errorf("unknown module %q", path)
	}
	return module, nil
}

// Loads returns how many times Load has been called.
func (l *MapLoader) Loads() int {
	return int(l.loads.Load())
}
