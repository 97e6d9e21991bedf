package registrable

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"reflect"
	"strings"
	"sync"
)

// Hook is a callback invoked with (implementation, name) immediately after a
// successful registration. A hook error propagates to the registration
// caller, but the entry stays registered: registration is not transactional.
type Hook[T any] func(impl T, name string) error

// Option configures a Registry at construction time.
type Option func(*options)

type options struct {
	name   string
	logger *slog.Logger
	loader Loader
}

// WithName overrides the display name used for the registry's base type in
// error messages and log output. The default is the reflected name of T.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLogger sets the logger used for diagnostic output such as override
// warnings. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithLoader sets the module loader backing the qualified-path fallback of
// ByName. Without a loader, qualified lookups fail with KindModuleResolution.
func WithLoader(loader Loader) Option {
	return func(o *options) { o.loader = loader }
}

// RegisterOption customizes a single registration call.
type RegisterOption[T any] func(*registration[T])

type registration[T any] struct {
	override bool
	hooks    []Hook[T]
}

// Override allows the registration to replace an existing entry under the
// same name. The replacement is logged as a warning, not treated as an error.
func Override[T any]() RegisterOption[T] {
	return func(r *registration[T]) { r.override = true }
}

// WithHooks appends hooks to run for this registration only, after the
// registry's default hooks.
func WithHooks[T any](hooks ...Hook[T]) RegisterOption[T] {
	return func(r *registration[T]) { r.hooks = append(r.hooks, hooks...) }
}

// Registry is a named namespace of implementations of the base type T.
// Entries accumulate for the life of the registry and are only ever replaced,
// never removed. The zero value is not usable; construct with New.
type Registry[T any] struct {
	name   string
	logger *slog.Logger
	loader Loader

	mu          sync.RWMutex
	entries     map[string]T
	order       []string
	defaultName string
	hooks       []Hook[T]
}

// New creates an empty registry for the base type T.
func New[T any](opts ...Option) *Registry[T] {
	o := options{
		name:   reflect.TypeOf((*T)(nil)).Elem().String(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Registry[T]{
		name:    o.name,
		logger:  o.logger,
		loader:  o.loader,
		entries: make(map[string]T),
	}
}

// Name returns the display name of the registry's base type.
func (r *Registry[T]) Name() string { return r.name }

// Register stores impl under name. It fails with KindDuplicate when the name
// is taken and no Override option was given. On success all default hooks
// run first, in declaration order, followed by the per-call hooks, each
// receiving (impl, name); the first hook error is returned with the entry
// already committed.
func (r *Registry[T]) Register(name string, impl T, opts ...RegisterOption[T]) error {
	if name == "" {
		return errors.New("registrable: registration name must not be empty")
	}

	var reg registration[T]
	for _, opt := range opts {
		opt(&reg)
	}

	r.mu.Lock()
	occupant, exists := r.entries[name]
	if exists && !reg.override {
		r.mu.Unlock()
		return &Error{Kind: KindDuplicate, Base: r.name, Name: name, Occupant: fmt.Sprintf("%T", occupant)}
	}
	r.entries[name] = impl
	if !exists {
		r.order = append(r.order, name)
	}
	hooks := make([]Hook[T], 0, len(r.hooks)+len(reg.hooks))
	hooks = append(hooks, r.hooks...)
	hooks = append(hooks, reg.hooks...)
	r.mu.Unlock()

	if exists {
		r.logger.Warn("overriding registration", "name", name, "base", r.name, "previous", fmt.Sprintf("%T", occupant))
	}

	// Hooks run outside the lock so they may register further entries.
	for _, hook := range hooks {
		if err := hook(impl, name); err != nil {
			return fmt.Errorf("registration hook for %q as %s failed: %w", name, r.name, err)
		}
	}
	return nil
}

// MustRegister is the decorator form of Register used at package init time:
// it panics on error and returns impl unchanged.
func (r *Registry[T]) MustRegister(name string, impl T, opts ...RegisterOption[T]) T {
	if err := r.Register(name, impl, opts...); err != nil {
		panic(err)
	}
	return impl
}

// RegisterValue registers an untyped candidate, checking at runtime that it
// satisfies the base type. A non-conforming candidate fails with
// KindInvalidImplementation before any hook runs. It is the entry point for
// callers that receive implementations as plain values, such as plugin or
// manifest wiring.
func (r *Registry[T]) RegisterValue(name string, candidate any, opts ...RegisterOption[T]) error {
	impl, ok := candidate.(T)
	if !ok {
		return &Error{Kind: KindInvalidImplementation, Base: r.name, Name: name, Candidate: fmt.Sprintf("%T", candidate)}
	}
	return r.Register(name, impl, opts...)
}

// AddDefaultHook appends a hook that runs on every future registration in
// this registry, before any per-call hooks. Hooks are not deduplicated.
// The hook is returned unchanged.
func (r *Registry[T]) AddDefaultHook(hook Hook[T]) Hook[T] {
	r.mu.Lock()
	r.hooks = append(r.hooks, hook)
	r.mu.Unlock()
	return hook
}

// ByName resolves name to its registered implementation. A name with no
// exact entry that contains a dot is treated as a fully qualified path: the
// registry's loader resolves everything before the last dot as a module, and
// the rest as a member of it. Resolved members are checked against the base
// type and memoized under the exact lookup string, so subsequent lookups and
// IsRegistered hit the namespace directly.
func (r *Registry[T]) ByName(name string) (T, error) {
	r.mu.RLock()
	impl, ok := r.entries[name]
	r.mu.RUnlock()
	if ok {
		return impl, nil
	}

	var zero T
	sep := strings.LastIndex(name, ".")
	if sep < 0 {
		return zero, &Error{Kind: KindNotFound, Base: r.name, Name: name}
	}

	modulePath, memberName := name[:sep], name[sep+1:]
	if r.loader == nil {
		return zero, &Error{
			Kind: KindModuleResolution, Base: r.name, Name: name, Module: modulePath,
			Err: errors.New("no module loader configured"),
		}
	}

	module, err := r.loader.Load(modulePath)
	if err != nil {
		return zero, &Error{Kind: KindModuleResolution, Base: r.name, Name: name, Module: modulePath, Err: err}
	}
	member, ok := module.Member(memberName)
	if !ok {
		return zero, &Error{Kind: KindMemberResolution, Base: r.name, Name: name, Module: modulePath, Member: memberName}
	}
	impl, ok = member.(T)
	if !ok {
		return zero, &Error{
			Kind: KindInvalidImplementation, Base: r.name, Name: name,
			Member: memberName, Candidate: fmt.Sprintf("%T", member),
		}
	}

	r.mu.Lock()
	// A racing registration of the same name wins.
	if existing, ok := r.entries[name]; ok {
		r.mu.Unlock()
		return existing, nil
	}
	r.entries[name] = impl
	r.order = append(r.order, name)
	r.mu.Unlock()

	r.logger.Debug("memoized qualified-path resolution", "name", name, "base", r.name)
	return impl, nil
}

// IsRegistered reports whether name is an exact key in the namespace. It
// never attempts qualified-path resolution.
func (r *Registry[T]) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// SetDefault marks name as the registry's default implementation. The name
// does not need to be registered yet, but enumeration fails until it is.
func (r *Registry[T]) SetDefault(name string) {
	r.mu.Lock()
	r.defaultName = name
	r.mu.Unlock()
}

// Default returns the default implementation name, or the empty string when
// none is set.
func (r *Registry[T]) Default() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defaultName
}

// Names returns all registered names in registration order. When a default
// implementation is set it appears first; if it is set but not registered,
// Names fails with KindMissingDefault rather than silently omitting it.
func (r *Registry[T]) Names() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.defaultName == "" {
		return append([]string(nil), r.order...), nil
	}
	if _, ok := r.entries[r.defaultName]; !ok {
		return nil, &Error{Kind: KindMissingDefault, Base: r.name, Name: r.defaultName}
	}

	names := make([]string, 0, len(r.order))
	names = append(names, r.defaultName)
	for _, name := range r.order {
		if name != r.defaultName {
			names = append(names, name)
		}
	}
	return names, nil
}

// Len returns the number of registered entries.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// All returns a restartable iterator over (name, implementation) pairs in
// registration order. The order is snapshotted each time iteration starts;
// entries registered mid-iteration may or may not be seen.
func (r *Registry[T]) All() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		r.mu.RLock()
		names := append([]string(nil), r.order...)
		r.mu.RUnlock()

		for _, name := range names {
			r.mu.RLock()
			impl, ok := r.entries[name]
			r.mu.RUnlock()
			if !ok {
				continue
			}
			if !yield(name, impl) {
				return
			}
		}
	}
}
