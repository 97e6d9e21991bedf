package registrable_test

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/registrable"
	"github.com/vk/registrable/internal/testutil"
)

// greeter is the base type used throughout the registry tests.
type greeter interface {
	Greet() string
}

type staticGreeter struct {
	msg string
}

func (g *staticGreeter) Greet() string { return g.msg }

func TestNames_EmptyRegistry(t *testing.T) {
	t.Parallel()

	reg := registrable.New[greeter](registrable.WithName("greeter"))

	names, err := reg.Names()
	require.NoError(t, err)
	require.Empty(t, names)
	require.Equal(t, 0, reg.Len())
}

func TestRegister_ThenResolve(t *testing.T) {
	t.Parallel()

	reg := registrable.New[greeter](registrable.WithName("greeter"))
	impl := &staticGreeter{msg: "hello"}

	require.NoError(t, reg.Register("static", impl))
	require.True(t, reg.IsRegistered("static"))

	got, err := reg.ByName("static")
	require.NoError(t, err)
	require.Same(t, impl, got)
}

func TestRegister_EmptyNameFails(t *testing.T) {
	t.Parallel()

	reg := registrable.New[greeter]()
	err := reg.Register("", &staticGreeter{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be empty")
}

func TestRegister_DuplicateFails(t *testing.T) {
	t.Parallel()

	reg := registrable.New[greeter](registrable.WithName("greeter"))
	require.NoError(t, reg.Register("static", &staticGreeter{msg: "first"}))

	err := reg.Register("static", &staticGreeter{msg: "second"})
	require.Error(t, err)

	var regErr *registrable.Error
	require.ErrorAs(t, err, &regErr)
	require.Equal(t, registrable.KindDuplicate, regErr.Kind)
	require.Equal(t, "static", regErr.Name)
	require.Equal(t, "greeter", regErr.Base)
	require.Contains(t, err.Error(), "staticGreeter")

	// The original entry is untouched.
	got, err := reg.ByName("static")
	require.NoError(t, err)
	require.Equal(t, "first", got.Greet())
}

func TestRegister_OverrideReplacesAndWarnsOnce(t *testing.T) {
	t.Parallel()

	logger, logs := testutil.CaptureLogger()
	reg := registrable.New[greeter](registrable.WithName("greeter"), registrable.WithLogger(logger))

	require.NoError(t, reg.Register("static", &staticGreeter{msg: "first"}))
	require.NoError(t, reg.Register("static", &staticGreeter{msg: "second"}, registrable.Override[greeter]()))

	require.Equal(t, 1, logs.CountLines("overriding registration"))

	got, err := reg.ByName("static")
	require.NoError(t, err)
	require.Equal(t, "second", got.Greet())

	// Overriding does not duplicate the name in enumeration.
	names, err := reg.Names()
	require.NoError(t, err)
	require.Equal(t, []string{"static"}, names)
}

func TestMustRegister_ReturnsImplUnchanged(t *testing.T) {
	t.Parallel()

	reg := registrable.New[greeter]()
	impl := &staticGreeter{msg: "hi"}

	returned := reg.MustRegister("static", impl)
	require.Same(t, impl, returned)

	require.Panics(t, func() {
		reg.MustRegister("static", &staticGreeter{})
	})
}

func TestRegisterValue(t *testing.T) {
	t.Parallel()

	t.Run("conforming candidate registers", func(t *testing.T) {
		t.Parallel()

		reg := registrable.New[greeter]()
		var candidate any = &staticGreeter{msg: "ok"}

		require.NoError(t, reg.RegisterValue("static", candidate))
		require.True(t, reg.IsRegistered("static"))
	})

	t.Run("non-conforming candidate fails before hooks", func(t *testing.T) {
		t.Parallel()

		reg := registrable.New[greeter](registrable.WithName("greeter"))
		hookRan := false
		reg.AddDefaultHook(func(impl greeter, name string) error {
			hookRan = true
			return nil
		})

		err := reg.RegisterValue("bogus", 42)
		var regErr *registrable.Error
		require.ErrorAs(t, err, &regErr)
		require.Equal(t, registrable.KindInvalidImplementation, regErr.Kind)
		require.Equal(t, "int", regErr.Candidate)
		require.False(t, hookRan, "hooks must not run for a rejected candidate")
		require.False(t, reg.IsRegistered("bogus"))
	})
}

func TestHooks_DefaultBeforePerCallInOrder(t *testing.T) {
	t.Parallel()

	reg := registrable.New[greeter]()
	var order []string

	record := func(tag string) registrable.Hook[greeter] {
		return func(impl greeter, name string) error {
			order = append(order, tag+":"+name)
			return nil
		}
	}

	reg.AddDefaultHook(record("default-1"))
	reg.AddDefaultHook(record("default-2"))

	require.NoError(t, reg.Register("static", &staticGreeter{},
		registrable.WithHooks(record("call-1"), record("call-2"))))

	require.Equal(t, []string{
		"default-1:static",
		"default-2:static",
		"call-1:static",
		"call-2:static",
	}, order)

	// Per-call hooks do not stick: a second registration runs defaults only.
	order = nil
	require.NoError(t, reg.Register("other", &staticGreeter{}))
	require.Equal(t, []string{"default-1:other", "default-2:other"}, order)
}

func TestHooks_SameHookTwiceRunsTwice(t *testing.T) {
	t.Parallel()

	reg := registrable.New[greeter]()
	count := 0
	hook := func(impl greeter, name string) error {
		count++
		return nil
	}

	reg.AddDefaultHook(hook)
	reg.AddDefaultHook(hook)

	require.NoError(t, reg.Register("static", &staticGreeter{}))
	require.Equal(t, 2, count)
}

func TestAddDefaultHook_ReturnsHookUnchanged(t *testing.T) {
	t.Parallel()

	reg := registrable.New[greeter]()
	hook := registrable.Hook[greeter](func(impl greeter, name string) error { return nil })

	returned := reg.AddDefaultHook(hook)
	require.Equal(t, reflect.ValueOf(hook).Pointer(), reflect.ValueOf(returned).Pointer())
}

func TestHooks_FailureLeavesEntryRegistered(t *testing.T) {
	t.Parallel()

	reg := registrable.New[greeter]()
	boom := errors.New("boom")
	reg.AddDefaultHook(func(impl greeter, name string) error { return boom })

	err := reg.Register("static", &staticGreeter{})
	require.ErrorIs(t, err, boom)
	require.True(t, reg.IsRegistered("static"), "a failing hook must not roll the entry back")
}

func TestHooks_ReentrantRegistration(t *testing.T) {
	t.Parallel()

	reg := registrable.New[greeter]()
	reg.AddDefaultHook(func(impl greeter, name string) error {
		// Register an alias for every entry; guard against recursing on
		// the aliases themselves.
		if len(name) < 6 || name[len(name)-6:] != "-alias" {
			return reg.Register(name+"-alias", impl)
		}
		return nil
	})

	require.NoError(t, reg.Register("static", &staticGreeter{}))
	require.True(t, reg.IsRegistered("static"))
	require.True(t, reg.IsRegistered("static-alias"))
}

func TestDefaultImplementationOrdering(t *testing.T) {
	t.Parallel()

	reg := registrable.New[greeter](registrable.WithName("greeter"))
	require.NoError(t, reg.Register("alpha", &staticGreeter{}))
	require.NoError(t, reg.Register("beta", &staticGreeter{}))

	// A default that is not registered is an error, not a silent omission.
	reg.SetDefault("gamma")
	require.Equal(t, "gamma", reg.Default())

	_, err := reg.Names()
	var regErr *registrable.Error
	require.ErrorAs(t, err, &regErr)
	require.Equal(t, registrable.KindMissingDefault, regErr.Kind)
	require.Equal(t, "gamma", regErr.Name)

	// Once registered, the default leads and the rest keep registration order.
	require.NoError(t, reg.Register("gamma", &staticGreeter{}))
	names, err := reg.Names()
	require.NoError(t, err)
	require.Equal(t, []string{"gamma", "alpha", "beta"}, names)
}

func TestNames_NoDefaultKeepsRegistrationOrder(t *testing.T) {
	t.Parallel()

	reg := registrable.New[greeter]()
	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, reg.Register(name, &staticGreeter{}))
	}

	names, err := reg.Names()
	require.NoError(t, err)
	require.Equal(t, []string{"c", "a", "b"}, names)
}

func TestAll_YieldsPairsInRegistrationOrder(t *testing.T) {
	t.Parallel()

	reg := registrable.New[greeter]()
	impls := map[string]*staticGreeter{}
	for _, name := range []string{"c", "a", "b"} {
		impl := &staticGreeter{msg: name}
		impls[name] = impl
		require.NoError(t, reg.Register(name, impl))
	}

	var names []string
	for name, impl := range reg.All() {
		names = append(names, name)
		require.Same(t, impls[name], impl)
	}
	require.Equal(t, []string{"c", "a", "b"}, names)
	require.Len(t, names, reg.Len())

	// The sequence is restartable.
	count := 0
	for range reg.All() {
		count++
	}
	require.Equal(t, 3, count)

	// Early break is supported.
	for range reg.All() {
		break
	}
}

func TestRegister_ConcurrentDistinctNames(t *testing.T) {
	t.Parallel()

	reg := registrable.New[greeter]()
	errs := make(chan error, 32)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("impl-%d", i)
			errs <- reg.Register(name, &staticGreeter{msg: name})
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, 32, reg.Len())
}
