// Package registrable provides named, per-base-type registries for concrete
// implementations of an abstract role: a lightweight plugin/factory mechanism
// for "pick an implementation by configuration string" without an if/else
// ladder.
//
// Each base type owns one Registry value; the registry stores implementations
// (or their constructors) under string names, never instances it manages
// itself. Implementations typically self-register at package init time:
//
//	var Sinks = registrable.New[sink.Factory](registrable.WithName("sink"))
//
//	func init() {
//		Sinks.MustRegister("print", print.New)
//	}
//
// Consumers resolve a name back to the stored implementation with ByName.
// A name that is not registered but contains a dot is treated as a fully
// qualified path: the portion before the last dot is resolved through the
// registry's Loader and the trailing portion is read as a member of the
// loaded module. Successful path lookups are memoized into the registry
// under the exact lookup string, so IsRegistered reports true for them
// afterwards.
//
// Registries are safe for concurrent use. Registration hooks run outside the
// registry's internal lock, so a hook may register further entries without
// deadlocking.
package registrable
