package registrable

// Module is a loaded unit of code whose exported members can be read by name.
type Module interface {
	// Member returns the named member of the module, reporting whether it
	// exists.
	Member(name string) (any, bool)
}

// Loader resolves a dotted module path to a loaded Module. It backs the
// qualified-path fallback of Registry.ByName; loading is synchronous and has
// no cancellation concept.
//
// Production code wires the HCL catalog loader from the catalog package;
// tests use an in-memory fake.
type Loader interface {
	Load(path string) (Module, error)
}
