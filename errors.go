package registrable

import "fmt"

// Kind distinguishes the failure modes of registration and resolution.
type Kind int

const (
	// KindDuplicate means a name was already registered and no override was
	// requested.
	KindDuplicate Kind = iota + 1
	// KindInvalidImplementation means a candidate does not satisfy the
	// registry's base type.
	KindInvalidImplementation
	// KindNotFound means a lookup name has no entry and no qualified-path
	// fallback applies.
	KindNotFound
	// KindModuleResolution means the qualified-path fallback could not load
	// the derived module path.
	KindModuleResolution
	// KindMemberResolution means the module loaded but the member is absent.
	KindMemberResolution
	// KindMissingDefault means a default implementation is set but not
	// registered at enumeration time.
	KindMissingDefault
)

// String returns the kind's stable tag, used in log output.
func (k Kind) String() string {
	switch k {
	case KindDuplicate:
		return "duplicate_registration"
	case KindInvalidImplementation:
		return "invalid_implementation"
	case KindNotFound:
		return "name_not_found"
	case KindModuleResolution:
		return "module_resolution"
	case KindMemberResolution:
		return "member_resolution"
	case KindMissingDefault:
		return "missing_default"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the failure type for every registry operation. Callers match on
// Kind with errors.As; the remaining fields carry the offending names.
type Error struct {
	Kind Kind

	// Base is the display name of the registry's base type.
	Base string
	// Name is the registration or lookup name as given by the caller.
	Name string
	// Occupant names the implementation already holding Name.
	Occupant string
	// Candidate names the non-conforming implementation.
	Candidate string
	// Module is the module path derived from a qualified lookup name.
	Module string
	// Member is the member name derived from a qualified lookup name.
	Member string

	// Err is the underlying loader error, if any.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindDuplicate:
		return fmt.Sprintf("cannot register %q as %s: name already in use for %s", e.Name, e.Base, e.Occupant)
	case KindInvalidImplementation:
		if e.Member != "" {
			return fmt.Sprintf("tried to interpret %q as a path to an implementation of %s, but %s does not implement it", e.Name, e.Base, e.Candidate)
		}
		return fmt.Sprintf("cannot register %q as %s: %s does not implement it", e.Name, e.Base, e.Candidate)
	case KindNotFound:
		return fmt.Sprintf("%q is not a registered name for %s", e.Name, e.Base)
	case KindModuleResolution:
		return fmt.Sprintf("tried to interpret %q as a path to an implementation of %s, but unable to load module %q: %v", e.Name, e.Base, e.Module, e.Err)
	case KindMemberResolution:
		return fmt.Sprintf("tried to interpret %q as a path to an implementation of %s, but module %q has no member %q", e.Name, e.Base, e.Module, e.Member)
	case KindMissingDefault:
		return fmt.Sprintf("default implementation %q is not registered for %s", e.Name, e.Base)
	}
	return fmt.Sprintf("registry error (%s) for %s", e.Kind, e.Base)
}

func (e *Error) Unwrap() error { return e.Err }
