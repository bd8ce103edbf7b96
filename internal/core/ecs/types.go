// Package ecs provides the core Entity Component System storage engine:
// a generational entity allocator, a paged sparse-set index, and the
// per-component and registry layers built on top of them.
package ecs

// EntityID is an opaque, encoded entity handle. Its bit layout is owned by
// a Handle: the high bits carry a slot index, the low bits carry a
// generation counter that invalidates stale references after slot reuse.
type EntityID uint64

// ComponentKind distinguishes payload-bearing components from tag
// (identity-only) components. Values are bit flags so callers can test
// membership the way the source system does, even though only one kind
// is ever set on a given store.
type ComponentKind int

const (
	// KindStandard components carry a payload alongside the entity.
	KindStandard ComponentKind = 0b01
	// KindEmpty components carry no payload; presence alone is the data.
	KindEmpty ComponentKind = 0b10
)

func (k ComponentKind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Status codes returned by mutation operations for which failure is a
// benign, expected outcome (already-absent entity, store at capacity with
// growth disabled, degenerate sort/swap arguments). See errors.go for the
// separate error channel used for precondition violations and type misuse.
const (
	StatusSuccess = 0
	StatusFailure = -1
)

// Sentinel is returned by registry lookups when no store is registered
// for the requested component type.
const Sentinel = -1
