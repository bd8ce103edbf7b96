// Package registry composes an EntityStore with one ComponentStore per
// component type, routing add/remove/get calls to the right store and
// destroying entities by purging every store before freeing the slot.
//
// This lives in its own package, separate from ecs and storage, because
// a type-erased registry needs to hold storage.ComponentStore[T] values
// behind a common interface while storage itself imports ecs — putting
// the registry inside either package would close an import cycle.
package registry

import (
	"reflect"

	"entitygrid/internal/core/ecs"
	"entitygrid/internal/core/ecs/storage"
)

// erasedStore is the type-erased surface of storage.ComponentStore[T]
// that the registry needs to route destroy/removeAll calls without
// knowing T. storage.ComponentStore[T] satisfies this implicitly.
type erasedStore interface {
	Contains(e ecs.EntityID) bool
	Remove(e ecs.EntityID) int
	Kind() ecs.ComponentKind
}

// Registry owns one EntityStore and a mapping from component-type
// identity to the ComponentStore created for that type.
type Registry struct {
	entities   *ecs.EntityStore
	stores     map[reflect.Type]erasedStore
	sparseOpts []storage.SparseSetOption
	autoResize bool
}

// Option configures a new Registry.
type Option func(*config)

type config struct {
	entityOpts []ecs.EntityStoreOption
	sparseOpts []storage.SparseSetOption
	autoResize bool
}

// WithEntityOptions forwards configuration to the underlying EntityStore.
func WithEntityOptions(opts ...ecs.EntityStoreOption) Option {
	return func(c *config) { c.entityOpts = append(c.entityOpts, opts...) }
}

// WithSparseOptions sets the default SparseSet configuration every newly
// prepared ComponentStore is built with.
func WithSparseOptions(opts ...storage.SparseSetOption) Option {
	return func(c *config) { c.sparseOpts = append(c.sparseOpts, opts...) }
}

// WithAutoResize sets the autoResize flag passed to every newly prepared
// ComponentStore. Add and AddComps do not read it; each call uses its own
// autoResize argument.
func WithAutoResize(autoResize bool) Option {
	return func(c *config) { c.autoResize = autoResize }
}

// New builds an empty Registry.
func New(opts ...Option) (*Registry, error) {
	cfg := config{autoResize: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	entities, err := ecs.NewEntityStore(cfg.entityOpts...)
	if err != nil {
		return nil, err
	}
	return &Registry{
		entities:   entities,
		stores:     make(map[reflect.Type]erasedStore),
		sparseOpts: cfg.sparseOpts,
		autoResize: cfg.autoResize,
	}, nil
}

func componentType[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Prepare is idempotent: it returns the ComponentStore already
// registered for T, or creates one under the given kind. The kind is
// fixed at first registration; later Prepare calls for the same type
// ignore the kind argument.
func Prepare[T any](r *Registry, kind ecs.ComponentKind) (*storage.ComponentStore[T], error) {
	t := componentType[T]()
	if existing, ok := r.stores[t]; ok {
		typed, ok := existing.(*storage.ComponentStore[T])
		if !ok {
			return nil, &ecs.OpError{Code: ecs.CodeTypeMismatch, Message: "component store registered under a different type"}
		}
		return typed, nil
	}
	store, err := storage.NewComponentStore[T](kind,
		storage.WithComponentSparseOptions(r.sparseOpts...),
		storage.WithComponentAutoResize(r.autoResize),
	)
	if err != nil {
		return nil, err
	}
	r.stores[t] = store
	return store, nil
}

// Create allocates a new entity.
func (r *Registry) Create() (ecs.EntityID, error) { return r.entities.Create() }

// Valid reports whether e is a currently-live entity.
func (r *Registry) Valid(e ecs.EntityID) bool { return r.entities.IsAlive(e) }

// Destroy purges e from every component store, in unspecified order,
// then frees its entity slot. Destroying an already-dead or
// never-issued entity is a silent no-op, the one deliberately silent
// failure mode in the registry's API.
func (r *Registry) Destroy(e ecs.EntityID) {
	if !r.entities.IsAlive(e) {
		return
	}
	_ = r.RemoveAll(e)
	_ = r.entities.Remove(e)
}

// RemoveAll purges e from every component store, in unspecified order,
// without freeing its entity slot. Requires e to be live.
func (r *Registry) RemoveAll(e ecs.EntityID) error {
	if !r.Valid(e) {
		return ecs.ErrInvalidHandleFor(e)
	}
	for _, store := range r.stores {
		if store.Contains(e) {
			store.Remove(e)
		}
	}
	return nil
}

// Add requires e to be a live entity and routes to Prepare(...).Add(...).
// The returned status code mirrors storage.ComponentStore.Add's status
// channel; err carries only the invalid-handle/type-mismatch precondition
// failures or an error from building a new store in Prepare, never a
// capacity-exceeded status.
func Add[T any](r *Registry, e ecs.EntityID, kind ecs.ComponentKind, payload T, replace bool, autoResize bool) (int, error) {
	if !r.Valid(e) {
		return ecs.StatusFailure, ecs.ErrInvalidHandleFor(e)
	}
	store, err := Prepare[T](r, kind)
	if err != nil {
		return ecs.StatusFailure, err
	}
	return store.Add(e, payload, replace, autoResize), nil
}

// Has reports whether e has a component of type T. It returns false when
// no store has been prepared for T.
func Has[T any](r *Registry, e ecs.EntityID) bool {
	store, ok := r.stores[componentType[T]()]
	if !ok {
		return false
	}
	return store.Contains(e)
}

// Get returns a live reference to e's payload of type T.
func Get[T any](r *Registry, e ecs.EntityID) (*T, error) {
	if !r.Valid(e) {
		return nil, ecs.ErrInvalidHandleFor(e)
	}
	store, ok := r.stores[componentType[T]()].(*storage.ComponentStore[T])
	if !ok {
		return nil, ecs.ErrStoreNotRegistered
	}
	return store.Get(e)
}

// TryGet is Get without an error for plain absence.
func TryGet[T any](r *Registry, e ecs.EntityID) (*T, error) {
	if !r.Valid(e) {
		return nil, ecs.ErrInvalidHandleFor(e)
	}
	store, ok := r.stores[componentType[T]()].(*storage.ComponentStore[T])
	if !ok {
		return nil, nil
	}
	return store.TryGet(e)
}

// GetConst returns an independent, deep copy of e's payload of type T.
func GetConst[T any](r *Registry, e ecs.EntityID) (T, error) {
	var zero T
	if !r.Valid(e) {
		return zero, ecs.ErrInvalidHandleFor(e)
	}
	store, ok := r.stores[componentType[T]()].(*storage.ComponentStore[T])
	if !ok {
		return zero, ecs.ErrStoreNotRegistered
	}
	return store.GetConst(e)
}

// TryGetConst is GetConst without an error for plain absence.
func TryGetConst[T any](r *Registry, e ecs.EntityID) (T, bool, error) {
	var zero T
	if !r.Valid(e) {
		return zero, false, ecs.ErrInvalidHandleFor(e)
	}
	store, ok := r.stores[componentType[T]()].(*storage.ComponentStore[T])
	if !ok {
		return zero, false, nil
	}
	return store.TryGetConst(e)
}

// Remove evicts e's component of type T. Fails if T was never prepared
// or e has no such component.
func Remove[T any](r *Registry, e ecs.EntityID) int {
	store, ok := r.stores[componentType[T]()].(*storage.ComponentStore[T])
	if !ok {
		return ecs.StatusFailure
	}
	return store.Remove(e)
}

// RemoveIfExist is Remove without treating absence as a failure.
func RemoveIfExist[T any](r *Registry, e ecs.EntityID) int {
	store, ok := r.stores[componentType[T]()].(*storage.ComponentStore[T])
	if !ok || !store.Contains(e) {
		return ecs.StatusSuccess
	}
	return store.Remove(e)
}

// Replace overwrites e's payload of type T. Requires e to be live, T to
// be registered, and e to already carry that component.
func Replace[T any](r *Registry, e ecs.EntityID, payload T) error {
	if !r.Valid(e) {
		return ecs.ErrInvalidHandleFor(e)
	}
	store, ok := r.stores[componentType[T]()].(*storage.ComponentStore[T])
	if !ok {
		return ecs.ErrStoreNotRegistered
	}
	if !store.Contains(e) {
		return ecs.ErrComponentNotFoundFor(e)
	}
	if status := store.Add(e, payload, true, true); status != ecs.StatusSuccess {
		return ecs.ErrCapacityExceeded
	}
	return nil
}

// FetchReplace overwrites e's payload of type T and returns the payload
// that was live immediately before the overwrite.
func FetchReplace[T any](r *Registry, e ecs.EntityID, payload T) (T, error) {
	var zero T
	if !r.Valid(e) {
		return zero, ecs.ErrInvalidHandleFor(e)
	}
	store, ok := r.stores[componentType[T]()].(*storage.ComponentStore[T])
	if !ok {
		return zero, ecs.ErrStoreNotRegistered
	}
	previous, err := store.GetConst(e)
	if err != nil {
		return zero, err
	}
	if status := store.Add(e, payload, true, true); status != ecs.StatusSuccess {
		return zero, ecs.ErrCapacityExceeded
	}
	return previous, nil
}

// SortByComponent delegates to the standard-kind store registered for T.
func SortByComponent[T any](r *Registry, less func(a, b T) bool) int {
	store, ok := r.stores[componentType[T]()].(*storage.ComponentStore[T])
	if !ok {
		return ecs.StatusFailure
	}
	return store.SortByComponent(less)
}

// SortEmpty delegates to the empty-kind store registered for T.
func SortEmpty[T any](r *Registry, cmp func(a, b ecs.EntityID) bool) int {
	store, ok := r.stores[componentType[T]()].(*storage.ComponentStore[T])
	if !ok {
		return ecs.StatusFailure
	}
	return store.SortEmpty(cmp)
}
