package storage

import "entitygrid/internal/core/ecs"

// cloner lets a payload type opt into deep copies for getConst/tryGetConst
// by implementing Clone() T. Types that don't implement it fall back to a
// plain value copy, which is correct for payloads without pointer, slice,
// or map fields.
type cloner[T any] interface {
	Clone() T
}

func cloneValue[T any](v T) T {
	if c, ok := any(v).(cloner[T]); ok {
		return c.Clone()
	}
	return v
}

// ComponentStore pairs a SparseSet with, for standard (payload-bearing)
// components, a parallel packed array holding one payload per dense
// position. Tag (empty) component stores carry no payload array at all;
// their payload-facing operations fail with ErrEmptyComponentPayload.
type ComponentStore[T any] struct {
	kind       ecs.ComponentKind
	sparse     *SparseSet
	components []T
	autoResize bool
}

// ComponentStoreOption configures a new ComponentStore.
type ComponentStoreOption func(*componentStoreConfig)

type componentStoreConfig struct {
	sparseOpts []SparseSetOption
	autoResize bool
}

// WithComponentSparseOptions forwards SparseSet configuration.
func WithComponentSparseOptions(opts ...SparseSetOption) ComponentStoreOption {
	return func(c *componentStoreConfig) { c.sparseOpts = append(c.sparseOpts, opts...) }
}

// WithComponentAutoResize sets the autoResize flag recorded on the store.
// Add does not read this flag; it always uses its own autoResize argument.
func WithComponentAutoResize(autoResize bool) ComponentStoreOption {
	return func(c *componentStoreConfig) { c.autoResize = autoResize }
}

// NewComponentStore builds a ComponentStore of the given kind.
func NewComponentStore[T any](kind ecs.ComponentKind, opts ...ComponentStoreOption) (*ComponentStore[T], error) {
	cfg := componentStoreConfig{autoResize: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	sparse, err := NewSparseSet(cfg.sparseOpts...)
	if err != nil {
		return nil, err
	}
	store := &ComponentStore[T]{kind: kind, sparse: sparse, autoResize: cfg.autoResize}
	if kind == ecs.KindStandard {
		store.components = make([]T, 0, sparse.Cap())
	}
	return store, nil
}

// Kind reports whether this store holds standard or empty components.
func (s *ComponentStore[T]) Kind() ecs.ComponentKind { return s.kind }

// Reserve grows both the sparse set's dense capacity and the payload
// capacity in lockstep. Fails if newCap is not greater than the current
// capacity.
func (s *ComponentStore[T]) Reserve(newCap int) int {
	if newCap <= s.sparse.Cap() {
		return ecs.StatusFailure
	}
	status := s.sparse.Resize(newCap)
	if status != ecs.StatusSuccess {
		return status
	}
	if s.kind == ecs.KindStandard {
		s.growComponents(newCap)
	}
	return ecs.StatusSuccess
}

func (s *ComponentStore[T]) growComponents(newCap int) {
	grown := make([]T, len(s.components), newCap)
	copy(grown, s.components)
	s.components = grown
}

// Add inserts or, if replace is true and the entity is already present,
// replaces the payload for e. For empty-kind stores payload is ignored.
// Already-at-capacity with autoResize false is the benign, expected
// failure mode here and is reported on the status-code channel, not the
// error channel: this mirrors SparseSet.Add, which Add delegates to.
func (s *ComponentStore[T]) Add(e ecs.EntityID, payload T, replace bool, autoResize bool) int {
	existed := s.sparse.Contains(e)
	pos, status := s.sparse.Add(e, autoResize)
	if status != ecs.StatusSuccess {
		return ecs.StatusFailure
	}
	if s.kind == ecs.KindEmpty {
		return ecs.StatusSuccess
	}
	if pos >= cap(s.components) {
		if !autoResize {
			s.sparse.Remove(e)
			return ecs.StatusFailure
		}
		newCap := len(s.components) * 2
		if newCap <= pos {
			newCap = pos + 1
		}
		s.growComponents(newCap)
	}
	if pos >= len(s.components) {
		s.components = s.components[:pos+1]
	}
	if !existed || replace {
		s.components[pos] = payload
	}
	return ecs.StatusSuccess
}

// Remove evicts e, mirroring the sparse set's swap-with-last in the
// payload array before delegating to it.
func (s *ComponentStore[T]) Remove(e ecs.EntityID) int {
	if !s.sparse.Contains(e) {
		return ecs.StatusFailure
	}
	if s.kind == ecs.KindStandard {
		i := s.sparse.Index(e)
		j := s.sparse.Len() - 1
		if i != j {
			s.components[i] = s.components[j]
		}
		var zero T
		s.components[j] = zero
		s.components = s.components[:j]
	}
	return s.sparse.Remove(e)
}

// Contains reports whether e has a component in this store.
func (s *ComponentStore[T]) Contains(e ecs.EntityID) bool { return s.sparse.Contains(e) }

// Len reports the number of entities carrying this component.
func (s *ComponentStore[T]) Len() int { return s.sparse.Len() }

// Data returns the live entity list, in the same order as Raw's payloads.
func (s *ComponentStore[T]) Data() []ecs.EntityID { return s.sparse.Dense() }

// Raw returns the live payload slice. Fails for empty-kind stores.
func (s *ComponentStore[T]) Raw() ([]T, error) {
	if s.kind == ecs.KindEmpty {
		return nil, ecs.ErrEmptyComponentPayload
	}
	return s.components, nil
}

// Get returns a live reference to e's payload. The returned pointer
// aliases the store and is invalidated by the next mutation. Fails for
// empty-kind stores or if e has no component here.
func (s *ComponentStore[T]) Get(e ecs.EntityID) (*T, error) {
	if s.kind == ecs.KindEmpty {
		return nil, ecs.ErrEmptyComponentPayload
	}
	i := s.sparse.Index(e)
	if i == ecs.Sentinel {
		return nil, ecs.ErrComponentNotFoundFor(e)
	}
	return &s.components[i], nil
}

// TryGet is Get without an error for the common absence case: it
// returns nil when e has no component here, and still errors on
// empty-kind misuse.
func (s *ComponentStore[T]) TryGet(e ecs.EntityID) (*T, error) {
	if s.kind == ecs.KindEmpty {
		return nil, ecs.ErrEmptyComponentPayload
	}
	i := s.sparse.Index(e)
	if i == ecs.Sentinel {
		return nil, nil
	}
	return &s.components[i], nil
}

// GetConst returns an independent, deep copy of e's payload.
func (s *ComponentStore[T]) GetConst(e ecs.EntityID) (T, error) {
	var zero T
	if s.kind == ecs.KindEmpty {
		return zero, ecs.ErrEmptyComponentPayload
	}
	i := s.sparse.Index(e)
	if i == ecs.Sentinel {
		return zero, ecs.ErrComponentNotFoundFor(e)
	}
	return cloneValue(s.components[i]), nil
}

// TryGetConst is GetConst without an error for plain absence.
func (s *ComponentStore[T]) TryGetConst(e ecs.EntityID) (T, bool, error) {
	var zero T
	if s.kind == ecs.KindEmpty {
		return zero, false, ecs.ErrEmptyComponentPayload
	}
	i := s.sparse.Index(e)
	if i == ecs.Sentinel {
		return zero, false, nil
	}
	return cloneValue(s.components[i]), true, nil
}

// Swap exchanges the payloads held for a and b. If instancesOnly is
// false, the entities' sparse-set positions are also exchanged so the
// (entity, payload) pairing is preserved; if true, only the payload
// positions move, so the pairing intentionally changes. Fails if either
// entity is absent or a == b.
func (s *ComponentStore[T]) Swap(a, b ecs.EntityID, instancesOnly bool) int {
	if a == b || !s.sparse.Contains(a) || !s.sparse.Contains(b) {
		return ecs.StatusFailure
	}
	i := s.sparse.Index(a)
	j := s.sparse.Index(b)
	if s.kind == ecs.KindStandard {
		s.components[i], s.components[j] = s.components[j], s.components[i]
	}
	if !instancesOnly {
		return s.sparse.swapPositions(i, j)
	}
	return ecs.StatusSuccess
}

// SortEmpty sorts an empty-kind store's entities by cmp, delegating
// directly to the sparse set.
func (s *ComponentStore[T]) SortEmpty(cmp func(a, b ecs.EntityID) bool) int {
	if s.kind != ecs.KindEmpty {
		return ecs.StatusFailure
	}
	return s.sparse.Sort(cmp)
}

// SortByComponent sorts a standard-kind store by payload, using a
// stable insertion sort that swaps the payload array while swapping the
// corresponding entity positions in the sparse set, so the
// (entity, payload) pairing stays intact throughout.
func (s *ComponentStore[T]) SortByComponent(less func(a, b T) bool) int {
	if s.kind != ecs.KindStandard {
		return ecs.StatusFailure
	}
	n := s.sparse.Len()
	if n <= 1 {
		return ecs.StatusFailure
	}
	for i := 1; i < n; i++ {
		for j := i; j > 0 && less(s.components[j], s.components[j-1]); j-- {
			s.components[j], s.components[j-1] = s.components[j-1], s.components[j]
			s.sparse.swapPositions(j, j-1)
		}
	}
	return ecs.StatusSuccess
}
