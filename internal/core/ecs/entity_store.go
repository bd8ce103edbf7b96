package ecs

// entityStoreConfig holds the resolved configuration for an EntityStore.
type entityStoreConfig struct {
	handle    *Handle
	capacity  int
	resizable bool
}

// EntityStoreOption configures a new EntityStore.
type EntityStoreOption func(*entityStoreConfig)

// WithEntityHandle selects the codec an EntityStore uses to pack and
// unpack its handles. Defaults to MediumHandle.
func WithEntityHandle(h *Handle) EntityStoreOption {
	return func(c *entityStoreConfig) { c.handle = h }
}

// WithEntityCapacity sets the initial slot capacity. Defaults to 1000.
func WithEntityCapacity(n int) EntityStoreOption {
	return func(c *entityStoreConfig) { c.capacity = n }
}

// WithEntityResizable controls whether the store may grow past its
// initial capacity. Defaults to true.
func WithEntityResizable(resizable bool) EntityStoreOption {
	return func(c *entityStoreConfig) { c.resizable = resizable }
}

// EntityStore is a generational slot allocator. It owns a dense array of
// encoded entity handles indexed by slot, and an intrusive free-slot list
// stored inside the freed slots themselves: a freed cell's decoded index
// points at the next free slot, and its decoded version is the generation
// the next live handle issued at that slot will carry. No auxiliary
// memory is needed to track free slots.
type EntityStore struct {
	handle      *Handle
	entities    []EntityID
	appendIndex uint64
	freeSlot    uint64
	cap         uint64
	resizable   bool
}

// NewEntityStore builds an EntityStore from the given options.
func NewEntityStore(opts ...EntityStoreOption) (*EntityStore, error) {
	cfg := entityStoreConfig{handle: MediumHandle(), capacity: 1000, resizable: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.handle == nil {
		cfg.handle = MediumHandle()
	}
	if cfg.capacity <= 0 {
		cfg.capacity = 1000
	}
	return &EntityStore{
		handle:    cfg.handle,
		entities:  make([]EntityID, cfg.capacity),
		freeSlot:  cfg.handle.InvalidIndex(),
		cap:       uint64(cfg.capacity),
		resizable: cfg.resizable,
	}, nil
}

// Handle returns the codec this store encodes and decodes handles with.
func (s *EntityStore) Handle() *Handle { return s.handle }

// Create allocates a new entity. A freed slot is recycled from the
// intrusive free list when one is available; otherwise the store appends
// a fresh slot, growing its backing array first if needed.
func (s *EntityStore) Create() (EntityID, error) {
	invalid := s.handle.InvalidIndex()

	if s.freeSlot != invalid {
		slot := s.freeSlot
		cell := s.entities[slot]
		next := s.handle.Index(cell)
		version := s.handle.Version(cell)
		e := s.handle.Make(slot, version)
		s.entities[slot] = e
		s.freeSlot = next
		return e, nil
	}

	if s.appendIndex == invalid {
		return 0, ErrOutOfHandles
	}
	if s.appendIndex >= s.cap {
		if !s.resizable {
			return 0, ErrCapacityExceeded
		}
		s.grow()
	}

	e := s.handle.Make(s.appendIndex, 0)
	s.entities[s.appendIndex] = e
	s.appendIndex++
	return e, nil
}

func (s *EntityStore) grow() {
	newCap := s.cap * 2
	if newCap == 0 {
		newCap = 1
	}
	grown := make([]EntityID, newCap)
	copy(grown, s.entities)
	s.entities = grown
	s.cap = newCap
}

// IsAlive reports whether e refers to a currently-live entity: its slot
// must be within the appended range and hold exactly e.
func (s *EntityStore) IsAlive(e EntityID) bool {
	idx := s.handle.Index(e)
	return idx < s.appendIndex && s.entities[idx] == e
}

// Remove retires e. Its slot's generation is bumped by one so every
// previously-held handle to that slot stops validating, and the slot is
// pushed onto the free list for reuse — unless bumping the generation
// would overflow the version field's bit width, in which case the slot is
// retired permanently rather than risk a new handle aliasing an old one.
func (s *EntityStore) Remove(e EntityID) error {
	if !s.IsAlive(e) {
		return ErrInvalidHandleFor(e)
	}
	idx := s.handle.Index(e)
	version := s.handle.Version(e)
	nextVersion := version + 1

	if nextVersion > s.handle.MaxVersion() {
		s.entities[idx] = s.handle.Make(s.handle.InvalidIndex(), version)
		return nil
	}

	s.entities[idx] = s.handle.Make(s.freeSlot, nextVersion)
	s.freeSlot = idx
	return nil
}

// Len reports the number of currently-live entities.
func (s *EntityStore) Len() int {
	n := 0
	it := s.Iterator()
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		n++
	}
	return n
}

// Iterator yields live entities in slot order.
func (s *EntityStore) Iterator() *EntityIterator {
	return &EntityIterator{store: s}
}

// EntityIterator walks an EntityStore's slots in order, skipping freed
// cells. It aliases the store and is invalidated by any mutation made
// during iteration.
type EntityIterator struct {
	store *EntityStore
	pos   uint64
}

// Next returns the next live entity, or ok=false once iteration is done.
func (it *EntityIterator) Next() (EntityID, bool) {
	for it.pos < it.store.appendIndex {
		idx := it.pos
		it.pos++
		e := it.store.entities[idx]
		if it.store.handle.Index(e) == idx {
			return e, true
		}
	}
	return 0, false
}

// Reset rewinds the iterator to the first slot.
func (it *EntityIterator) Reset() { it.pos = 0 }
