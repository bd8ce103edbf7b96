// Package storage holds the paged sparse-set index and the generic
// per-component store built on top of it.
package storage

import "entitygrid/internal/core/ecs"

const (
	// DefaultPageSize is the page width used when no page size is
	// configured. It must be a power of two no smaller than 128.
	DefaultPageSize = 256
	// DefaultPoolSize is the dense array's minimum capacity on its
	// first grow-from-zero.
	DefaultPoolSize = 128
)

// SparseSetOption configures a new SparseSet.
type SparseSetOption func(*sparseSetConfig)

type sparseSetConfig struct {
	pageSize int
	poolSize int
	handle   *ecs.Handle
}

// WithPageSize overrides the page width. Must be a power of two ≥ 128.
func WithPageSize(size int) SparseSetOption {
	return func(c *sparseSetConfig) { c.pageSize = size }
}

// WithPoolSize overrides the dense array's minimum first-grow capacity.
func WithPoolSize(size int) SparseSetOption {
	return func(c *sparseSetConfig) { c.poolSize = size }
}

// WithSparseHandle selects the codec used to decode an entity's slot
// index for sparse-cell addressing. Defaults to ecs.MediumHandle.
func WithSparseHandle(h *ecs.Handle) SparseSetOption {
	return func(c *sparseSetConfig) { c.handle = h }
}

// SparseSet is a two-level paged sparse-set index. It maps an entity's
// decoded slot index to a position in a packed dense array of entity
// IDs. Pages of the outer sparse table are allocated lazily, the first
// time an entity whose index falls inside them is inserted, so memory
// use tracks the number of distinct pages touched rather than the
// largest index ever seen.
type SparseSet struct {
	pageSize int
	poolSize int
	handle   *ecs.Handle
	sparse   [][]int
	dense    []ecs.EntityID
	length   int
}

// NewSparseSet builds an empty SparseSet.
func NewSparseSet(opts ...SparseSetOption) (*SparseSet, error) {
	cfg := sparseSetConfig{pageSize: DefaultPageSize, poolSize: DefaultPoolSize, handle: ecs.MediumHandle()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.pageSize < 128 || cfg.pageSize&(cfg.pageSize-1) != 0 {
		return nil, ecs.ErrInvalidPageSize
	}
	if cfg.poolSize <= 0 {
		cfg.poolSize = DefaultPoolSize
	}
	if cfg.handle == nil {
		cfg.handle = ecs.MediumHandle()
	}
	return &SparseSet{pageSize: cfg.pageSize, poolSize: cfg.poolSize, handle: cfg.handle}, nil
}

func (s *SparseSet) pageIndex(index uint64) int  { return int(index) / s.pageSize }
func (s *SparseSet) pageOffset(index uint64) int { return int(index) & (s.pageSize - 1) }

func (s *SparseSet) pageAt(pageIdx int) []int {
	if pageIdx < 0 || pageIdx >= len(s.sparse) {
		return nil
	}
	return s.sparse[pageIdx]
}

func (s *SparseSet) ensurePage(pageIdx int) []int {
	for len(s.sparse) <= pageIdx {
		s.sparse = append(s.sparse, nil)
	}
	if s.sparse[pageIdx] == nil {
		page := make([]int, s.pageSize)
		for i := range page {
			page[i] = ecs.Sentinel
		}
		s.sparse[pageIdx] = page
	}
	return s.sparse[pageIdx]
}

func (s *SparseSet) cellOf(index uint64) (page []int, offset int) {
	return s.pageAt(s.pageIndex(index)), s.pageOffset(index)
}

// Contains reports whether e has a live entry in this set.
func (s *SparseSet) Contains(e ecs.EntityID) bool {
	page, offset := s.cellOf(s.handle.Index(e))
	if page == nil {
		return false
	}
	cell := page[offset]
	return cell != ecs.Sentinel && cell < s.length
}

// Index returns the dense-array position of e, or -1 if absent.
func (s *SparseSet) Index(e ecs.EntityID) int {
	page, offset := s.cellOf(s.handle.Index(e))
	if page == nil {
		return ecs.Sentinel
	}
	cell := page[offset]
	if cell == ecs.Sentinel || cell >= s.length {
		return ecs.Sentinel
	}
	return cell
}

// Add inserts e, returning its dense position and a status code. Adding
// an already-present entity is idempotent and returns its existing
// position with StatusSuccess. Growth past the current dense capacity
// only happens when autoResize is true; otherwise the call fails with
// StatusFailure when the set is full.
func (s *SparseSet) Add(e ecs.EntityID, autoResize bool) (pos int, status int) {
	if s.Contains(e) {
		return s.Index(e), ecs.StatusSuccess
	}
	if s.length == cap(s.dense) {
		if !autoResize {
			return ecs.Sentinel, ecs.StatusFailure
		}
		s.growDense()
	}
	idx := s.handle.Index(e)
	page := s.ensurePage(s.pageIndex(idx))
	page[s.pageOffset(idx)] = s.length
	if s.length < len(s.dense) {
		s.dense[s.length] = e
	} else {
		s.dense = append(s.dense, e)
	}
	s.length++
	return s.length - 1, ecs.StatusSuccess
}

func (s *SparseSet) growDense() {
	newCap := cap(s.dense) * 2
	if newCap == 0 {
		newCap = s.poolSize
	}
	grown := make([]ecs.EntityID, len(s.dense), newCap)
	copy(grown, s.dense)
	s.dense = grown
}

// Remove evicts e via swap-with-last: the last dense entry takes its
// position, and the vacated sparse cell is set to the tombstone
// sentinel. Fails if e is not present.
func (s *SparseSet) Remove(e ecs.EntityID) int {
	if !s.Contains(e) {
		return ecs.StatusFailure
	}
	i := s.Index(e)
	j := s.length - 1
	if i != j {
		last := s.dense[j]
		s.dense[i] = last
		lastIdx := s.handle.Index(last)
		page := s.ensurePage(s.pageIndex(lastIdx))
		page[s.pageOffset(lastIdx)] = i
	}
	idx := s.handle.Index(e)
	page := s.ensurePage(s.pageIndex(idx))
	page[s.pageOffset(idx)] = ecs.Sentinel
	s.length--
	return ecs.StatusSuccess
}

// Swap exchanges the dense positions of a and b. Both must be present
// and distinct.
func (s *SparseSet) Swap(a, b ecs.EntityID) int {
	if a == b || !s.Contains(a) || !s.Contains(b) {
		return ecs.StatusFailure
	}
	i := s.Index(a)
	j := s.Index(b)
	return s.swapPositions(i, j)
}

func (s *SparseSet) swapPositions(i, j int) int {
	if i == j {
		return ecs.StatusFailure
	}
	ei := s.dense[i]
	ej := s.dense[j]
	s.dense[i], s.dense[j] = ej, ei
	idxI := s.handle.Index(ei)
	idxJ := s.handle.Index(ej)
	pageI := s.ensurePage(s.pageIndex(idxI))
	pageJ := s.ensurePage(s.pageIndex(idxJ))
	pageI[s.pageOffset(idxI)] = j
	pageJ[s.pageOffset(idxJ)] = i
	return ecs.StatusSuccess
}

// SwapPositions exposes the raw position-swap primitive so a component
// store can keep its payload array's positions synchronized with this
// set's dense array during a payload-ordered sort or swap.
func (s *SparseSet) SwapPositions(i, j int) int { return s.swapPositions(i, j) }

// Sort orders dense[0:length) by less, then rebuilds every sparse cell
// by walking the reordered dense array. Not guaranteed stable.
func (s *SparseSet) Sort(less func(a, b ecs.EntityID) bool) int {
	if s.length <= 1 {
		return ecs.StatusFailure
	}
	d := s.dense[:s.length]
	insertionSort(d, less)
	for pos, e := range d {
		idx := s.handle.Index(e)
		page := s.ensurePage(s.pageIndex(idx))
		page[s.pageOffset(idx)] = pos
	}
	return ecs.StatusSuccess
}

func insertionSort(d []ecs.EntityID, less func(a, b ecs.EntityID) bool) {
	for i := 1; i < len(d); i++ {
		v := d[i]
		j := i - 1
		for j >= 0 && less(v, d[j]) {
			d[j+1] = d[j]
			j--
		}
		d[j+1] = v
	}
}

// Resize grows the dense array's capacity to newCap. Fails if newCap is
// not strictly greater than the current capacity.
func (s *SparseSet) Resize(newCap int) int {
	if newCap <= cap(s.dense) {
		return ecs.StatusFailure
	}
	grown := make([]ecs.EntityID, len(s.dense), newCap)
	copy(grown, s.dense)
	s.dense = grown
	return ecs.StatusSuccess
}

// Clear drops every allocated page and resets length to zero.
func (s *SparseSet) Clear() {
	s.sparse = nil
	s.length = 0
}

// Reset sets length to zero without releasing allocated pages, so a
// subsequent burst of inserts can reuse them.
func (s *SparseSet) Reset() {
	for _, page := range s.sparse {
		for i := range page {
			page[i] = ecs.Sentinel
		}
	}
	s.length = 0
}

// Len reports the number of live entries.
func (s *SparseSet) Len() int { return s.length }

// Cap reports the dense array's current capacity.
func (s *SparseSet) Cap() int { return cap(s.dense) }

// Dense returns the live portion of the packed entity array.
func (s *SparseSet) Dense() []ecs.EntityID { return s.dense[:s.length] }

// At returns the entity at dense position i.
func (s *SparseSet) At(i int) (ecs.EntityID, bool) {
	if i < 0 || i >= s.length {
		return 0, false
	}
	return s.dense[i], true
}
