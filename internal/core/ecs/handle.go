package ecs

// HandleKind reports whether a Handle's total bit width fits a 32-bit word
// or needs the full 64-bit EntityID range.
type HandleKind int

const (
	HandleSmall HandleKind = iota
	HandleBig
)

func (k HandleKind) String() string {
	if k == HandleBig {
		return "big"
	}
	return "small"
}

// HandleBits reports the configuration of a Handle.
type HandleBits struct {
	IndexBits   int
	VersionBits int
	TotalBits   int
	Kind        HandleKind
}

// Handle is a pure value codec: it packs an (index, version) pair into a
// single EntityID using a configurable split between index bits and
// version bits, and decodes that pair back out. It allocates nothing and
// every encode/decode is a handful of shifts and masks.
type Handle struct {
	indexBits   uint
	versionBits uint
	indexMask   uint64
	versionMask uint64
	kind        HandleKind
}

// NewHandle builds a Handle from an explicit index/version bit split.
// Construction fails if either width is non-positive or their sum exceeds
// 64 bits; runtime Make/Index/Version never fail; out-of-range inputs are
// silently masked.
func NewHandle(indexBits, versionBits int) (*Handle, error) {
	if indexBits <= 0 || versionBits <= 0 {
		return nil, ErrInvalidBitWidth
	}
	total := indexBits + versionBits
	if total > 64 {
		return nil, ErrInvalidBitWidth
	}
	kind := HandleSmall
	if total > 32 {
		kind = HandleBig
	}
	return &Handle{
		indexBits:   uint(indexBits),
		versionBits: uint(versionBits),
		indexMask:   (uint64(1) << uint(indexBits)) - 1,
		versionMask: (uint64(1) << uint(versionBits)) - 1,
		kind:        kind,
	}, nil
}

// MustNewHandle is NewHandle for callers that treat a bad bit split as a
// programmer error.
func MustNewHandle(indexBits, versionBits int) *Handle {
	h, err := NewHandle(indexBits, versionBits)
	if err != nil {
		panic(err)
	}
	return h
}

// SmallHandle is a 12 index bit / 4 version bit layout: up to 4095 live
// slots, 15 generations of reuse safety per slot.
func SmallHandle() *Handle { return MustNewHandle(12, 4) }

// MediumHandle is a 20 index bit / 12 version bit layout: up to ~1M live
// slots, 4095 generations of reuse safety per slot. This is the default
// used by EntityStore when no handle is configured.
func MediumHandle() *Handle { return MustNewHandle(20, 12) }

// LargeHandle is a 32 index bit / 32 version bit layout spanning the full
// 64-bit EntityID.
func LargeHandle() *Handle { return MustNewHandle(32, 32) }

// Make packs an index and version into an EntityID, masking each field to
// its configured width.
func (h *Handle) Make(index, version uint64) EntityID {
	return EntityID(((index & h.indexMask) << h.versionBits) | (version & h.versionMask))
}

// Index extracts the slot index encoded in e.
func (h *Handle) Index(e EntityID) uint64 {
	return (uint64(e) >> h.versionBits) & h.indexMask
}

// Version extracts the generation encoded in e.
func (h *Handle) Version(e EntityID) uint64 {
	return uint64(e) & h.versionMask
}

// Equals reports whether two handles encode the same entity.
func (h *Handle) Equals(a, b EntityID) bool { return a == b }

// Bits reports this handle's configuration.
func (h *Handle) Bits() HandleBits {
	return HandleBits{
		IndexBits:   int(h.indexBits),
		VersionBits: int(h.versionBits),
		TotalBits:   int(h.indexBits + h.versionBits),
		Kind:        h.kind,
	}
}

// InvalidIndex is the reserved slot index (1<<indexBits)-1 that is never
// assigned to a live entity; EntityStore uses it as its free-list
// terminator and out-of-handles sentinel.
func (h *Handle) InvalidIndex() uint64 { return h.indexMask }

// MaxVersion is the highest generation this handle's version field can
// represent before incrementing it further would wrap and risk aliasing.
func (h *Handle) MaxVersion() uint64 { return h.versionMask }
