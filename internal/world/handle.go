package world

import "math"

// Handle is an opaque 32-bit reference to a rigid body. The low 16 bits are
// the storage slot index, the high 16 bits the generation the handle was
// minted with. A handle resolves only while its slot is alive at the same
// generation, which guards against reaching a recycled slot's new occupant
// through a stale reference.
type Handle uint32

// Invalid is returned by CreateRigidBody when the slot index space is
// exhausted. It never resolves to a body.
const Invalid Handle = math.MaxUint32

const (
	indexBits = 16
	indexMask = 1<<indexBits - 1
)

// MakeHandle packs a slot index and generation into a handle.
func MakeHandle(index, generation uint16) Handle {
	return Handle(uint32(generation)<<indexBits | uint32(index))
}

// Index returns the storage slot the handle refers to.
func (h Handle) Index() uint16 { return uint16(h & indexMask) }

// Generation returns the generation the handle was minted with.
func (h Handle) Generation() uint16 { return uint16(h >> indexBits) }
