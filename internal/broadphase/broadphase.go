// Package broadphase finds candidate overlapping pairs among axis-aligned
// bounding boxes.
//
// The search is a naive all-pairs scan, quadratic in the input size. It
// exists to validate the simulation pipeline end to end and will be replaced
// by something scalable (sweep-and-prune or a BVH) once the pipeline
// stabilizes. Output order is deterministic so runs are reproducible.
package broadphase

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	MinX, MinY, MinZ float32
	MaxX, MaxY, MaxZ float32
}

// Overlaps reports whether the two boxes intersect on all three axes.
// The comparison is inclusive, so boxes touching at a face count as
// overlapping.
func (a AABB) Overlaps(b AABB) bool {
	return a.MinX <= b.MaxX && a.MaxX >= b.MinX &&
		a.MinY <= b.MaxY && a.MaxY >= b.MinY &&
		a.MinZ <= b.MaxZ && a.MaxZ >= b.MinZ
}

// Pair indexes two overlapping boxes in the input array, with A < B.
type Pair struct {
	A, B uint32
}

// Pairs appends every overlapping pair (i, j) with i < j to out and returns
// the extended slice. Emission order is i-major, j-minor ascending. Fewer
// than two boxes produce no pairs.
//
// Callers with a known workload can pass a pre-sized out (typically
// out[:0] of a slice kept across steps) to amortize allocation.
func Pairs(boxes []AABB, out []Pair) []Pair {
	if len(boxes) < 2 {
		return out
	}
	for i := 0; i+1 < len(boxes); i++ {
		for j := i + 1; j < len(boxes); j++ {
			if boxes[i].Overlaps(boxes[j]) {
				out = append(out, Pair{A: uint32(i), B: uint32(j)})
			}
		}
	}
	return out
}
