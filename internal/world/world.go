// Package world owns rigid-body state and advances it in discrete steps.
//
// Bodies live in structure-of-arrays storage indexed by slot and are
// referenced externally through generation-checked handles ([Handle]). Each
// step integrates velocity under global gravity (semi-implicit Euler),
// derives a bounding box per slot, and runs the [broadphase] pair search
// over the full box array.
//
// # Thread Safety
//
// World instances are NOT thread-safe. All operations run to completion on
// the caller's goroutine; callers needing concurrency must synchronize
// externally.
package world

import (
	"math"

	"github.com/san-kum/ape/internal/broadphase"
)

// Vec3 is a 3D vector with single-precision components, passed by value
// across the package boundary.
type Vec3 struct {
	X, Y, Z float32
}

// RigidBodyDesc describes a body at creation time. Mass is expected to be
// positive; the world does not validate it, so a non-positive value is the
// caller's problem and simply flows through the arithmetic.
type RigidBodyDesc struct {
	Position Vec3
	Velocity Vec3
	Mass     float32
}

const (
	// maxSlots caps storage at the handle index space.
	maxSlots = math.MaxUint16

	// bodyRadius is the bounding sphere radius applied to every body until
	// shapes land.
	bodyRadius = 0.5
)

// World owns all body storage, the global gravity vector, and the scratch
// state of the most recent step.
type World struct {
	pos   []Vec3
	vel   []Vec3
	mass  []float32
	gen   []uint16
	alive []bool
	free  []uint16
	live  int

	gravity Vec3

	// per-step scratch, reused across steps
	aabbs []broadphase.AABB
	pairs []broadphase.Pair

	lastPairCount int
}

// New returns an empty world with default gravity {0, -9.80665, 0}.
func New() *World {
	return &World{gravity: Vec3{0, -9.80665, 0}}
}

// CreateRigidBody adds a body and returns its handle. Freed slots are reused
// in LIFO order before storage grows. When the slot index space is exhausted
// the function returns [Invalid] and leaves storage untouched; callers must
// check for the sentinel.
func (w *World) CreateRigidBody(d RigidBodyDesc) Handle {
	if n := len(w.free); n > 0 {
		idx := w.free[n-1]
		w.free = w.free[:n-1]
		w.pos[idx] = d.Position
		w.vel[idx] = d.Velocity
		w.mass[idx] = d.Mass
		w.alive[idx] = true
		w.live++
		return MakeHandle(idx, w.gen[idx])
	}
	if len(w.pos) >= maxSlots {
		return Invalid
	}
	idx := uint16(len(w.pos))
	w.pos = append(w.pos, d.Position)
	w.vel = append(w.vel, d.Velocity)
	w.mass = append(w.mass, d.Mass)
	w.gen = append(w.gen, 0)
	w.alive = append(w.alive, true)
	w.live++
	return MakeHandle(idx, 0)
}

// release frees the slot behind h and puts its index on the free list. The
// generation is bumped so handles minted before the release stop resolving,
// wrapping at the 16-bit boundary. Invalid and stale handles are ignored.
//
// There is no public destroy operation yet; release keeps the recycling path
// honest until one lands.
func (w *World) release(h Handle) {
	idx := h.Index()
	if int(idx) >= len(w.pos) || !w.alive[idx] || w.gen[idx] != h.Generation() {
		return
	}
	w.alive[idx] = false
	w.gen[idx]++
	w.free = append(w.free, idx)
	w.live--
}

// Step advances the simulation by dt seconds.
//
// Per alive slot, semi-implicit Euler: velocity picks up gravity first and
// the position update then uses the updated velocity. That ordering is
// load-bearing; do not swap it. Dead slots are skipped by the integrator but
// still contribute an all-zero bounding box so pair indices from the
// broadphase map one-to-one onto slot indices.
//
// dt is not validated; zero, negative, or non-finite values run the
// arithmetic unchanged.
func (w *World) Step(dt float32) {
	g := w.gravity
	n := len(w.pos)
	for i := 0; i < n; i++ {
		if !w.alive[i] {
			continue
		}
		v := w.vel[i]
		v.X += g.X * dt
		v.Y += g.Y * dt
		v.Z += g.Z * dt
		p := w.pos[i]
		p.X += v.X * dt
		p.Y += v.Y * dt
		p.Z += v.Z * dt
		w.vel[i] = v
		w.pos[i] = p
	}

	w.aabbs = w.aabbs[:0]
	for i := 0; i < n; i++ {
		if !w.alive[i] {
			w.aabbs = append(w.aabbs, broadphase.AABB{})
			continue
		}
		p := w.pos[i]
		w.aabbs = append(w.aabbs, broadphase.AABB{
			MinX: p.X - bodyRadius, MinY: p.Y - bodyRadius, MinZ: p.Z - bodyRadius,
			MaxX: p.X + bodyRadius, MaxY: p.Y + bodyRadius, MaxZ: p.Z + bodyRadius,
		})
	}

	w.pairs = broadphase.Pairs(w.aabbs, w.pairs[:0])
	w.lastPairCount = len(w.pairs)
}

// Position returns the body's current position, or the zero vector when the
// handle's index is out of range, its slot is dead, or its generation does
// not match. Queries never fail loudly; callers holding possibly-stale
// handles get zeros back.
func (w *World) Position(h Handle) Vec3 {
	idx := h.Index()
	if int(idx) >= len(w.pos) || !w.alive[idx] || w.gen[idx] != h.Generation() {
		return Vec3{}
	}
	return w.pos[idx]
}

// Velocity returns the body's current velocity with the same leniency as
// Position.
func (w *World) Velocity(h Handle) Vec3 {
	idx := h.Index()
	if int(idx) >= len(w.vel) || !w.alive[idx] || w.gen[idx] != h.Generation() {
		return Vec3{}
	}
	return w.vel[idx]
}

// Valid reports whether h currently resolves to a live body.
func (w *World) Valid(h Handle) bool {
	idx := h.Index()
	return int(idx) < len(w.pos) && w.alive[idx] && w.gen[idx] == h.Generation()
}

// SetGravity replaces the global gravity vector.
func (w *World) SetGravity(g Vec3) { w.gravity = g }

// Gravity returns the global gravity vector.
func (w *World) Gravity() Vec3 { return w.gravity }

// PairCount returns the number of candidate pairs the broadphase found in
// the most recent Step. Telemetry to sanity-check the pipeline; it will move
// into a proper diagnostics surface eventually.
func (w *World) PairCount() int { return w.lastPairCount }

// Len returns the number of live bodies.
func (w *World) Len() int { return w.live }
