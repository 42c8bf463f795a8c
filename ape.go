// Package ape is the stable public surface of the APE simulation core.
//
// It exposes a flat, value-type API — trivial vector and descriptor structs,
// opaque 32-bit body handles, and an abstract [World] — backed by a single
// unexported implementation. Callers never see the engine's internal field
// layout, so internals can evolve without breaking this surface. The package
// performs no logic of its own beyond marshaling into the engine.
package ape

import (
	"fmt"

	"github.com/san-kum/ape/internal/world"
)

// Engine semantic version.
const (
	VersionMajor = 0
	VersionMinor = 0
	VersionPatch = 1
)

// Version returns the engine version as "major.minor.patch".
func Version() string {
	return fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)
}

// Vec3 is a trivial 3D vector value type with single-precision components.
type Vec3 struct {
	X, Y, Z float32
}

// RigidBodyDesc carries the construction parameters of a rigid body. Mass
// must be positive; the engine does not validate it.
type RigidBodyDesc struct {
	Position Vec3
	Velocity Vec3
	Mass     float32
}

// Handle is an opaque reference to a body. Handles stay valid across steps
// for the lifetime of the body they were minted for.
type Handle uint32

// InvalidHandle is returned by CreateRigidBody when the world cannot hold
// another body. It never resolves to one.
const InvalidHandle = Handle(world.Invalid)

// World is the simulation capability surface: create bodies, step time
// forward, and read state back. Implementations are not safe for concurrent
// use.
type World interface {
	// CreateRigidBody adds a body and returns its handle, or InvalidHandle
	// when the index space is exhausted.
	CreateRigidBody(desc RigidBodyDesc) Handle
	// Step advances the simulation by dt seconds.
	Step(dt float32)
	// Position returns the body's position, or the zero vector for a
	// handle that does not resolve.
	Position(h Handle) Vec3
	// Velocity returns the body's velocity with the same leniency.
	Velocity(h Handle) Vec3
	// SetGravity replaces the global gravity vector.
	SetGravity(g Vec3)
	// Gravity returns the global gravity vector.
	Gravity() Vec3
	// PairCount reports the broadphase candidate pairs found by the most
	// recent Step.
	PairCount() int
}

// NewWorld returns an empty world with default gravity {0, -9.80665, 0}.
func NewWorld() World {
	return &worldFacade{w: world.New()}
}

type worldFacade struct {
	w *world.World
}

func (f *worldFacade) CreateRigidBody(desc RigidBodyDesc) Handle {
	return Handle(f.w.CreateRigidBody(world.RigidBodyDesc{
		Position: world.Vec3(desc.Position),
		Velocity: world.Vec3(desc.Velocity),
		Mass:     desc.Mass,
	}))
}

func (f *worldFacade) Step(dt float32) {
	f.w.Step(dt)
}

func (f *worldFacade) Position(h Handle) Vec3 {
	return Vec3(f.w.Position(world.Handle(h)))
}

func (f *worldFacade) Velocity(h Handle) Vec3 {
	return Vec3(f.w.Velocity(world.Handle(h)))
}

func (f *worldFacade) SetGravity(g Vec3) {
	f.w.SetGravity(world.Vec3(g))
}

func (f *worldFacade) Gravity() Vec3 {
	return Vec3(f.w.Gravity())
}

func (f *worldFacade) PairCount() int {
	return f.w.PairCount()
}
