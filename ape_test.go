package ape

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestVersion(t *testing.T) {
	g := NewWithT(t)
	g.Expect(Version()).To(Equal("0.0.1"))
}

func TestWorldLifecycle(t *testing.T) {
	g := NewWithT(t)

	w := NewWorld()
	g.Expect(w.Gravity()).To(Equal(Vec3{0, -9.80665, 0}))

	h := w.CreateRigidBody(RigidBodyDesc{Position: Vec3{0, 10, 0}, Mass: 1})
	g.Expect(h).NotTo(Equal(InvalidHandle))
	g.Expect(w.Position(h)).To(Equal(Vec3{0, 10, 0}))

	w.Step(1.0 / 60.0)
	g.Expect(w.Position(h).Y).To(BeNumerically("<", 10))
	g.Expect(w.Velocity(h).Y).To(BeNumerically("<", 0))
	g.Expect(w.PairCount()).To(Equal(0))
}

func TestOverlappingBodiesReportPairs(t *testing.T) {
	g := NewWithT(t)

	w := NewWorld()
	w.SetGravity(Vec3{})
	w.CreateRigidBody(RigidBodyDesc{Position: Vec3{0, 5, 0}, Mass: 1})
	w.CreateRigidBody(RigidBodyDesc{Position: Vec3{0.1, 5, 0}, Mass: 1})
	w.Step(0.016)

	g.Expect(w.PairCount()).To(Equal(1))
}

func TestStaleHandleReadsAsZero(t *testing.T) {
	g := NewWithT(t)

	w := NewWorld()
	w.CreateRigidBody(RigidBodyDesc{Position: Vec3{1, 2, 3}, Mass: 1})

	// A fabricated handle with a generation no slot has yet.
	bogus := Handle(7 << 16)
	g.Expect(w.Position(bogus)).To(Equal(Vec3{}))
	g.Expect(w.Position(InvalidHandle)).To(Equal(Vec3{}))
}
