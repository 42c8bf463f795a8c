// Package sim orchestrates simulation runs: it builds worlds from
// scenarios, drives the step loop, and collects per-step telemetry.
//
// The world itself never fails; everything that can go wrong (bad
// scenarios, slot exhaustion, non-finite state) is surfaced here so the
// core can stay total.
package sim

import (
	"context"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/san-kum/ape/internal/config"
	"github.com/san-kum/ape/internal/world"
)

// Result collects telemetry from a run. Slices are indexed by step.
type Result struct {
	Times      []float32
	PairCounts []int
	Tracked    []world.Vec3 // position of the first spawned body
	MaxSpeed   float32
	StepsTaken int
	Errors     []error
}

// FinalPairs returns the broadphase pair count of the last completed step.
func (r *Result) FinalPairs() int {
	if len(r.PairCounts) == 0 {
		return 0
	}
	return r.PairCounts[len(r.PairCounts)-1]
}

// Runner steps one world built from a scenario.
type Runner struct {
	World   *world.World
	Handles []world.Handle

	// ValidateState stops a run and records an error when a tracked body's
	// position goes NaN or Inf. The core lets those values propagate; the
	// runner is where they become diagnosable.
	ValidateState bool
}

// Build validates the scenario and constructs a world with its spawn row:
// bodies spaced along x at the spawn height, optionally with an initial
// downward velocity.
func Build(scn *config.Scenario) (*Runner, error) {
	if err := scn.Validate(); err != nil {
		return nil, err
	}

	w := world.New()
	w.SetGravity(world.Vec3{X: scn.Gravity.X, Y: scn.Gravity.Y, Z: scn.Gravity.Z})

	handles := make([]world.Handle, 0, scn.Spawn.Count)
	for i := 0; i < scn.Spawn.Count; i++ {
		h := w.CreateRigidBody(world.RigidBodyDesc{
			Position: world.Vec3{X: float32(i) * scn.Spawn.Spacing, Y: scn.Spawn.Height},
			Velocity: world.Vec3{Y: -scn.Spawn.FallVel},
			Mass:     scn.Spawn.Mass,
		})
		if h == world.Invalid {
			return nil, fmt.Errorf("out of body slots after %d bodies", i)
		}
		handles = append(handles, h)
	}

	return &Runner{World: w, Handles: handles}, nil
}

// Run advances the world by steps increments of dt, recording telemetry
// after each step. Cancellation is checked once per step; on cancellation
// the partial result is returned together with the context error.
func (r *Runner) Run(ctx context.Context, dt float32, steps int) (*Result, error) {
	res := &Result{
		Times:      make([]float32, 0, steps),
		PairCounts: make([]int, 0, steps),
		Tracked:    make([]world.Vec3, 0, steps),
	}

	t := float32(0)
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		r.World.Step(dt)
		t += dt
		res.StepsTaken++
		res.Times = append(res.Times, t)
		res.PairCounts = append(res.PairCounts, r.World.PairCount())
		if len(r.Handles) > 0 {
			res.Tracked = append(res.Tracked, r.World.Position(r.Handles[0]))
		}

		for _, h := range r.Handles {
			v := r.World.Velocity(h)
			if s := math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z); s > res.MaxSpeed {
				res.MaxSpeed = s
			}
		}

		if r.ValidateState && !r.stateFinite() {
			res.Errors = append(res.Errors, fmt.Errorf("non-finite state at t=%.4f (step %d)", t, i))
			break
		}
	}

	return res, nil
}

func (r *Runner) stateFinite() bool {
	for _, h := range r.Handles {
		p := r.World.Position(h)
		if !finite(p.X) || !finite(p.Y) || !finite(p.Z) {
			return false
		}
	}
	return true
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
