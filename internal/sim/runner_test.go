package sim

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/ape/internal/config"
	"github.com/san-kum/ape/internal/world"
)

func TestBuildSpawnsScenarioBodies(t *testing.T) {
	scn := config.Default()
	scn.Spawn.Count = 5

	r, err := Build(scn)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(r.Handles) != 5 {
		t.Fatalf("expected 5 handles, got %d", len(r.Handles))
	}
	if r.World.Len() != 5 {
		t.Errorf("world Len = %d, want 5", r.World.Len())
	}
	if g := r.World.Gravity(); g.Y != scn.Gravity.Y {
		t.Errorf("gravity = %v, want %v", g.Y, scn.Gravity.Y)
	}

	// Bodies sit in a row along x at the spawn height.
	for i, h := range r.Handles {
		p := r.World.Position(h)
		if p.X != float32(i)*scn.Spawn.Spacing || p.Y != scn.Spawn.Height {
			t.Errorf("body %d at %v", i, p)
		}
	}
}

func TestBuildRejectsBadScenario(t *testing.T) {
	scn := config.Default()
	scn.Dt = 0
	if _, err := Build(scn); err == nil {
		t.Error("expected validation error")
	}
}

func TestRunRecordsTelemetry(t *testing.T) {
	scn := config.Default()
	scn.Spawn.Count = 3

	r, err := Build(scn)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	res, err := r.Run(context.Background(), scn.Dt, 10)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.StepsTaken != 10 {
		t.Errorf("StepsTaken = %d, want 10", res.StepsTaken)
	}
	if len(res.Times) != 10 || len(res.PairCounts) != 10 || len(res.Tracked) != 10 {
		t.Fatalf("telemetry lengths = %d/%d/%d, want 10 each",
			len(res.Times), len(res.PairCounts), len(res.Tracked))
	}
	if res.Tracked[9].Y >= scn.Spawn.Height {
		t.Errorf("tracked body did not fall: %v", res.Tracked[9])
	}
	if res.MaxSpeed <= 0 {
		t.Errorf("MaxSpeed = %f, want > 0", res.MaxSpeed)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	scn := config.Default()
	r, err := Build(scn)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := r.Run(ctx, scn.Dt, 1000)
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if res.StepsTaken != 0 {
		t.Errorf("StepsTaken = %d, want 0", res.StepsTaken)
	}
}

func TestValidateStateStopsOnNaN(t *testing.T) {
	scn := config.Default()
	scn.Spawn.Count = 0

	r, err := Build(scn)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	h := r.World.CreateRigidBody(world.RigidBodyDesc{
		Velocity: world.Vec3{Y: float32(math.NaN())},
		Mass:     1,
	})
	r.Handles = append(r.Handles, h)
	r.ValidateState = true

	res, err := r.Run(context.Background(), scn.Dt, 100)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Errors) == 0 {
		t.Fatal("expected a non-finite state error")
	}
	if res.StepsTaken >= 100 {
		t.Errorf("run should stop early, took %d steps", res.StepsTaken)
	}
}

func TestFinalPairs(t *testing.T) {
	res := &Result{}
	if res.FinalPairs() != 0 {
		t.Error("empty result should report zero pairs")
	}
	res.PairCounts = []int{3, 2, 7}
	if res.FinalPairs() != 7 {
		t.Errorf("FinalPairs = %d, want 7", res.FinalPairs())
	}
}
