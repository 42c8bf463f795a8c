package storage

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/ape/internal/config"
	"github.com/san-kum/ape/internal/sim"
)

func runScenario(t *testing.T, scn *config.Scenario) *sim.Result {
	t.Helper()
	r, err := sim.Build(scn)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	res, err := r.Run(context.Background(), scn.Dt, scn.Steps)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return res
}

func TestSaveAndList(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	scn := config.Preset("cluster")
	scn.Steps = 5
	res := runScenario(t, scn)

	runID, err := store.Save(scn, res)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	runs, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].ID != runID {
		t.Errorf("listed id = %s, want %s", runs[0].ID, runID)
	}
	if runs[0].StepsTaken != 5 {
		t.Errorf("steps taken = %d, want 5", runs[0].StepsTaken)
	}
	if runs[0].Scenario.Name != "cluster" {
		t.Errorf("scenario name = %s", runs[0].Scenario.Name)
	}
}

func TestSaveWritesStatesCSV(t *testing.T) {
	dir := t.TempDir()
	store := New(dir)
	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	scn := config.Default()
	scn.Steps = 3
	res := runScenario(t, scn)

	runID, err := store.Save(scn, res)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, runID, "states.csv"))
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 4 { // header plus three steps
		t.Fatalf("expected 4 rows, got %d", len(records))
	}
	if records[0][0] != "step" || records[0][2] != "pairs" {
		t.Errorf("unexpected header: %v", records[0])
	}
}

func TestLoad(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	scn := config.Default()
	scn.Steps = 2
	runID, err := store.Save(scn, runScenario(t, scn))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	meta, err := store.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.ID != runID {
		t.Errorf("loaded id = %s, want %s", meta.ID, runID)
	}

	if _, err := store.Load("missing_run"); err == nil {
		t.Error("expected error for unknown run id")
	}
}

func TestListEmptyBaseDir(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "never-created"))
	runs, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
