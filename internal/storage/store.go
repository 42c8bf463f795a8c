// Package storage persists simulation runs under a base directory, one
// subdirectory per run holding metadata.json and states.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/ape/internal/config"
	"github.com/san-kum/ape/internal/sim"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string          `json:"id"`
	Timestamp  time.Time       `json:"timestamp"`
	Scenario   config.Scenario `json:"scenario"`
	StepsTaken int             `json:"steps_taken"`
	FinalPairs int             `json:"final_pairs"`
	MaxSpeed   float32         `json:"max_speed"`
}

// Save writes one run to a fresh directory and returns its id.
func (s *Store) Save(scn *config.Scenario, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scn.Name, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Timestamp:  time.Now(),
		Scenario:   *scn,
		StepsTaken: result.StepsTaken,
		FinalPairs: result.FinalPairs(),
		MaxSpeed:   result.MaxSpeed,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"step", "time", "pairs", "x", "y", "z"}); err != nil {
		return "", err
	}
	for i := range result.Times {
		row := []string{
			strconv.Itoa(i),
			formatF32(result.Times[i]),
			strconv.Itoa(result.PairCounts[i]),
		}
		if i < len(result.Tracked) {
			p := result.Tracked[i]
			row = append(row, formatF32(p.X), formatF32(p.Y), formatF32(p.Z))
		} else {
			row = append(row, "0", "0", "0")
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// List returns metadata for every readable run; unreadable entries are
// skipped rather than failing the listing.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func formatF32(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 6, 32)
}
