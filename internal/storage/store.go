package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/san-kum/fdpde/internal/config"
	"github.com/san-kum/fdpde/internal/mesh"
	"github.com/san-kum/fdpde/internal/solver"
)

var ErrRunNotFound = errors.New("storage: run not found")

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
	ID            string             `json:"id"`
	Problem       string             `json:"problem"`
	Timestamp     time.Time          `json:"timestamp"`
	Theta         float64            `json:"theta"`
	RetainHistory bool               `json:"retain_history"`
	Correction    solver.Correction  `json:"correction"`
	TimeMesh      mesh.Spec          `json:"time_mesh"`
	SpaceMesh     mesh.Spec          `json:"space_mesh"`
	TimeNodes     int                `json:"time_nodes"`
	SpaceNodes    int                `json:"space_nodes"`
	Params        map[string]float64 `json:"params,omitempty"`
	Diagnostics   map[string]float64 `json:"diagnostics"`
	Elapsed       time.Duration      `json:"elapsed_ns"`
}

// Config rebuilds the run configuration.
func (m *RunMetadata) Config() *config.Config {
	return &config.Config{
		Problem:       m.Problem,
		Theta:         m.Theta,
		RetainHistory: m.RetainHistory,
		Correction:    m.Correction,
		TimeMesh:      m.TimeMesh,
		SpaceMesh:     m.SpaceMesh,
		Params:        m.Params,
	}
}

// Save writes metadata.json and surface.csv into a new run directory and
// returns the run ID. cfg must carry the meshes actually used.
func (s *Store) Save(cfg *config.Config, surface *Surface, timeNodes int, diagnostics map[string]float64, elapsed time.Duration) (string, error) {
	if err := surface.validate(); err != nil {
		return "", err
	}

	now := time.Now()
	runID := fmt.Sprintf("%s_%d", cfg.Problem, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Problem:       cfg.Problem,
		Timestamp:     now,
		Theta:         cfg.Theta,
		RetainHistory: cfg.RetainHistory,
		Correction:    cfg.Correction,
		TimeMesh:      cfg.TimeMesh,
		SpaceMesh:     cfg.SpaceMesh,
		TimeNodes:     timeNodes,
		SpaceNodes:    surface.NumNodes(),
		Params:        cfg.Params,
		Diagnostics:   diagnostics,
		Elapsed:       elapsed,
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeSurface(filepath.Join(runDir, "surface.csv"), surface); err != nil {
		return "", err
	}
	return runID, nil
}

// writeFile creates path, runs write against it and reports the first of
// the write and close errors.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

func writeJSON(path string, v any) error {
	return writeFile(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}

// surface.csv: a header row "index,time,<x0>,<x1>,..." followed by one row
// per retained layer.
func writeSurface(path string, surface *Surface) error {
	return writeFile(path, func(out io.Writer) error {
		w := csv.NewWriter(out)
		header := []string{"index", "time"}
		for _, x := range surface.Space {
			header = append(header, formatFloat(x))
		}
		if err := w.Write(header); err != nil {
			return err
		}

		for i, layer := range surface.Values {
			row := []string{strconv.Itoa(surface.TimeIndices[i]), formatFloat(surface.Times[i])}
			for _, v := range layer {
				row = append(row, formatFloat(v))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}

		w.Flush()
		return w.Error()
	})
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns the metadata of every run, newest first. Directories without
// readable metadata are skipped.
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
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	slices.SortFunc(runs, func(a, b RunMetadata) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return runs, nil
}

// Latest returns the ID of the newest run.
func (s *Store) Latest() (string, error) {
	runs, err := s.List()
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", fmt.Errorf("%w: no runs in %s", ErrRunNotFound, s.baseDir)
	}
	return runs[0].ID, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadSurface(runID string) (*Surface, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "surface.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	if len(records) == 0 || len(records[0]) < 2 {
		return nil, fmt.Errorf("run %s: malformed surface header", runID)
	}

	surface := &Surface{}
	for _, cell := range records[0][2:] {
		x, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return nil, fmt.Errorf("run %s: space header: %w", runID, err)
		}
		surface.Space = append(surface.Space, x)
	}

	for i, record := range records[1:] {
		k, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("run %s: row %d: %w", runID, i+1, err)
		}
		values := make([]float64, len(record)-1)
		for c, cell := range record[1:] {
			if values[c], err = strconv.ParseFloat(cell, 64); err != nil {
				return nil, fmt.Errorf("run %s: row %d: %w", runID, i+1, err)
			}
		}
		surface.TimeIndices = append(surface.TimeIndices, k)
		surface.Times = append(surface.Times, values[0])
		surface.Values = append(surface.Values, values[1:])
	}

	if err := surface.validate(); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return surface, nil
}
