package storage

import (
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/fdpde/internal/config"
	"github.com/san-kum/fdpde/internal/grid"
	"github.com/san-kum/fdpde/internal/mesh"
	"github.com/san-kum/fdpde/internal/pde"
)

func testSurface(t *testing.T) *Surface {
	t.Helper()
	tm, err := mesh.NewExponential(0, 1, 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	xm, err := mesh.NewUniform(-1, 1, 5)
	if err != nil {
		t.Fatal(err)
	}
	g, err := grid.New(tm, xm)
	if err != nil {
		t.Fatal(err)
	}
	values := make([][]float64, 4)
	for k := range values {
		values[k] = make([]float64, 5)
		for j := range values[k] {
			values[k][j] = math.Exp(-g.TimeAt(k)) * math.Cos(g.SpaceAt(j)) / 3
		}
	}
	res, err := pde.NewResults(g, []int{0, 1, 2, 3}, values)
	if err != nil {
		t.Fatal(err)
	}
	return FromResults(res)
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.GetPreset("heat-neumann", "decay")
	surface := testSurface(t)
	runID, err := st.Save(cfg, surface, 4, map[string]float64{"max_abs": 0.5}, 3*time.Millisecond)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Problem != "heat-neumann" {
		t.Errorf("expected problem 'heat-neumann', got '%s'", meta.Problem)
	}
	if meta.Diagnostics["max_abs"] != 0.5 {
		t.Errorf("expected max_abs 0.5, got %f", meta.Diagnostics["max_abs"])
	}
	if meta.Elapsed != 3*time.Millisecond {
		t.Errorf("expected elapsed 3ms, got %v", meta.Elapsed)
	}
	if got := meta.Config(); got.Theta != cfg.Theta || got.SpaceMesh.Points != cfg.SpaceMesh.Points || got.TimeMesh.High != cfg.TimeMesh.High {
		t.Errorf("config not recovered: %+v", got)
	}

	loaded, err := st.LoadSurface(runID)
	if err != nil {
		t.Fatalf("load surface failed: %v", err)
	}

	if loaded.NumLayers() != 4 || loaded.NumNodes() != 5 {
		t.Fatalf("expected 4x5 surface, got %dx%d", loaded.NumLayers(), loaded.NumNodes())
	}
	for i := range surface.Values {
		if loaded.Times[i] != surface.Times[i] || loaded.TimeIndices[i] != surface.TimeIndices[i] {
			t.Errorf("layer %d: time %v/%d, want %v/%d", i, loaded.Times[i], loaded.TimeIndices[i], surface.Times[i], surface.TimeIndices[i])
		}
		for j := range surface.Values[i] {
			if loaded.Values[i][j] != surface.Values[i][j] {
				t.Errorf("value (%d, %d) = %v, want %v exactly", i, j, loaded.Values[i][j], surface.Values[i][j])
			}
		}
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
	if _, err := st.Latest(); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}

	first, err := st.Save(config.DefaultConfig(), testSurface(t), 4, nil, 0)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(config.DefaultConfig(), testSurface(t), 4, nil, 0)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if first == second {
		t.Fatal("run ids collide")
	}

	// stray files and directories without metadata are ignored
	if err := os.MkdirAll(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	latest, err := st.Latest()
	if err != nil || latest != second {
		t.Errorf("latest = %q (%v), want %q", latest, err, second)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(config.DefaultConfig(), testSurface(t), 4, nil, 0)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "surface.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Load: expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadSurface("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadSurface: expected ErrRunNotFound, got %v", err)
	}
}

func TestSaveRejectsRaggedSurface(t *testing.T) {
	st := New(t.TempDir())
	surface := testSurface(t)
	surface.Values[2] = surface.Values[2][:3]
	if _, err := st.Save(config.DefaultConfig(), surface, 4, nil, 0); err == nil {
		t.Error("expected error for ragged surface")
	}
}

func TestSurfaceAccessors(t *testing.T) {
	s := testSurface(t)
	node := s.Node(2)
	if len(node) != 4 || node[0] != s.Values[0][2] || node[3] != s.Values[3][2] {
		t.Errorf("Node(2) = %v", node)
	}
	if s.NearestNode(0.4) != 3 || s.NearestNode(-5) != 0 {
		t.Errorf("NearestNode: %d, %d", s.NearestNode(0.4), s.NearestNode(-5))
	}
	if got := s.Terminal(); &got[0] != &s.Values[3][0] {
		t.Error("Terminal should return the last layer")
	}
}

func TestWriteFileReportsCloseError(t *testing.T) {
	dir := t.TempDir()

	err := writeFile(filepath.Join(dir, "closed.json"), func(w io.Writer) error {
		return w.(*os.File).Close()
	})
	if !errors.Is(err, os.ErrClosed) {
		t.Errorf("expected close error, got %v", err)
	}

	writeErr := errors.New("disk full")
	err = writeFile(filepath.Join(dir, "failed.json"), func(w io.Writer) error {
		w.(*os.File).Close()
		return writeErr
	})
	if !errors.Is(err, writeErr) {
		t.Errorf("write error should win over close error, got %v", err)
	}

	path := filepath.Join(dir, "ok.json")
	if err := writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "{}")
		return err
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data, err := os.ReadFile(path); err != nil || string(data) != "{}" {
		t.Errorf("file contents = %q, %v", data, err)
	}
}
