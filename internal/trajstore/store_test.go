package trajstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/morganb-phys/galpy/orbit"
	"github.com/morganb-phys/galpy/symplec"
)

func sampleResult() *orbit.Result {
	traj := symplec.NewTrajectory(2, 3)
	for i := 0; i < 3; i++ {
		q, p := traj.At(i)
		q[0], q[1] = float64(i), 1-0.1*float64(i)
		p[0], p[1] = 0.5, -0.5
	}
	return &orbit.Result{
		Times:       []float64{0, 0.5, 1},
		Traj:        traj,
		Energy:      []float64{-0.5, -0.5000001, -0.4999999},
		EnergyDrift: 2e-7,
		Steps:       128,
		Evals:       140,
		Step:        0.0078125,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("kepler", "leapfrog", 1e-8, 1e-8, sampleResult())
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
	if meta.Field != "kepler" {
		t.Errorf("expected field 'kepler', got '%s'", meta.Field)
	}
	if meta.Scheme != "leapfrog" {
		t.Errorf("expected scheme 'leapfrog', got '%s'", meta.Scheme)
	}
	if meta.Samples != 3 || meta.Dim != 2 {
		t.Errorf("expected 3 samples of dim 2, got %d of dim %d", meta.Samples, meta.Dim)
	}
	if meta.T0 != 0 || meta.T1 != 1 {
		t.Errorf("expected span [0, 1], got [%v, %v]", meta.T0, meta.T1)
	}
	if meta.Steps != 128 {
		t.Errorf("expected 128 steps, got %d", meta.Steps)
	}

	rows, times, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if len(rows) != 3 || len(times) != 3 {
		t.Fatalf("expected 3 rows and 3 times, got %d and %d", len(rows), len(times))
	}
	// 2 positions + 2 momenta + energy per row.
	if len(rows[0]) != 5 {
		t.Errorf("expected 5 columns, got %d", len(rows[0]))
	}
	if rows[1][0] != 1 {
		t.Errorf("expected q0 of second row to be 1, got %v", rows[1][0])
	}
	if times[2] != 1 {
		t.Errorf("expected final time 1, got %v", times[2])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
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

	if _, err := st.Save("sho", "symplec4", 1e-10, 1e-10, sampleResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("expected 1 run, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save("drift", "leapfrog", 1e-8, 1e-8, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "trajectory.csv"} {
		if _, err := os.Stat(filepath.Join(dir, runID, name)); err != nil {
			t.Errorf("expected %s in run dir: %v", name, err)
		}
	}
}

func TestStoreLoadMissingRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("absent_123"); err == nil {
		t.Error("expected error for missing run")
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, "kepler", "leapfrog", 1e-8, 1e-8, sampleResult()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	var out ExportData
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if out.Field != "kepler" {
		t.Errorf("expected field 'kepler', got '%s'", out.Field)
	}
	if len(out.Q) != 3 || len(out.P) != 3 {
		t.Errorf("expected 3 position and momentum rows, got %d and %d", len(out.Q), len(out.P))
	}
	if out.Q[1][0] != 1 {
		t.Errorf("expected q0 of second row to be 1, got %v", out.Q[1][0])
	}
	if len(out.Energy) != 3 {
		t.Errorf("expected 3 energy values, got %d", len(out.Energy))
	}
}
