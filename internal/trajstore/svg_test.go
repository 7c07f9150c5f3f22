package trajstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOrbitSVG(t *testing.T) {
	x := []float64{1, 0, -1, 0}
	y := []float64{0, 1, 0, -1}

	svg := OrbitSVG(x, y, 800, 600)

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Errorf("missing xml header")
	}
	if !strings.Contains(svg, `<path fill="none"`) {
		t.Errorf("missing path element")
	}
	if got := strings.Count(svg, " L"); got != len(x)-1 {
		t.Errorf("expected %d line segments, got %d", len(x)-1, got)
	}
	if !strings.Contains(svg, "<circle") {
		t.Errorf("missing start marker")
	}
}

func TestOrbitSVG_TooFewPoints(t *testing.T) {
	if svg := OrbitSVG([]float64{1}, []float64{0}, 800, 600); svg != "" {
		t.Errorf("expected empty string for single point")
	}
	if svg := OrbitSVG([]float64{1, 2}, []float64{0}, 800, 600); svg != "" {
		t.Errorf("expected empty string for mismatched lengths")
	}
}

func TestWriteOrbitSVG(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orbit.svg")

	x := []float64{1, 0, -1}
	y := []float64{0, 1, 0}

	if err := WriteOrbitSVG(path, x, y, 400, 300); err != nil {
		t.Fatalf("WriteOrbitSVG failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read svg: %v", err)
	}
	if !strings.Contains(string(data), "</svg>") {
		t.Errorf("svg file not terminated")
	}

	if err := WriteOrbitSVG(filepath.Join(dir, "bad.svg"), []float64{1}, []float64{1}, 400, 300); err == nil {
		t.Errorf("expected error for too few points")
	}
}
