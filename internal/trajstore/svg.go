package trajstore

import (
	"fmt"
	"os"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// OrbitSVG renders an orbit path as an SVG polyline. The x and y slices
// hold one coordinate per snapshot; the starting point is marked with a
// circle. Returns "" when there are fewer than two points.
func OrbitSVG(x, y []float64, width, height int) string {
	if len(x) < 2 || len(x) != len(y) {
		return ""
	}

	minX, maxX := floats.Min(x), floats.Max(x)
	minY, maxY := floats.Min(y), floats.Max(y)

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	// 10% padding on every side
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	px := func(v float64) float64 { return (v - minX) / rangeX * float64(width) }
	py := func(v float64) float64 { return float64(height) - (v-minY)/rangeY*float64(height) }

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="#00ff00" stroke-width="1.5" d="M`, width, height, width, height))

	for i := range x {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", px(x[i]), py(y[i])))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px(x[i]), py(y[i])))
		}
	}

	sb.WriteString(fmt.Sprintf(`"/>
<circle cx="%.1f" cy="%.1f" r="3" fill="#ffcc00"/>
</svg>`, px(x[0]), py(y[0])))

	return sb.String()
}

// WriteOrbitSVG renders the orbit path and writes it to path.
func WriteOrbitSVG(path string, x, y []float64, width, height int) error {
	svg := OrbitSVG(x, y, width, height)
	if svg == "" {
		return fmt.Errorf("trajstore: not enough points for svg")
	}
	return os.WriteFile(path, []byte(svg), 0644)
}
