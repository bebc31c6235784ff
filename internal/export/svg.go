package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/fdpde/internal/storage"
	"github.com/san-kum/fdpde/internal/viz"
)

var strokeColors = []string{"#00ffff", "#ff00ff", "#ffcc00", "#00ff88", "#ff6b6b", "#0088ff"}

// CanvasToSVG draws every lit Braille dot of canvas as a circle, scale
// pixels apart.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height)

	dotRadius := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if canvas.Lit(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius)
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// LayersToSVG draws the selected layers of s as polylines on shared axes,
// padded by a tenth of the data range on each side.
func LayersToSVG(s *storage.Surface, layers []int, width, height int) (string, error) {
	if err := checkLayers(s, layers); err != nil {
		return "", err
	}
	if s.NumNodes() < 2 {
		return "", fmt.Errorf("export: need at least 2 space nodes, have %d", s.NumNodes())
	}

	minX, maxX := s.Space[0], s.Space[s.NumNodes()-1]
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range layers {
		for _, v := range s.Values[p] {
			if !math.IsNaN(v) && !math.IsInf(v, 0) {
				minY, maxY = math.Min(minY, v), math.Max(maxY, v)
			}
		}
	}
	if minY > maxY {
		minY, maxY = 0, 1
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for n, p := range layers {
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" data-time="%g" d="`,
			strokeColors[n%len(strokeColors)], s.Times[p])
		move := true
		for j, v := range s.Values[p] {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				move = true
				continue
			}
			x := (s.Space[j] - minX) / rangeX * float64(width)
			y := float64(height) - (v-minY)/rangeY*float64(height)
			if move {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
				move = false
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String(), nil
}
