package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fdpde/internal/storage"
)

// PlotOptions sizes an asciigraph chart.
type PlotOptions struct {
	Width  int
	Height int
}

func (o PlotOptions) withDefaults() PlotOptions {
	if o.Width <= 0 {
		o.Width = 70
	}
	if o.Height <= 0 {
		o.Height = 15
	}
	return o
}

// PlotLayer charts retained layer i of s against space.
func PlotLayer(s *storage.Surface, i int, opts PlotOptions) (string, error) {
	if i < 0 || i >= s.NumLayers() {
		return "", fmt.Errorf("layer %d out of range [0, %d)", i, s.NumLayers())
	}
	opts = opts.withDefaults()
	caption := fmt.Sprintf("V(t=%.4g, x)  x in [%.4g, %.4g]", s.Times[i], s.Space[0], s.Space[s.NumNodes()-1])
	return plot(s.Values[i], opts, caption), nil
}

// PlotNode charts the value at space node j across the retained layers.
func PlotNode(s *storage.Surface, j int, opts PlotOptions) (string, error) {
	if j < 0 || j >= s.NumNodes() {
		return "", fmt.Errorf("node %d out of range [0, %d)", j, s.NumNodes())
	}
	if s.NumLayers() < 2 {
		return "", fmt.Errorf("node history needs at least 2 layers, have %d", s.NumLayers())
	}
	opts = opts.withDefaults()
	caption := fmt.Sprintf("V(t, x=%.4g)  t in [%.4g, %.4g]", s.Space[j], s.Times[0], s.Times[s.NumLayers()-1])
	return plot(s.Node(j), opts, caption), nil
}

func plot(data []float64, opts PlotOptions, caption string) string {
	clean := make([]float64, len(data))
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		clean[i] = v
	}
	return asciigraph.Plot(clean,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption),
	)
}
