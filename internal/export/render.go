package export

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/san-kum/fdpde/internal/storage"
)

// RenderLayers plots the selected layers of s against space and saves the
// figure to path. The format follows the extension (.png, .svg, .pdf, ...).
func RenderLayers(path, title string, s *storage.Surface, layers []int, width, height vg.Length) error {
	if err := checkLayers(s, layers); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "V"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for n, i := range layers {
		pts := make(plotter.XYs, s.NumNodes())
		for j := range pts {
			pts[j].X = s.Space[j]
			pts[j].Y = s.Values[i][j]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("export: layer %d: %w", i, err)
		}
		line.Color = plotutil.Color(n)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("t=%.4g", s.Times[i]), line)
	}

	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("export: saving %s: %w", path, err)
	}
	return nil
}
