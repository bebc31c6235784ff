package export

import (
	"image"
	"image/color"
	"image/gif"
	"io"

	"github.com/san-kum/fdpde/internal/storage"
	"github.com/san-kum/fdpde/internal/viz"
)

var frameColor = color.RGBA{0, 255, 255, 255}

// AnimateGIF writes one frame per selected layer. Each frame overlays the
// initial layer with the current one on a Braille canvas of cols x rows
// characters. The value axis spans every layer so it stays fixed.
func AnimateGIF(w io.Writer, s *storage.Surface, layers []int, cols, rows, delay int) error {
	if err := checkLayers(s, layers); err != nil {
		return err
	}

	lo, hi := viz.ValueRange(s.Values...)
	anim := &gif.GIF{LoopCount: 0}
	for _, p := range layers {
		c := viz.NewCanvas(cols, rows)
		c.PlotCurvesIn(s.Space, lo, hi, s.Values[0], s.Values[p])
		anim.Image = append(anim.Image, c.Frame(8, 16, frameColor))
		anim.Delay = append(anim.Delay, delay)
	}
	anim.Config = image.Config{
		ColorModel: anim.Image[0].Palette,
		Width:      cols * 8,
		Height:     rows * 16,
	}
	return gif.EncodeAll(w, anim)
}
