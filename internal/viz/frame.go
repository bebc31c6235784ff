package viz

import (
	"image"
	"image/color"
)

// Frame rasterises the canvas, drawing each Braille dot as a block of
// charW/2 x charH/4 pixels.
func (c *Canvas) Frame(charW, charH int, fg color.Color) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, c.Width*charW, c.Height*charH), color.Palette{color.Black, fg})
	dotW, dotH := charW/2, charH/4
	for y := 0; y < c.Height*4; y++ {
		for x := 0; x < c.Width*2; x++ {
			if !c.Lit(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	return img
}
