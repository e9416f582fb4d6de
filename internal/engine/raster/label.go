package raster

import (
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// labelFace is the fixed-size face used for all labels.
var labelFace = basicfont.Face7x13

// drawLabel draws text centered on pos.
func drawLabel(dst *image.RGBA, pos mgl64.Vec2, text string, c color.NRGBA) {
	if text == "" || !finite(pos[0], pos[1]) {
		return
	}
	width := font.MeasureString(labelFace, text)
	m := labelFace.Metrics()
	x := fixed.Int26_6(pos[0]*64) - width/2
	y := fixed.Int26_6(pos[1]*64) + (m.Ascent-m.Descent)/2

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: labelFace,
		Dot:  fixed.Point26_6{X: x, Y: y},
	}
	d.DrawString(text)
}
