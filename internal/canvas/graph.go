package canvas

import (
	"image"
	"image/color"

	"github.com/llgcode/draw2d/draw2dimg"
)

var (
	graphAxis = color.RGBA{80, 80, 80, 255}
	graphLine = color.RGBA{255, 255, 100, 255}
)

// GraphDrawer is implemented by surfaces that can plot the light history.
type GraphDrawer interface {
	DrawGraph(levels []uint8, r image.Rectangle)
}

// graphPoints maps levels (0..255, oldest first) onto r, oldest at the left
// edge and 255 at the top.
func graphPoints(levels []uint8, r image.Rectangle) []image.Point {
	if len(levels) < 2 || r.Dx() < 2 || r.Dy() < 2 {
		return nil
	}
	w, h := r.Dx()-1, r.Dy()-1
	pts := make([]image.Point, len(levels))
	for i, l := range levels {
		pts[i] = image.Pt(
			r.Min.X+i*w/(len(levels)-1),
			r.Max.Y-1-int(l)*h/255,
		)
	}
	return pts
}

// DrawGraph plots levels as a line over a baseline. With fewer than two
// levels only the baseline is drawn.
func (fb *Framebuffer) DrawGraph(levels []uint8, r image.Rectangle) {
	r = r.Intersect(fb.Bounds())
	if r.Empty() {
		return
	}
	gc := draw2dimg.NewGraphicContext(fb.backBuffer())
	gc.SetLineWidth(1)

	gc.SetStrokeColor(graphAxis)
	gc.MoveTo(float64(r.Min.X), float64(r.Max.Y-1))
	gc.LineTo(float64(r.Max.X-1), float64(r.Max.Y-1))
	gc.Stroke()

	pts := graphPoints(levels, r)
	if pts == nil {
		return
	}
	gc.SetStrokeColor(graphLine)
	gc.MoveTo(float64(pts[0].X), float64(pts[0].Y))
	for _, p := range pts[1:] {
		gc.LineTo(float64(p.X), float64(p.Y))
	}
	gc.Stroke()
}
