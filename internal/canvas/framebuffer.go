package canvas

import (
	"image"
	"image/draw"
	"math"
	"sync"

	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/rs/zerolog"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Framebuffer is a double-buffered RGBA surface. Drawing goes to the back
// buffer; Present swaps the buffers and pushes the new front buffer to every
// panel.
type Framebuffer struct {
	mu      sync.RWMutex
	buffers [2]*image.RGBA
	back    int
	frames  uint64

	faces  Faces
	panels []Panel
	gauges *gaugeCache
	log    zerolog.Logger
}

func NewFramebuffer(width, height int, faces Faces, log zerolog.Logger, panels ...Panel) *Framebuffer {
	fb := &Framebuffer{
		faces:  faces,
		panels: panels,
		gauges: newGaugeCache(),
		log:    log,
	}
	for i := range fb.buffers {
		fb.buffers[i] = image.NewRGBA(image.Rect(0, 0, width, height))
		clearFrame(fb.buffers[i])
	}
	return fb
}

func clearFrame(frame *image.RGBA) {
	draw.Draw(frame, frame.Bounds(), image.NewUniform(Black), image.Point{}, draw.Src)
}

func (fb *Framebuffer) backBuffer() *image.RGBA {
	return fb.buffers[fb.back]
}

func (fb *Framebuffer) Bounds() image.Rectangle {
	return fb.backBuffer().Bounds()
}

func (fb *Framebuffer) Clear() {
	clearFrame(fb.backBuffer())
}

// LineHeight is the pixel height of text drawn with role.
func (fb *Framebuffer) LineHeight(role Role) int {
	return FontHeight(fb.faces.face(role))
}

func (fb *Framebuffer) DrawText(text string, pos image.Point, style Style) {
	face := fb.faces.face(style.Role)
	d := &font.Drawer{
		Dst:  fb.backBuffer(),
		Src:  image.NewUniform(roleColors[style.Role]),
		Face: face,
	}
	metrics := face.Metrics()
	width := d.MeasureString(text).Round()

	x := pos.X
	if style.Align == AlignCenter {
		x = pos.X - width/2
	}
	if style.Role == Selected {
		fb.highlight(x, pos.Y, width, metrics.Ascent.Round()+metrics.Descent.Round())
	}
	d.Dot = fixed.P(x, pos.Y+metrics.Ascent.Round())
	d.DrawString(text)
}

// highlight draws the rounded bar behind the selected menu row.
func (fb *Framebuffer) highlight(x, y, w, h int) {
	gc := draw2dimg.NewGraphicContext(fb.backBuffer())
	gc.SetFillColor(Grey)
	drawRoundedRect(gc, float64(x-2), float64(y-1), float64(w+4), float64(h+2), 2)
	gc.Fill()
}

func drawRoundedRect(gc *draw2dimg.GraphicContext, x, y, w, h, r float64) {
	gc.MoveTo(x+r, y)
	gc.LineTo(x+w-r, y)
	gc.ArcTo(x+w-r, y+r, r, r, -math.Pi/2, math.Pi/2)
	gc.LineTo(x+w, y+h-r)
	gc.ArcTo(x+w-r, y+h-r, r, r, 0, math.Pi/2)
	gc.LineTo(x+r, y+h)
	gc.ArcTo(x+r, y+h-r, r, r, math.Pi/2, math.Pi/2)
	gc.LineTo(x, y+r)
	gc.ArcTo(x+r, y+r, r, r, math.Pi, math.Pi/2)
	gc.Close()
}

// DrawGauge composites the brightness bars with their top-left corner at at.
func (fb *Framebuffer) DrawGauge(level uint8, at image.Point) {
	icon, err := fb.gauges.get(level)
	if err != nil {
		fb.log.Warn().Err(err).Msg("gauge render failed")
		return
	}
	r := icon.Bounds().Add(at)
	draw.Draw(fb.backBuffer(), r, icon, image.Point{}, draw.Over)
}

// Present makes the back buffer visible and pushes it to the panels. A
// failing panel is logged and does not stop the others.
func (fb *Framebuffer) Present() error {
	fb.mu.Lock()
	front := fb.back
	fb.back = 1 - fb.back
	fb.frames++
	fb.mu.Unlock()

	fb.mu.RLock()
	defer fb.mu.RUnlock()
	var firstErr error
	for _, p := range fb.panels {
		if err := p.Show(fb.buffers[front]); err != nil {
			fb.log.Warn().Err(err).Msg("panel update failed")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Frame returns a copy of the last presented frame.
func (fb *Framebuffer) Frame() *image.RGBA {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	front := fb.buffers[1-fb.back]
	out := image.NewRGBA(front.Bounds())
	copy(out.Pix, front.Pix)
	return out
}

// Frames counts presented frames.
func (fb *Framebuffer) Frames() uint64 {
	fb.mu.RLock()
	defer fb.mu.RUnlock()
	return fb.frames
}
