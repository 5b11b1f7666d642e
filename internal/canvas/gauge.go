package canvas

import (
	"bytes"
	"fmt"
	"image"
	"sync"

	svg "github.com/ajstarks/svgo"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const (
	gaugeBars      = 4
	gaugeBarWidth  = 3
	gaugeBarSpace  = 1
	gaugeBarHeight = 8
	gaugeMinHeight = 2
)

// GaugeSize is the pixel size of the rendered gauge.
var GaugeSize = image.Pt(gaugeBars*gaugeBarWidth+(gaugeBars-1)*gaugeBarSpace, gaugeBarHeight+gaugeMinHeight)

// GaugeBars maps a 0..255 brightness level to the number of lit bars.
func GaugeBars(level uint8) int {
	return (int(level)*gaugeBars + 254) / 255
}

// gaugeSVG draws lit bars white and the rest grey, rising left to right.
func gaugeSVG(lit int) []byte {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(GaugeSize.X, GaugeSize.Y, 0, 0, GaugeSize.X, GaugeSize.Y)
	grey := fmt.Sprintf("fill:#%02X%02X%02X", Grey.R, Grey.G, Grey.B)
	for i := 0; i < gaugeBars; i++ {
		h := gaugeBarHeight/gaugeBars*(i+1) + gaugeMinHeight
		style := grey
		if i < lit {
			style = "fill:white"
		}
		canvas.Roundrect(i*(gaugeBarWidth+gaugeBarSpace), GaugeSize.Y-h, gaugeBarWidth, h, 1, 1, style)
	}
	canvas.End()
	return buf.Bytes()
}

func rasterise(svgData []byte, w, h int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return img, nil
}

// gaugeCache keeps one rendered image per bar count.
type gaugeCache struct {
	mu     sync.Mutex
	images map[int]*image.RGBA
}

func newGaugeCache() *gaugeCache {
	return &gaugeCache{images: make(map[int]*image.RGBA)}
}

func (c *gaugeCache) get(level uint8) (*image.RGBA, error) {
	lit := GaugeBars(level)
	c.mu.Lock()
	defer c.mu.Unlock()
	if img, ok := c.images[lit]; ok {
		return img, nil
	}
	img, err := rasterise(gaugeSVG(lit), GaugeSize.X, GaugeSize.Y)
	if err != nil {
		return nil, fmt.Errorf("gauge %d bars: %w", lit, err)
	}
	c.images[lit] = img
	return img, nil
}
