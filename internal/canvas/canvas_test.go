package canvas

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

type panelRecorder struct {
	frames []*image.RGBA
	err    error
}

func (p *panelRecorder) Show(frame *image.RGBA) error {
	p.frames = append(p.frames, frame)
	return p.err
}

func litPixels(img *image.RGBA) int {
	n := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 || img.Pix[i+1] != 0 || img.Pix[i+2] != 0 {
			n++
		}
	}
	return n
}

func TestDrawTextAndPresent(t *testing.T) {
	panel := &panelRecorder{}
	fb := NewFramebuffer(64, 32, Faces{}, zerolog.Nop(), panel)

	fb.DrawText("Region:", image.Pt(1, 1), Style{Role: Heading})
	if err := fb.Present(); err != nil {
		t.Fatalf("Present() err=%v", err)
	}
	if len(panel.frames) != 1 {
		t.Fatalf("panel got %d frames; want 1", len(panel.frames))
	}
	if litPixels(fb.Frame()) == 0 {
		t.Error("presented frame is blank")
	}

	// The old front buffer is now the back buffer; clearing it must not
	// touch the presented frame.
	fb.Clear()
	if litPixels(fb.Frame()) == 0 {
		t.Error("Clear() wiped the presented frame")
	}
	if fb.Frames() != 1 {
		t.Errorf("Frames() = %d; want 1", fb.Frames())
	}
}

func TestSelectedRowIsHighlighted(t *testing.T) {
	fb := NewFramebuffer(64, 32, Faces{}, zerolog.Nop())
	fb.DrawText("Paris", image.Pt(4, 10), Style{Role: Regular})
	fb.Present()
	regular := litPixels(fb.Frame())

	fb.Clear()
	fb.DrawText("Paris", image.Pt(4, 10), Style{Role: Selected})
	fb.Present()
	if sel := litPixels(fb.Frame()); sel <= regular {
		t.Errorf("selected row lit %d pixels, regular %d; want a highlight bar", sel, regular)
	}
}

func TestCenteredText(t *testing.T) {
	fb := NewFramebuffer(64, 32, Faces{}, zerolog.Nop())
	fb.DrawText("12:00", image.Pt(32, 0), Style{Role: Clock, Align: AlignCenter})
	fb.Present()
	frame := fb.Frame()

	minX, maxX := 64, -1
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			if frame.RGBAAt(x, y).R != 0 {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
			}
		}
	}
	if maxX < 0 {
		t.Fatal("nothing drawn")
	}
	if mid := (minX + maxX) / 2; mid < 29 || mid > 35 {
		t.Errorf("text centred at x=%d; want about 32", mid)
	}
}

func TestPresentReportsPanelError(t *testing.T) {
	bad := &panelRecorder{err: errors.New("spi gone")}
	good := &panelRecorder{}
	fb := NewFramebuffer(8, 8, Faces{}, zerolog.Nop(), bad, good)
	if err := fb.Present(); err == nil {
		t.Error("Present() swallowed panel error")
	}
	if len(good.frames) != 1 {
		t.Error("healthy panel skipped after another panel failed")
	}
}

func TestGauge(t *testing.T) {
	tests := []struct {
		level uint8
		bars  int
	}{
		{0, 0},
		{1, 1},
		{64, 2},
		{128, 3},
		{255, 4},
	}
	for _, tt := range tests {
		if got := GaugeBars(tt.level); got != tt.bars {
			t.Errorf("GaugeBars(%d) = %d; want %d", tt.level, got, tt.bars)
		}
	}

	fb := NewFramebuffer(32, 16, Faces{}, zerolog.Nop())
	fb.DrawGauge(255, image.Pt(0, 0))
	fb.Present()
	if litPixels(fb.Frame()) == 0 {
		t.Error("gauge drew nothing")
	}
	if len(fb.gauges.images) != 1 {
		t.Errorf("gauge cache holds %d images; want 1", len(fb.gauges.images))
	}
}

func TestBacklight(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brightness")
	b := NewBacklight(path, zerolog.Nop())

	b.Set(150)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "100" {
		t.Errorf("backlight = %s; want 100 (clamped)", data)
	}

	b.Follow(0)
	data, _ = os.ReadFile(path)
	if string(data) != "10" {
		t.Errorf("backlight = %s; want 10", data)
	}

	var off *Backlight
	off.Follow(255) // nil backlight is a no-op
	if NewBacklight("", zerolog.Nop()) != nil {
		t.Error("empty path should disable the backlight")
	}
}

func TestGraphPoints(t *testing.T) {
	r := image.Rect(10, 20, 21, 46) // 11 wide, 26 tall
	pts := graphPoints([]uint8{0, 255, 51}, r)
	want := []image.Point{{10, 45}, {15, 20}, {20, 40}}
	if len(pts) != len(want) {
		t.Fatalf("graphPoints() = %v; want %v", pts, want)
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Errorf("point %d = %v; want %v", i, pts[i], want[i])
		}
	}
	if graphPoints([]uint8{9}, r) != nil {
		t.Error("one sample should give no line")
	}
}

func TestDrawGraph(t *testing.T) {
	fb := NewFramebuffer(64, 32, Faces{}, zerolog.Nop())
	fb.DrawGraph(nil, image.Rect(0, 0, 64, 32))
	fb.Present()
	baseline := litPixels(fb.Frame())
	if baseline == 0 {
		t.Fatal("empty history drew no baseline")
	}

	fb.Clear()
	fb.DrawGraph([]uint8{0, 128, 255, 128, 0}, image.Rect(0, 0, 64, 32))
	fb.Present()
	if got := litPixels(fb.Frame()); got <= baseline {
		t.Errorf("graph lit %d pixels, baseline alone %d", got, baseline)
	}
}
