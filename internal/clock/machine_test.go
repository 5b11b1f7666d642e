package clock

import (
	"image"
	"testing"
	"time"

	_ "time/tzdata"

	"github.com/rs/zerolog"

	"github.com/photonicat/region_clock/internal/canvas"
	"github.com/photonicat/region_clock/internal/input"
	"github.com/photonicat/region_clock/internal/menu"
	"github.com/photonicat/region_clock/internal/region"
	"github.com/photonicat/region_clock/internal/sensors"
)

type drawCall struct {
	text  string
	at    image.Point
	style canvas.Style
}

type fakeSurface struct {
	calls  []drawCall
	gauges []uint8
	graphs [][]uint8
}

func (f *fakeSurface) Clear() { f.calls = nil; f.gauges = nil; f.graphs = nil }
func (f *fakeSurface) Bounds() image.Rectangle { return image.Rect(0, 0, 128, 64) }
func (f *fakeSurface) Present() error { return nil }

func (f *fakeSurface) DrawText(text string, at image.Point, style canvas.Style) {
	f.calls = append(f.calls, drawCall{text, at, style})
}

func (f *fakeSurface) DrawGauge(level uint8, at image.Point) {
	f.gauges = append(f.gauges, level)
}

func (f *fakeSurface) DrawGraph(levels []uint8, r image.Rectangle) {
	f.graphs = append(f.graphs, levels)
}

func (f *fakeSurface) texts() []string {
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.text
	}
	return out
}

func (f *fakeSurface) selected() []string {
	var out []string
	for _, c := range f.calls {
		if c.style.Role == canvas.Selected {
			out = append(out, c.text)
		}
	}
	return out
}

func newMachine(t *testing.T, every int, now time.Time) *Machine {
	t.Helper()
	cat := region.NewCatalog([]string{
		"America/New_York",
		"America/Argentina/Buenos_Aires",
		"Europe/Paris",
		"Europe/Berlin",
		"Asia/Tokyo",
	})
	return New(menu.New(cat), Config{
		InputPollFrames: every,
		Now:             func() time.Time { return now },
	}, zerolog.Nop())
}

// step runs one frame on a cleared surface with the given buttons held.
func step(m *Machine, s *fakeSurface, buttons ...input.Button) State {
	s.Clear()
	return m.Step(s, sensors.Snapshot{Buttons: input.SetOf(buttons...), Brightness: 200})
}

func TestRegionSelectDrawsHeadingAndRows(t *testing.T) {
	m := newMachine(t, 1, time.Time{})
	s := &fakeSurface{}

	if st := step(m, s); st.Kind != RegionSelect {
		t.Fatalf("state = %v; want region_select", st.Kind)
	}
	got := s.texts()
	want := []string{"Region:", "America", "Asia", "Europe"}
	if len(got) != len(want) {
		t.Fatalf("drew %q; want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q; want %q", i, got[i], want[i])
		}
	}
	if sel := s.selected(); len(sel) != 1 || sel[0] != "America" {
		t.Errorf("selected = %q; want [America]", sel)
	}
	if len(s.gauges) != 0 {
		t.Error("gauge drawn in region select")
	}
}

func TestInputPolledEveryNthFrame(t *testing.T) {
	m := newMachine(t, 5, time.Time{})
	s := &fakeSurface{}

	for i := 0; i < 4; i++ {
		step(m, s, input.Down)
		if vp := m.Navigator().Viewport(); vp.Country != 0 {
			t.Fatalf("frame %d moved the menu before the poll interval", i+1)
		}
	}
	step(m, s, input.Down)
	if vp := m.Navigator().Viewport(); vp.Country != 1 {
		t.Fatalf("Country = %d after 5 frames; want 1", vp.Country)
	}
	if sel := s.selected(); len(sel) != 1 || sel[0] != "Asia" {
		t.Errorf("selected = %q; want [Asia]", sel)
	}
}

func TestSelectCityEntersTime(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	m := newMachine(t, 1, now)
	s := &fakeSurface{}

	step(m, s, input.Down, input.Down) // Down twice in one set is one press
	step(m, s, input.Down)             // Europe
	step(m, s, input.Right)
	if lvl := m.Navigator().Level(); lvl != menu.CityLevel {
		t.Fatalf("level = %v; want city", lvl)
	}
	if got := s.texts(); got[0] != "City:" || got[1] != "Berlin" {
		t.Errorf("city menu drew %q; want City: then Berlin", got)
	}

	st := step(m, s, input.Right) // Berlin
	if st.Kind != Time || st.Region != "Europe/Berlin" {
		t.Fatalf("state = %+v; want time in Europe/Berlin", st)
	}
	got := s.texts()
	if len(got) < 2 || got[0] != "Berlin" || got[1] != "13:00:00" {
		t.Errorf("time view drew %q; want Berlin 13:00:00", got)
	}
	if len(s.gauges) != 1 || s.gauges[0] != 200 {
		t.Errorf("gauges = %v; want [200]", s.gauges)
	}

	// Time ignores buttons.
	if st := step(m, s, input.Left); st.Kind != Time {
		t.Errorf("Left left the time view")
	}
}

func TestNestedCityName(t *testing.T) {
	now := time.Date(2024, 7, 1, 15, 4, 5, 0, time.UTC)
	m := newMachine(t, 1, now)
	s := &fakeSurface{}

	step(m, s, input.Right) // America
	st := step(m, s, input.Right)
	if st.Region != "America/Argentina/Buenos_Aires" {
		t.Fatalf("region = %q", st.Region)
	}
	got := s.texts()
	if got[0] != "Argentina/Buenos Aires" || got[1] != "12:04:05" {
		t.Errorf("time view drew %q", got)
	}
}

func TestUnknownZoneFallsBackToUTC(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC)
	m := New(menu.New(region.NewCatalog([]string{"Nowhere/Atlantis"})), Config{
		InputPollFrames: 1,
		Now:             func() time.Time { return now },
	}, zerolog.Nop())
	s := &fakeSurface{}

	step(m, s, input.Right)
	st := step(m, s, input.Right)
	if st.Kind != Time {
		t.Fatalf("state = %v; want time", st.Kind)
	}
	if got := s.texts()[1]; got != "08:30:00" {
		t.Errorf("clock = %q; want UTC 08:30:00", got)
	}
}

type fixedTrend []uint8

func (f fixedTrend) Levels() []uint8 { return f }

func TestTimeViewPlotsTrend(t *testing.T) {
	m := New(menu.New(region.NewCatalog([]string{"Asia/Tokyo"})), Config{
		InputPollFrames: 1,
		Trend:           fixedTrend{1, 2, 3},
	}, zerolog.Nop())
	s := &fakeSurface{}

	step(m, s, input.Right)
	if len(s.graphs) != 0 {
		t.Error("trend plotted in region select")
	}
	step(m, s, input.Right)
	if len(s.graphs) != 1 || len(s.graphs[0]) != 3 {
		t.Errorf("graphs = %v; want one plot of 3 levels", s.graphs)
	}
}
