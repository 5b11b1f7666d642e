// Package clock is the top-level display state machine: pick a region, then
// show the time there.
package clock

import (
	"image"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/photonicat/region_clock/internal/canvas"
	"github.com/photonicat/region_clock/internal/menu"
	"github.com/photonicat/region_clock/internal/region"
	"github.com/photonicat/region_clock/internal/sensors"
)

// DefaultInputPollFrames samples the buttons every 5th frame so a held
// button does not fire once per frame.
const DefaultInputPollFrames = 5

type Kind int

const (
	RegionSelect Kind = iota
	Time
)

func (k Kind) String() string {
	if k == Time {
		return "time"
	}
	return "region_select"
}

// State is the active state plus the region carried into Time.
type State struct {
	Kind   Kind
	Region region.ID
}

// Trend supplies the recent brightness levels, oldest first.
type Trend interface {
	Levels() []uint8
}

type Config struct {
	InputPollFrames int
	// Now defaults to time.Now.
	Now func() time.Time
	// Trend is optional; when set the time view plots it.
	Trend Trend
}

type Machine struct {
	state      State
	nav        *menu.Navigator
	pollEvery  int
	sinceInput int
	loc        *time.Location
	now        func() time.Time
	trend      Trend
	log        zerolog.Logger
}

func New(nav *menu.Navigator, cfg Config, log zerolog.Logger) *Machine {
	if cfg.InputPollFrames <= 0 {
		cfg.InputPollFrames = DefaultInputPollFrames
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Machine{
		state:     State{Kind: RegionSelect},
		nav:       nav,
		pollEvery: cfg.InputPollFrames,
		now:       cfg.Now,
		trend:     cfg.Trend,
		log:       log,
	}
}

func (m *Machine) State() State { return m.state }

// Navigator exposes the menu for status reporting.
func (m *Machine) Navigator() *menu.Navigator { return m.nav }

// Step runs one frame: it handles input for the active state, draws that
// state onto s, and returns the state for the next frame. It does not
// present the surface.
func (m *Machine) Step(s canvas.Surface, snap sensors.Snapshot) State {
	switch m.state.Kind {
	case RegionSelect:
		if id, ok := m.pollMenu(snap); ok {
			m.enterTime(id)
			m.drawTime(s, snap)
			return m.state
		}
		m.drawRegionSelect(s)
	case Time:
		m.drawTime(s, snap)
	}
	return m.state
}

func (m *Machine) pollMenu(snap sensors.Snapshot) (region.ID, bool) {
	m.sinceInput++
	if m.sinceInput < m.pollEvery {
		return "", false
	}
	m.sinceInput = 0
	return m.nav.HandleButtons(snap.Buttons)
}

func (m *Machine) enterTime(id region.ID) {
	loc, err := id.Location()
	if err != nil {
		m.log.Error().Err(err).Str("region", string(id)).Msg("timezone not loadable, showing UTC")
		loc = time.UTC
	}
	m.loc = loc
	m.state = State{Kind: Time, Region: id}
	m.log.Info().Str("region", string(id)).Msg("region selected")
}

// rowHeight splits the surface into a heading line and menu.WindowSize rows.
func rowHeight(s canvas.Surface) int {
	return s.Bounds().Dy() / (menu.WindowSize + 1)
}

func (m *Machine) drawRegionSelect(s canvas.Surface) {
	rh := rowHeight(s)
	heading := "Region:"
	if m.nav.Level() == menu.CityLevel {
		heading = "City:"
	}
	s.DrawText(heading, image.Pt(1, 1), canvas.Style{Role: canvas.Heading})

	for i, row := range m.nav.VisibleRows() {
		y := rh * (i + 1)
		style := canvas.Style{Role: canvas.Regular}
		x := 5
		if row.Selected {
			style.Role = canvas.Selected
			x = 3
		}
		s.DrawText(displayName(row.Label), image.Pt(x, y), style)
	}
}

func (m *Machine) drawTime(s canvas.Surface, snap sensors.Snapshot) {
	b := s.Bounds()
	rh := rowHeight(s)
	now := m.now().In(m.loc)

	s.DrawText(displayName(m.state.Region.City()), image.Pt(1, 1), canvas.Style{Role: canvas.Heading})
	s.DrawText(now.Format("15:04:05"), image.Pt(b.Dx()/2, rh+rh/2), canvas.Style{Role: canvas.Clock, Align: canvas.AlignCenter})
	s.DrawText(now.Format("Mon 02 Jan"), image.Pt(b.Dx()/2, b.Dy()-rh), canvas.Style{Role: canvas.Regular, Align: canvas.AlignCenter})

	if g, ok := s.(canvas.GaugeDrawer); ok {
		g.DrawGauge(snap.Brightness, image.Pt(b.Dx()-canvas.GaugeSize.X-1, 1))
	}
	if g, ok := s.(canvas.GraphDrawer); ok && m.trend != nil {
		g.DrawGraph(m.trend.Levels(), image.Rect(4, 2*rh+rh/4, b.Dx()-4, b.Dy()-rh-4))
	}
}

// displayName turns zone path segments like "Buenos_Aires" into display text.
func displayName(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}
