// Package menu is the two-level country/city picker: selection indices, the
// three-row viewport and the level being browsed. It never blocks and never
// draws.
package menu

import (
	"github.com/photonicat/region_clock/internal/input"
	"github.com/photonicat/region_clock/internal/region"
)

// WindowSize is the number of list rows visible at once.
const WindowSize = 3

type Level int

const (
	CountryLevel Level = iota
	CityLevel
)

func (l Level) String() string {
	if l == CityLevel {
		return "city"
	}
	return "country"
}

// Viewport is the whole navigation state. Country and City always index
// into their lists while those lists are non-empty.
type Viewport struct {
	Level   Level
	Country int
	City    int
}

// Row is one visible menu line.
type Row struct {
	Index    int
	Label    string
	Selected bool
}

type Navigator struct {
	catalog *region.Catalog
	vp      Viewport
}

func New(catalog *region.Catalog) *Navigator {
	return &Navigator{catalog: catalog}
}

func (n *Navigator) Viewport() Viewport { return n.vp }

func (n *Navigator) Level() Level { return n.vp.Level }

// Country is the highlighted (or entered) country, empty for an empty catalog.
func (n *Navigator) Country() string {
	countries := n.catalog.Countries()
	if len(countries) == 0 {
		return ""
	}
	return countries[n.vp.Country]
}

func (n *Navigator) cities() []string {
	return n.catalog.Cities(n.Country())
}

// list returns the list being browsed and a pointer to its index.
func (n *Navigator) list() ([]string, *int) {
	if n.vp.Level == CityLevel {
		return n.cities(), &n.vp.City
	}
	return n.catalog.Countries(), &n.vp.Country
}

// HandleButton applies one button. It returns the resolved region and true
// when Right confirms a city.
func (n *Navigator) HandleButton(b input.Button) (region.ID, bool) {
	switch b {
	case input.Down:
		items, idx := n.list()
		if *idx < len(items)-1 {
			*idx++
		}
	case input.Up:
		_, idx := n.list()
		if *idx > 0 {
			*idx--
		}
	case input.Left:
		// City index is kept so coming back resumes where the user was.
		n.vp.Level = CountryLevel
	case input.Right:
		cities := n.cities()
		if len(cities) == 0 {
			return "", false
		}
		n.vp.City = clamp(n.vp.City, len(cities))
		if n.vp.Level == CountryLevel {
			n.vp.Level = CityLevel
			return "", false
		}
		return n.catalog.Resolve(n.Country(), cities[n.vp.City])
	}
	return "", false
}

// HandleButtons applies every button of one poll in the order Up, Down,
// Left, Right, Select and stops at the first confirmed selection.
func (n *Navigator) HandleButtons(set input.ButtonSet) (region.ID, bool) {
	for _, b := range set.Buttons() {
		if id, ok := n.HandleButton(b); ok {
			return id, true
		}
	}
	return "", false
}

// VisibleRows returns the window around the active index of the browsed
// list. Lists shorter than WindowSize show every entry once and nothing else.
func (n *Navigator) VisibleRows() []Row {
	items, idx := n.list()
	start, end := Window(len(items), *idx)
	rows := make([]Row, 0, end-start)
	for i := start; i < end; i++ {
		rows = append(rows, Row{Index: i, Label: items[i], Selected: i == *idx})
	}
	return rows
}

// Window returns the half-open index range [start, end) shown for a list of
// length items with active highlighted: centred on active, pinned to the
// first or last WindowSize entries at the edges.
func Window(length, active int) (start, end int) {
	if length <= 0 {
		return 0, 0
	}
	if length <= WindowSize {
		return 0, length
	}
	active = clamp(active, length)
	start = active - WindowSize/2
	if start < 0 {
		start = 0
	}
	if start > length-WindowSize {
		start = length - WindowSize
	}
	return start, start + WindowSize
}

// clamp keeps i within [0, length-1]; length must be positive.
func clamp(i, length int) int {
	if i >= length {
		return length - 1
	}
	if i < 0 {
		return 0
	}
	return i
}
