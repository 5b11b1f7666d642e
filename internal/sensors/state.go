// Package sensors is the publish point between the peripheral poll loops and
// the render loop.
package sensors

import (
	"sync/atomic"

	"github.com/photonicat/region_clock/internal/input"
)

// State holds the latest brightness and the latest button set. Each field is
// replaced atomically on its own; nothing ties the two together, and a reader
// may see a brightness from one cycle next to buttons from another.
type State struct {
	brightness atomic.Uint32
	buttons    atomic.Uint32

	brightnessWrites atomic.Uint64
	buttonWrites     atomic.Uint64
}

// Snapshot is what the render loop reads once per frame.
type Snapshot struct {
	Brightness       uint8
	Buttons          input.ButtonSet
	BrightnessWrites uint64
	ButtonWrites     uint64
}

func (s *State) PublishBrightness(v uint8) {
	s.brightness.Store(uint32(v))
	s.brightnessWrites.Add(1)
}

func (s *State) Brightness() uint8 {
	return uint8(s.brightness.Load())
}

// PublishButtons replaces the previous set; sets are never merged.
func (s *State) PublishButtons(set input.ButtonSet) {
	s.buttons.Store(uint32(set))
	s.buttonWrites.Add(1)
}

func (s *State) Buttons() input.ButtonSet {
	return input.ButtonSet(s.buttons.Load())
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Brightness:       s.Brightness(),
		Buttons:          s.Buttons(),
		BrightnessWrites: s.brightnessWrites.Load(),
		ButtonWrites:     s.buttonWrites.Load(),
	}
}
