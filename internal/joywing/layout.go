package joywing

import (
	"fmt"

	"github.com/photonicat/region_clock/internal/input"
)

// Layout maps each logical button to its expander pin and fixes the decode
// polarity. Board revisions disagree on both, so neither is baked into the
// driver.
type Layout struct {
	Pins map[input.Button]uint8
	// ActiveLow means a pressed button pulls its pin to ground, the wiring
	// that goes with the pull-ups configured at init.
	ActiveLow bool
}

// DefaultLayout is the Adafruit Joy FeatherWing pinout.
func DefaultLayout() Layout {
	return Layout{
		Pins: map[input.Button]uint8{
			input.Right:  6,
			input.Down:   7,
			input.Left:   9,
			input.Up:     10,
			input.Select: 14,
		},
		ActiveLow: true,
	}
}

// Validate checks that all five buttons own exactly one distinct pin each.
func (l Layout) Validate() error {
	seen := make(map[uint8]input.Button, len(l.Pins))
	for _, b := range input.All {
		pin, ok := l.Pins[b]
		if !ok {
			return fmt.Errorf("joywing: no pin for button %s", b)
		}
		if pin > 31 {
			return fmt.Errorf("joywing: pin %d for button %s out of range 0..31", pin, b)
		}
		if other, dup := seen[pin]; dup {
			return fmt.Errorf("joywing: pin %d shared by %s and %s", pin, other, b)
		}
		seen[pin] = b
	}
	if len(l.Pins) != len(input.All) {
		return fmt.Errorf("joywing: %d pins mapped, want %d", len(l.Pins), len(input.All))
	}
	return nil
}

// Mask is the set of pins wired to buttons.
func (l Layout) Mask() uint32 {
	var m uint32
	for _, pin := range l.Pins {
		m |= 1 << pin
	}
	return m
}

// Decode turns a GPIO snapshot into the set of pressed buttons. Bits outside
// Mask are ignored.
func (l Layout) Decode(word uint32) input.ButtonSet {
	word &= l.Mask()
	var set input.ButtonSet
	for _, b := range input.All {
		pin, ok := l.Pins[b]
		if !ok {
			continue
		}
		high := word&(1<<pin) != 0
		if high != l.ActiveLow {
			set = set.Add(b)
		}
	}
	return set
}
