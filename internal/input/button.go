// Package input holds the logical joystick buttons and the sources that
// produce them besides the I2C expander.
package input

import (
	"fmt"
	"strings"
)

// Button is one logical control on the joystick board.
type Button uint8

const (
	None Button = iota
	Up
	Down
	Left
	Right
	Select
)

// All lists the real buttons in the order ButtonSet.Buttons reports them.
var All = []Button{Up, Down, Left, Right, Select}

var buttonNames = map[Button]string{
	None:   "none",
	Up:     "up",
	Down:   "down",
	Left:   "left",
	Right:  "right",
	Select: "select",
}

func (b Button) String() string {
	if name, ok := buttonNames[b]; ok {
		return name
	}
	return fmt.Sprintf("button(%d)", uint8(b))
}

// ParseButton accepts the lower-case names used in config files and the
// preview API.
func ParseButton(s string) (Button, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for b, name := range buttonNames {
		if name == s {
			return b, nil
		}
	}
	return None, fmt.Errorf("unknown button %q", s)
}

// ButtonSet is the set of buttons held during one poll cycle. The zero value
// is the empty set.
type ButtonSet uint8

// SetOf builds a set from buttons; None is ignored.
func SetOf(buttons ...Button) ButtonSet {
	var s ButtonSet
	for _, b := range buttons {
		s = s.Add(b)
	}
	return s
}

func (s ButtonSet) Add(b Button) ButtonSet {
	if b == None || b > Select {
		return s
	}
	return s | 1<<(b-1)
}

func (s ButtonSet) Has(b Button) bool {
	if b == None || b > Select {
		return false
	}
	return s&(1<<(b-1)) != 0
}

func (s ButtonSet) Empty() bool { return s == 0 }

func (s ButtonSet) Len() int {
	n := 0
	for _, b := range All {
		if s.Has(b) {
			n++
		}
	}
	return n
}

// Buttons returns the members in a fixed order: Up, Down, Left, Right, Select.
func (s ButtonSet) Buttons() []Button {
	out := make([]Button, 0, len(All))
	for _, b := range All {
		if s.Has(b) {
			out = append(out, b)
		}
	}
	return out
}

// Names is the JSON-friendly form of the set.
func (s ButtonSet) Names() []string {
	names := make([]string, 0, len(All))
	for _, b := range s.Buttons() {
		names = append(names, b.String())
	}
	return names
}

func (s ButtonSet) String() string {
	return "{" + strings.Join(s.Names(), ",") + "}"
}
