package input

import (
	"context"
	"errors"
	"fmt"
	"time"

	evdev "github.com/holoplot/go-evdev"
	"github.com/rs/zerolog"
)

var ErrNoDevice = errors.New("input: no such evdev device")

// KeyMap maps evdev key codes to buttons.
var KeyMap = map[evdev.EvCode]Button{
	evdev.KEY_UP:    Up,
	evdev.KEY_DOWN:  Down,
	evdev.KEY_LEFT:  Left,
	evdev.KEY_RIGHT: Right,
	evdev.KEY_ENTER: Select,
	evdev.KEY_SPACE: Select,
}

// Keys tracks which mapped keys are held.
type Keys struct {
	held ButtonSet
}

// Apply folds one input event into the held set and reports whether the set
// changed. Autorepeat (value 2) counts as held.
func (k *Keys) Apply(ev evdev.InputEvent) bool {
	if ev.Type != evdev.EV_KEY {
		return false
	}
	b, ok := KeyMap[ev.Code]
	if !ok {
		return false
	}
	prev := k.held
	switch ev.Value {
	case 0:
		k.held &^= SetOf(b)
	default:
		k.held = k.held.Add(b)
	}
	return k.held != prev
}

func (k *Keys) Held() ButtonSet { return k.held }

// Keyboard reads an evdev device and publishes the held buttons.
type Keyboard struct {
	dev  *evdev.InputDevice
	path string
	pub  Publisher
	log  zerolog.Logger
}

// FindDevice returns the path of the first input device called name.
func FindDevice(name string) (string, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return "", fmt.Errorf("input: list devices: %w", err)
	}
	for _, p := range paths {
		if p.Name == name {
			return p.Path, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNoDevice, name)
}

// OpenKeyboard opens and grabs the named device.
func OpenKeyboard(name string, pub Publisher, log zerolog.Logger) (*Keyboard, error) {
	path, err := FindDevice(name)
	if err != nil {
		return nil, err
	}
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("input: open %s: %w", path, err)
	}
	if err := dev.Grab(); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to grab input device")
	}
	log.Info().Str("path", path).Str("name", name).Msg("using input device")
	return &Keyboard{dev: dev, path: path, pub: pub, log: log}, nil
}

// Run reads events until ctx is done. ReadOne blocks, so Run closes the
// device on cancellation to unblock it.
func (k *Keyboard) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		k.dev.Ungrab()
		k.dev.Close()
	}()

	var keys Keys
	for {
		ev, err := k.dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			k.log.Debug().Err(err).Str("path", k.path).Msg("read error")
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if keys.Apply(*ev) {
			k.pub.PublishButtons(keys.Held())
		}
	}
}
