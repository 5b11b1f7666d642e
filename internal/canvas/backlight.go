package canvas

import (
	"os"
	"strconv"
	"sync"

	"github.com/rs/zerolog"
)

const DefaultBacklightPath = "/sys/class/backlight/backlight/brightness"

// minBacklight keeps the screen readable in a dark room.
const minBacklight = 10

// Backlight drives the panel backlight from the ambient light level.
type Backlight struct {
	mu   sync.Mutex
	path string
	last int
	log  zerolog.Logger
}

// NewBacklight returns nil for an empty path; a nil Backlight ignores updates.
func NewBacklight(path string, log zerolog.Logger) *Backlight {
	if path == "" {
		return nil
	}
	return &Backlight{path: path, last: -1, log: log}
}

// Percent maps a 0..255 ambient level onto minBacklight..100.
func Percent(level uint8) int {
	return minBacklight + int(level)*(100-minBacklight)/255
}

// Follow sets the backlight for an ambient level.
func (b *Backlight) Follow(level uint8) {
	b.Set(Percent(level))
}

// Set writes brightness (clamped to 0..100) unless it is unchanged.
func (b *Backlight) Set(brightness int) {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case brightness < 0:
		brightness = 0
	case brightness > 100:
		brightness = 100
	}
	if brightness == b.last {
		return
	}

	if err := os.WriteFile(b.path, []byte(strconv.Itoa(brightness)), 0644); err != nil {
		b.log.Warn().Err(err).Str("path", b.path).Msg("backlight write error")
		return
	}
	b.last = brightness
	b.log.Debug().Int("brightness", brightness).Msg("backlight set")
}
