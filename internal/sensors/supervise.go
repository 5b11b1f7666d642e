package sensors

import (
	"runtime/debug"

	"github.com/rs/zerolog"
)

// Supervise runs a poll loop and contains a panic inside it. A crashed loop
// is logged and stays down: its field in State freezes at the last published
// value while the render loop keeps going.
func Supervise(log zerolog.Logger, name string, loop func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("loop", name).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("poll loop crashed, input frozen")
		}
	}()
	loop()
	log.Info().Str("loop", name).Msg("poll loop stopped")
}
