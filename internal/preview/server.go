// Package preview serves the rendered frame and the sensor state over HTTP
// and accepts virtual button presses, for running the clock without a panel.
package preview

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/photonicat/region_clock/internal/input"
	"github.com/photonicat/region_clock/internal/sensors"
)

// DefaultHold is how long a virtual press stays held. It must outlast one
// input poll interval or the press may be missed.
const DefaultHold = 250 * time.Millisecond

type FrameSource interface {
	Frame() *image.RGBA
	Frames() uint64
}

// Status is the render loop's view, published once per frame.
type Status struct {
	State   string `json:"state"`
	Region  string `json:"region,omitempty"`
	Level   string `json:"level,omitempty"`
	Country string `json:"country,omitempty"`
}

type stateResponse struct {
	Status
	Brightness       uint8    `json:"brightness"`
	Buttons          []string `json:"buttons"`
	BrightnessWrites uint64   `json:"brightness_writes"`
	ButtonWrites     uint64   `json:"button_writes"`
	Frames           uint64   `json:"frames"`
}

type inputRequest struct {
	Buttons []string `json:"buttons"`
}

type Server struct {
	app    *fiber.App
	frames FrameSource
	state  *sensors.State
	input  input.Publisher
	hold   time.Duration
	log    zerolog.Logger

	mu     sync.Mutex
	status Status

	// pressMu guards the pending release of the last virtual press.
	pressMu  sync.Mutex
	release  *time.Timer
	pressGen uint64
}

// New builds the server. in receives virtual presses; it is normally a
// slot of the input mux.
func New(frames FrameSource, state *sensors.State, in input.Publisher, log zerolog.Logger) *Server {
	s := &Server{
		app:    fiber.New(fiber.Config{DisableStartupMessage: true}),
		frames: frames,
		state:  state,
		input:  in,
		hold:   DefaultHold,
		log:    log,
	}

	s.app.Get("/", s.index)
	s.app.Get("/frame", s.serveFrame)
	s.app.Get("/state", s.serveState)
	s.app.Post("/input", s.pressButtons)
	return s
}

func (s *Server) App() *fiber.App { return s.app }

func (s *Server) SetHold(d time.Duration) { s.hold = d }

func (s *Server) SetStatus(st Status) {
	s.mu.Lock()
	s.status = st
	s.mu.Unlock()
}

func (s *Server) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Listen serves addr until ctx is done.
func (s *Server) Listen(ctx context.Context, addr string) error {
	go func() {
		<-ctx.Done()
		s.app.Shutdown()
	}()
	s.log.Info().Str("addr", addr).Msg("starting preview server")
	return s.app.Listen(addr)
}

func (s *Server) serveFrame(c *fiber.Ctx) error {
	frame := s.frames.Frame()
	if frame == nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString("No frame available")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to encode image")
	}

	c.Set("Content-Type", "image/png")
	c.Set("Content-Length", strconv.Itoa(buf.Len()))
	return c.Send(buf.Bytes())
}

func (s *Server) serveState(c *fiber.Ctx) error {
	snap := s.state.Snapshot()
	return c.JSON(stateResponse{
		Status:           s.Status(),
		Brightness:       snap.Brightness,
		Buttons:          snap.Buttons.Names(),
		BrightnessWrites: snap.BrightnessWrites,
		ButtonWrites:     snap.ButtonWrites,
		Frames:           s.frames.Frames(),
	})
}

func (s *Server) pressButtons(c *fiber.Ctx) error {
	var req inputRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid JSON")
	}

	var set input.ButtonSet
	for _, name := range req.Buttons {
		b, err := input.ParseButton(name)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}
		set = set.Add(b)
	}

	s.press(set)
	s.log.Debug().Stringer("buttons", set).Msg("virtual press")
	return c.JSON(inputRequest{Buttons: set.Names()})
}

// press publishes set and schedules its release after the hold. A newer
// press replaces the pending release, so each press is held the full hold.
func (s *Server) press(set input.ButtonSet) {
	s.pressMu.Lock()
	defer s.pressMu.Unlock()

	if s.release != nil {
		s.release.Stop()
		s.release = nil
	}
	s.pressGen++
	s.input.PublishButtons(set)
	if set.Empty() {
		return
	}
	gen := s.pressGen
	s.release = time.AfterFunc(s.hold, func() {
		s.pressMu.Lock()
		defer s.pressMu.Unlock()
		// A timer that fired while a newer press was being published.
		if gen != s.pressGen {
			return
		}
		s.release = nil
		s.input.PublishButtons(0)
	})
}

const indexHTML = `<!doctype html>
<html><body style="background:#000">
<img id="f" src="/frame">
<script>setInterval(function(){document.getElementById("f").src="/frame?"+Date.now()},500)</script>
</body></html>`

func (s *Server) index(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString(indexHTML)
}
