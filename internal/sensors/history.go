package sensors

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultHistoryWindow   = 15 * time.Minute
	DefaultHistoryInterval = time.Second
	// saveEvery samples between writes of the history file.
	saveEvery = 10
)

// LevelSample is one recorded brightness level.
type LevelSample struct {
	At    time.Time `json:"at"`
	Level uint8     `json:"level"`
}

// History keeps the brightness levels of the last Window, oldest first, and
// optionally persists them across restarts.
type History struct {
	mu      sync.RWMutex
	samples []LevelSample
	window  time.Duration
	limit   int
	path    string
	added   int
	log     zerolog.Logger

	// saveMu serializes writers of the history file.
	saveMu sync.Mutex
}

// NewHistory keeps window worth of samples taken every interval. An empty
// path disables persistence.
func NewHistory(window, interval time.Duration, path string, log zerolog.Logger) *History {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	if interval <= 0 {
		interval = DefaultHistoryInterval
	}
	limit := int(window / interval)
	if limit < 2 {
		limit = 2
	}
	return &History{
		samples: make([]LevelSample, 0, limit),
		window:  window,
		limit:   limit,
		path:    path,
		log:     log,
	}
}

// trim drops samples older than the window and beyond the sample cap.
// Callers hold mu.
func (h *History) trim(now time.Time) {
	cutoff := now.Add(-h.window)
	drop := 0
	for drop < len(h.samples) && !h.samples[drop].At.After(cutoff) {
		drop++
	}
	if over := len(h.samples) - drop - h.limit; over > 0 {
		drop += over
	}
	if drop > 0 {
		h.samples = append(h.samples[:0], h.samples[drop:]...)
	}
}

func (h *History) Record(at time.Time, level uint8) {
	h.mu.Lock()
	h.samples = append(h.samples, LevelSample{At: at, Level: level})
	h.trim(at)
	h.added++
	save := h.path != "" && h.added%saveEvery == 0
	h.mu.Unlock()

	if save {
		h.Save()
	}
}

// Samples returns a copy, oldest first.
func (h *History) Samples() []LevelSample {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]LevelSample(nil), h.samples...)
}

// Levels returns just the levels, oldest first.
func (h *History) Levels() []uint8 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]uint8, len(h.samples))
	for i, s := range h.samples {
		out[i] = s.Level
	}
	return out
}

// Load restores samples from the history file, dropping expired ones. A
// missing file is not an error.
func (h *History) Load(now time.Time) error {
	if h.path == "" {
		return nil
	}
	data, err := os.ReadFile(h.path)
	if os.IsNotExist(err) {
		h.log.Info().Str("path", h.path).Msg("no light history file, starting fresh")
		return nil
	}
	if err != nil {
		return err
	}
	var samples []LevelSample
	if err := json.Unmarshal(data, &samples); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.samples = append(h.samples[:0], samples...)
	h.trim(now)
	h.log.Info().Int("samples", len(h.samples)).Msg("loaded light history")
	return nil
}

// Save writes the samples to the history file; failures are logged. The file
// is replaced by rename, so readers never see a partial write.
func (h *History) Save() {
	if h.path == "" {
		return
	}
	h.saveMu.Lock()
	defer h.saveMu.Unlock()

	data, err := json.Marshal(h.Samples())
	if err != nil {
		h.log.Warn().Err(err).Msg("encode light history")
		return
	}
	tmp := h.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		h.log.Warn().Err(err).Str("path", tmp).Msg("write light history")
		return
	}
	if err := os.Rename(tmp, h.path); err != nil {
		h.log.Warn().Err(err).Str("path", h.path).Msg("replace light history")
		os.Remove(tmp)
	}
}

// Run samples src every interval until ctx is done.
func (h *History) Run(ctx context.Context, src *State, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultHistoryInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			// Nothing to record before the sensor has published once.
			if src.Snapshot().BrightnessWrites == 0 {
				continue
			}
			h.Record(now, src.Brightness())
		}
	}
}
