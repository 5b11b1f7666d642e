package sensors

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/photonicat/region_clock/internal/input"
)

func TestLastWriteWins(t *testing.T) {
	var s State
	s.PublishBrightness(10)
	s.PublishBrightness(200)
	s.PublishButtons(input.SetOf(input.Up, input.Left))
	s.PublishButtons(input.SetOf(input.Down))

	snap := s.Snapshot()
	if snap.Brightness != 200 {
		t.Errorf("Brightness = %d; want 200", snap.Brightness)
	}
	if snap.Buttons != input.SetOf(input.Down) {
		t.Errorf("Buttons = %v; want {down} (sets replace, not merge)", snap.Buttons)
	}
	if snap.BrightnessWrites != 2 || snap.ButtonWrites != 2 {
		t.Errorf("write counters = %d/%d; want 2/2", snap.BrightnessWrites, snap.ButtonWrites)
	}
}

func TestConcurrentPublishers(t *testing.T) {
	var s State
	var wg sync.WaitGroup
	sets := []input.ButtonSet{input.SetOf(input.Up), input.SetOf(input.Down, input.Right)}

	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.PublishBrightness(uint8(i))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.PublishButtons(sets[i%2])
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			got := s.Buttons()
			if got != 0 && got != sets[0] && got != sets[1] {
				t.Errorf("torn button set %v", got)
				return
			}
		}
	}()
	wg.Wait()

	// The last publish wins: 999 truncated to a byte.
	if want := uint8(999 % 256); s.Brightness() != want {
		t.Errorf("Brightness = %d; want %d", s.Brightness(), want)
	}
}

func TestSuperviseContainsPanic(t *testing.T) {
	ran := false
	Supervise(zerolog.Nop(), "test", func() {
		ran = true
		panic("bus exploded")
	})
	if !ran {
		t.Error("loop did not run")
	}
}
