// Package joywing drives the seesaw-based joystick FeatherWing: five buttons
// multiplexed onto one 32-bit GPIO register of an I2C expander.
//
// The expander must be reset, identified and configured before polling. A
// failed poll never reaches the render loop: the driver re-runs the whole
// startup sequence and reports an empty set for that cycle.
package joywing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/photonicat/region_clock/internal/i2cbus"
	"github.com/photonicat/region_clock/internal/input"
)

const (
	Addr uint16 = 0x49

	DefaultSettle = 10 * time.Millisecond
)

var ErrHwNotFound = errors.New("joywing: hardware not found")

// Bus is the register transport; *i2cbus.Device satisfies it.
type Bus interface {
	Write(b []byte) error
	Read(buf []byte) (int, error)
}

// Publisher receives each decoded button set.
type Publisher interface {
	PublishButtons(set input.ButtonSet)
}

// Outcome says what a poll cycle did with its result.
type Outcome int

const (
	// Polled: the snapshot was read, decoded and published.
	Polled Outcome = iota
	// Recovered: the read failed, nothing was published, and the startup
	// sequence ran again successfully.
	Recovered
	// Degraded: the read failed and so did re-initialisation. The next cycle
	// tries again.
	Degraded
)

func (o Outcome) String() string {
	switch o {
	case Polled:
		return "polled"
	case Recovered:
		return "recovered"
	case Degraded:
		return "degraded"
	default:
		return "unknown"
	}
}

// PollResult is the explicit result of one poll cycle.
type PollResult struct {
	Buttons input.ButtonSet
	Raw     uint32
	Outcome Outcome
	Err     error
}

type Config struct {
	Layout Layout
	// Interrupts also enables interrupt-on-change for the button pins, for
	// boards that wire the IRQ line.
	Interrupts bool
}

type Wing struct {
	bus   Bus
	pub   Publisher
	cfg   Config
	mask  [4]byte
	chip  string
	inits int
	log   zerolog.Logger
}

func New(bus Bus, pub Publisher, cfg Config, log zerolog.Logger) (*Wing, error) {
	if err := cfg.Layout.Validate(); err != nil {
		return nil, err
	}
	return &Wing{
		bus:  bus,
		pub:  pub,
		cfg:  cfg,
		mask: i2cbus.EncodeWord(cfg.Layout.Mask()),
		log:  log,
	}, nil
}

// Chip is the name of the identified controller, empty before Init.
func (w *Wing) Chip() string { return w.chip }

// Inits counts completed startup sequences, including recoveries.
func (w *Wing) Inits() int { return w.inits }

// Init runs the startup sequence in order: reset, identify, configure pulls.
func (w *Wing) Init(ctx context.Context) error {
	if err := w.SoftwareReset(ctx); err != nil {
		return err
	}
	hwid, err := w.HardwareID()
	if err != nil {
		return err
	}
	if err := w.PullupConfigure(); err != nil {
		return err
	}
	if w.cfg.Interrupts {
		if err := w.EnableInterrupts(); err != nil {
			return err
		}
	}
	w.chip = knownChips[hwid]
	w.inits++
	return nil
}

// SoftwareReset writes the reset command until the device acknowledges it.
// The chip may still be booting, so a failed write is expected and retried;
// only ctx ends the loop.
func (w *Wing) SoftwareReset(ctx context.Context) error {
	frame := i2cbus.Frame(StatusBase, StatusSWRST, swrstMagic)
	for attempt := 1; ; attempt++ {
		err := w.bus.Write(frame)
		if err == nil {
			if attempt > 1 {
				w.log.Info().Int("attempts", attempt).Msg("expander reset acknowledged")
			}
			return nil
		}
		if attempt == 1 || attempt%100 == 0 {
			w.log.Warn().Err(err).Int("attempt", attempt).Msg("expander reset not acknowledged, retrying")
		}
		if ctx.Err() != nil {
			return fmt.Errorf("joywing: reset abandoned after %d attempts: %w", attempt, ctx.Err())
		}
	}
}

// HardwareID reads the chip identifier and rejects unknown parts.
func (w *Wing) HardwareID() (byte, error) {
	if err := w.bus.Write(i2cbus.Frame(StatusBase, StatusHWID)); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrHwNotFound, err)
	}
	var buf [1]byte
	n, err := w.bus.Read(buf[:])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrHwNotFound, err)
	}
	if n != 1 {
		return 0, fmt.Errorf("%w: hardware id: %v", ErrHwNotFound, i2cbus.ErrShortRead)
	}
	if _, ok := knownChips[buf[0]]; !ok {
		return 0, fmt.Errorf("%w: unexpected hardware id 0x%02X", ErrHwNotFound, buf[0])
	}
	return buf[0], nil
}

// PullupConfigure makes the button pins inputs, enables their pull resistors
// and then selects pull-up. The order matters on the real chip.
func (w *Wing) PullupConfigure() error {
	steps := []struct {
		fn   i2cbus.Opcode
		name string
	}{
		{GPIODirClr, "direction clear"},
		{GPIOPullEnSet, "pull enable"},
		{GPIOSet, "pull-up select"},
	}
	for _, st := range steps {
		if err := w.bus.Write(i2cbus.Frame(GPIOBase, st.fn, w.mask[:]...)); err != nil {
			return fmt.Errorf("joywing: %s: %w", st.name, err)
		}
	}
	return nil
}

func (w *Wing) EnableInterrupts() error {
	if err := w.bus.Write(i2cbus.Frame(GPIOBase, GPIOIntEnSet, w.mask[:]...)); err != nil {
		return fmt.Errorf("joywing: interrupt enable: %w", err)
	}
	return nil
}

// ReadGPIO returns the raw 32-bit pin snapshot.
func (w *Wing) ReadGPIO() (uint32, error) {
	if err := w.bus.Write(i2cbus.Frame(GPIOBase, GPIORead)); err != nil {
		return 0, err
	}
	var buf [4]byte
	n, err := w.bus.Read(buf[:])
	if err != nil {
		return 0, err
	}
	if n != len(buf) {
		return 0, fmt.Errorf("joywing: got %d of 4 gpio bytes: %w", n, i2cbus.ErrShortRead)
	}
	return i2cbus.DecodeWord(buf), nil
}

// MeasureAndPublish runs one poll cycle. On success the decoded set is
// published. On failure nothing is published, the startup sequence runs
// again, and the returned set is empty.
func (w *Wing) MeasureAndPublish(ctx context.Context) PollResult {
	word, err := w.ReadGPIO()
	if err != nil {
		res := PollResult{Outcome: Recovered, Err: err}
		if ierr := w.Init(ctx); ierr != nil {
			res.Outcome = Degraded
			res.Err = errors.Join(err, ierr)
		}
		return res
	}
	set := w.cfg.Layout.Decode(word)
	w.pub.PublishButtons(set)
	return PollResult{Buttons: set, Raw: word, Outcome: Polled}
}

// Run polls until ctx is done. The bus settle delays pace the loop.
func (w *Wing) Run(ctx context.Context) {
	var last input.ButtonSet
	for ctx.Err() == nil {
		res := w.MeasureAndPublish(ctx)
		switch res.Outcome {
		case Polled:
			if res.Buttons != last {
				w.log.Debug().Str("buttons", res.Buttons.String()).Str("raw", fmt.Sprintf("0x%08X", res.Raw)).Msg("buttons changed")
				last = res.Buttons
			}
		case Recovered:
			w.log.Warn().Err(res.Err).Msg("expander poll failed, re-initialised")
		case Degraded:
			w.log.Error().Err(res.Err).Msg("expander poll failed, re-init failed")
		}
	}
}
