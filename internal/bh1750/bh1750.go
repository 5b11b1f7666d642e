// Package bh1750 drives the BH1750 ambient light sensor and publishes a coarse
// brightness level for the display.
//
// Datasheet: https://www.mouser.com/datasheet/2/348/bh1750fvi-e-186247.pdf
package bh1750

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/photonicat/region_clock/internal/i2cbus"
)

const (
	Addr uint16 = 0x23

	// DefaultSettle covers the 120ms typical / 180ms max high-resolution
	// conversion time.
	DefaultSettle = 150 * time.Millisecond
)

// Instruction set. The BH1750 has no registers: each opcode is a one-byte write.
const (
	PowerDown    i2cbus.Opcode = 0x00
	PowerOn      i2cbus.Opcode = 0x01
	Reset        i2cbus.Opcode = 0x07
	ContHighRes  i2cbus.Opcode = 0x10
	ContHighRes2 i2cbus.Opcode = 0x21
	ContLowRes   i2cbus.Opcode = 0x13
)

var (
	ErrHwNotFound = errors.New("bh1750: hardware not found")
	ErrNotReady   = errors.New("bh1750: not initialised")
)

// Bus is the register transport; *i2cbus.Device satisfies it.
type Bus interface {
	Write(b []byte) error
	Read(buf []byte) (int, error)
}

// Publisher receives the brightness level.
type Publisher interface {
	PublishBrightness(v uint8)
}

// Reduce selects which byte of the 16-bit reading becomes the published level.
type Reduce int

const (
	// LowByte publishes the second byte on the wire. It wraps every 256 counts,
	// which is fine indoors where only relative changes matter.
	LowByte Reduce = iota
	// HighByte publishes the first byte on the wire: coarse but monotonic.
	HighByte
)

func ParseReduce(s string) (Reduce, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "low_byte":
		return LowByte, nil
	case "high_byte":
		return HighByte, nil
	}
	return LowByte, fmt.Errorf("unknown brightness reduction %q", s)
}

func (r Reduce) level(b [2]byte) uint8 {
	if r == HighByte {
		return b[0]
	}
	return b[1]
}

// Sample is the outcome of one measure cycle. A sample with a non-nil Err was
// not published.
type Sample struct {
	Raw   uint16
	Level uint8
	Lux   float64
	Err   error
}

func (s Sample) Published() bool { return s.Err == nil }

type Sensor struct {
	bus    Bus
	pub    Publisher
	reduce Reduce
	log    zerolog.Logger
	ready  bool
}

func New(bus Bus, pub Publisher, reduce Reduce, log zerolog.Logger) *Sensor {
	return &Sensor{bus: bus, pub: pub, reduce: reduce, log: log}
}

func (s *Sensor) Ready() bool { return s.ready }

// Init powers the sensor on. The bus settle delay doubles as the power-up wait.
func (s *Sensor) Init() error {
	if err := s.bus.Write([]byte{byte(PowerOn)}); err != nil {
		return fmt.Errorf("%w: power on: %v", ErrHwNotFound, err)
	}
	s.ready = true
	s.log.Info().Msg("light sensor ready")
	return nil
}

// MeasureAndPublish starts a high-resolution (0.5 lx) measurement, waits for
// it, and reads the 2-byte result. A failed or short read skips the publish.
func (s *Sensor) MeasureAndPublish() Sample {
	if !s.ready {
		return Sample{Err: ErrNotReady}
	}
	if err := s.bus.Write([]byte{byte(ContHighRes2)}); err != nil {
		return Sample{Err: err}
	}

	var buf [2]byte
	n, err := s.bus.Read(buf[:])
	if err != nil {
		return Sample{Err: err}
	}
	if n < len(buf) {
		return Sample{Err: fmt.Errorf("bh1750: got %d of 2 bytes: %w", n, i2cbus.ErrShortRead)}
	}

	raw := i2cbus.DecodeHalf(buf)
	smp := Sample{
		Raw:   raw,
		Level: s.reduce.level(buf),
		// 1.2 counts per lux, halved again in mode 2.
		Lux: float64(raw) / 1.2 / 2,
	}
	s.pub.PublishBrightness(smp.Level)
	return smp
}

// Run measures back to back until ctx is done. The measurement delay is the
// only throttle.
func (s *Sensor) Run(ctx context.Context) {
	if !s.ready {
		s.log.Error().Err(ErrNotReady).Msg("light poll not started")
		return
	}
	for ctx.Err() == nil {
		smp := s.MeasureAndPublish()
		if smp.Err != nil {
			s.log.Debug().Err(smp.Err).Msg("light sample skipped")
			continue
		}
		s.log.Trace().Uint16("raw", smp.Raw).Float64("lux", smp.Lux).Uint8("level", smp.Level).Msg("light sample")
	}
}
