// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/photonicat/region_clock/internal/bh1750"
)

// Validate checks a defaulted configuration and returns the first problem,
// naming the offending field. It does not mutate cfg.
func Validate(cfg *Config) error {
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	// ------------------------------------------------------------
	// I2C PERIPHERALS
	// ------------------------------------------------------------

	if err := validAddr("light_sensor.address", cfg.LightSensor.Address); err != nil {
		return err
	}
	if err := validAddr("expander.address", cfg.Expander.Address); err != nil {
		return err
	}
	if cfg.LightSensor.Address == cfg.Expander.Address {
		return fmt.Errorf("light_sensor.address and expander.address are both 0x%02X", cfg.Expander.Address)
	}
	if cfg.LightSensor.SettleMs < 0 {
		return fmt.Errorf("light_sensor.settle_ms must not be negative")
	}
	if cfg.Expander.SettleMs < 0 {
		return fmt.Errorf("expander.settle_ms must not be negative")
	}
	if _, err := bh1750.ParseReduce(cfg.LightSensor.Reduce); err != nil {
		return fmt.Errorf("light_sensor.reduce: %w", err)
	}
	if err := cfg.Expander.Layout().Validate(); err != nil {
		return fmt.Errorf("expander.pins: %w", err)
	}

	// ------------------------------------------------------------
	// DISPLAY
	// ------------------------------------------------------------

	d := cfg.Display
	switch d.Driver {
	case DriverGC9307, DriverNone:
	default:
		return fmt.Errorf("display.driver %q: want %q or %q", d.Driver, DriverGC9307, DriverNone)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("display size %dx%d must be positive", d.Width, d.Height)
	}
	if d.FPS <= 0 || d.FPS > 120 {
		return fmt.Errorf("display.fps %d out of range 1..120", d.FPS)
	}
	if d.InputPollFrames <= 0 {
		return fmt.Errorf("display.input_poll_frames must be positive")
	}
	if d.FontSize <= 0 {
		return fmt.Errorf("display.font_size must be positive")
	}
	if d.Driver == DriverGC9307 && d.SPIKHz <= 0 {
		return fmt.Errorf("display.spi_khz must be positive")
	}

	if w := cfg.History.WindowMin; w < 1 || w > 60 {
		return fmt.Errorf("history.window_min %d out of range 1..60", w)
	}

	// ------------------------------------------------------------
	// REGIONS
	// ------------------------------------------------------------

	switch cfg.Regions.Source {
	case SourceBuiltin:
	case SourceZoneinfo:
		if cfg.Regions.ZoneinfoDir == "" {
			return fmt.Errorf("regions.zoneinfo_dir is required for source %q", SourceZoneinfo)
		}
	default:
		return fmt.Errorf("regions.source %q: want %q or %q", cfg.Regions.Source, SourceBuiltin, SourceZoneinfo)
	}

	return nil
}

// validAddr rejects the reserved 7-bit ranges 0x00-0x07 and 0x78-0x7F.
func validAddr(field string, addr uint16) error {
	if addr < 0x08 || addr > 0x77 {
		return fmt.Errorf("%s 0x%02X is not a usable 7-bit address", field, addr)
	}
	return nil
}
