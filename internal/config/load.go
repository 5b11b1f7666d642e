// internal/config/load.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/photonicat/region_clock/internal/bh1750"
	"github.com/photonicat/region_clock/internal/canvas"
	"github.com/photonicat/region_clock/internal/clock"
	"github.com/photonicat/region_clock/internal/input"
	"github.com/photonicat/region_clock/internal/joywing"
	"github.com/photonicat/region_clock/internal/region"
	"github.com/photonicat/region_clock/internal/sensors"
)

const (
	DriverGC9307 = "gc9307"
	DriverNone   = "none"

	SourceBuiltin  = "builtin"
	SourceZoneinfo = "zoneinfo"
)

// Load reads a YAML (.yaml, .yml) or JSON (.json) file and fills in defaults
// for everything the file leaves out.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("config %s: unsupported extension", path)
	}
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

func u8(v uint8) *uint8 { return &v }

// ApplyDefaults fills every zero-valued field with the photonicat defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	ls := &cfg.LightSensor
	if ls.Address == 0 {
		ls.Address = bh1750.Addr
	}
	if ls.SettleMs == 0 {
		ls.SettleMs = int(bh1750.DefaultSettle / time.Millisecond)
	}

	ex := &cfg.Expander
	if ex.Address == 0 {
		ex.Address = joywing.Addr
	}
	if ex.SettleMs == 0 {
		ex.SettleMs = int(joywing.DefaultSettle / time.Millisecond)
	}
	def := joywing.DefaultLayout()
	if ex.ActiveLow == nil {
		activeLow := def.ActiveLow
		ex.ActiveLow = &activeLow
	}
	for b, pin := range map[input.Button]**uint8{
		input.Up:     &ex.Pins.Up,
		input.Down:   &ex.Pins.Down,
		input.Left:   &ex.Pins.Left,
		input.Right:  &ex.Pins.Right,
		input.Select: &ex.Pins.Select,
	} {
		if *pin == nil {
			*pin = u8(def.Pins[b])
		}
	}

	d := &cfg.Display
	if d.Driver == "" {
		d.Driver = DriverGC9307
	}
	if d.Width == 0 {
		d.Width = 172
	}
	if d.Height == 0 {
		d.Height = 320
	}
	if d.FPS == 0 {
		d.FPS = 30
	}
	if d.InputPollFrames == 0 {
		d.InputPollFrames = clock.DefaultInputPollFrames
	}
	if d.SPIPort == "" {
		d.SPIPort = "SPI1.0"
	}
	if d.SPIKHz == 0 {
		d.SPIKHz = 100000
	}
	if d.RstPin == "" {
		d.RstPin = "GPIO122"
	}
	if d.DcPin == "" {
		d.DcPin = "GPIO121"
	}
	if d.CsPin == "" {
		d.CsPin = "GPIO0"
	}
	if d.BlPin == "" {
		d.BlPin = "GPIO117"
	}
	if d.ColumnOffset == 0 {
		d.ColumnOffset = 34
	}
	if d.FontSize == 0 {
		d.FontSize = 17
	}
	if d.BacklightPath == "" {
		d.BacklightPath = canvas.DefaultBacklightPath
	}

	if cfg.History.WindowMin == 0 {
		cfg.History.WindowMin = int(sensors.DefaultHistoryWindow / time.Minute)
	}

	if cfg.Regions.Source == "" {
		cfg.Regions.Source = SourceBuiltin
	}
	if cfg.Regions.ZoneinfoDir == "" {
		cfg.Regions.ZoneinfoDir = region.DefaultZoneinfoDir
	}
}

// Layout converts the pin section into an expander layout.
func (e ExpanderConfig) Layout() joywing.Layout {
	l := joywing.Layout{Pins: make(map[input.Button]uint8, len(input.All))}
	for b, pin := range map[input.Button]*uint8{
		input.Up:     e.Pins.Up,
		input.Down:   e.Pins.Down,
		input.Left:   e.Pins.Left,
		input.Right:  e.Pins.Right,
		input.Select: e.Pins.Select,
	} {
		if pin != nil {
			l.Pins[b] = *pin
		}
	}
	l.ActiveLow = e.ActiveLow == nil || *e.ActiveLow
	return l
}

func (e ExpanderConfig) Settle() time.Duration {
	return time.Duration(e.SettleMs) * time.Millisecond
}

func (h HistoryConfig) Window() time.Duration {
	return time.Duration(h.WindowMin) * time.Minute
}

func (l LightSensorConfig) Settle() time.Duration {
	return time.Duration(l.SettleMs) * time.Millisecond
}

// RegionSource returns the identifier source the regions section selects.
func (r RegionsConfig) RegionSource() region.Source {
	if r.Source == SourceZoneinfo {
		return region.NewZoneinfoSource(r.ZoneinfoDir)
	}
	return region.Builtin
}

func (d DisplayConfig) LCD() canvas.LCDConfig {
	return canvas.LCDConfig{
		SPIPort:      d.SPIPort,
		SPIKHz:       d.SPIKHz,
		RstPin:       d.RstPin,
		DcPin:        d.DcPin,
		CsPin:        d.CsPin,
		BlPin:        d.BlPin,
		Width:        d.Width,
		Height:       d.Height,
		ColumnOffset: d.ColumnOffset,
	}
}
