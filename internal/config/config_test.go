// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/photonicat/region_clock/internal/input"
	"github.com/photonicat/region_clock/internal/joywing"
	"github.com/photonicat/region_clock/internal/region"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func defaulted() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ---- tests ----

func TestLoad_EmptyYAMLIsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", "{}\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
	if cfg.Expander.Address != 0x49 || cfg.LightSensor.Address != 0x23 {
		t.Errorf("addresses = 0x%02X/0x%02X; want 0x49/0x23", cfg.Expander.Address, cfg.LightSensor.Address)
	}
	if cfg.History.Window() != 15*time.Minute {
		t.Errorf("history window = %v; want 15m", cfg.History.Window())
	}
	if cfg.Display.InputPollFrames != 5 {
		t.Errorf("input_poll_frames = %d; want 5", cfg.Display.InputPollFrames)
	}
	l := cfg.Expander.Layout()
	def := joywing.DefaultLayout()
	if !l.ActiveLow || l.Mask() != def.Mask() {
		t.Errorf("layout = %+v; want the default active-low layout", l)
	}
}

func TestLoad_YAMLOverrides(t *testing.T) {
	body := `
log_level: debug
light_sensor:
  reduce: high_byte
  settle_ms: 180
expander:
  active_low: false
  pins:
    select: 2
display:
  driver: none
  fps: 10
regions:
  source: zoneinfo
  zoneinfo_dir: /tmp/zones
preview:
  listen: ":8080"
`
	cfg, err := Load(writeFile(t, "clock.yml", body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}

	l := cfg.Expander.Layout()
	if l.ActiveLow {
		t.Error("explicit active_low: false was overwritten by the default")
	}
	if l.Pins[input.Select] != 2 || l.Pins[input.Up] != 10 {
		t.Errorf("pins = %v; want select=2, others default", l.Pins)
	}
	if cfg.LightSensor.Settle().Milliseconds() != 180 {
		t.Errorf("light settle = %v; want 180ms", cfg.LightSensor.Settle())
	}
	if cfg.Display.Driver != DriverNone || cfg.Display.FPS != 10 {
		t.Errorf("display = %+v", cfg.Display)
	}
	if src, ok := cfg.Regions.RegionSource().(region.ZoneinfoSource); !ok {
		t.Errorf("region source = %T; want ZoneinfoSource", src)
	}
	if cfg.Preview.Listen != ":8080" {
		t.Errorf("preview.listen = %q", cfg.Preview.Listen)
	}
}

func TestLoad_JSON(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.json", `{"keyboard":{"device_name":"gpio-keys"},"expander":{"interrupts":true}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Keyboard.DeviceName != "gpio-keys" || !cfg.Expander.Interrupts {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Regions.Source != SourceBuiltin {
		t.Errorf("regions.source = %q; want builtin", cfg.Regions.Source)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(writeFile(t, "config.toml", "")); err == nil {
		t.Error("expected error for unsupported extension")
	}
	if _, err := Load(writeFile(t, "config.yaml", "display: [")); err == nil {
		t.Error("expected error for malformed yaml")
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"reserved address", func(c *Config) { c.LightSensor.Address = 0x03 }, "light_sensor.address"},
		{"address clash", func(c *Config) { c.Expander.Address = c.LightSensor.Address }, "expander.address"},
		{"duplicate pin", func(c *Config) { *c.Expander.Pins.Up = *c.Expander.Pins.Down }, "expander.pins"},
		{"pin out of range", func(c *Config) { *c.Expander.Pins.Left = 40 }, "expander.pins"},
		{"missing pin", func(c *Config) { c.Expander.Pins.Right = nil }, "expander.pins"},
		{"bad reduce", func(c *Config) { c.LightSensor.Reduce = "average" }, "light_sensor.reduce"},
		{"bad driver", func(c *Config) { c.Display.Driver = "hdmi" }, "display.driver"},
		{"zero fps", func(c *Config) { c.Display.FPS = 0 }, "display.fps"},
		{"bad source", func(c *Config) { c.Regions.Source = "web" }, "regions.source"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"long history", func(c *Config) { c.History.WindowMin = 120 }, "history.window_min"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaulted()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %s", err, tt.field)
			}
		})
	}
}
