// cmd/region_clock/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "time/tzdata"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/photonicat/region_clock/internal/bh1750"
	"github.com/photonicat/region_clock/internal/canvas"
	"github.com/photonicat/region_clock/internal/clock"
	"github.com/photonicat/region_clock/internal/config"
	"github.com/photonicat/region_clock/internal/i2cbus"
	"github.com/photonicat/region_clock/internal/input"
	"github.com/photonicat/region_clock/internal/joywing"
	"github.com/photonicat/region_clock/internal/menu"
	"github.com/photonicat/region_clock/internal/preview"
	"github.com/photonicat/region_clock/internal/region"
	"github.com/photonicat/region_clock/internal/sensors"
)

const (
	DEFAULT_CONFIG_PATH = "config.yaml"
	WING_INIT_TIMEOUT   = 10 * time.Second
)

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(lvl).
		With().Timestamp().Logger()
}

func main() {
	cfgPath := DEFAULT_CONFIG_PATH
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		boot := newLogger("info")
		boot.Fatal().Err(err).Str("path", cfgPath).Msg("config load failed")
	}
	log := newLogger(cfg.LogLevel)
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("config validation failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --------------------
	// Board + I2C peripherals
	// --------------------

	if _, err := host.Init(); err != nil {
		log.Fatal().Err(err).Msg("host init failed")
	}
	bus, err := i2creg.Open(cfg.I2C.Bus)
	if err != nil {
		log.Fatal().Err(err).Str("bus", cfg.I2C.Bus).Msg("i2c open failed")
	}
	defer bus.Close()
	port := i2cbus.NewPort(bus)
	log.Info().Stringer("bus", port).Msg("i2c bus open")

	state := &sensors.State{}
	buttons := input.NewMux(state)

	reduce, _ := bh1750.ParseReduce(cfg.LightSensor.Reduce)
	light := bh1750.New(
		i2cbus.NewDevice(port, cfg.LightSensor.Address, cfg.LightSensor.Settle()),
		state, reduce,
		log.With().Str("dev", "bh1750").Logger(),
	)
	if err := light.Init(); err != nil {
		log.Fatal().Err(err).Msg("light sensor init failed")
	}

	wing, err := joywing.New(
		i2cbus.NewDevice(port, cfg.Expander.Address, cfg.Expander.Settle()),
		buttons.Source("expander"),
		joywing.Config{Layout: cfg.Expander.Layout(), Interrupts: cfg.Expander.Interrupts},
		log.With().Str("dev", "joywing").Logger(),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("expander config invalid")
	}
	initCtx, cancelInit := context.WithTimeout(ctx, WING_INIT_TIMEOUT)
	err = wing.Init(initCtx)
	cancelInit()
	if err != nil {
		log.Fatal().Err(err).Msg("expander init failed")
	}

	history := sensors.NewHistory(cfg.History.Window(), sensors.DefaultHistoryInterval, cfg.History.File, log)
	if err := history.Load(time.Now()); err != nil {
		log.Warn().Err(err).Str("path", cfg.History.File).Msg("light history not restored")
	}

	go sensors.Supervise(log, "light", func() { light.Run(ctx) })
	go sensors.Supervise(log, "history", func() { history.Run(ctx, state, sensors.DefaultHistoryInterval) })
	go sensors.Supervise(log, "buttons", func() { wing.Run(ctx) })

	if name := cfg.Keyboard.DeviceName; name != "" {
		kbd, err := input.OpenKeyboard(name, buttons.Source("keyboard"), log)
		if err != nil {
			log.Warn().Err(err).Msg("keyboard disabled")
		} else {
			go sensors.Supervise(log, "keyboard", func() { kbd.Run(ctx) })
		}
	}

	// --------------------
	// Display
	// --------------------

	faces, err := canvas.LoadFaces(cfg.Display.FontPath, cfg.Display.FontSize)
	if err != nil {
		log.Fatal().Err(err).Str("font", cfg.Display.FontPath).Msg("font load failed")
	}

	var panels []canvas.Panel
	if cfg.Display.Driver == config.DriverGC9307 {
		lcd, err := canvas.OpenLCD(cfg.Display.LCD())
		if err != nil {
			log.Fatal().Err(err).Msg("lcd open failed")
		}
		defer lcd.Close()
		panels = append(panels, lcd)
	}
	fb := canvas.NewFramebuffer(cfg.Display.Width, cfg.Display.Height, faces, log, panels...)
	backlight := canvas.NewBacklight(cfg.Display.BacklightPath, log)
	if cfg.Display.Driver == config.DriverNone {
		backlight = nil
	}

	var web *preview.Server
	if addr := cfg.Preview.Listen; addr != "" {
		web = preview.New(fb, state, buttons.Source("preview"), log.With().Str("svc", "preview").Logger())
		go func() {
			if err := web.Listen(ctx, addr); err != nil {
				log.Error().Err(err).Msg("preview server stopped")
			}
		}()
	}

	// --------------------
	// Render loop
	// --------------------

	catalog, err := region.Load(cfg.Regions.RegionSource())
	if err != nil {
		log.Fatal().Err(err).Str("source", cfg.Regions.Source).Msg("region catalog load failed")
	}
	log.Info().Int("countries", len(catalog.Countries())).Msg("region catalog loaded")

	machine := clock.New(menu.New(catalog), clock.Config{
		InputPollFrames: cfg.Display.InputPollFrames,
		Trend:           history,
	}, log)

	ticker := time.NewTicker(time.Second / time.Duration(cfg.Display.FPS))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			history.Save()
			return
		case <-ticker.C:
		}

		snap := state.Snapshot()
		fb.Clear()
		st := machine.Step(fb, snap)
		if err := fb.Present(); err != nil {
			log.Debug().Err(err).Msg("present failed")
		}
		backlight.Follow(snap.Brightness)

		if web != nil {
			nav := machine.Navigator()
			web.SetStatus(preview.Status{
				State:   st.Kind.String(),
				Region:  string(st.Region),
				Level:   nav.Level().String(),
				Country: nav.Country(),
			})
		}
	}
}
