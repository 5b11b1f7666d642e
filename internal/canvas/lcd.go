package canvas

import (
	"fmt"
	"image"

	st7789 "github.com/photonicat/periph.io-gc9307"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

type LCDConfig struct {
	SPIPort      string
	SPIKHz       int
	RstPin       string
	DcPin        string
	CsPin        string
	BlPin        string
	Width        int
	Height       int
	ColumnOffset int
}

// imageSink is the part of the panel driver Show needs.
type imageSink interface {
	FillRectangleWithImage(x, y, width, height int16, fb *image.RGBA) error
}

// LCD is the SPI panel of the photonicat board.
type LCD struct {
	port    spi.PortCloser
	display imageSink
	width   int16
	height  int16
}

func pinByName(name string) (gpio.PinIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("gpio %s not found", name)
	}
	return p, nil
}

// OpenLCD opens the SPI port and configures the panel. host.Init must have
// run first.
func OpenLCD(cfg LCDConfig) (*LCD, error) {
	spiPort, err := spireg.Open(cfg.SPIPort)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.SPIPort, err)
	}
	conn, err := spiPort.Connect(physic.Frequency(cfg.SPIKHz)*physic.KiloHertz, spi.Mode0, 8)
	if err != nil {
		spiPort.Close()
		return nil, fmt.Errorf("connect %s: %w", cfg.SPIPort, err)
	}

	pins := make([]gpio.PinIO, 0, 4)
	for _, name := range []string{cfg.RstPin, cfg.DcPin, cfg.CsPin, cfg.BlPin} {
		p, err := pinByName(name)
		if err != nil {
			spiPort.Close()
			return nil, err
		}
		pins = append(pins, p)
	}

	display := st7789.New(conn, pins[0], pins[1], pins[2], pins[3])
	display.Configure(st7789.Config{
		Width:        int16(cfg.Width),
		Height:       int16(cfg.Height),
		Rotation:     st7789.ROTATION_180,
		RowOffset:    0,
		ColumnOffset: int16(cfg.ColumnOffset),
		FrameRate:    st7789.FRAMERATE_60,
		VSyncLines:   st7789.MAX_VSYNC_SCANLINES,
		UseCS:        false,
	})
	display.EnableBacklight(true)

	return &LCD{
		port:    spiPort,
		display: &display,
		width:   int16(cfg.Width),
		height:  int16(cfg.Height),
	}, nil
}

func (l *LCD) Show(frame *image.RGBA) error {
	if err := l.display.FillRectangleWithImage(0, 0, l.width, l.height, frame); err != nil {
		return fmt.Errorf("lcd write: %w", err)
	}
	return nil
}

func (l *LCD) Close() error {
	return l.port.Close()
}
