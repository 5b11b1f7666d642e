// internal/config/config.go
package config

type Config struct {
	LogLevel    string            `yaml:"log_level" json:"log_level"`
	I2C         I2CConfig         `yaml:"i2c" json:"i2c"`
	LightSensor LightSensorConfig `yaml:"light_sensor" json:"light_sensor"`
	Expander    ExpanderConfig    `yaml:"expander" json:"expander"`
	Display     DisplayConfig     `yaml:"display" json:"display"`
	Regions     RegionsConfig     `yaml:"regions" json:"regions"`
	History     HistoryConfig     `yaml:"history" json:"history"`
	Keyboard    KeyboardConfig    `yaml:"keyboard" json:"keyboard"`
	Preview     PreviewConfig     `yaml:"preview" json:"preview"`
}

// ---- I2C ----

type I2CConfig struct {
	// Bus is the periph i2creg name; empty opens the first bus.
	Bus string `yaml:"bus" json:"bus"`
}

// ---- PERIPHERALS ----

type LightSensorConfig struct {
	Address  uint16 `yaml:"address" json:"address"`
	SettleMs int    `yaml:"settle_ms" json:"settle_ms"`
	Reduce   string `yaml:"reduce" json:"reduce"` // low_byte | high_byte
}

type ExpanderConfig struct {
	Address  uint16 `yaml:"address" json:"address"`
	SettleMs int    `yaml:"settle_ms" json:"settle_ms"`
	// ActiveLow is a pointer so an explicit false survives defaulting.
	ActiveLow  *bool      `yaml:"active_low" json:"active_low"`
	Pins       PinsConfig `yaml:"pins" json:"pins"`
	Interrupts bool       `yaml:"interrupts" json:"interrupts"`
}

type PinsConfig struct {
	Up     *uint8 `yaml:"up" json:"up"`
	Down   *uint8 `yaml:"down" json:"down"`
	Left   *uint8 `yaml:"left" json:"left"`
	Right  *uint8 `yaml:"right" json:"right"`
	Select *uint8 `yaml:"select" json:"select"`
}

// ---- DISPLAY ----

type DisplayConfig struct {
	Driver          string  `yaml:"driver" json:"driver"` // gc9307 | none
	Width           int     `yaml:"width" json:"width"`
	Height          int     `yaml:"height" json:"height"`
	FPS             int     `yaml:"fps" json:"fps"`
	InputPollFrames int     `yaml:"input_poll_frames" json:"input_poll_frames"`
	SPIPort         string  `yaml:"spi_port" json:"spi_port"`
	SPIKHz          int     `yaml:"spi_khz" json:"spi_khz"`
	RstPin          string  `yaml:"rst_pin" json:"rst_pin"`
	DcPin           string  `yaml:"dc_pin" json:"dc_pin"`
	CsPin           string  `yaml:"cs_pin" json:"cs_pin"`
	BlPin           string  `yaml:"bl_pin" json:"bl_pin"`
	ColumnOffset    int     `yaml:"column_offset" json:"column_offset"`
	FontPath        string  `yaml:"font_path" json:"font_path"`
	FontSize        float64 `yaml:"font_size" json:"font_size"`
	BacklightPath   string  `yaml:"backlight_path" json:"backlight_path"`
}

// ---- REGIONS / HISTORY / AUX INPUT ----

type RegionsConfig struct {
	Source      string `yaml:"source" json:"source"` // builtin | zoneinfo
	ZoneinfoDir string `yaml:"zoneinfo_dir" json:"zoneinfo_dir"`
}

type HistoryConfig struct {
	WindowMin int `yaml:"window_min" json:"window_min"`
	// File persists the light history across restarts; empty keeps it in memory.
	File string `yaml:"file" json:"file"`
}

type KeyboardConfig struct {
	// DeviceName is the evdev device name; empty disables the keyboard.
	DeviceName string `yaml:"device_name" json:"device_name"`
}

type PreviewConfig struct {
	// Listen is the HTTP address; empty disables the preview server.
	Listen string `yaml:"listen" json:"listen"`
}
