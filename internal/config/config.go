package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Driver identifies the OLED controller chip.
type Driver int

const (
	DriverSH1106 Driver = iota + 1
	DriverSSD1306
	DriverSSD1309
)

var driverNames = map[string]Driver{
	"sh1106":  DriverSH1106,
	"ssd1306": DriverSSD1306,
	"ssd1309": DriverSSD1309,
}

func (d Driver) String() string {
	for name, v := range driverNames {
		if v == d {
			return name
		}
	}
	return "unknown"
}

// ErrUnsupportedDriver is returned when the configured driver is not one of
// sh1106, ssd1306 or ssd1309.
var ErrUnsupportedDriver = errors.New("unsupported driver")

// ParseDriver maps a configuration value to a Driver.
func ParseDriver(name string) (Driver, error) {
	d, ok := driverNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q (supported: sh1106, ssd1306, ssd1309)", ErrUnsupportedDriver, name)
	}
	return d, nil
}

// Config is the validated daemon configuration.
type Config struct {
	Driver          Driver
	I2CPort         int
	I2CAddress      uint16
	ContrastNormal  uint8
	ContrastLow     uint8
	ScreensaverTime int // seconds; zero disables blanking
	ExtTempSensor   bool
	Debug           bool

	LogFile  string
	PIDFile  string
	Binary   string
	TGDBFile string
}

const (
	defaultConfigPath = "/etc/oledsvx/oledsvx.toml"
	defaultI2CPort    = 1
	defaultI2CAddress = "0x3C"
	defaultLogFile    = "/var/log/svxlink"
	defaultPIDFile    = "/run/svxlink.pid"
	defaultBinary     = "svxlink"
	defaultTGDBFile   = "/var/www/html/include/tgdb.json"
)

type rawConfig struct {
	OLED struct {
		Driver          string `toml:"driver"`
		I2CPort         *int   `toml:"i2c_port"`
		I2CAddress      string `toml:"i2c_address"`
		ContrastNormal  *int   `toml:"contrast_nor"`
		ContrastLow     *int   `toml:"contrast_low"`
		ScreensaverTime int    `toml:"screensaver_time"`
		ExtTempSensor   *bool  `toml:"ext_temp_sensor"`
		Debug           bool   `toml:"debug"`
	} `toml:"oled"`
	SvxLink struct {
		LogFile  string `toml:"log_file"`
		PIDFile  string `toml:"pid_file"`
		Binary   string `toml:"binary"`
		TGDBFile string `toml:"tgdb_file"`
	} `toml:"svxlink"`
}

// Load reads and validates the configuration file. An empty path selects the
// default location. Unlike optional settings, a missing file is an error: the
// display driver and contrast levels have no sensible defaults.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return raw.validate()
}

func (raw rawConfig) validate() (Config, error) {
	o := raw.OLED
	driver, err := ParseDriver(o.Driver)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Driver:          driver,
		I2CPort:         defaultI2CPort,
		ScreensaverTime: o.ScreensaverTime,
		Debug:           o.Debug,
	}
	if o.I2CPort != nil {
		if *o.I2CPort < 0 {
			return Config{}, fmt.Errorf("i2c_port: must not be negative, got %d", *o.I2CPort)
		}
		cfg.I2CPort = *o.I2CPort
	}

	addr := strings.TrimSpace(o.I2CAddress)
	if addr == "" {
		addr = defaultI2CAddress
	}
	parsed, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(addr), "0x"), 16, 7)
	if err != nil {
		return Config{}, fmt.Errorf("i2c_address: invalid value %q: %w", addr, err)
	}
	cfg.I2CAddress = uint16(parsed)

	if cfg.ContrastNormal, err = contrast("contrast_nor", o.ContrastNormal); err != nil {
		return Config{}, err
	}
	if cfg.ContrastLow, err = contrast("contrast_low", o.ContrastLow); err != nil {
		return Config{}, err
	}
	if o.ExtTempSensor == nil {
		return Config{}, fmt.Errorf("ext_temp_sensor: option is required")
	}
	cfg.ExtTempSensor = *o.ExtTempSensor
	if cfg.ScreensaverTime < 0 {
		return Config{}, fmt.Errorf("screensaver_time: must not be negative, got %d", cfg.ScreensaverTime)
	}

	s := raw.SvxLink
	cfg.LogFile = orDefault(s.LogFile, defaultLogFile)
	cfg.PIDFile = orDefault(s.PIDFile, defaultPIDFile)
	cfg.Binary = orDefault(s.Binary, defaultBinary)
	cfg.TGDBFile = orDefault(s.TGDBFile, defaultTGDBFile)
	for _, p := range []*string{&cfg.LogFile, &cfg.PIDFile, &cfg.TGDBFile} {
		*p = mustExpand(*p)
	}
	return cfg, nil
}

func contrast(name string, v *int) (uint8, error) {
	if v == nil {
		return 0, fmt.Errorf("%s: option is required", name)
	}
	if *v < 0 || *v > 255 {
		return 0, fmt.Errorf("%s: must be within 0..255, got %d", name, *v)
	}
	return uint8(*v), nil
}

func orDefault(v, def string) string {
	if trimmed := strings.TrimSpace(v); trimmed != "" {
		return trimmed
	}
	return def
}

// I2CBus returns the periph bus name for the configured port.
func (c Config) I2CBus() string {
	return strconv.Itoa(c.I2CPort)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
