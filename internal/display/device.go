package display

import (
	"errors"
	"fmt"
	"image"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/sp2ong/oledsvx/internal/config"
)

// Device is a monochrome panel the render loop can commit frames to.
type Device interface {
	Draw(frame *image1bit.VerticalLSB) error
	SetContrast(level uint8) error
	SetPower(on bool) error
	Close() error
}

// Geometry describes the panel layout shared by all supported chips.
type Geometry struct {
	Width, Height int
	// Panel is the framed area holding the talker or clock.
	Panel image.Rectangle
	// StripY is the top of the IP / talkgroup strip.
	StripY int
	// LinkIcon is where the reflector link icon is drawn.
	LinkIcon image.Point
}

// Variant is a supported controller chip with its geometry.
type Variant struct {
	Driver   config.Driver
	Geometry Geometry
}

var oled128x64 = Geometry{
	Width:    128,
	Height:   64,
	Panel:    image.Rect(0, 30, 128, 64),
	StripY:   16,
	LinkIcon: image.Pt(107, 43),
}

// VariantFor maps a configured driver to its variant.
func VariantFor(d config.Driver) (Variant, error) {
	switch d {
	case config.DriverSH1106, config.DriverSSD1306, config.DriverSSD1309:
		return Variant{Driver: d, Geometry: oled128x64}, nil
	}
	return Variant{}, fmt.Errorf("%w: %v", config.ErrUnsupportedDriver, d)
}

// Open initializes the host, opens the I²C bus and the configured chip.
func Open(cfg config.Config) (Device, Variant, error) {
	v, err := VariantFor(cfg.Driver)
	if err != nil {
		return nil, Variant{}, err
	}
	if _, err := host.Init(); err != nil {
		return nil, Variant{}, fmt.Errorf("init host: %w", err)
	}
	bus, err := i2creg.Open(cfg.I2CBus())
	if err != nil {
		return nil, Variant{}, fmt.Errorf("open i2c bus %s: %w", cfg.I2CBus(), err)
	}
	raw := &i2c.Dev{Bus: bus, Addr: cfg.I2CAddress}

	var dev Device
	switch v.Driver {
	case config.DriverSH1106:
		dev, err = newSH1106(bus, raw, v.Geometry)
	default:
		// The SSD1309 accepts the SSD1306 command set.
		dev, err = newSSD1306(bus, raw, cfg.I2CAddress, v.Geometry)
	}
	if err != nil {
		bus.Close()
		return nil, Variant{}, fmt.Errorf("init %v: %w", v.Driver, err)
	}
	return dev, v, nil
}

const (
	cmdDisplayOff = 0xAE
	cmdDisplayOn  = 0xAF
	cmdContrast   = 0x81
)

// command sends a command sequence using the shared SSD1306/SH1106 control
// byte.
func command(d *i2c.Dev, cmds ...byte) error {
	return d.Tx(append([]byte{0x00}, cmds...), nil)
}

// fixedAddrBus routes every transaction to addr. The periph driver always
// talks to 0x3C, while modules strapped to 0x3D are common.
type fixedAddrBus struct {
	i2c.Bus
	addr uint16
}

func (b fixedAddrBus) Tx(_ uint16, w, r []byte) error {
	return b.Bus.Tx(b.addr, w, r)
}

type ssd1306Device struct {
	bus i2c.BusCloser
	raw *i2c.Dev
	dev *ssd1306.Dev
}

func newSSD1306(bus i2c.BusCloser, raw *i2c.Dev, addr uint16, g Geometry) (*ssd1306Device, error) {
	opts := ssd1306.DefaultOpts
	opts.W = g.Width
	opts.H = g.Height
	dev, err := ssd1306.NewI2C(fixedAddrBus{Bus: bus, addr: addr}, &opts)
	if err != nil {
		return nil, err
	}
	return &ssd1306Device{bus: bus, raw: raw, dev: dev}, nil
}

func (d *ssd1306Device) Draw(frame *image1bit.VerticalLSB) error {
	return d.dev.Draw(d.dev.Bounds(), frame, image.Point{})
}

func (d *ssd1306Device) SetContrast(level uint8) error {
	return d.dev.SetContrast(level)
}

func (d *ssd1306Device) SetPower(on bool) error {
	if on {
		return command(d.raw, cmdDisplayOn)
	}
	return command(d.raw, cmdDisplayOff)
}

func (d *ssd1306Device) Close() error {
	return d.bus.Close()
}

// sh1106Device drives the SH1106 in page addressing mode. Its RAM is 132
// columns wide with the visible 128 starting at column 2, which the SSD1306
// horizontal addressing mode cannot express.
type sh1106Device struct {
	bus i2c.BusCloser
	raw *i2c.Dev
	g   Geometry
}

const sh1106ColumnOffset = 2

func newSH1106(bus i2c.BusCloser, raw *i2c.Dev, g Geometry) (*sh1106Device, error) {
	d := &sh1106Device{bus: bus, raw: raw, g: g}
	seq := []byte{
		cmdDisplayOff,
		0xD5, 0x80, // clock divide
		0xA8, byte(g.Height - 1), // multiplex
		0xD3, 0x00, // display offset
		0x40,       // start line 0
		0xAD, 0x8B, // charge pump on
		0xA1,       // segment remap
		0xC8,       // COM scan descending
		0xDA, 0x12, // COM pins
		cmdContrast, 0x80,
		0xD9, 0x22, // pre-charge
		0xDB, 0x40, // VCOM detect
		0xA4, // resume from RAM
		0xA6, // normal, not inverted
		cmdDisplayOn,
	}
	if err := command(raw, seq...); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *sh1106Device) Draw(frame *image1bit.VerticalLSB) error {
	if frame.Rect.Dx() != d.g.Width || frame.Rect.Dy() != d.g.Height {
		return errors.New("sh1106: frame size does not match panel")
	}
	for page := 0; page < d.g.Height/8; page++ {
		if err := command(d.raw, 0xB0|byte(page), sh1106ColumnOffset&0x0F, 0x10|sh1106ColumnOffset>>4); err != nil {
			return err
		}
		row := frame.Pix[page*frame.Stride : page*frame.Stride+d.g.Width]
		if err := d.raw.Tx(append([]byte{0x40}, row...), nil); err != nil {
			return err
		}
	}
	return nil
}

func (d *sh1106Device) SetContrast(level uint8) error {
	return command(d.raw, cmdContrast, level)
}

func (d *sh1106Device) SetPower(on bool) error {
	if on {
		return command(d.raw, cmdDisplayOn)
	}
	return command(d.raw, cmdDisplayOff)
}

func (d *sh1106Device) Close() error {
	return d.bus.Close()
}
