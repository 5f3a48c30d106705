package display

import "fmt"

// Screen draws frames on a Device and caches its contrast and power state so
// unchanged settings are not rewritten every tick.
type Screen struct {
	dev Device
	g   Geometry

	contrast    uint8
	contrastSet bool
	power       bool
	powerSet    bool
}

// NewScreen wraps dev using geometry g.
func NewScreen(dev Device, g Geometry) *Screen {
	return &Screen{dev: dev, g: g}
}

// Geometry returns the panel layout.
func (s *Screen) Geometry() Geometry { return s.g }

// NewFrame returns a blank canvas sized for the panel.
func (s *Screen) NewFrame() (*Canvas, error) {
	return NewCanvas(s.g.Width, s.g.Height)
}

// Commit writes a frame to the device.
func (s *Screen) Commit(c *Canvas) error {
	if err := s.dev.Draw(c.Image()); err != nil {
		return fmt.Errorf("draw frame: %w", err)
	}
	return nil
}

// SetContrast writes level only when it differs from the last written value.
func (s *Screen) SetContrast(level uint8) error {
	if s.contrastSet && s.contrast == level {
		return nil
	}
	if err := s.dev.SetContrast(level); err != nil {
		return fmt.Errorf("set contrast %d: %w", level, err)
	}
	s.contrast, s.contrastSet = level, true
	return nil
}

// SetPower switches the panel on or off when the state changes.
func (s *Screen) SetPower(on bool) error {
	if s.powerSet && s.power == on {
		return nil
	}
	if err := s.dev.SetPower(on); err != nil {
		return fmt.Errorf("set power %t: %w", on, err)
	}
	s.power, s.powerSet = on, true
	return nil
}

// DrawPanel frames the main panel on c and centers one or two lines of text
// in it.
func (s *Screen) DrawPanel(c *Canvas, size int, lines ...string) error {
	if len(lines) == 0 || len(lines) > 2 {
		return fmt.Errorf("panel takes one or two lines, got %d", len(lines))
	}
	c.Outline(s.g.Panel)
	top := s.g.Panel.Min.Y
	if len(lines) == 1 {
		c.CenterText(top+4, lines[0], size)
		return nil
	}
	c.CenterText(top+2, lines[0], size)
	c.CenterText(top+17, lines[1], size)
	return nil
}

// Message replaces the whole frame with a panel message and shows it.
func (s *Screen) Message(size int, lines ...string) error {
	c, err := s.NewFrame()
	if err != nil {
		return err
	}
	if err := s.DrawPanel(c, size, lines...); err != nil {
		return err
	}
	if err := s.SetPower(true); err != nil {
		return err
	}
	return s.Commit(c)
}

// Close releases the device.
func (s *Screen) Close() error {
	return s.dev.Close()
}
