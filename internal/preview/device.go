// Package preview shows the OLED frames in a terminal instead of on I²C
// hardware. It is a developer aid for working on layouts away from the
// repeater.
package preview

import (
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/sp2ong/oledsvx/internal/display"
)

var _ display.Device = (*Device)(nil)

// Device is a display.Device backed by a Bubble Tea program.
type Device struct {
	p    *tea.Program
	done chan struct{}

	mu     sync.Mutex
	runErr error
}

// Start launches the terminal program. onQuit runs when the user quits,
// which lets the caller cancel the daemon.
func Start(onQuit func()) *Device {
	d := &Device{
		p:    tea.NewProgram(newModel(onQuit), tea.WithAltScreen()),
		done: make(chan struct{}),
	}
	go func() {
		defer close(d.done)
		_, err := d.p.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			err = nil
		}
		d.mu.Lock()
		d.runErr = err
		d.mu.Unlock()
	}()
	return d
}

// Draw sends a copy of frame to the terminal.
func (d *Device) Draw(frame *image1bit.VerticalLSB) error {
	cp := image1bit.NewVerticalLSB(frame.Rect)
	copy(cp.Pix, frame.Pix)
	d.p.Send(frameMsg{frame: cp})
	return nil
}

func (d *Device) SetContrast(level uint8) error {
	d.p.Send(contrastMsg(level))
	return nil
}

func (d *Device) SetPower(on bool) error {
	d.p.Send(powerMsg(on))
	return nil
}

// Close stops the program and restores the terminal.
func (d *Device) Close() error {
	d.p.Quit()
	<-d.done
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.runErr
}
