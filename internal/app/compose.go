package app

import (
	"fmt"
	"image"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sp2ong/oledsvx/internal/display"
	"github.com/sp2ong/oledsvx/internal/netinfo"
	"github.com/sp2ong/oledsvx/internal/state"
)

type sensorReader interface {
	CPULoad() string
	SoCTemp() string
	ExternalTemp() string
}

type livenessProbe interface {
	Alive() bool
}

type talkgroupNamer interface {
	Name(tg int) string
}

// renderer composes one frame per tick from the controller state and the
// local sensors.
type renderer struct {
	screen  *display.Screen
	ctrl    *state.Controller
	names   talkgroupNamer
	sensors sensorReader
	probe   livenessProbe
	addrs   func() []string
	now     func() time.Time

	contrastNormal uint8
	contrastLow    uint8
	extSensor      bool

	interval time.Duration
	hold     time.Duration
}

// render draws and commits a single frame, or powers the panel off when the
// screensaver is due. Device errors are logged and retried on the next tick.
func (r *renderer) render() {
	blank := r.ctrl.ShouldBlank()
	r.logTick(blank)
	if blank {
		if err := r.screen.SetPower(false); err != nil {
			log.Warn().Err(err).Msg("display power off failed")
		}
		return
	}
	if err := r.screen.SetPower(true); err != nil {
		log.Warn().Err(err).Msg("display power on failed")
	}

	c, err := r.screen.NewFrame()
	if err != nil {
		log.Error().Err(err).Msg("allocate frame")
		return
	}
	now := r.now()
	r.drawStrip(c, now)
	r.drawSensors(c)
	r.drawPanel(c, now)
	r.ctrl.ExpireContrastLock()

	if err := r.screen.Commit(c); err != nil {
		log.Warn().Err(err).Msg("display update failed")
	}
}

func (r *renderer) logTick(blank bool) {
	if e := log.Debug(); e.Enabled() {
		snap := r.ctrl.Snapshot()
		e.Int("tg", snap.Talkgroup).
			Stringer("current", snap.Current).
			Int("pending", len(snap.Calls)).
			Bool("blank", blank).
			Msg("tick")
	}
}

// drawStrip alternates the IP address and talkgroup line every five seconds.
func (r *renderer) drawStrip(c *display.Canvas, now time.Time) {
	var text string
	if now.Unix()%10 < 5 {
		text = netinfo.Label(r.addrs(), now.Second())
	} else {
		text = r.talkgroupLabel(r.ctrl.Snapshot())
	}
	c.CenterText(r.screen.Geometry().StripY, text, display.Size11)
}

func (r *renderer) talkgroupLabel(snap state.Snapshot) string {
	switch {
	case snap.Current.State == state.CallStart || snap.ShowLast:
		return fmt.Sprintf("TG: %d", snap.Talkgroup)
	case snap.Talkgroup == 0:
		return r.names.Name(0)
	}
	return fmt.Sprintf("Active TG: %d", snap.Talkgroup)
}

// drawSensors fills the top row. With an external probe there are three
// narrower columns.
func (r *renderer) drawSensors(c *display.Canvas) {
	cpu := r.sensors.CPULoad()
	soc := r.sensors.SoCTemp()
	if r.extSensor {
		c.Bitmap(image.Pt(0, 0), display.IconCPU)
		c.Text(18, 0, cpu, display.Size12)
		c.Bitmap(image.Pt(41, 0), display.IconTemp)
		c.Text(60, 0, soc+"C", display.Size12)
		c.Bitmap(image.Pt(87, 0), display.IconHome)
		c.Text(106, 0, r.sensors.ExternalTemp()+"C", display.Size12)
		return
	}
	c.Bitmap(image.Pt(16, 0), display.IconCPU)
	c.Text(38, 0, cpu, display.Size14)
	c.Bitmap(image.Pt(68, 0), display.IconTemp)
	c.Text(88, 0, soc+"°C", display.Size14)
}

// drawPanel shows the talker at normal contrast or the clock dimmed, then the
// reflector link icon. The liveness probe runs after the panel is chosen, so a
// call queued just before SvxLink died is still shown once.
func (r *renderer) drawPanel(c *display.Canvas, now time.Time) {
	v := r.ctrl.NextPanel()

	var err error
	switch v.Panel {
	case state.PanelTalker:
		r.setContrast(r.contrastNormal)
		err = r.screen.DrawPanel(c, display.Size14, v.Call.Caller, v.Call.TalkgroupName)
	default:
		if !r.ctrl.ContrastLocked() {
			r.setContrast(r.contrastLow)
		}
		err = r.screen.DrawPanel(c, display.Size20, now.Format("15:04"))
	}
	if err != nil {
		log.Error().Err(err).Stringer("panel", v.Panel).Msg("draw panel")
	}

	if !r.probe.Alive() {
		r.ctrl.ProcessGone()
	}
	if r.ctrl.Snapshot().Connected {
		c.Bitmap(r.screen.Geometry().LinkIcon, display.IconAntenna)
	}
}

func (r *renderer) setContrast(level uint8) {
	if err := r.screen.SetContrast(level); err != nil {
		log.Warn().Err(err).Msg("display contrast failed")
	}
}
