package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sp2ong/oledsvx/internal/config"
	"github.com/sp2ong/oledsvx/internal/display"
	"github.com/sp2ong/oledsvx/internal/liveness"
	"github.com/sp2ong/oledsvx/internal/logtail"
	"github.com/sp2ong/oledsvx/internal/netinfo"
	"github.com/sp2ong/oledsvx/internal/preview"
	"github.com/sp2ong/oledsvx/internal/sensors"
	"github.com/sp2ong/oledsvx/internal/state"
	"github.com/sp2ong/oledsvx/internal/tgnames"
)

// Options configure the daemon.
type Options struct {
	ConfigPath string // empty uses /etc/oledsvx/oledsvx.toml
	Debug      bool   // forces debug logging regardless of the config
	Preview    bool   // render to the terminal instead of the I²C panel
}

// Run starts the log tailer and the render loop and blocks until the context
// is cancelled. Startup failures are returned; everything after is logged.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.Debug || opts.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	screen, err := openScreen(cfg, opts.Preview, cancel)
	if err != nil {
		return err
	}
	defer func() {
		if err := screen.Close(); err != nil {
			log.Warn().Err(err).Msg("close display")
		}
	}()

	ctrl := state.NewController(state.Options{
		Screensaver: time.Duration(cfg.ScreensaverTime) * time.Second,
	})
	names := tgnames.New(cfg.TGDBFile)

	tailer := logtail.New(cfg.LogFile, ctrl, names)
	if err := tailer.Start(ctx); err != nil {
		return fmt.Errorf("start log tailer: %w", err)
	}
	defer func() { _ = tailer.Stop() }()

	log.Info().
		Stringer("driver", cfg.Driver).
		Str("log_file", cfg.LogFile).
		Bool("preview", opts.Preview).
		Msg("oledsvx started")

	r := &renderer{
		screen:         screen,
		ctrl:           ctrl,
		names:          names,
		sensors:        sensors.New(),
		probe:          liveness.Probe{PIDFile: cfg.PIDFile, Binary: cfg.Binary},
		addrs:          netinfo.Addresses,
		now:            time.Now,
		contrastNormal: cfg.ContrastNormal,
		contrastLow:    cfg.ContrastLow,
		extSensor:      cfg.ExtTempSensor,
		interval:       renderInterval,
		hold:           shutdownHold,
	}
	r.run(ctx, tailer.Stop)
	return nil
}

func openScreen(cfg config.Config, usePreview bool, quit func()) (*display.Screen, error) {
	if usePreview {
		v, err := display.VariantFor(cfg.Driver)
		if err != nil {
			return nil, err
		}
		return display.NewScreen(preview.Start(quit), v.Geometry), nil
	}
	dev, v, err := display.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open display: %w", err)
	}
	return display.NewScreen(dev, v.Geometry), nil
}
