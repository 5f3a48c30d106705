package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sp2ong/oledsvx/internal/display"
)

const (
	renderInterval = 500 * time.Millisecond
	shutdownHold   = 2 * time.Second
)

// run writes the normal contrast, renders at a fixed cadence until ctx is
// cancelled, then shows the shutdown message and turns the panel off.
func (r *renderer) run(ctx context.Context, stopTail func() error) {
	r.setContrast(r.contrastNormal)

	interval := r.interval
	if interval <= 0 {
		interval = renderInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			r.shutdown(stopTail)
			return
		}
		r.render()
		select {
		case <-ctx.Done():
		case <-ticker.C:
		}
	}
}

func (r *renderer) shutdown(stopTail func() error) {
	if err := stopTail(); err != nil {
		log.Warn().Err(err).Msg("stop log tailer")
	}
	if err := r.screen.Message(display.Size20, "Shutdown"); err != nil {
		log.Warn().Err(err).Msg("show shutdown message")
	}
	time.Sleep(r.hold)
	if err := r.screen.SetPower(false); err != nil {
		log.Warn().Err(err).Msg("display power off failed")
	}
}
