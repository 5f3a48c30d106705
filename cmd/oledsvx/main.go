package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sp2ong/oledsvx/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	var opts app.Options

	cmd := &cobra.Command{
		Use:           "oledsvx",
		Short:         "Show SvxLink reflector activity on an I²C OLED panel",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			closeLog, err := setupLogging(opts)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return app.Run(ctx, opts)
		},
	}
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "config file path (default /etc/oledsvx/oledsvx.toml)")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "show debugging information")
	cmd.Flags().BoolVar(&opts.Preview, "preview", false, "render frames in the terminal instead of the OLED panel")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "oledsvx: %v\n", err)
		return 1
	}
	return 0
}

// setupLogging configures the global logger. The preview owns the terminal,
// so its logs go to a file instead of stderr.
func setupLogging(opts app.Options) (func(), error) {
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if opts.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}
	if opts.Preview {
		path := filepath.Join(os.TempDir(), "oledsvx-preview.log")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open preview log: %w", err)
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.DateTime,
		NoColor:    opts.Preview,
	}).With().Timestamp().Logger()
	return closeFn, nil
}
