package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/tictactoe-hotseat/internal/telemetry"
	"github.com/rocketscienceinc/tictactoe-hotseat/internal/tui"
)

func newPlayCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlay(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "Write logs to this file; the screen has no room for them")

	return cmd
}

func runPlay(ctx context.Context, opts *options) error {
	conf, err := initConfig(opts.configPath)
	if err != nil {
		return err
	}

	var logOutput io.Writer = io.Discard
	if opts.logFile != "" {
		file, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer file.Close()

		logOutput = file
	}

	logger := initLogger(conf, logOutput)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, conf.Telemetry)
	if err != nil {
		return fmt.Errorf("could not set up telemetry: %w", err)
	}

	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Error("could not shut down telemetry", "error", err)
		}
	}()

	screen, err := tui.NewScreen()
	if err != nil {
		return err
	}

	return tui.New(logger, telemetry.Tracer("tui"), screen).Run(ctx)
}
